package service

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	slugDisallowed = regexp.MustCompile(`[^\w\s-]`)
	slugSeparators = regexp.MustCompile(`[-\s]+`)
)

// Slugify turns a title into a URL-safe ASCII slug. Accented letters lose
// their marks; other non-ASCII characters are dropped. The result may be empty.
func Slugify(title string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))
	ascii, _, err := transform.String(t, title)
	if err != nil {
		return ""
	}
	s := slugDisallowed.ReplaceAllString(strings.ToLower(ascii), "")
	s = slugSeparators.ReplaceAllString(s, "-")
	return strings.Trim(s, "-_")
}
