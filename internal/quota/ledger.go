// Package quota keeps the process-wide daily count of tokens spent on AI analysis.
package quota

import (
	"context"
	"errors"
	"time"
)

// Day identifies a budget period, formatted YYYY-MM-DD.
type Day string

const dayLayout = "2006-01-02"

// DayOf returns the calendar day of t in loc. A nil loc means UTC.
func DayOf(t time.Time, loc *time.Location) Day {
	if loc == nil {
		loc = time.UTC
	}
	return Day(t.In(loc).Format(dayLayout))
}

// Ledger counts tokens per day. Add must be atomic with respect to concurrent
// adds for the same day.
type Ledger interface {
	Used(ctx context.Context, day Day) (int64, error)
	Add(ctx context.Context, day Day, delta int64) error
}

// ErrNegativeDelta is returned when Add is asked to decrease the counter.
var ErrNegativeDelta = errors.New("quota: delta must not be negative")

// KeyPrefix namespaces ledger keys in shared stores.
const KeyPrefix = "lore:ai:tokens:"

// Key returns the storage key for day.
func Key(day Day) string {
	return KeyPrefix + string(day)
}

// TTL bounds how long a day's counter outlives its last write.
const TTL = 24 * time.Hour
