package analysis

const snippetLength = 200

// placeholder is returned when live analysis is disabled or uncredentialed.
func placeholder(text string) *Result {
	zero := func() *int { v := 0; return &v }
	return &Result{
		Summary:     "AI analysis is not available. This is a placeholder summary.",
		Themes:      []string{"mock-theme"},
		Tone:        "neutral",
		Strengths:   []string{"Mock analysis is enabled so development can continue without real AI calls."},
		Weaknesses:  []string{"This feedback is not based on the actual content."},
		Suggestions: []string{"Set AI_API_KEY and AI_ENABLED=true to enable real analysis."},
		Snippet:     snippet(text),
		Meta: Meta{
			Mode:         ModeMock,
			InputTokens:  zero(),
			OutputTokens: zero(),
			TotalTokens:  zero(),
		},
	}
}

func snippet(text string) string {
	r := []rune(text)
	if len(r) <= snippetLength {
		return text
	}
	return string(r[:snippetLength]) + "..."
}
