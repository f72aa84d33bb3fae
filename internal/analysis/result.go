package analysis

// Mode tells whether a Result came from the model or from the placeholder.
type Mode string

const (
	ModeLive Mode = "live"
	ModeMock Mode = "mock"
)

// Result is a structured literary analysis.
type Result struct {
	Summary     string
	Themes      []string
	Tone        string
	Strengths   []string
	Weaknesses  []string
	Suggestions []string
	// Snippet is the leading input text, set only in mock mode.
	Snippet string
	Meta    Meta
}

// Meta describes how a Result was produced. Nil token counts were not
// reported by the model.
type Meta struct {
	Mode         Mode
	Model        *string
	InputTokens  *int
	OutputTokens *int
	TotalTokens  *int
}
