package models

import "time"

// AnalysisUsageEvent is published after a live analysis that reported token usage.
type AnalysisUsageEvent struct {
	EventID          string    `json:"event_id"`
	Model            string    `json:"model"`
	Day              string    `json:"day"`
	PromptTokens     *int      `json:"prompt_tokens"`
	CompletionTokens *int      `json:"completion_tokens"`
	TotalTokens      int       `json:"total_tokens"`
	OccurredAt       time.Time `json:"occurred_at"`
}
