package analysis

import "errors"

var (
	// ErrEmptyInput: the text is empty after trimming.
	ErrEmptyInput = errors.New("nothing to analyze")
	// ErrDailyBudgetExceeded: today's token usage has reached the budget.
	ErrDailyBudgetExceeded = errors.New("AI daily token budget exceeded, try again tomorrow")
	// ErrUpstreamFailure: the model call failed or returned unusable output.
	ErrUpstreamFailure = errors.New("AI analysis failed")
	// ErrMisconfiguredClient: the live path was chosen but no client exists.
	ErrMisconfiguredClient = errors.New("AI client is not initialized")
	// ErrQuotaUnavailable: the budget could not be checked.
	ErrQuotaUnavailable = errors.New("AI usage ledger unavailable")
)
