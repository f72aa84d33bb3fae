package models

import "errors"

// Application-wide errors. Handlers translate them to HTTP responses.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("resource already exists")

	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	ErrBadRequest   = errors.New("bad request")
	ErrInvalidInput = errors.New("invalid input data")

	ErrRateLimited = errors.New("rate limit exceeded")
)

// Error codes returned in ErrorResponse.Code.
const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeTokenExpired     = "token_expired"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeNothingToAnalyze = "nothing_to_analyze"
	ErrCodeBudgetExceeded   = "ai_budget_exceeded"
	ErrCodeAIUnavailable    = "ai_unavailable"
	ErrCodeInternal         = "internal_error"
)
