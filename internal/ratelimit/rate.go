// Package ratelimit throttles expensive per-user operations with a sliding
// log of recent request times.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidRate is returned by ParseRate for malformed rate strings.
var ErrInvalidRate = errors.New("ratelimit: invalid rate")

// Rate allows Limit requests per Period.
type Rate struct {
	Limit  int
	Period time.Duration
}

func (r Rate) String() string {
	return fmt.Sprintf("%d/%s", r.Limit, r.Period)
}

// ParseRate parses strings such as "10/min", "2/m", "100/hour" or "5/s".
// Only the first letter of the period is significant: s, m, h or d.
func ParseRate(s string) (Rate, error) {
	num, period, ok := strings.Cut(strings.TrimSpace(s), "/")
	if !ok {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	limit, err := strconv.Atoi(strings.TrimSpace(num))
	if err != nil || limit <= 0 {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	period = strings.ToLower(strings.TrimSpace(period))
	if period == "" {
		return Rate{}, fmt.Errorf("%w: %q", ErrInvalidRate, s)
	}
	var d time.Duration
	switch period[0] {
	case 's':
		d = time.Second
	case 'm':
		d = time.Minute
	case 'h':
		d = time.Hour
	case 'd':
		d = 24 * time.Hour
	default:
		return Rate{}, fmt.Errorf("%w: unknown period in %q", ErrInvalidRate, s)
	}
	return Rate{Limit: limit, Period: d}, nil
}

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	// ResetAt is when the oldest counted request leaves the window.
	ResetAt time.Time
}

// Limiter decides whether identity may perform one more request now.
// An allowed request is recorded; a denied one is not.
type Limiter interface {
	Allow(ctx context.Context, identity string) (Decision, error)
}
