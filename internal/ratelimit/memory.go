package ratelimit

import (
	"context"
	"sync"
	"time"
)

var _ Limiter = (*MemoryLimiter)(nil)

// MemoryLimiter keeps request logs in process memory.
type MemoryLimiter struct {
	rate Rate
	now  func() time.Time

	mu   sync.Mutex
	logs map[string][]time.Time
}

// MemoryOption configures a MemoryLimiter.
type MemoryOption func(*MemoryLimiter)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) MemoryOption {
	return func(l *MemoryLimiter) { l.now = now }
}

func NewMemoryLimiter(rate Rate, opts ...MemoryOption) *MemoryLimiter {
	l := &MemoryLimiter{
		rate: rate,
		now:  time.Now,
		logs: make(map[string][]time.Time),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *MemoryLimiter) Allow(_ context.Context, identity string) (Decision, error) {
	now := l.now()
	cutoff := now.Add(-l.rate.Period)

	l.mu.Lock()
	defer l.mu.Unlock()

	// Entries are appended in time order, so expired ones form a prefix.
	history := l.logs[identity]
	i := 0
	for i < len(history) && !history[i].After(cutoff) {
		i++
	}
	history = history[i:]

	if len(history) >= l.rate.Limit {
		l.logs[identity] = history
		return Decision{
			Allowed: false,
			Limit:   l.rate.Limit,
			ResetAt: history[0].Add(l.rate.Period),
		}, nil
	}

	history = append(history, now)
	l.logs[identity] = history
	return Decision{
		Allowed:   true,
		Limit:     l.rate.Limit,
		Remaining: l.rate.Limit - len(history),
		ResetAt:   history[0].Add(l.rate.Period),
	}, nil
}

// Sweep forgets identities whose logs have fully expired.
func (l *MemoryLimiter) Sweep() int {
	cutoff := l.now().Add(-l.rate.Period)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for id, history := range l.logs {
		if len(history) == 0 || !history[len(history)-1].After(cutoff) {
			delete(l.logs, id)
			removed++
		}
	}
	return removed
}
