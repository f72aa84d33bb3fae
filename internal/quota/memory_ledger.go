package quota

import (
	"context"
	"sync"
	"time"
)

var _ Ledger = (*MemoryLedger)(nil)

// MemoryLedger is a single-process ledger. Counters are lost on restart.
type MemoryLedger struct {
	mu     sync.Mutex
	counts map[Day]int64
	loc    *time.Location
}

// NewMemoryLedger returns an empty ledger whose Prune uses loc to find today.
func NewMemoryLedger(loc *time.Location) *MemoryLedger {
	if loc == nil {
		loc = time.UTC
	}
	return &MemoryLedger{counts: make(map[Day]int64), loc: loc}
}

func (l *MemoryLedger) Used(_ context.Context, day Day) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.counts[day], nil
}

func (l *MemoryLedger) Add(_ context.Context, day Day, delta int64) error {
	if delta < 0 {
		return ErrNegativeDelta
	}
	l.mu.Lock()
	l.counts[day] += delta
	l.mu.Unlock()
	return nil
}

// Prune drops counters for days before now and returns how many were removed.
func (l *MemoryLedger) Prune(now time.Time) int {
	today := DayOf(now, l.loc)
	l.mu.Lock()
	defer l.mu.Unlock()
	removed := 0
	for day := range l.counts {
		// Day strings sort chronologically.
		if day < today {
			delete(l.counts, day)
			removed++
		}
	}
	return removed
}
