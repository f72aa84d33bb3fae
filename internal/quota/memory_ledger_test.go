package quota

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayOf(t *testing.T) {
	ts := time.Date(2026, 3, 1, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, Day("2026-03-01"), DayOf(ts, nil))

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	assert.Equal(t, Day("2026-03-02"), DayOf(ts, tokyo))
	assert.Equal(t, "lore:ai:tokens:2026-03-01", Key(DayOf(ts, nil)))
}

func TestMemoryLedger_UsedStartsAtZero(t *testing.T) {
	l := NewMemoryLedger(nil)
	used, err := l.Used(context.Background(), "2026-01-01")
	require.NoError(t, err)
	assert.Zero(t, used)
}

func TestMemoryLedger_AddAccumulatesPerDay(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(nil)
	require.NoError(t, l.Add(ctx, "2026-01-01", 120))
	require.NoError(t, l.Add(ctx, "2026-01-01", 30))
	require.NoError(t, l.Add(ctx, "2026-01-02", 5))

	used, _ := l.Used(ctx, "2026-01-01")
	assert.EqualValues(t, 150, used)
	used, _ = l.Used(ctx, "2026-01-02")
	assert.EqualValues(t, 5, used)

	assert.ErrorIs(t, l.Add(ctx, "2026-01-01", -1), ErrNegativeDelta)
}

func TestMemoryLedger_ConcurrentAddsAreNotLost(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				_ = l.Add(ctx, "2026-01-01", 3)
			}
		}()
	}
	wg.Wait()

	used, _ := l.Used(ctx, "2026-01-01")
	assert.EqualValues(t, 50*20*3, used)
}

func TestMemoryLedger_Prune(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLedger(time.UTC)
	require.NoError(t, l.Add(ctx, "2026-01-01", 1))
	require.NoError(t, l.Add(ctx, "2026-01-02", 1))

	removed := l.Prune(time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC))
	assert.Equal(t, 1, removed)

	used, _ := l.Used(ctx, "2026-01-02")
	assert.EqualValues(t, 1, used)
}
