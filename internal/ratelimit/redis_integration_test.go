package ratelimit

import (
	"context"
	"testing"
	"time"

	"lore-server/internal/testutil"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestRedisLimiter(t *testing.T) {
	testutil.RequireDocker(t)

	ctx := context.Background()
	addr, terminate, err := testutil.StartRedis(ctx)
	require.NoError(t, err)
	t.Cleanup(terminate)

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := NewRedisLimiter(client, Rate{Limit: 2, Period: time.Minute}, "test:rl:", zap.NewNop())
	l.now = func() time.Time { return now }

	d, err := l.Allow(ctx, "42")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 1, d.Remaining)

	now = now.Add(time.Second)
	d, err = l.Allow(ctx, "42")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	now = now.Add(time.Second)
	d, err = l.Allow(ctx, "42")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, time.Date(2026, 1, 1, 12, 1, 0, 0, time.UTC), d.ResetAt.UTC())

	d, err = l.Allow(ctx, "43")
	require.NoError(t, err)
	assert.True(t, d.Allowed)

	now = now.Add(time.Minute)
	d, err = l.Allow(ctx, "42")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}
