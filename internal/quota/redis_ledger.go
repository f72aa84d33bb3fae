package quota

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Ledger = (*RedisLedger)(nil)

// RedisLedger stores day counters in Redis so every replica shares one budget.
type RedisLedger struct {
	client redis.Cmdable
	logger *zap.Logger
}

func NewRedisLedger(client redis.Cmdable, logger *zap.Logger) *RedisLedger {
	return &RedisLedger{
		client: client,
		logger: logger.Named("RedisLedger"),
	}
}

// Used returns 0 for a day that has no counter yet.
func (l *RedisLedger) Used(ctx context.Context, day Day) (int64, error) {
	n, err := l.client.Get(ctx, Key(day)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		l.logger.Error("Failed to read token usage", zap.String("day", string(day)), zap.Error(err))
		return 0, fmt.Errorf("quota: read %s: %w", day, err)
	}
	return n, nil
}

// Add increments the day counter and refreshes its TTL in one MULTI/EXEC.
func (l *RedisLedger) Add(ctx context.Context, day Day, delta int64) error {
	if delta < 0 {
		return ErrNegativeDelta
	}
	key := Key(day)
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.IncrBy(ctx, key, delta)
		pipe.Expire(ctx, key, TTL)
		return nil
	})
	if err != nil {
		l.logger.Error("Failed to add token usage", zap.String("day", string(day)), zap.Int64("delta", delta), zap.Error(err))
		return fmt.Errorf("quota: add %s: %w", day, err)
	}
	l.logger.Debug("Token usage recorded", zap.String("day", string(day)), zap.Int64("delta", delta))
	return nil
}
