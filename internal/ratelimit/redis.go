package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ Limiter = (*RedisLimiter)(nil)

// slidingLogScript trims the window, then records the request only if the
// log still has room. Scores are unix milliseconds.
var slidingLogScript = redis.NewScript(`
local key = KEYS[1]
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local limit = tonumber(ARGV[3])
redis.call('ZREMRANGEBYSCORE', key, '-inf', now - window)
local count = redis.call('ZCARD', key)
local oldest = now
local first = redis.call('ZRANGE', key, 0, 0, 'WITHSCORES')
if first[2] then
  oldest = tonumber(first[2])
end
if count >= limit then
  return {0, count, oldest}
end
redis.call('ZADD', key, now, ARGV[4])
redis.call('PEXPIRE', key, window)
return {1, count + 1, oldest}
`)

// RedisLimiter shares request logs between replicas through Redis sorted sets.
type RedisLimiter struct {
	client redis.Scripter
	rate   Rate
	prefix string
	logger *zap.Logger
	now    func() time.Time
}

func NewRedisLimiter(client redis.Scripter, rate Rate, prefix string, logger *zap.Logger) *RedisLimiter {
	return &RedisLimiter{
		client: client,
		rate:   rate,
		prefix: prefix,
		logger: logger.Named("RedisLimiter"),
		now:    time.Now,
	}
}

func (l *RedisLimiter) Allow(ctx context.Context, identity string) (Decision, error) {
	now := l.now()
	nowMs := now.UnixMilli()
	member := fmt.Sprintf("%d-%s", nowMs, uuid.NewString())

	res, err := slidingLogScript.Run(ctx, l.client,
		[]string{l.prefix + identity},
		nowMs, l.rate.Period.Milliseconds(), l.rate.Limit, member,
	).Int64Slice()
	if err != nil {
		l.logger.Error("Rate limit script failed", zap.String("identity", identity), zap.Error(err))
		return Decision{}, fmt.Errorf("ratelimit: redis: %w", err)
	}
	if len(res) != 3 {
		return Decision{}, fmt.Errorf("ratelimit: unexpected script reply %v", res)
	}

	d := Decision{
		Allowed: res[0] == 1,
		Limit:   l.rate.Limit,
		ResetAt: time.UnixMilli(res[2]).Add(l.rate.Period),
	}
	if d.Allowed {
		d.Remaining = l.rate.Limit - int(res[1])
	}
	return d, nil
}
