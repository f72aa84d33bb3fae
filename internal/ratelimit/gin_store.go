package ratelimit

import (
	"time"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var _ rateli.Store = (*GinStore)(nil)

// GinStore exposes a Limiter as a gin-rate-limit store. Backend errors fail
// open: the request proceeds and the error is logged.
type GinStore struct {
	limiter Limiter
	logger  *zap.Logger
}

func NewGinStore(limiter Limiter, logger *zap.Logger) *GinStore {
	return &GinStore{limiter: limiter, logger: logger.Named("RateLimitStore")}
}

// Limit implements rateli.Store. An empty key is never limited.
func (s *GinStore) Limit(key string, c *gin.Context) rateli.Info {
	if key == "" {
		return rateli.Info{}
	}
	d, err := s.limiter.Allow(c.Request.Context(), key)
	if err != nil {
		s.logger.Warn("Rate limiter unavailable, allowing request", zap.String("key", key), zap.Error(err))
		return rateli.Info{}
	}
	info := rateli.Info{
		Limit:       uint(d.Limit),
		RateLimited: !d.Allowed,
		ResetTime:   d.ResetAt,
	}
	if d.Remaining > 0 {
		info.RemainingHits = uint(d.Remaining)
	}
	return info
}

// RetryAfterSeconds rounds the wait until reset up to whole seconds, minimum 1.
func RetryAfterSeconds(reset time.Time, now time.Time) int {
	wait := reset.Sub(now)
	secs := int((wait + time.Second - 1) / time.Second)
	if secs < 1 {
		return 1
	}
	return secs
}
