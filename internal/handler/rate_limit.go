package handler

import (
	"net/http"
	"strconv"
	"time"

	"lore-server/internal/middleware"
	"lore-server/internal/models"
	"lore-server/internal/ratelimit"

	rateli "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewAnalyzeRateLimiter limits analyze calls per authenticated user. It must
// run after RequireAuth; anonymous requests are not counted.
func NewAnalyzeRateLimiter(store rateli.Store, logger *zap.Logger) gin.HandlerFunc {
	log := logger.Named("AnalyzeRateLimit")
	return rateli.RateLimiter(store, &rateli.Options{
		ErrorHandler: func(c *gin.Context, info rateli.Info) {
			userID, _ := middleware.UserID(c)
			log.Warn("Rate limit exceeded",
				zap.Uint64("user_id", userID),
				zap.Time("reset_time", info.ResetTime),
				zap.String("path", c.Request.URL.Path),
			)
			rateLimitedTotal.Inc()
			analyzeRequestsTotal.WithLabelValues(strconv.Itoa(http.StatusTooManyRequests)).Inc()
			c.Header("Retry-After", strconv.Itoa(ratelimit.RetryAfterSeconds(info.ResetTime, time.Now())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, models.ErrorResponse{
				Code:    models.ErrCodeRateLimited,
				Message: "Too many AI requests. Please slow down.",
			})
		},
		KeyFunc: func(c *gin.Context) string {
			if userID, ok := middleware.UserID(c); ok {
				return "user:" + strconv.FormatUint(userID, 10)
			}
			return ""
		},
	})
}
