package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"lore-server/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UserIDKey is the gin context key holding the authenticated caller's id (uint64).
const UserIDKey = "user_id"

// TokenVerifier is satisfied by authutils.JWTVerifier.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, tokenString string) (*models.Claims, error)
}

// RequireAuth rejects requests without a valid bearer token with 401.
func RequireAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := authenticate(c, verifier)
		if err != nil {
			log.Debug("Authentication failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
			abortUnauthorized(c, err)
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// OptionalAuth attaches the caller when a valid token is present and lets
// anonymous requests through. A present but invalid token is still rejected.
func OptionalAuth(verifier TokenVerifier, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		claims, err := authenticate(c, verifier)
		if err != nil {
			log.Debug("Optional authentication failed", zap.Error(err))
			abortUnauthorized(c, err)
			return
		}
		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// UserID returns the authenticated caller, if any.
func UserID(c *gin.Context) (uint64, bool) {
	v, ok := c.Get(UserIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint64)
	return id, ok
}

func authenticate(c *gin.Context, verifier TokenVerifier) (*models.Claims, error) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, models.ErrUnauthorized
	}
	parts := strings.Fields(authHeader)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return nil, models.ErrTokenInvalid
	}
	return verifier.VerifyToken(c.Request.Context(), parts[1])
}

func abortUnauthorized(c *gin.Context, err error) {
	resp := models.ErrorResponse{Code: models.ErrCodeUnauthorized, Message: "Authentication credentials were not provided or are invalid"}
	if errors.Is(err, models.ErrTokenExpired) {
		resp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
	}
	c.Header("WWW-Authenticate", "Bearer")
	c.AbortWithStatusJSON(http.StatusUnauthorized, resp)
}
