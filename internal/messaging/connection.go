package messaging

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// Connect dials RabbitMQ, retrying while the broker starts.
func Connect(ctx context.Context, amqpURL string, attempts int, retryDelay time.Duration, logger *zap.Logger) (*amqp091.Connection, error) {
	if attempts < 1 {
		attempts = 1
	}
	logger.Info("Attempting to connect to RabbitMQ",
		zap.String("url", maskURL(amqpURL)),
		zap.Int("max_retries", attempts),
		zap.Duration("retry_delay", retryDelay),
	)
	var lastErr error
	for i := 1; i <= attempts; i++ {
		conn, err := amqp091.Dial(amqpURL)
		if err == nil {
			logger.Info("Connected to RabbitMQ", zap.Int("attempt", i))
			return conn, nil
		}
		lastErr = err
		logger.Warn("RabbitMQ connection failed, retrying...", zap.Int("attempt", i), zap.Error(err))
		if i == attempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", attempts, lastErr)
}

// maskURL hides the password in a broker URL.
func maskURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid-url"
	}
	if _, ok := u.User.Password(); ok {
		u.User = url.UserPassword(u.User.Username(), "xxxxx")
	}
	return u.String()
}
