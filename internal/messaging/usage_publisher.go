package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lore-server/internal/analysis"
	"lore-server/internal/models"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var _ analysis.UsagePublisher = (*rabbitUsagePublisher)(nil)
var _ analysis.UsagePublisher = NoopUsagePublisher{}

// rabbitUsagePublisher sends one persistent JSON message per charged analysis.
type rabbitUsagePublisher struct {
	conn      *amqp091.Connection
	logger    *zap.Logger
	queueName string
}

func NewRabbitUsagePublisher(conn *amqp091.Connection, queueName string, logger *zap.Logger) (analysis.UsagePublisher, error) {
	if conn == nil {
		return nil, fmt.Errorf("RabbitMQ connection is nil")
	}
	p := &rabbitUsagePublisher{
		conn:      conn,
		logger:    logger.Named("UsagePublisher").With(zap.String("queue", queueName)),
		queueName: queueName,
	}
	if err := p.declareQueue(); err != nil {
		return nil, fmt.Errorf("failed to verify queue %s on init: %w", queueName, err)
	}
	p.logger.Info("Usage publisher initialized")
	return p, nil
}

func (p *rabbitUsagePublisher) declareQueue() error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue '%s': %w", p.queueName, err)
	}
	return nil
}

func (p *rabbitUsagePublisher) PublishAnalysisUsage(ctx context.Context, event models.AnalysisUsageEvent) error {
	log := p.logger.With(zap.String("event_id", event.EventID), zap.Int("total_tokens", event.TotalTokens))

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal usage event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		log.Error("Failed to open channel for publishing", zap.Error(err))
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	err = ch.PublishWithContext(ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,
		false,
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			MessageId:    event.EventID,
			Timestamp:    time.Now(),
			Body:         body,
		},
	)
	if err != nil {
		log.Error("Failed to publish usage event", zap.Error(err))
		return fmt.Errorf("failed to publish usage event: %w", err)
	}
	log.Debug("Usage event published")
	return nil
}

// NoopUsagePublisher drops events. Used when no broker is configured.
type NoopUsagePublisher struct{}

func (NoopUsagePublisher) PublishAnalysisUsage(context.Context, models.AnalysisUsageEvent) error {
	return nil
}
