package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/core/domain"
	"github.com/bloomgram/auth-backend/internal/core/port"
)

// Producer publishes domain events to Kafka via an async sarama producer.
type Producer struct {
	producer    sarama.AsyncProducer
	topicPrefix string
	logger      *zap.Logger
}

var _ port.EventPublisher = (*Producer)(nil)

// NewProducer connects an async producer to the supplied brokers. Delivery
// failures are logged, not surfaced to callers.
func NewProducer(brokers []string, topicPrefix string, log *zap.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers list is empty")
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForLocal
	cfg.Producer.Compression = sarama.CompressionSnappy
	cfg.Producer.Flush.Frequency = 500 * time.Millisecond
	cfg.Producer.Return.Errors = true

	producer, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	p := &Producer{
		producer:    producer,
		topicPrefix: topicPrefix,
		logger:      log,
	}

	go p.handleErrors()

	return p, nil
}

func (p *Producer) handleErrors() {
	for err := range p.producer.Errors() {
		p.logger.Error("kafka delivery failed",
			zap.String("topic", err.Msg.Topic),
			zap.Error(err.Err),
		)
	}
}

// TopicName joins the configured prefix with the event topic suffix.
func (p *Producer) TopicName(suffix string) string {
	if p.topicPrefix == "" {
		return suffix
	}
	return p.topicPrefix + "." + suffix
}

// PublishUserRegistered emits an account creation event.
func (p *Producer) PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error {
	payload := map[string]any{
		"username":      event.Username,
		"email":         event.Email,
		"registered_at": event.RegisteredAt,
	}

	return p.publish(ctx, TopicUserRegistered, event.EventID, event.UserID, payload, event.Metadata)
}

// PublishPasswordResetRequested emits the event the mail pipeline consumes to
// deliver reset links.
func (p *Producer) PublishPasswordResetRequested(ctx context.Context, event domain.PasswordResetRequestedEvent) error {
	payload := map[string]any{
		"request_id":         event.RequestID,
		"requested_at":       event.RequestedAt,
		"destination":        event.Destination,
		"masked_destination": event.MaskedDestination,
		"expires_at":         event.ExpiresAt,
	}

	return p.publish(ctx, TopicPasswordResetRequested, event.EventID, event.UserID, payload, event.Metadata)
}

// PublishPasswordChanged emits a credential rotation event.
func (p *Producer) PublishPasswordChanged(ctx context.Context, event domain.PasswordChangedEvent) error {
	payload := map[string]any{
		"changed_at": event.ChangedAt,
	}

	return p.publish(ctx, TopicPasswordChanged, event.EventID, event.UserID, payload, event.Metadata)
}

func (p *Producer) publish(ctx context.Context, topicSuffix, eventID, userID string, payload any, metadata map[string]any) error {
	topic := p.TopicName(topicSuffix)

	data, err := marshalEnvelope(eventID, topic, userID, payload, metadata)
	if err != nil {
		return err
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(userID),
		Value: sarama.ByteEncoder(data),
	}

	select {
	case p.producer.Input() <- msg:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("publish %s: %w", topic, ctx.Err())
	}
}

// Close drains buffered messages and shuts the producer down.
func (p *Producer) Close() error {
	return p.producer.Close()
}
