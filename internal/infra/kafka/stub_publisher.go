package kafka

import (
	"context"

	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/core/domain"
	"github.com/bloomgram/auth-backend/internal/core/port"
)

// StubPublisher logs events instead of producing them. Used when no brokers
// are configured, typically in development.
type StubPublisher struct {
	logger *zap.Logger
}

var _ port.EventPublisher = (*StubPublisher)(nil)

func NewStubPublisher(log *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: log}
}

func (s *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	s.logEvent(TopicUserRegistered, event.EventID, event.UserID,
		zap.String("username", event.Username),
	)
	return nil
}

func (s *StubPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	s.logEvent(TopicPasswordResetRequested, event.EventID, event.UserID,
		zap.String("masked_destination", event.MaskedDestination),
		zap.Time("expires_at", event.ExpiresAt),
	)
	return nil
}

func (s *StubPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	s.logEvent(TopicPasswordChanged, event.EventID, event.UserID,
		zap.Time("changed_at", event.ChangedAt),
	)
	return nil
}

func (s *StubPublisher) logEvent(topic, eventID, userID string, fields ...zap.Field) {
	base := []zap.Field{
		zap.String("topic", topic),
		zap.String("event_id", eventID),
		zap.String("user_id", userID),
	}
	s.logger.Info("event publish skipped, no brokers configured", append(base, fields...)...)
}
