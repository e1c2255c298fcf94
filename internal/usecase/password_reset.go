package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/core/domain"
	"github.com/bloomgram/auth-backend/internal/core/port"
	"github.com/bloomgram/auth-backend/internal/infra/logger"
	"github.com/bloomgram/auth-backend/internal/infra/security"
	"github.com/bloomgram/auth-backend/internal/repository"
)

var (
	ErrResetTokenInvalid = errors.New("usecase: reset token is invalid")
	ErrResetTokenExpired = errors.New("usecase: reset token has expired")
	ErrUserNotFound      = errors.New("usecase: user not found")
)

// ResetRequestResult is what a successful reset request produces. The raw
// token leaves the service only via the delivery event and, in development,
// the response link.
type ResetRequestResult struct {
	UserID      string
	Token       string
	ExpiresAt   time.Time
	MaskedEmail string
}

// PasswordResetService implements the request and confirm halves of the
// password reset flow.
type PasswordResetService struct {
	users  port.UserRepository
	hasher port.PasswordHasher
	tokens *security.ResetTokens
	events port.EventPublisher
	logger *zap.Logger
	now    func() time.Time
}

func NewPasswordResetService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	tokens *security.ResetTokens,
	events port.EventPublisher,
	log *zap.Logger,
) *PasswordResetService {
	return &PasswordResetService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		events: events,
		logger: log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, for tests.
func (s *PasswordResetService) WithClock(now func() time.Time) *PasswordResetService {
	s.now = now
	return s
}

// RequestReset issues a reset token for the account behind the email, stores
// it so confirmation can check the token is the latest one, and publishes the
// delivery event. Issuing again supersedes any earlier pending token.
func (s *PasswordResetService) RequestReset(ctx context.Context, email string) (*ResetRequestResult, error) {
	if email == "" {
		return nil, ErrMissingField
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue reset token: %w", err)
	}

	if err := s.users.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return nil, fmt.Errorf("store reset token: %w", err)
	}

	masked := logger.MaskEmail(user.Email)

	if pubErr := s.events.PublishPasswordResetRequested(ctx, domain.PasswordResetRequestedEvent{
		EventID:           uuid.NewString(),
		UserID:            user.ID,
		RequestID:         uuid.NewString(),
		RequestedAt:       s.now(),
		Destination:       user.Email,
		MaskedDestination: masked,
		ExpiresAt:         expiresAt,
	}); pubErr != nil {
		s.logger.Warn("failed to publish reset request event",
			zap.String("user_id", user.ID),
			zap.Error(pubErr),
		)
	}

	s.logger.Info("password reset requested",
		zap.String("user_id", user.ID),
		zap.String("email", masked),
		zap.Time("expires_at", expiresAt),
	)

	return &ResetRequestResult{
		UserID:      user.ID,
		Token:       token,
		ExpiresAt:   expiresAt,
		MaskedEmail: masked,
	}, nil
}

// ConfirmReset redeems a reset token and installs the new password. The token
// must verify, match the stored copy exactly, and be within the stored
// expiry. Redemption clears the stored token, so each token is single use.
func (s *PasswordResetService) ConfirmReset(ctx context.Context, token, newPassword, repeatPassword string) error {
	if token == "" || newPassword == "" || repeatPassword == "" {
		return ErrMissingField
	}
	if newPassword != repeatPassword {
		return ErrPasswordMismatch
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	userID, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrTokenExpired) {
			return ErrResetTokenExpired
		}
		return ErrResetTokenInvalid
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("lookup user: %w", err)
	}

	// The presented token must be the exact one on record. A superseded or
	// already redeemed token fails here even though its signature verifies.
	if user.ResetToken == nil || *user.ResetToken != token {
		return ErrResetTokenInvalid
	}
	if user.ResetTokenExpiresAt == nil || s.now().After(*user.ResetTokenExpiresAt) {
		return ErrResetTokenExpired
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	changedAt := s.now()
	if err := s.users.ConsumeReset(ctx, user.ID, hash, changedAt); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("consume reset: %w", err)
	}

	if pubErr := s.events.PublishPasswordChanged(ctx, domain.PasswordChangedEvent{
		EventID:   uuid.NewString(),
		UserID:    user.ID,
		ChangedAt: changedAt,
	}); pubErr != nil {
		s.logger.Warn("failed to publish password changed event",
			zap.String("user_id", user.ID),
			zap.Error(pubErr),
		)
	}

	s.logger.Info("password reset completed", zap.String("user_id", user.ID))

	return nil
}
