package usecase

import (
	"context"
	"errors"
	"fmt"
	"regexp"
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
	ErrMissingField       = errors.New("usecase: required field is missing")
	ErrInvalidEmail       = errors.New("usecase: email format is invalid")
	ErrEmailTaken         = errors.New("usecase: email is already registered")
	ErrUsernameTaken      = errors.New("usecase: username is already registered")
	ErrPasswordMismatch   = errors.New("usecase: passwords do not match")
	ErrPasswordTooShort   = errors.New("usecase: password is too short")
	ErrNoSuchAccount      = errors.New("usecase: account does not exist")
	ErrInvalidCredentials = errors.New("usecase: invalid credentials")
)

// MinPasswordLength is the floor enforced on signup and reset.
const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// SignupInput carries the fields a new account is created from.
type SignupInput struct {
	Email          string
	Username       string
	Password       string
	RepeatPassword string
}

// AuthService implements signup, login, and session introspection.
type AuthService struct {
	users    port.UserRepository
	hasher   port.PasswordHasher
	sessions *security.SessionTokens
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

func NewAuthService(
	users port.UserRepository,
	hasher port.PasswordHasher,
	sessions *security.SessionTokens,
	events port.EventPublisher,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		users:    users,
		hasher:   hasher,
		sessions: sessions,
		events:   events,
		logger:   log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source, for tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

// Signup creates an account and returns the persisted user with a fresh
// session token. Validation failures are reported before the store is touched.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*domain.User, string, error) {
	if input.Email == "" || input.Username == "" || input.Password == "" || input.RepeatPassword == "" {
		return nil, "", ErrMissingField
	}
	if !emailPattern.MatchString(input.Email) {
		return nil, "", ErrInvalidEmail
	}
	if input.Password != input.RepeatPassword {
		return nil, "", ErrPasswordMismatch
	}
	if len(input.Password) < MinPasswordLength {
		return nil, "", ErrPasswordTooShort
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := domain.User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		Username:     input.Username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, "", ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, "", ErrUsernameTaken
		default:
			return nil, "", fmt.Errorf("create user: %w", err)
		}
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	if pubErr := s.events.PublishUserRegistered(ctx, domain.UserRegisteredEvent{
		EventID:      uuid.NewString(),
		UserID:       user.ID,
		Username:     user.Username,
		Email:        user.Email,
		RegisteredAt: now,
	}); pubErr != nil {
		s.logger.Warn("failed to publish registration event",
			zap.String("user_id", user.ID),
			zap.Error(pubErr),
		)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID),
		zap.String("email", logger.MaskEmail(user.Email)),
	)

	return &user, token, nil
}

// Login authenticates by username or email and returns the user with a fresh
// session token. A missing account and a wrong password are reported
// distinctly so the transport layer can mirror them.
func (s *AuthService) Login(ctx context.Context, identifier, password string) (*domain.User, string, error) {
	if identifier == "" || password == "" {
		return nil, "", ErrMissingField
	}

	user, err := s.users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrNoSuchAccount
		}
		return nil, "", fmt.Errorf("lookup user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue session: %w", err)
	}

	s.logger.Info("user logged in", zap.String("user_id", user.ID))

	return user, token, nil
}

// CurrentUser resolves the account behind an authenticated session.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoSuchAccount
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	return user, nil
}
