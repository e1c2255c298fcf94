package port

import (
	"context"
	"time"

	"github.com/bloomgram/auth-backend/internal/core/domain"
)

// UserRepository exposes persistence behavior for users.
//
// Create relies on store-level unique indexes as the final arbiter for email
// and username uniqueness; callers must not pre-read to check availability.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)

	// SetResetToken stores a pending reset token and its wall-clock expiry,
	// overwriting (and thereby invalidating) any prior pending reset.
	SetResetToken(ctx context.Context, userID, token string, expiresAt time.Time) error

	// ConsumeReset atomically replaces the password hash and clears the
	// pending reset fields in a single statement.
	ConsumeReset(ctx context.Context, userID, passwordHash string, changedAt time.Time) error
}
