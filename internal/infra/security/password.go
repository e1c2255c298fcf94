package security

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/bloomgram/auth-backend/internal/core/port"
)

// DefaultBcryptCost matches the cost the service has always hashed with.
const DefaultBcryptCost = 10

// BcryptHasher implements port.PasswordHasher using bcrypt. The salt is
// generated per call and embedded in the encoded hash.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a hasher with the supplied cost factor, falling
// back to DefaultBcryptCost when the value is out of bcrypt's range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash derives a salted one-way hash from the plaintext password.
func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(bytes), nil
}

// Verify recomputes the hash with the embedded salt and compares in constant
// time. A mismatch returns (false, nil); only a malformed stored hash errors.
func (h *BcryptHasher) Verify(password, encoded string) (bool, error) {
	if password == "" || encoded == "" {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, fmt.Errorf("verify password: %w", err)
}

var _ port.PasswordHasher = (*BcryptHasher)(nil)
