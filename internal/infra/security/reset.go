package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultResetTTL is how long a password reset credential stays redeemable.
const DefaultResetTTL = 30 * time.Minute

const resetPurpose = "password_reset"

// ResetClaims binds a reset token to a user id and the reset purpose so a
// session token can never be replayed as a reset credential.
type ResetClaims struct {
	UserID  string `json:"uid"`
	Purpose string `json:"purpose"`
	jwt.RegisteredClaims
}

// ResetTokens signs and verifies single-purpose password reset credentials
// using a secret distinct from the session secret.
type ResetTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewResetTokens constructs an issuer for the supplied signing secret.
func NewResetTokens(secret string, ttl time.Duration) (*ResetTokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("reset signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &ResetTokens{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured reset lifetime.
func (r *ResetTokens) TTL() time.Duration {
	return r.ttl
}

// Issue signs a reset token for the user and returns the wall-clock expiry
// alongside it. The expiry is computed independently of the token's exp claim
// and is what the store persists for redemption checks.
func (r *ResetTokens) Issue(userID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(r.ttl)

	claims := &ResetClaims{
		UserID:  userID,
		Purpose: resetPurpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign reset token: %w", err)
	}

	return signed, expiresAt, nil
}

// Parse verifies signature, expiry, and purpose, and returns the user id the
// token was issued for.
func (r *ResetTokens) Parse(token string) (string, error) {
	claims := &ResetClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return r.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrTokenInvalid
	}

	if !parsed.Valid || claims.UserID == "" || claims.Purpose != resetPurpose {
		return "", ErrTokenInvalid
	}

	return claims.UserID, nil
}
