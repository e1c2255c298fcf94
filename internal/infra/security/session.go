package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrTokenInvalid indicates a token that is malformed, unsigned, or signed
// with the wrong secret.
var ErrTokenInvalid = errors.New("security: token invalid")

// ErrTokenExpired indicates a structurally valid token past its expiry claim.
var ErrTokenExpired = errors.New("security: token expired")

// DefaultSessionTTL is how long an issued session credential stays valid.
const DefaultSessionTTL = 15 * 24 * time.Hour

// SessionClaims carries the authenticated user identity inside session tokens.
type SessionClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// SessionTokens signs and verifies bearer session credentials. Sessions are
// stateless: possession of a valid, unexpired token is the sole proof.
type SessionTokens struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionTokens constructs an issuer for the supplied signing secret.
func NewSessionTokens(secret string, ttl time.Duration) (*SessionTokens, error) {
	if secret == "" {
		return nil, fmt.Errorf("session signing secret is required")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionTokens{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the configured session lifetime.
func (s *SessionTokens) TTL() time.Duration {
	return s.ttl
}

// Issue signs a session token for the supplied user id.
func (s *SessionTokens) Issue(userID string) (string, error) {
	now := time.Now().UTC()
	claims := &SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	return signed, nil
}

// Parse verifies the signature and expiry and returns the embedded claims.
func (s *SessionTokens) Parse(token string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrTokenInvalid
	}

	if !parsed.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}

	return claims, nil
}
