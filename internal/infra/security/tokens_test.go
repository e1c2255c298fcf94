package security

import (
	"errors"
	"testing"
	"time"
)

func TestSessionTokensRoundTrip(t *testing.T) {
	tokens, err := NewSessionTokens("session-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewSessionTokens returned error: %v", err)
	}

	signed, err := tokens.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("UserID = %q, want %q", claims.UserID, "user-123")
	}
}

func TestSessionTokensRejectsWrongSecret(t *testing.T) {
	issuer, _ := NewSessionTokens("secret-a", time.Hour)
	verifier, _ := NewSessionTokens("secret-b", time.Hour)

	signed, err := issuer.Issue("user-123")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := verifier.Parse(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Parse error = %v, want ErrTokenInvalid", err)
	}
}

func TestSessionTokensRejectsGarbage(t *testing.T) {
	tokens, _ := NewSessionTokens("session-secret", time.Hour)

	if _, err := tokens.Parse("not.a.token"); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Parse error = %v, want ErrTokenInvalid", err)
	}
}

func TestNewSessionTokensRequiresSecret(t *testing.T) {
	if _, err := NewSessionTokens("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestResetTokensRoundTrip(t *testing.T) {
	tokens, err := NewResetTokens("reset-secret", 30*time.Minute)
	if err != nil {
		t.Fatalf("NewResetTokens returned error: %v", err)
	}

	before := time.Now().UTC()
	signed, expiresAt, err := tokens.Issue("user-456")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if expiresAt.Before(before.Add(29 * time.Minute)) {
		t.Fatalf("expiresAt %v is earlier than expected", expiresAt)
	}

	userID, err := tokens.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if userID != "user-456" {
		t.Fatalf("userID = %q, want %q", userID, "user-456")
	}
}

func TestResetTokensExpired(t *testing.T) {
	tokens := &ResetTokens{secret: []byte("reset-secret"), ttl: -time.Minute}

	signed, _, err := tokens.Issue("user-456")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := tokens.Parse(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("Parse error = %v, want ErrTokenExpired", err)
	}
}

func TestResetTokensRejectSessionToken(t *testing.T) {
	sessions, _ := NewSessionTokens("shared-secret", time.Hour)
	resets, _ := NewResetTokens("shared-secret", 30*time.Minute)

	// Same secret on purpose: the purpose claim alone must keep a session
	// token from redeeming as a reset credential.
	signed, err := sessions.Issue("user-789")
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	if _, err := resets.Parse(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("Parse error = %v, want ErrTokenInvalid", err)
	}
}
