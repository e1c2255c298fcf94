package security

import (
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasherRoundTrip(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("correct horse battery")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}
	if hash == "correct horse battery" {
		t.Fatal("hash equals the plaintext password")
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Fatalf("unexpected hash format: %q", hash)
	}

	ok, err := hasher.Verify("correct horse battery", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !ok {
		t.Fatal("Verify rejected the correct password")
	}
}

func TestBcryptHasherWrongPassword(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	hash, err := hasher.Hash("password-one")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	ok, err := hasher.Verify("password-two", hash)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if ok {
		t.Fatal("Verify accepted the wrong password")
	}
}

func TestBcryptHasherEmptyHash(t *testing.T) {
	hasher := NewBcryptHasher(bcrypt.MinCost)

	ok, err := hasher.Verify("anything", "")
	if err != nil {
		t.Fatalf("Verify returned error for empty hash: %v", err)
	}
	if ok {
		t.Fatal("Verify accepted an empty hash")
	}
}

func TestNewBcryptHasherClampsInvalidCost(t *testing.T) {
	hasher := NewBcryptHasher(9999)

	hash, err := hasher.Hash("some password")
	if err != nil {
		t.Fatalf("Hash returned error: %v", err)
	}

	cost, err := bcrypt.Cost([]byte(hash))
	if err != nil {
		t.Fatalf("Cost returned error: %v", err)
	}
	if cost != DefaultBcryptCost {
		t.Fatalf("cost = %d, want %d", cost, DefaultBcryptCost)
	}
}
