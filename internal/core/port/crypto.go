package port

// PasswordHasher hashes and verifies secrets using the configured algorithm.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// Verify reports whether password matches the encoded hash. A mismatch is
	// (false, nil); the error is reserved for malformed stored hashes.
	Verify(password string, encoded string) (bool, error)
}
