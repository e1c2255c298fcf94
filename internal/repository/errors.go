package repository

import "errors"

var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("repository: not found")
	// ErrEmailTaken indicates the store rejected an insert because the email
	// unique index already holds the value.
	ErrEmailTaken = errors.New("repository: email already taken")
	// ErrUsernameTaken indicates the store rejected an insert because the
	// username unique index already holds the value.
	ErrUsernameTaken = errors.New("repository: username already taken")
)
