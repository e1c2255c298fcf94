package domain

import "time"

// UserRegisteredEvent represents the payload for auth.user.registered messages.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Username     string
	Email        string
	RegisteredAt time.Time
	Metadata     map[string]any
}

// PasswordResetRequestedEvent represents the payload for
// auth.password.reset_requested messages. Downstream notifiers consume it to
// deliver the reset link; this service never sends mail itself.
type PasswordResetRequestedEvent struct {
	EventID           string
	UserID            string
	RequestID         string
	RequestedAt       time.Time
	Destination       string
	MaskedDestination string
	ExpiresAt         time.Time
	Metadata          map[string]any
}

// PasswordChangedEvent represents the payload for auth.password.changed messages.
type PasswordChangedEvent struct {
	EventID   string
	UserID    string
	ChangedAt time.Time
	Metadata  map[string]any
}
