package domain

import "time"

// User mirrors the persisted representation in the users table.
//
// ResetToken and ResetTokenExpiresAt are populated only while a password
// reset is pending; both are set together and cleared together.
type User struct {
	ID                  string
	Email               string
	Username            string
	PasswordHash        string
	ResetToken          *string
	ResetTokenExpiresAt *time.Time
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// HasPendingReset reports whether a reset token is currently stored for the user.
func (u User) HasPendingReset() bool {
	return u.ResetToken != nil && u.ResetTokenExpiresAt != nil
}
