package handlers

import "github.com/bloomgram/auth-backend/internal/core/domain"

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// MessageResponse is the body for operations with nothing to return.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserSummary is the public projection of an account. Password material and
// reset state never appear here.
type UserSummary struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

func newUserSummary(user *domain.User) UserSummary {
	return UserSummary{
		ID:       user.ID,
		Email:    user.Email,
		Username: user.Username,
	}
}

type SignupRequest struct {
	Email          string `json:"email"`
	Username       string `json:"username"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeatPassword"`
}

type LoginRequest struct {
	UsernameOrEmail string `json:"usernameOrEmail"`
	Password        string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	NewPassword       string `json:"newPassword"`
	RepeatNewPassword string `json:"repeatNewPassword"`
}

// ForgotPasswordResponse carries the generic acknowledgement. Link is only
// populated in development mode.
type ForgotPasswordResponse struct {
	Message string `json:"message"`
	Link    string `json:"link,omitempty"`
}
