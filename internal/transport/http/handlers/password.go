package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/infra/config"
	"github.com/bloomgram/auth-backend/internal/infra/logger"
	"github.com/bloomgram/auth-backend/internal/usecase"
)

const forgotPasswordAck = "if the account exists, a reset link has been sent"

// PasswordHandler serves the password reset flow.
type PasswordHandler struct {
	resets *usecase.PasswordResetService
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewPasswordHandler(resets *usecase.PasswordResetService, cfg *config.AppConfig, log *zap.Logger) *PasswordHandler {
	return &PasswordHandler{resets: resets, cfg: cfg, logger: log}
}

// ForgotPassword handles POST /api/auth/forgot-password. The response does
// not reveal whether the email is registered; an unknown address gets the
// same acknowledgement as a known one.
func (h *PasswordHandler) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}
	if req.Email == "" {
		respondBadRequest(c, "email is required")
		return
	}

	result, err := h.resets.RequestReset(c.Request.Context(), req.Email)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			h.logger.Info("reset requested for unknown email",
				zap.String("email", logger.MaskEmail(req.Email)),
			)
			c.JSON(http.StatusOK, ForgotPasswordResponse{Message: forgotPasswordAck})
			return
		}
		RespondWithMappedError(c, h.logger, err, nil)
		return
	}

	resp := ForgotPasswordResponse{Message: forgotPasswordAck}
	if h.cfg.App.IsDevelopment() {
		resp.Link = fmt.Sprintf("%s/%s", h.cfg.Reset.LinkBase, result.Token)
	}

	c.JSON(http.StatusOK, resp)
}

var resetPasswordErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingField, Status: http.StatusBadRequest, Message: "all fields are required"},
	{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "passwords do not match"},
	{Err: usecase.ErrPasswordTooShort, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
	{Err: usecase.ErrResetTokenExpired, Status: http.StatusBadRequest, Message: "reset token has expired"},
	{Err: usecase.ErrResetTokenInvalid, Status: http.StatusBadRequest, Message: "reset token is invalid"},
	{Err: usecase.ErrUserNotFound, Status: http.StatusNotFound, Message: "user not found"},
}

// ResetPassword handles POST /api/auth/reset-password/:token.
func (h *PasswordHandler) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	token := c.Param("token")

	err := h.resets.ConfirmReset(c.Request.Context(), token, req.NewPassword, req.RepeatNewPassword)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, resetPasswordErrorCases)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "password has been reset"})
}
