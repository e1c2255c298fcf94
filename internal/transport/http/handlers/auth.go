package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/infra/config"
	"github.com/bloomgram/auth-backend/internal/transport/http/middleware"
	"github.com/bloomgram/auth-backend/internal/usecase"
)

// AuthHandler serves signup, login, logout, and session introspection.
type AuthHandler struct {
	auth   *usecase.AuthService
	cfg    *config.AppConfig
	logger *zap.Logger
}

func NewAuthHandler(auth *usecase.AuthService, cfg *config.AppConfig, log *zap.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg, logger: log}
}

var signupErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingField, Status: http.StatusBadRequest, Message: "all fields are required"},
	{Err: usecase.ErrInvalidEmail, Status: http.StatusBadRequest, Message: "invalid email format"},
	{Err: usecase.ErrPasswordMismatch, Status: http.StatusBadRequest, Message: "passwords do not match"},
	{Err: usecase.ErrPasswordTooShort, Status: http.StatusBadRequest, Message: "password must be at least 6 characters"},
	{Err: usecase.ErrEmailTaken, Status: http.StatusBadRequest, Message: "email is already registered"},
	{Err: usecase.ErrUsernameTaken, Status: http.StatusBadRequest, Message: "username is already taken"},
}

// Signup handles POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.auth.Signup(c.Request.Context(), usecase.SignupInput{
		Email:          req.Email,
		Username:       req.Username,
		Password:       req.Password,
		RepeatPassword: req.RepeatPassword,
	})
	if err != nil {
		RespondWithMappedError(c, h.logger, err, signupErrorCases)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusCreated, newUserSummary(user))
}

var loginErrorCases = []ErrorCase{
	{Err: usecase.ErrMissingField, Status: http.StatusBadRequest, Message: "all fields are required"},
	{Err: usecase.ErrNoSuchAccount, Status: http.StatusBadRequest, Message: "account does not exist"},
	{Err: usecase.ErrInvalidCredentials, Status: http.StatusUnauthorized, Message: "invalid credentials"},
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	user, token, err := h.auth.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, loginErrorCases)
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, newUserSummary(user))
}

// Logout handles POST /api/auth/logout. Sessions are stateless so logout only
// clears the cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.clearSessionCookie(c)
	c.JSON(http.StatusOK, MessageResponse{Message: "logged out"})
}

// GetMe handles GET /api/auth/getMe for an authenticated session.
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:     "not authenticated",
			RequestID: middleware.GetRequestID(c),
		})
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		RespondWithMappedError(c, h.logger, err, []ErrorCase{
			{Err: usecase.ErrNoSuchAccount, Status: http.StatusUnauthorized, Message: "not authenticated"},
		})
		return
	}

	c.JSON(http.StatusOK, newUserSummary(user))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		token,
		int(h.cfg.Session.TTL.Seconds()),
		"/",
		"",
		!h.cfg.App.IsDevelopment(),
		true,
	)
}

func (h *AuthHandler) clearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(
		h.cfg.Session.CookieName,
		"",
		-1,
		"/",
		"",
		!h.cfg.App.IsDevelopment(),
		true,
	)
}
