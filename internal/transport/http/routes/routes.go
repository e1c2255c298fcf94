package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/infra/config"
	"github.com/bloomgram/auth-backend/internal/infra/security"
	"github.com/bloomgram/auth-backend/internal/transport/http/handlers"
	"github.com/bloomgram/auth-backend/internal/transport/http/middleware"
	"github.com/bloomgram/auth-backend/internal/usecase"
)

// DatabaseChecker is what the readiness probe needs from the pool.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// Services groups the use case layer the routes depend on.
type Services struct {
	Auth          *usecase.AuthService
	PasswordReset *usecase.PasswordResetService
}

// Dependencies carries everything Register needs to assemble the engine.
type Dependencies struct {
	Config        *config.AppConfig
	Logger        *zap.Logger
	Services      Services
	SessionTokens *security.SessionTokens
	Database      DatabaseChecker
}

// Register builds the gin engine with middleware, probes, and the auth API.
func Register(deps Dependencies) *gin.Engine {
	if !deps.Config.App.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Logger(deps.Logger))

	metrics := middleware.NewMetrics("auth_backend")
	engine.Use(metrics.Middleware())

	healthOpts := []handlers.HealthOption{}
	if deps.Database != nil {
		healthOpts = append(healthOpts, handlers.WithReadinessCheck("postgres", deps.Database.Ping))
	}
	health := handlers.NewHealthHandler(healthOpts...)

	engine.GET("/healthz", health.Status)
	engine.GET("/readyz", health.Readiness)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Config, deps.Logger)
	passwordHandler := handlers.NewPasswordHandler(deps.Services.PasswordReset, deps.Config, deps.Logger)

	requireSession := middleware.RequireSession(deps.SessionTokens, deps.Config.Session.CookieName)

	auth := engine.Group("/api/auth")
	{
		auth.POST("/signup", authHandler.Signup)
		auth.POST("/login", authHandler.Login)
		auth.POST("/logout", authHandler.Logout)
		auth.POST("/forgot-password", passwordHandler.ForgotPassword)
		auth.POST("/reset-password/:token", passwordHandler.ResetPassword)
		auth.GET("/getMe", requireSession, authHandler.GetMe)
	}

	return engine
}
