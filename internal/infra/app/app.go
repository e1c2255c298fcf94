package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/bloomgram/auth-backend/internal/core/port"
	"github.com/bloomgram/auth-backend/internal/infra/config"
	"github.com/bloomgram/auth-backend/internal/infra/database"
	"github.com/bloomgram/auth-backend/internal/infra/kafka"
	"github.com/bloomgram/auth-backend/internal/infra/logger"
	"github.com/bloomgram/auth-backend/internal/infra/security"
	"github.com/bloomgram/auth-backend/internal/repository/postgres"
	"github.com/bloomgram/auth-backend/internal/transport/http/routes"
	"github.com/bloomgram/auth-backend/internal/usecase"
)

// App owns the process lifecycle: wiring, serving, and shutdown.
type App struct {
	cfg      *config.AppConfig
	logger   *zap.Logger
	pool     *pgxpool.Pool
	producer *kafka.Producer
	server   *http.Server
}

// New wires the service from configuration.
func New(ctx context.Context, cfg *config.AppConfig) (*App, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, err
	}

	sessionTokens, err := security.NewSessionTokens(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return nil, err
	}
	resetTokens, err := security.NewResetTokens(cfg.Reset.Secret, cfg.Reset.TTL)
	if err != nil {
		return nil, err
	}

	hasher := security.NewBcryptHasher(cfg.Bcrypt.Cost)

	var (
		publisher port.EventPublisher
		producer  *kafka.Producer
	)
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicPrefix, log)
		if err != nil {
			return nil, err
		}
		publisher = producer
	} else {
		publisher = kafka.NewStubPublisher(log)
	}

	users := postgres.NewUserRepository(pool)

	authService := usecase.NewAuthService(users, hasher, sessionTokens, publisher, log)
	resetService := usecase.NewPasswordResetService(users, hasher, resetTokens, publisher, log)

	engine := routes.Register(routes.Dependencies{
		Config: cfg,
		Logger: log,
		Services: routes.Services{
			Auth:          authService,
			PasswordReset: resetService,
		},
		SessionTokens: sessionTokens,
		Database:      pool,
	})

	server := &http.Server{
		Addr:              net.JoinHostPort(cfg.App.Host, strconv.Itoa(cfg.App.Port)),
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return &App{
		cfg:      cfg,
		logger:   log,
		pool:     pool,
		producer: producer,
		server:   server,
	}, nil
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("http server listening",
			zap.String("addr", a.server.Addr),
			zap.String("env", a.cfg.App.Env),
		)
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	a.logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http shutdown failed", zap.Error(err))
	}

	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", zap.Error(err))
		}
	}

	a.pool.Close()

	return nil
}
