package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/infra/config"
	"github.com/arklim/estate-platform-auth/internal/infra/database"
	kafkainfra "github.com/arklim/estate-platform-auth/internal/infra/kafka"
	"github.com/arklim/estate-platform-auth/internal/infra/logger"
	redisinfra "github.com/arklim/estate-platform-auth/internal/infra/redis"
	"github.com/arklim/estate-platform-auth/internal/infra/security"
	postgresrepo "github.com/arklim/estate-platform-auth/internal/repository/postgres"
	redisrepo "github.com/arklim/estate-platform-auth/internal/repository/redis"
	"github.com/arklim/estate-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/estate-platform-auth/internal/transport/http/routes"
	"github.com/arklim/estate-platform-auth/internal/usecase"
)

// Application owns the wired service graph and the HTTP server lifecycle.
type Application struct {
	cfg          *config.AppConfig
	engine       *gin.Engine
	logger       *zap.Logger
	pool         *pgxpool.Pool
	redis        *redisinfra.Client
	housekeeping *usecase.HousekeepingService
}

// New wires configuration, infrastructure, repositories, and services into a
// runnable application. A missing JWT secret fails here, before any listener opens.
func New(ctx context.Context, cfg *config.AppConfig) (*Application, error) {
	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, log)
	if err != nil {
		return nil, fmt.Errorf("init postgres: %w", err)
	}

	tokenManager, err := security.NewTokenManager(cfg.JWT.Secret, cfg.App.Name, cfg.JWT.TokenTTL)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init token manager: %w", err)
	}

	redisClient, err := redisinfra.NewClient(cfg.Redis, log)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("init redis: %w", err)
	}

	repos := postgresrepo.NewRepositories(pool)

	var eventPublisher port.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafkainfra.NewProducer(cfg.Kafka, log)
		if err != nil {
			log.Warn("failed to init kafka producer, using stub publisher", zap.Error(err))
			eventPublisher = kafkainfra.NewStubPublisher(log)
		} else {
			eventPublisher = kafkainfra.NewEventPublisher(producer, cfg.App, log)
			log.Info("kafka event publisher initialized", zap.Strings("brokers", cfg.Kafka.Brokers))
		}
	} else {
		log.Info("kafka brokers not configured, using stub publisher")
		eventPublisher = kafkainfra.NewStubPublisher(log)
	}

	rateLimitWindow := cfg.RateLimit.WindowDuration
	if rateLimitWindow <= 0 {
		rateLimitWindow = time.Minute
	}
	rateLimitStore := redisrepo.NewRateLimitStore(redisClient.Client(), redisrepo.WindowConfig{
		KeyPrefix: "estate:ratelimit",
		TTL:       rateLimitWindow * 2,
	})
	rateLimiter := middleware.NewRateLimiter(rateLimitStore, log)

	lockoutService := usecase.NewLockoutService(cfg.Lockout, repos.Users, repos.Activity, repos.Alerts, eventPublisher, log)
	sessionService := usecase.NewSessionService(cfg.Session, repos.Sessions, log)
	authService := usecase.NewAuthService(cfg, repos.Users, repos.Activity, repos.Blacklist, repos.Alerts, eventPublisher, tokenManager, lockoutService, sessionService, log)
	registrationService := usecase.NewRegistrationService(repos.Users, security.DefaultPasswordValidator(), eventPublisher, log)
	moderationService := usecase.NewModerationService(repos.Moderation, repos.BlockedIPs, repos.Alerts, cfg.IPBlock, eventPublisher, log)
	housekeepingService := usecase.NewHousekeepingService(repos.BlockedIPs, repos.Sessions, repos.Blacklist, log)

	engine := routes.Register(routes.Dependencies{
		Config:      cfg,
		Logger:      log,
		RateLimiter: rateLimiter,
		BlockedIPs:  repos.BlockedIPs,
		Database:    pool,
		Cache:       redisClient,
		Services: routes.ServiceSet{
			Auth:         authService,
			Registration: registrationService,
			Sessions:     sessionService,
			Moderation:   moderationService,
			Lockout:      lockoutService,
		},
	})

	return &Application{
		cfg:          cfg,
		engine:       engine,
		logger:       log,
		pool:         pool,
		redis:        redisClient,
		housekeeping: housekeepingService,
	}, nil
}

// Run starts the housekeeping schedule and the HTTP server, then blocks until
// the context is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer func() {
		_ = a.logger.Sync()
	}()
	defer func() {
		if a.pool != nil {
			a.pool.Close()
		}
	}()
	defer func() {
		if a.redis != nil {
			_ = a.redis.Close()
		}
	}()

	if schedule := a.cfg.Housekeeping.Schedule; schedule != "" {
		if err := a.housekeeping.Start(schedule); err != nil {
			return fmt.Errorf("start housekeeping: %w", err)
		}
		defer a.housekeeping.Stop()
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", a.cfg.App.Host, a.cfg.App.Port),
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	a.logger.Info("starting auth API",
		zap.String("env", a.cfg.App.Env),
		zap.String("address", srv.Addr),
	)

	serverErrCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrCh <- fmt.Errorf("run server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown server: %w", err)
		}
		return nil
	case err := <-serverErrCh:
		return err
	}
}
