package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/infra/config"
	"github.com/arklim/estate-platform-auth/internal/transport/http/handlers"
	"github.com/arklim/estate-platform-auth/internal/transport/http/middleware"
	"github.com/arklim/estate-platform-auth/internal/usecase"
)

// ServiceSet groups the services the HTTP layer depends on.
type ServiceSet struct {
	Auth         *usecase.AuthService
	Registration *usecase.RegistrationService
	Sessions     *usecase.SessionService
	Moderation   *usecase.ModerationService
	Lockout      *usecase.LockoutService
}

// DatabaseChecker exposes readiness behaviour for database connections.
type DatabaseChecker interface {
	Ping(ctx context.Context) error
}

// CacheChecker exposes readiness behaviour for cache backends.
type CacheChecker interface {
	HealthCheck(ctx context.Context) error
}

// Dependencies encapsulates the objects required to register routes.
type Dependencies struct {
	Config      *config.AppConfig
	Logger      *zap.Logger
	RateLimiter *middleware.RateLimiter
	BlockedIPs  port.BlockedIPRepository
	Services    ServiceSet
	Database    DatabaseChecker
	Cache       CacheChecker
}

// Register configures the Gin engine with routes and middleware.
func Register(deps Dependencies) *gin.Engine {
	if deps.Config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.EnrichContext())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(deps.Logger))

	if metrics, err := middleware.NewHTTPMetrics(middleware.HTTPMetricsOptions{
		Namespace: deps.Config.Telemetry.MetricsNamespace,
	}); err != nil {
		deps.Logger.Warn("http metrics disabled", zap.Error(err))
	} else {
		r.Use(metrics.Handler())
	}

	healthOptions := make([]handlers.HealthOption, 0, 2)
	if deps.Database != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("database", deps.Database.Ping))
	}
	if deps.Cache != nil {
		healthOptions = append(healthOptions, handlers.WithReadinessCheck("redis", deps.Cache.HealthCheck))
	}
	healthHandler := handlers.NewHealthHandler(healthOptions...)

	r.GET("/healthz", healthHandler.Status)
	r.GET("/readyz", healthHandler.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	api.Use(middleware.CheckBlockedIP(deps.BlockedIPs, deps.Logger))

	authMiddleware := middleware.RequireAuth(deps.Services.Auth)

	var loginLimit, registerLimit gin.HandlerFunc
	if deps.RateLimiter != nil {
		loginLimit = deps.RateLimiter.Limit(middleware.RateLimitRule{
			Name:   "login",
			Limit:  deps.Config.RateLimit.LoginMaxAttempts,
			Window: deps.Config.RateLimit.WindowDuration,
		})
		registerLimit = deps.RateLimiter.Limit(middleware.RateLimitRule{
			Name:   "register",
			Limit:  deps.Config.RateLimit.RegisterMaxAttempts,
			Window: deps.Config.RateLimit.WindowDuration,
		})
	}

	authHandler := handlers.NewAuthHandler(deps.Services.Auth, deps.Services.Registration, deps.Logger)
	authHandler.RegisterRoutes(api.Group("/auth"), loginLimit, registerLimit)

	sessionHandler := handlers.NewSessionHandler(deps.Services.Sessions, deps.Logger)
	sessionGroup := api.Group("/sessions")
	sessionGroup.Use(authMiddleware)
	sessionHandler.RegisterRoutes(sessionGroup)

	adminHandler := handlers.NewAdminHandler(deps.Services.Moderation, deps.Services.Lockout, deps.Logger)
	adminGroup := api.Group("/admin")
	adminGroup.Use(authMiddleware, middleware.RequireRole(domain.RoleAdmin))
	adminHandler.RegisterRoutes(adminGroup)

	return r
}
