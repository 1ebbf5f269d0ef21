package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/port"
	appLogger "github.com/arklim/estate-platform-auth/internal/infra/logger"
)

// RateLimitRule configures one sliding-window limit keyed by client IP.
type RateLimitRule struct {
	Name   string
	Limit  int
	Window time.Duration
}

// RateLimitedResponse is the 429 payload. RetryAfter is seconds until the
// oldest attempt slides out of the window.
type RateLimitedResponse struct {
	Message    string `json:"message"`
	RetryAfter int    `json:"retryAfter"`
	TraceID    string `json:"trace_id,omitempty"`
}

// RateLimiter builds per-route sliding-window middleware on a shared store.
// Store failures fail open: a broken limiter must not take logins down with it.
type RateLimiter struct {
	store  port.RateLimitStore
	logger *zap.Logger
	now    func() time.Time
}

// NewRateLimiter constructs a RateLimiter.
func NewRateLimiter(store port.RateLimitStore, logger *zap.Logger) *RateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RateLimiter{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock injects a custom clock, primarily for testing.
func (rl *RateLimiter) WithClock(now func() time.Time) *RateLimiter {
	if now != nil {
		rl.now = now
	}
	return rl
}

// Limit returns middleware enforcing the rule for the client IP.
func (rl *RateLimiter) Limit(rule RateLimitRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if ip == "" || rule.Limit <= 0 || rule.Window <= 0 {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		now := rl.now().UTC()
		identifier := rule.Name + ":" + ip

		if err := rl.store.TrimWindow(ctx, identifier, rule.Window, now); err != nil {
			rl.logger.Warn("rate limit trim failed",
				zap.String("rule", rule.Name),
				zap.String("ip", appLogger.MaskIP(ip)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		count, err := rl.store.CountAttempts(ctx, identifier, rule.Window, now)
		if err != nil {
			rl.logger.Warn("rate limit count failed",
				zap.String("rule", rule.Name),
				zap.String("ip", appLogger.MaskIP(ip)),
				zap.Error(err),
			)
			c.Next()
			return
		}

		if count >= rule.Limit {
			retryAfter := rule.Window
			if oldest, ok, err := rl.store.OldestAttempt(ctx, identifier, rule.Window, now); err == nil && ok {
				retryAfter = oldest.Add(rule.Window).Sub(now)
			}
			rl.respondLimited(c, rule, retryAfter)
			return
		}

		if err := rl.store.RecordAttempt(ctx, identifier, now); err != nil {
			rl.logger.Warn("rate limit record failed",
				zap.String("rule", rule.Name),
				zap.String("ip", appLogger.MaskIP(ip)),
				zap.Error(err),
			)
		}

		remaining := rule.Limit - count - 1
		if remaining < 0 {
			remaining = 0
		}
		c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
		c.Writer.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

		c.Next()
	}
}

func (rl *RateLimiter) respondLimited(c *gin.Context, rule RateLimitRule, retryAfter time.Duration) {
	seconds := int(math.Ceil(retryAfter.Seconds()))
	if seconds < 0 {
		seconds = 0
	}

	c.Writer.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Limit))
	c.Writer.Header().Set("X-RateLimit-Remaining", "0")
	c.Writer.Header().Set("Retry-After", strconv.Itoa(seconds))

	rl.logger.Warn("rate limit exceeded",
		zap.String("rule", rule.Name),
		zap.String("ip", appLogger.MaskIP(c.ClientIP())),
	)

	c.AbortWithStatusJSON(http.StatusTooManyRequests, RateLimitedResponse{
		Message:    "too many requests, please try again later",
		RetryAfter: seconds,
		TraceID:    GetTraceID(c),
	})
}
