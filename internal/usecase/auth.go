package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/infra/config"
	"github.com/arklim/estate-platform-auth/internal/infra/logger"
	"github.com/arklim/estate-platform-auth/internal/infra/security"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

// AuthService coordinates the login, logout, and token verification flows.
type AuthService struct {
	cfg       *config.AppConfig
	users     port.UserRepository
	activity  port.ActivityRepository
	blacklist port.TokenBlacklist
	alerts    port.AlertRepository
	events    port.EventPublisher
	tokens    *security.TokenManager
	lockout   *LockoutService
	sessions  *SessionService
	logger    *zap.Logger
	now       func() time.Time
}

// NewAuthService constructs an AuthService.
func NewAuthService(
	cfg *config.AppConfig,
	users port.UserRepository,
	activity port.ActivityRepository,
	blacklist port.TokenBlacklist,
	alerts port.AlertRepository,
	events port.EventPublisher,
	tokens *security.TokenManager,
	lockout *LockoutService,
	sessions *SessionService,
	log *zap.Logger,
) *AuthService {
	return &AuthService{
		cfg:       cfg,
		users:     users,
		activity:  activity,
		blacklist: blacklist,
		alerts:    alerts,
		events:    events,
		tokens:    tokens,
		lockout:   lockout,
		sessions:  sessions,
		logger:    log,
		now:       time.Now,
	}
}

// WithClock injects a custom clock, primarily for testing.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	if now != nil {
		s.now = now
	}
	return s
}

// LoginInput carries everything the login pipeline needs from the transport layer.
type LoginInput struct {
	Email     string
	Password  string
	IP        string
	UserAgent string
	Remember  bool
}

// LoginResult is returned on successful authentication.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
	Session   domain.UserSession
}

// Login runs the full authentication pipeline: suspicious-activity check,
// account state checks, password verification, token issuance, and session
// creation. Every failed attempt lands in the ledger before the caller sees
// an error; successful logins land there too.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" || input.Password == "" {
		return nil, ErrInvalidCredentials
	}

	now := s.now().UTC()

	// Advisory only: a flagged email still goes through the normal pipeline.
	s.flagSuspicious(ctx, email, input.IP)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.recordAttempt(ctx, nil, email, input, domain.ActivityFailedLogin, "unknown email")
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// Lock state is checked before the password so attempts against a locked
	// account never leak whether the password was right.
	if user.IsLocked(now) {
		s.recordAttempt(ctx, &user.ID, email, input, domain.ActivityFailedLogin, "account locked")
		return nil, &AccountLockedError{Until: *user.LockedUntil}
	}

	if user.IsBlocked {
		s.recordAttempt(ctx, &user.ID, email, input, domain.ActivityFailedLogin, "account blocked")
		return nil, ErrAccountBlocked
	}

	ok, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.recordAttempt(ctx, &user.ID, email, input, domain.ActivityFailedLogin, "wrong password")

		locked, until, lockErr := s.lockout.CheckAndLock(ctx, user, input.IP)
		if lockErr != nil {
			s.logger.Error("lockout evaluation failed",
				zap.String("user_id", user.ID),
				zap.Error(lockErr),
			)
		} else if locked {
			return nil, &AccountLockedError{Until: until}
		}

		return nil, ErrInvalidCredentials
	}

	signed, claims, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	session, err := s.sessions.Establish(ctx, user.ID, claims.ID, input.IP, input.UserAgent, input.Remember)
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}

	s.recordAttempt(ctx, &user.ID, email, input, domain.ActivityLogin, "")

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.Warn("update last login failed", zap.String("user_id", user.ID), zap.Error(err))
	}
	user.LastLogin = &now

	sanitized := *user
	sanitized.PasswordHash = ""

	return &LoginResult{
		Token:     signed,
		ExpiresAt: claims.ExpiresAt.Time,
		User:      sanitized,
		Session:   session,
	}, nil
}

// Logout blacklists the presented token until its natural expiry and
// deactivates the matching session. Repeating a logout is harmless.
func (s *AuthService) Logout(ctx context.Context, claims *security.AccessTokenClaims, ip, userAgent string) error {
	now := s.now().UTC()

	if err := s.blacklist.Add(ctx, domain.BlacklistedToken{
		ID:        uuid.NewString(),
		UserID:    claims.UserID,
		JTI:       claims.ID,
		ExpiresAt: claims.ExpiresAt.Time,
		Reason:    "logout",
		CreatedAt: now,
	}); err != nil {
		return fmt.Errorf("blacklist token: %w", err)
	}

	if err := s.sessions.Invalidate(ctx, claims.ID); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}

	if err := s.activity.Record(ctx, domain.LoginActivity{
		ID:         uuid.NewString(),
		UserID:     &claims.UserID,
		IP:         ip,
		UserAgent:  userAgent,
		Type:       domain.ActivityLogout,
		OccurredAt: now,
	}); err != nil {
		s.logger.Warn("record logout activity failed", zap.String("user_id", claims.UserID), zap.Error(err))
	}

	return nil
}

// Authorize verifies a bearer token end to end: signature and expiry, the
// blacklist, and the current account flags. It returns the decoded claims for
// the request context.
func (s *AuthService) Authorize(ctx context.Context, token string) (*security.AccessTokenClaims, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		if errors.Is(err, security.ErrExpiredToken) {
			return nil, ErrExpiredAccessToken
		}
		return nil, ErrInvalidAccessToken
	}

	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("check blacklist: %w", err)
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidAccessToken
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.IsBlocked {
		return nil, ErrAccountBlocked
	}
	if user.IsLocked(s.now().UTC()) {
		return nil, &AccountLockedError{Until: *user.LockedUntil}
	}

	return claims, nil
}

func (s *AuthService) recordAttempt(ctx context.Context, userID *string, email string, input LoginInput, kind domain.ActivityType, description string) {
	if err := s.activity.Record(ctx, domain.LoginActivity{
		ID:          uuid.NewString(),
		UserID:      userID,
		Email:       email,
		IP:          input.IP,
		UserAgent:   input.UserAgent,
		Type:        kind,
		Description: description,
		OccurredAt:  s.now().UTC(),
	}); err != nil {
		s.logger.Warn("record login activity failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
	}
}

// flagSuspicious runs the cross-IP heuristic over the ledger. A hit raises a
// medium-severity alert and publishes an event; it never rejects the login.
func (s *AuthService) flagSuspicious(ctx context.Context, email, ip string) {
	cfg := s.cfg.Suspicious
	since := s.now().UTC().Add(-cfg.Window)

	stats, err := s.activity.StatsByEmail(ctx, email,
		[]domain.ActivityType{domain.ActivityLogin, domain.ActivityPasswordResetRequest}, since)
	if err != nil {
		s.logger.Warn("suspicious activity lookup failed",
			zap.String("email", logger.MaskEmail(email)),
			zap.Error(err),
		)
		return
	}

	if stats.DistinctIPs <= cfg.MaxIPs && stats.Attempts <= cfg.MaxAttempts {
		return
	}

	now := s.now().UTC()
	s.logger.Warn("suspicious login activity",
		zap.String("email", logger.MaskEmail(email)),
		zap.String("ip", logger.MaskIP(ip)),
		zap.Int("distinct_ips", stats.DistinctIPs),
		zap.Int("attempts", stats.Attempts),
	)

	if user, err := s.users.GetByEmail(ctx, email); err == nil {
		if err := s.alerts.Create(ctx, domain.SecurityAlert{
			ID:       uuid.NewString(),
			UserID:   user.ID,
			Type:     domain.AlertSuspiciousActivity,
			Severity: domain.SeverityMedium,
			Details: map[string]any{
				"distinct_ips": stats.DistinctIPs,
				"attempts":     stats.Attempts,
				"window":       cfg.Window.String(),
				"ip":           ip,
			},
			CreatedAt: now,
		}); err != nil {
			s.logger.Warn("create suspicious alert failed", zap.Error(err))
		}
	}

	if err := s.events.PublishSuspiciousLogin(ctx, domain.SuspiciousLoginEvent{
		EventID:     uuid.NewString(),
		Email:       email,
		DistinctIPs: stats.DistinctIPs,
		Attempts:    stats.Attempts,
		IP:          ip,
		OccurredAt:  now,
	}); err != nil {
		s.logger.Warn("publish suspicious login event failed", zap.Error(err))
	}
}
