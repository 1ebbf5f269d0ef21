package usecase

import (
	"context"
	"fmt"
	"time"

	uuid "github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/infra/config"
	"github.com/arklim/estate-platform-auth/internal/infra/security"
)

// SessionService manages the session registry that mirrors issued tokens.
type SessionService struct {
	cfg      config.SessionSettings
	sessions port.SessionRepository
	logger   *zap.Logger
	now      func() time.Time
}

// NewSessionService constructs a SessionService.
func NewSessionService(cfg config.SessionSettings, sessions port.SessionRepository, logger *zap.Logger) *SessionService {
	return &SessionService{
		cfg:      cfg,
		sessions: sessions,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock injects a custom clock, primarily for testing.
func (s *SessionService) WithClock(now func() time.Time) *SessionService {
	if now != nil {
		s.now = now
	}
	return s
}

// Establish records a new session for a freshly issued token. The session is
// keyed by the token's jti so logout can find it without a session cookie.
func (s *SessionService) Establish(ctx context.Context, userID, tokenID, ip, userAgent string, remember bool) (domain.UserSession, error) {
	now := s.now().UTC()

	ttl := s.cfg.TTL
	if remember {
		ttl = s.cfg.RememberTTL
	}

	device := security.ParseUserAgent(userAgent)

	session := domain.UserSession{
		ID:           uuid.NewString(),
		UserID:       userID,
		TokenID:      tokenID,
		IP:           ip,
		UserAgent:    userAgent,
		DeviceType:   device.Type,
		Browser:      device.Browser,
		OS:           device.OS,
		IsActive:     true,
		CreatedAt:    now,
		LastActivity: now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return domain.UserSession{}, fmt.Errorf("create session: %w", err)
	}

	return session, nil
}

// Invalidate deactivates the session tied to a token identifier. Unknown
// tokens are ignored; logout stays idempotent.
func (s *SessionService) Invalidate(ctx context.Context, tokenID string) error {
	if err := s.sessions.InvalidateByTokenID(ctx, tokenID); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	return nil
}

// ListActive returns the user's live sessions.
func (s *SessionService) ListActive(ctx context.Context, userID string) ([]domain.UserSession, error) {
	sessions, err := s.sessions.ListActiveByUser(ctx, userID, s.now().UTC())
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

// RevokeAll deactivates every session of the user and returns how many were live.
func (s *SessionService) RevokeAll(ctx context.Context, userID string) (int64, error) {
	revoked, err := s.sessions.RevokeAllForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}

	s.logger.Info("revoked all sessions",
		zap.String("user_id", userID),
		zap.Int64("count", revoked),
	)

	return revoked, nil
}
