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
	"github.com/arklim/estate-platform-auth/internal/infra/logger"
)

// ModerationService executes admin block and unblock actions with an audit trail.
type ModerationService struct {
	moderation port.ModerationRepository
	blocklist  port.BlockedIPRepository
	alerts     port.AlertRepository
	ipBlockCfg config.IPBlockSettings
	events     port.EventPublisher
	logger     *zap.Logger
	now        func() time.Time
}

// NewModerationService constructs a ModerationService.
func NewModerationService(
	moderation port.ModerationRepository,
	blocklist port.BlockedIPRepository,
	alerts port.AlertRepository,
	ipBlockCfg config.IPBlockSettings,
	events port.EventPublisher,
	log *zap.Logger,
) *ModerationService {
	return &ModerationService{
		moderation: moderation,
		blocklist:  blocklist,
		alerts:     alerts,
		ipBlockCfg: ipBlockCfg,
		events:     events,
		logger:     log,
		now:        time.Now,
	}
}

// WithClock injects a custom clock, primarily for testing.
func (s *ModerationService) WithClock(now func() time.Time) *ModerationService {
	if now != nil {
		s.now = now
	}
	return s
}

// ModerationInput identifies the admin, the target, and the stated reason.
type ModerationInput struct {
	AdminID  string
	Target   domain.BlockTarget
	TargetID string
	Reason   string
}

// Block flags the target entity as blocked.
func (s *ModerationService) Block(ctx context.Context, input ModerationInput) error {
	return s.apply(ctx, input, true)
}

// Unblock clears the block flag on the target entity.
func (s *ModerationService) Unblock(ctx context.Context, input ModerationInput) error {
	return s.apply(ctx, input, false)
}

// BlockIP blocks a client address for the given duration, falling back to the
// configured default. Re-blocking an already blocked address only ever extends
// the expiry.
func (s *ModerationService) BlockIP(ctx context.Context, ip string, duration time.Duration, reason string) (time.Time, error) {
	if ip == "" {
		return time.Time{}, fmt.Errorf("ip is required")
	}

	if duration <= 0 {
		duration = s.ipBlockCfg.BlockDuration
	}
	if duration <= 0 {
		duration = 30 * time.Minute
	}

	until := s.now().UTC().Add(duration)
	if err := s.blocklist.Upsert(ctx, ip, until, reason); err != nil {
		return time.Time{}, fmt.Errorf("block ip: %w", err)
	}

	s.logger.Info("ip blocked",
		zap.String("ip", logger.MaskIP(ip)),
		zap.Time("blocked_until", until),
	)

	return until, nil
}

// ListUserAlerts returns the user's open security alerts for admin review.
func (s *ModerationService) ListUserAlerts(ctx context.Context, userID string) ([]domain.SecurityAlert, error) {
	if userID == "" {
		return nil, fmt.Errorf("user id is required")
	}

	alerts, err := s.alerts.ListUnresolvedByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	return alerts, nil
}

// ResolveAlert marks an alert as reviewed.
func (s *ModerationService) ResolveAlert(ctx context.Context, alertID string) error {
	if alertID == "" {
		return fmt.Errorf("alert id is required")
	}

	if err := s.alerts.Resolve(ctx, alertID); err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

func (s *ModerationService) apply(ctx context.Context, input ModerationInput, blocked bool) error {
	if input.TargetID == "" {
		return fmt.Errorf("target id is required")
	}

	if err := s.moderation.SetBlocked(ctx, input.Target, input.TargetID, blocked); err != nil {
		return fmt.Errorf("set blocked: %w", err)
	}

	now := s.now().UTC()
	action := domain.BlockActionBlock
	if !blocked {
		action = domain.BlockActionUnblock
	}

	entry := domain.BlockLogEntry{
		ID:         uuid.NewString(),
		AdminID:    input.AdminID,
		TargetType: input.Target,
		TargetID:   input.TargetID,
		Action:     action,
		CreatedAt:  now,
	}
	if input.Reason != "" {
		reason := input.Reason
		entry.Reason = &reason
	}

	// Every moderation action must leave an audit row.
	if err := s.moderation.RecordBlockLog(ctx, entry); err != nil {
		return fmt.Errorf("record block log: %w", err)
	}

	if err := s.events.PublishEntityBlocked(ctx, domain.EntityBlockedEvent{
		EventID:    uuid.NewString(),
		AdminID:    input.AdminID,
		TargetType: input.Target,
		TargetID:   input.TargetID,
		Blocked:    blocked,
		Reason:     input.Reason,
		OccurredAt: now,
	}); err != nil {
		s.logger.Warn("publish entity blocked event failed",
			zap.String("target_id", input.TargetID),
			zap.Error(err),
		)
	}

	s.logger.Info("moderation action applied",
		zap.String("admin_id", input.AdminID),
		zap.String("target_type", string(input.Target)),
		zap.String("target_id", input.TargetID),
		zap.String("action", string(action)),
	)

	return nil
}
