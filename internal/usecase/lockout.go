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
)

// LockoutService applies the failed-attempt lock policy. Counting reads the
// activity ledger, so the decision survives restarts and works across replicas.
type LockoutService struct {
	cfg      config.LockoutSettings
	users    port.UserRepository
	activity port.ActivityRepository
	alerts   port.AlertRepository
	events   port.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewLockoutService constructs a LockoutService.
func NewLockoutService(
	cfg config.LockoutSettings,
	users port.UserRepository,
	activity port.ActivityRepository,
	alerts port.AlertRepository,
	events port.EventPublisher,
	logger *zap.Logger,
) *LockoutService {
	return &LockoutService{
		cfg:      cfg,
		users:    users,
		activity: activity,
		alerts:   alerts,
		events:   events,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock injects a custom clock, primarily for testing.
func (s *LockoutService) WithClock(now func() time.Time) *LockoutService {
	if now != nil {
		s.now = now
	}
	return s
}

// CheckAndLock evaluates the policy after a failed login. When the failure
// count inside the window reaches the threshold it locks the account, appends
// a ledger entry, raises a high-severity alert, and publishes a lock event.
// Alert and event failures are logged and discarded; the lock itself stands.
func (s *LockoutService) CheckAndLock(ctx context.Context, user *domain.User, ip string) (bool, time.Time, error) {
	now := s.now().UTC()

	failed, err := s.activity.CountFailedByUser(ctx, user.ID, now.Add(-s.cfg.Window))
	if err != nil {
		return false, time.Time{}, fmt.Errorf("count failed logins: %w", err)
	}

	if failed < s.cfg.Threshold {
		return false, time.Time{}, nil
	}

	until := now.Add(s.cfg.LockDuration)
	if err := s.users.SetLockedUntil(ctx, user.ID, &until); err != nil {
		return false, time.Time{}, fmt.Errorf("lock account: %w", err)
	}

	if err := s.activity.Record(ctx, domain.LoginActivity{
		ID:          uuid.NewString(),
		UserID:      &user.ID,
		Email:       user.Email,
		IP:          ip,
		Type:        domain.ActivityAccountLocked,
		Description: fmt.Sprintf("locked after %d failed attempts", failed),
		OccurredAt:  now,
	}); err != nil {
		s.logger.Warn("record lock activity failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	if err := s.alerts.Create(ctx, domain.SecurityAlert{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		Type:     domain.AlertAccountLocked,
		Severity: domain.SeverityHigh,
		Details: map[string]any{
			"failed_attempts": failed,
			"locked_until":    until.Format(time.RFC3339),
			"ip":              ip,
		},
		CreatedAt: now,
	}); err != nil {
		s.logger.Warn("create lock alert failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	if err := s.events.PublishAccountLocked(ctx, domain.AccountLockedEvent{
		EventID:        uuid.NewString(),
		UserID:         user.ID,
		FailedAttempts: failed,
		LockedUntil:    until,
		IP:             ip,
		OccurredAt:     now,
	}); err != nil {
		s.logger.Warn("publish account locked event failed", zap.String("user_id", user.ID), zap.Error(err))
	}

	return true, until, nil
}

// Unlock clears the lock ahead of its expiry and records the transition. The
// ledger entry names the admin when one performed the action, so manual
// unlocks stay distinguishable from ordinary expiry.
func (s *LockoutService) Unlock(ctx context.Context, userID, adminID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("lookup user: %w", err)
	}

	if err := s.users.SetLockedUntil(ctx, userID, nil); err != nil {
		return fmt.Errorf("clear lock: %w", err)
	}

	description := "lock cleared"
	if adminID != "" {
		description = fmt.Sprintf("unlocked by admin %s", adminID)
	}

	if err := s.activity.Record(ctx, domain.LoginActivity{
		ID:          uuid.NewString(),
		UserID:      &user.ID,
		Email:       user.Email,
		Type:        domain.ActivityAccountUnlocked,
		Description: description,
		OccurredAt:  s.now().UTC(),
	}); err != nil {
		s.logger.Warn("record unlock activity failed", zap.String("user_id", userID), zap.Error(err))
	}

	return nil
}
