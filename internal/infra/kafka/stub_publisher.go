package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for
// development environments without brokers.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("stub event published",
		zap.String("event_type", eventType),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishUserRegistered logs estate.user.registered events.
func (p *StubPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.logEvent("estate.user.registered", event.RegisteredAt, map[string]any{
		"user_id": event.UserID,
		"role":    event.Role,
	})
	return nil
}

// PublishAccountLocked logs estate.auth.account.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.logEvent("estate.auth.account.locked", event.OccurredAt, map[string]any{
		"user_id":         event.UserID,
		"failed_attempts": event.FailedAttempts,
		"locked_until":    event.LockedUntil,
	})
	return nil
}

// PublishEntityBlocked logs estate.moderation.entity.blocked events.
func (p *StubPublisher) PublishEntityBlocked(_ context.Context, event domain.EntityBlockedEvent) error {
	p.logEvent("estate.moderation.entity.blocked", event.OccurredAt, map[string]any{
		"admin_id":    event.AdminID,
		"target_type": event.TargetType,
		"target_id":   event.TargetID,
		"blocked":     event.Blocked,
	})
	return nil
}

// PublishSuspiciousLogin logs estate.auth.suspicious.login events.
func (p *StubPublisher) PublishSuspiciousLogin(_ context.Context, event domain.SuspiciousLoginEvent) error {
	p.logEvent("estate.auth.suspicious.login", event.OccurredAt, map[string]any{
		"distinct_ips": event.DistinctIPs,
		"attempts":     event.Attempts,
	})
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
