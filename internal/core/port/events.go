package port

import (
	"context"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// EventPublisher emits security events to the platform event stream.
// Publish failures never fail the caller's request; call sites log and discard.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, event domain.UserRegisteredEvent) error
	PublishAccountLocked(ctx context.Context, event domain.AccountLockedEvent) error
	PublishEntityBlocked(ctx context.Context, event domain.EntityBlockedEvent) error
	PublishSuspiciousLogin(ctx context.Context, event domain.SuspiciousLoginEvent) error
}
