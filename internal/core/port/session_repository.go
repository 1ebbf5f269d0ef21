package port

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// SessionRepository tracks issued sessions per user.
type SessionRepository interface {
	Create(ctx context.Context, session domain.UserSession) error
	// InvalidateByTokenID flips is_active off for the matching session. It is
	// idempotent: invalidating an unknown or already-inactive token is not an error.
	InvalidateByTokenID(ctx context.Context, tokenID string) error
	ListActiveByUser(ctx context.Context, userID string, at time.Time) ([]domain.UserSession, error)
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
