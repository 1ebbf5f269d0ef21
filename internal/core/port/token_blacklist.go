package port

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// TokenBlacklist denies token identifiers until their natural expiry.
type TokenBlacklist interface {
	Add(ctx context.Context, token domain.BlacklistedToken) error
	IsBlacklisted(ctx context.Context, jti string, at time.Time) (bool, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
