package port

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// BlockedIPRepository keys temporary blocks by client address. Upsert must
// never shorten an existing block; repeated calls extend or replace the expiry.
type BlockedIPRepository interface {
	Upsert(ctx context.Context, ip string, until time.Time, reason string) error
	GetActive(ctx context.Context, ip string, at time.Time) (*domain.BlockedIP, error)
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
