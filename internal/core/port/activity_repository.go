package port

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// EmailActivityStats aggregates ledger rows for one email over a window.
type EmailActivityStats struct {
	DistinctIPs int
	Attempts    int
}

// ActivityRepository is the append-only login activity ledger. Record never
// mutates existing rows; counting reads always use a trailing window ending now.
type ActivityRepository interface {
	Record(ctx context.Context, entry domain.LoginActivity) error
	CountByIP(ctx context.Context, ip string, types []domain.ActivityType, since time.Time) (int, error)
	CountFailedByUser(ctx context.Context, userID string, since time.Time) (int, error)
	StatsByEmail(ctx context.Context, email string, types []domain.ActivityType, since time.Time) (EmailActivityStats, error)
}
