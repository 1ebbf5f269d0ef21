package port

import (
	"context"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// ModerationRepository flips block flags on moderated entities and writes the
// audit trail. Target kinds map to backing tables through an exhaustive switch
// inside the implementation, never a string-keyed lookup.
type ModerationRepository interface {
	SetBlocked(ctx context.Context, target domain.BlockTarget, targetID string, blocked bool) error
	RecordBlockLog(ctx context.Context, entry domain.BlockLogEntry) error
}
