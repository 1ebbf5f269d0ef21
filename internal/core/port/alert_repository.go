package port

import (
	"context"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// AlertRepository persists security alerts raised by policy decisions.
type AlertRepository interface {
	Create(ctx context.Context, alert domain.SecurityAlert) error
	Resolve(ctx context.Context, id string) error
	ListUnresolvedByUser(ctx context.Context, userID string) ([]domain.SecurityAlert, error)
}
