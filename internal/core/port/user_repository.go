package port

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

// UserRepository persists marketplace accounts.
type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetBlocked(ctx context.Context, id string, blocked bool) error
	SetLockedUntil(ctx context.Context, id string, until *time.Time) error
	UpdateLastLogin(ctx context.Context, id string, at time.Time) error
}
