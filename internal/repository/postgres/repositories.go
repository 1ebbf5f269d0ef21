package postgres

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories groups concrete PostgreSQL repository implementations.
type Repositories struct {
	Users      *UserRepository
	Activity   *ActivityRepository
	BlockedIPs *BlockedIPRepository
	Sessions   *SessionRepository
	Blacklist  *TokenBlacklistRepository
	Alerts     *AlertRepository
	Moderation *ModerationRepository
}

// NewRepositories wires all repositories backed by the provided pool.
func NewRepositories(pool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(pool),
		Activity:   NewActivityRepository(pool),
		BlockedIPs: NewBlockedIPRepository(pool),
		Sessions:   NewSessionRepository(pool),
		Blacklist:  NewTokenBlacklistRepository(pool),
		Alerts:     NewAlertRepository(pool),
		Moderation: NewModerationRepository(pool),
	}
}
