package handlers

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

type memUserRepo struct {
	users map[string]domain.User
}

func newMemUserRepo(users ...domain.User) *memUserRepo {
	repo := &memUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *memUserRepo) Create(_ context.Context, user domain.User) error {
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsBlocked = blocked
	r.users[id] = user
	return nil
}

func (r *memUserRepo) SetLockedUntil(_ context.Context, id string, until *time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LockedUntil = until
	r.users[id] = user
	return nil
}

func (r *memUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	r.users[id] = user
	return nil
}

type memActivityRepo struct {
	entries []domain.LoginActivity
}

func (r *memActivityRepo) Record(_ context.Context, entry domain.LoginActivity) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *memActivityRepo) CountByIP(context.Context, string, []domain.ActivityType, time.Time) (int, error) {
	return 0, nil
}

func (r *memActivityRepo) CountFailedByUser(context.Context, string, time.Time) (int, error) {
	return 0, nil
}

func (r *memActivityRepo) StatsByEmail(context.Context, string, []domain.ActivityType, time.Time) (port.EmailActivityStats, error) {
	return port.EmailActivityStats{}, nil
}

func (r *memActivityRepo) entriesOfType(kind domain.ActivityType) []domain.LoginActivity {
	var out []domain.LoginActivity
	for _, entry := range r.entries {
		if entry.Type == kind {
			out = append(out, entry)
		}
	}
	return out
}

type memBlacklist struct{}

func (memBlacklist) Add(context.Context, domain.BlacklistedToken) error { return nil }

func (memBlacklist) IsBlacklisted(context.Context, string, time.Time) (bool, error) {
	return false, nil
}

func (memBlacklist) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

type memAlertRepo struct{}

func (memAlertRepo) Create(context.Context, domain.SecurityAlert) error { return nil }
func (memAlertRepo) Resolve(context.Context, string) error              { return nil }

func (memAlertRepo) ListUnresolvedByUser(context.Context, string) ([]domain.SecurityAlert, error) {
	return nil, nil
}

type memEvents struct{}

func (memEvents) PublishUserRegistered(context.Context, domain.UserRegisteredEvent) error {
	return nil
}

func (memEvents) PublishAccountLocked(context.Context, domain.AccountLockedEvent) error {
	return nil
}

func (memEvents) PublishEntityBlocked(context.Context, domain.EntityBlockedEvent) error {
	return nil
}

func (memEvents) PublishSuspiciousLogin(context.Context, domain.SuspiciousLoginEvent) error {
	return nil
}

type memSessionRepo struct {
	sessions []domain.UserSession
}

func (r *memSessionRepo) Create(_ context.Context, session domain.UserSession) error {
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *memSessionRepo) InvalidateByTokenID(_ context.Context, tokenID string) error {
	for i := range r.sessions {
		if r.sessions[i].TokenID == tokenID {
			r.sessions[i].IsActive = false
		}
	}
	return nil
}

func (r *memSessionRepo) ListActiveByUser(_ context.Context, userID string, at time.Time) ([]domain.UserSession, error) {
	var out []domain.UserSession
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsLive(at) {
			out = append(out, session)
		}
	}
	return out, nil
}

func (r *memSessionRepo) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	var revoked int64
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].IsActive {
			r.sessions[i].IsActive = false
			revoked++
		}
	}
	return revoked, nil
}

func (r *memSessionRepo) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }

type memModerationRepo struct {
	blocked map[string]bool
	logs    []domain.BlockLogEntry
}

func newMemModerationRepo() *memModerationRepo {
	return &memModerationRepo{blocked: make(map[string]bool)}
}

func (r *memModerationRepo) SetBlocked(_ context.Context, _ domain.BlockTarget, targetID string, blocked bool) error {
	r.blocked[targetID] = blocked
	return nil
}

func (r *memModerationRepo) RecordBlockLog(_ context.Context, entry domain.BlockLogEntry) error {
	r.logs = append(r.logs, entry)
	return nil
}

type memBlocklist struct{}

func (memBlocklist) Upsert(context.Context, string, time.Time, string) error { return nil }

func (memBlocklist) GetActive(context.Context, string, time.Time) (*domain.BlockedIP, error) {
	return nil, nil
}

func (memBlocklist) DeleteExpired(context.Context, time.Time) (int64, error) { return 0, nil }
