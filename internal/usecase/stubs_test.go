package usecase

import (
	"context"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

type stubUserRepo struct {
	users       map[string]domain.User
	createErr   error
	lastLoginAt *time.Time
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	repo := &stubUserRepo{users: make(map[string]domain.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (r *stubUserRepo) Create(_ context.Context, user domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *stubUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := r.users[id]; ok {
		copied := user
		return &copied, nil
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range r.users {
		if user.Email == email {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) SetBlocked(_ context.Context, id string, blocked bool) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsBlocked = blocked
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) SetLockedUntil(_ context.Context, id string, until *time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LockedUntil = until
	r.users[id] = user
	return nil
}

func (r *stubUserRepo) UpdateLastLogin(_ context.Context, id string, at time.Time) error {
	user, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.LastLogin = &at
	r.users[id] = user
	r.lastLoginAt = &at
	return nil
}

type stubActivityRepo struct {
	entries     []domain.LoginActivity
	recordErr   error
	failedCount int
	ipCount     int
	stats       port.EmailActivityStats
}

func (r *stubActivityRepo) Record(_ context.Context, entry domain.LoginActivity) error {
	if r.recordErr != nil {
		return r.recordErr
	}
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubActivityRepo) CountByIP(context.Context, string, []domain.ActivityType, time.Time) (int, error) {
	return r.ipCount, nil
}

func (r *stubActivityRepo) CountFailedByUser(context.Context, string, time.Time) (int, error) {
	return r.failedCount, nil
}

func (r *stubActivityRepo) StatsByEmail(context.Context, string, []domain.ActivityType, time.Time) (port.EmailActivityStats, error) {
	return r.stats, nil
}

func (r *stubActivityRepo) entriesOfType(kind domain.ActivityType) []domain.LoginActivity {
	var out []domain.LoginActivity
	for _, entry := range r.entries {
		if entry.Type == kind {
			out = append(out, entry)
		}
	}
	return out
}

type stubBlacklist struct {
	entries map[string]domain.BlacklistedToken
	addErr  error
}

func newStubBlacklist() *stubBlacklist {
	return &stubBlacklist{entries: make(map[string]domain.BlacklistedToken)}
}

func (r *stubBlacklist) Add(_ context.Context, token domain.BlacklistedToken) error {
	if r.addErr != nil {
		return r.addErr
	}
	r.entries[token.JTI] = token
	return nil
}

func (r *stubBlacklist) IsBlacklisted(_ context.Context, jti string, at time.Time) (bool, error) {
	token, ok := r.entries[jti]
	return ok && token.Active(at), nil
}

func (r *stubBlacklist) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	var deleted int64
	for jti, token := range r.entries {
		if !token.ExpiresAt.After(before) {
			delete(r.entries, jti)
			deleted++
		}
	}
	return deleted, nil
}

type stubAlertRepo struct {
	alerts     []domain.SecurityAlert
	resolveErr error
}

func (r *stubAlertRepo) Create(_ context.Context, alert domain.SecurityAlert) error {
	r.alerts = append(r.alerts, alert)
	return nil
}

func (r *stubAlertRepo) Resolve(_ context.Context, id string) error {
	if r.resolveErr != nil {
		return r.resolveErr
	}
	for i := range r.alerts {
		if r.alerts[i].ID == id {
			r.alerts[i].IsResolved = true
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubAlertRepo) ListUnresolvedByUser(_ context.Context, userID string) ([]domain.SecurityAlert, error) {
	var out []domain.SecurityAlert
	for _, alert := range r.alerts {
		if alert.UserID == userID && !alert.IsResolved {
			out = append(out, alert)
		}
	}
	return out, nil
}

type stubEvents struct {
	registered []domain.UserRegisteredEvent
	locked     []domain.AccountLockedEvent
	blocked    []domain.EntityBlockedEvent
	suspicious []domain.SuspiciousLoginEvent
}

func (p *stubEvents) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.registered = append(p.registered, event)
	return nil
}

func (p *stubEvents) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	p.locked = append(p.locked, event)
	return nil
}

func (p *stubEvents) PublishEntityBlocked(_ context.Context, event domain.EntityBlockedEvent) error {
	p.blocked = append(p.blocked, event)
	return nil
}

func (p *stubEvents) PublishSuspiciousLogin(_ context.Context, event domain.SuspiciousLoginEvent) error {
	p.suspicious = append(p.suspicious, event)
	return nil
}

type stubSessionRepo struct {
	sessions  []domain.UserSession
	createErr error
}

func (r *stubSessionRepo) Create(_ context.Context, session domain.UserSession) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.sessions = append(r.sessions, session)
	return nil
}

func (r *stubSessionRepo) InvalidateByTokenID(_ context.Context, tokenID string) error {
	for i := range r.sessions {
		if r.sessions[i].TokenID == tokenID {
			r.sessions[i].IsActive = false
		}
	}
	return nil
}

func (r *stubSessionRepo) ListActiveByUser(_ context.Context, userID string, at time.Time) ([]domain.UserSession, error) {
	var out []domain.UserSession
	for _, session := range r.sessions {
		if session.UserID == userID && session.IsLive(at) {
			out = append(out, session)
		}
	}
	return out, nil
}

func (r *stubSessionRepo) RevokeAllForUser(_ context.Context, userID string) (int64, error) {
	var revoked int64
	for i := range r.sessions {
		if r.sessions[i].UserID == userID && r.sessions[i].IsActive {
			r.sessions[i].IsActive = false
			revoked++
		}
	}
	return revoked, nil
}

func (r *stubSessionRepo) DeleteExpired(_ context.Context, before time.Time) (int64, error) {
	kept := r.sessions[:0]
	var deleted int64
	for _, session := range r.sessions {
		if session.ExpiresAt.After(before) {
			kept = append(kept, session)
		} else {
			deleted++
		}
	}
	r.sessions = kept
	return deleted, nil
}

type stubModerationRepo struct {
	blockedCalls []struct {
		Target   domain.BlockTarget
		TargetID string
		Blocked  bool
	}
	logs       []domain.BlockLogEntry
	setErr     error
	logErr     error
}

func (r *stubModerationRepo) SetBlocked(_ context.Context, target domain.BlockTarget, targetID string, blocked bool) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.blockedCalls = append(r.blockedCalls, struct {
		Target   domain.BlockTarget
		TargetID string
		Blocked  bool
	}{target, targetID, blocked})
	return nil
}

func (r *stubModerationRepo) RecordBlockLog(_ context.Context, entry domain.BlockLogEntry) error {
	if r.logErr != nil {
		return r.logErr
	}
	r.logs = append(r.logs, entry)
	return nil
}

type stubBlocklist struct {
	upserts []struct {
		IP     string
		Until  time.Time
		Reason string
	}
}

func (r *stubBlocklist) Upsert(_ context.Context, ip string, until time.Time, reason string) error {
	r.upserts = append(r.upserts, struct {
		IP     string
		Until  time.Time
		Reason string
	}{ip, until, reason})
	return nil
}

func (r *stubBlocklist) GetActive(context.Context, string, time.Time) (*domain.BlockedIP, error) {
	return nil, nil
}

func (r *stubBlocklist) DeleteExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}
