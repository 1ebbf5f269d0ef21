package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
)

const sessionsTable = "estate.user_sessions"

var sessionColumns = []string{
	"id",
	"user_id",
	"token_id",
	"ip_address",
	"user_agent",
	"device_type",
	"browser",
	"os",
	"is_active",
	"created_at",
	"last_activity",
	"expires_at",
}

// SessionRepository implements port.SessionRepository using PostgreSQL.
type SessionRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewSessionRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewSessionRepository(exec pgExecutor) *SessionRepository {
	return &SessionRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new session row.
func (r *SessionRepository) Create(ctx context.Context, session domain.UserSession) error {
	stmt, args, err := r.builder.Insert(sessionsTable).
		Columns(sessionColumns...).
		Values(
			session.ID,
			session.UserID,
			session.TokenID,
			session.IP,
			session.UserAgent,
			session.DeviceType,
			session.Browser,
			session.OS,
			session.IsActive,
			session.CreatedAt,
			session.LastActivity,
			session.ExpiresAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}

	return nil
}

// InvalidateByTokenID flips is_active off for the matching session. Matching
// zero rows is not an error; the operation is idempotent.
func (r *SessionRepository) InvalidateByTokenID(ctx context.Context, tokenID string) error {
	stmt, args, err := r.builder.Update(sessionsTable).
		Set("is_active", false).
		Where(squirrel.Eq{"token_id": tokenID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build invalidate session sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}

	return nil
}

// ListActiveByUser returns live sessions ordered by most recent activity.
func (r *SessionRepository) ListActiveByUser(ctx context.Context, userID string, at time.Time) ([]domain.UserSession, error) {
	stmt, args, err := r.builder.
		Select(sessionColumns...).
		From(sessionsTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"is_active": true}).
		Where(squirrel.Gt{"expires_at": at}).
		OrderBy("last_activity DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list sessions sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]domain.UserSession, 0)
	for rows.Next() {
		var s domain.UserSession
		if err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.TokenID,
			&s.IP,
			&s.UserAgent,
			&s.DeviceType,
			&s.Browser,
			&s.OS,
			&s.IsActive,
			&s.CreatedAt,
			&s.LastActivity,
			&s.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}

	return sessions, nil
}

// RevokeAllForUser deactivates every session belonging to the user.
func (r *SessionRepository) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	stmt, args, err := r.builder.Update(sessionsTable).
		Set("is_active", false).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"is_active": true}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build revoke sessions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("revoke sessions: %w", err)
	}

	return ct.RowsAffected(), nil
}

// DeleteExpired removes sessions past their expiry. Housekeeping only.
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	stmt, args, err := r.builder.Delete(sessionsTable).
		Where(squirrel.LtOrEq{"expires_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired sessions sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}

	return ct.RowsAffected(), nil
}

var _ port.SessionRepository = (*SessionRepository)(nil)
