package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
)

const blacklistTable = "estate.blacklisted_tokens"

// TokenBlacklistRepository implements port.TokenBlacklist using PostgreSQL.
type TokenBlacklistRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewTokenBlacklistRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewTokenBlacklistRepository(exec pgExecutor) *TokenBlacklistRepository {
	return &TokenBlacklistRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Add denylists a token identifier. Re-adding the same jti is harmless.
func (r *TokenBlacklistRepository) Add(ctx context.Context, token domain.BlacklistedToken) error {
	stmt, args, err := r.builder.Insert(blacklistTable).
		Columns("id", "user_id", "jti", "expires_at", "reason", "created_at").
		Values(token.ID, token.UserID, token.JTI, token.ExpiresAt, token.Reason, token.CreatedAt).
		Suffix("ON CONFLICT (jti) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert blacklisted token sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert blacklisted token: %w", err)
	}

	return nil
}

// IsBlacklisted reports whether the jti is denylisted and not yet expired.
func (r *TokenBlacklistRepository) IsBlacklisted(ctx context.Context, jti string, at time.Time) (bool, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(blacklistTable).
		Where(squirrel.Eq{"jti": jti}).
		Where(squirrel.Gt{"expires_at": at}).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build check blacklist sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("scan blacklist count: %w", err)
	}

	return count > 0, nil
}

// DeleteExpired removes entries whose mirrored token expiry has passed.
func (r *TokenBlacklistRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	stmt, args, err := r.builder.Delete(blacklistTable).
		Where(squirrel.LtOrEq{"expires_at": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired tokens sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired tokens: %w", err)
	}

	return ct.RowsAffected(), nil
}

var _ port.TokenBlacklist = (*TokenBlacklistRepository)(nil)
