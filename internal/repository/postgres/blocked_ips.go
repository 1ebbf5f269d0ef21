package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
)

const blockedIPsTable = "estate.blocked_ips"

// BlockedIPRepository implements port.BlockedIPRepository using PostgreSQL.
type BlockedIPRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewBlockedIPRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewBlockedIPRepository(exec pgExecutor) *BlockedIPRepository {
	return &BlockedIPRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Upsert creates or refreshes a block for the IP. GREATEST on conflict keeps
// the invariant that blocked_until never decreases for a given address.
func (r *BlockedIPRepository) Upsert(ctx context.Context, ip string, until time.Time, reason string) error {
	now := time.Now().UTC()

	stmt, args, err := r.builder.Insert(blockedIPsTable).
		Columns("ip_address", "blocked_until", "reason", "created_at", "updated_at").
		Values(ip, until, reason, now, now).
		Suffix(`ON CONFLICT (ip_address) DO UPDATE
			SET blocked_until = GREATEST(` + blockedIPsTable + `.blocked_until, EXCLUDED.blocked_until),
			    reason = EXCLUDED.reason,
			    updated_at = EXCLUDED.updated_at`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert blocked ip sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("upsert blocked ip: %w", err)
	}

	return nil
}

// GetActive returns the block row for the IP when it is still in effect at the
// reference time, or nil when the IP is not blocked.
func (r *BlockedIPRepository) GetActive(ctx context.Context, ip string, at time.Time) (*domain.BlockedIP, error) {
	stmt, args, err := r.builder.
		Select("ip_address", "blocked_until", "reason", "created_at", "updated_at").
		From(blockedIPsTable).
		Where(squirrel.Eq{"ip_address": ip}).
		Where(squirrel.Gt{"blocked_until": at}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select blocked ip sql: %w", err)
	}

	var block domain.BlockedIP
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(
		&block.IP,
		&block.BlockedUntil,
		&block.Reason,
		&block.CreatedAt,
		&block.UpdatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan blocked ip: %w", err)
	}

	return &block, nil
}

// DeleteExpired removes rows whose block has lapsed. Housekeeping only: the
// GetActive predicate already treats expired rows as absent.
func (r *BlockedIPRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	stmt, args, err := r.builder.Delete(blockedIPsTable).
		Where(squirrel.LtOrEq{"blocked_until": before}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build delete expired blocks sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete expired blocks: %w", err)
	}

	return ct.RowsAffected(), nil
}

var _ port.BlockedIPRepository = (*BlockedIPRepository)(nil)
