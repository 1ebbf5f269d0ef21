package postgres

import (
	"context"
	"fmt"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

const (
	propertiesTable = "estate.properties"
	blockLogsTable  = "estate.block_logs"
)

// ModerationRepository implements port.ModerationRepository using PostgreSQL.
type ModerationRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewModerationRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewModerationRepository(exec pgExecutor) *ModerationRepository {
	return &ModerationRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// SetBlocked flips the is_blocked flag on the entity behind the target kind.
// The switch is exhaustive; an unhandled kind is a programming error surfaced
// as an explicit error rather than a silent fallthrough.
func (r *ModerationRepository) SetBlocked(ctx context.Context, target domain.BlockTarget, targetID string, blocked bool) error {
	var table string
	switch target {
	case domain.BlockTargetUser, domain.BlockTargetBuilder, domain.BlockTargetAgent:
		table = usersTable
	case domain.BlockTargetProperty:
		table = propertiesTable
	default:
		return fmt.Errorf("unsupported block target %q", target)
	}

	stmt, args, err := r.builder.Update(table).
		Set("is_blocked", blocked).
		Where(squirrel.Eq{"id": targetID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build moderation update sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("update %s block flag: %w", target, err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// RecordBlockLog appends one audit row for an admin moderation action.
func (r *ModerationRepository) RecordBlockLog(ctx context.Context, entry domain.BlockLogEntry) error {
	var reasonValue any
	if entry.Reason != nil && *entry.Reason != "" {
		reasonValue = *entry.Reason
	}

	stmt, args, err := r.builder.Insert(blockLogsTable).
		Columns("id", "admin_id", "target_type", "target_id", "action", "reason", "created_at").
		Values(entry.ID, entry.AdminID, entry.TargetType, entry.TargetID, entry.Action, reasonValue, entry.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert block log sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert block log: %w", err)
	}

	return nil
}

var _ port.ModerationRepository = (*ModerationRepository)(nil)
