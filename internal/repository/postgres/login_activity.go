package postgres

import (
	"context"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
)

const activityTable = "estate.login_activity"

// ActivityRepository implements the append-only login activity ledger.
type ActivityRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewActivityRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewActivityRepository(exec pgExecutor) *ActivityRepository {
	return &ActivityRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Record appends one ledger entry. Existing rows are never touched.
func (r *ActivityRepository) Record(ctx context.Context, entry domain.LoginActivity) error {
	var userIDValue any
	if entry.UserID != nil && *entry.UserID != "" {
		userIDValue = *entry.UserID
	}

	stmt, args, err := r.builder.Insert(activityTable).
		Columns("id", "user_id", "email", "ip_address", "user_agent", "activity_type", "description", "occurred_at").
		Values(
			entry.ID,
			userIDValue,
			entry.Email,
			entry.IP,
			entry.UserAgent,
			entry.Type,
			entry.Description,
			entry.OccurredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert activity sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}

	return nil
}

// CountByIP counts ledger entries of the given types from one IP since the window start.
func (r *ActivityRepository) CountByIP(ctx context.Context, ip string, types []domain.ActivityType, since time.Time) (int, error) {
	query := r.builder.Select("COUNT(*)").
		From(activityTable).
		Where(squirrel.Eq{"ip_address": ip}).
		Where(squirrel.GtOrEq{"occurred_at": since})

	if len(types) > 0 {
		query = query.Where(squirrel.Eq{"activity_type": types})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count by ip sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count by ip: %w", err)
	}

	return int(count), nil
}

// CountFailedByUser counts failed_login entries for one user since the window start.
func (r *ActivityRepository) CountFailedByUser(ctx context.Context, userID string, since time.Time) (int, error) {
	stmt, args, err := r.builder.Select("COUNT(*)").
		From(activityTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"activity_type": domain.ActivityFailedLogin}).
		Where(squirrel.GtOrEq{"occurred_at": since}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count failed sql: %w", err)
	}

	var count int64
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("scan count failed: %w", err)
	}

	return int(count), nil
}

// StatsByEmail aggregates distinct source IPs and total attempts for one email
// over the trailing window. Feeds the advisory suspicious-activity heuristic.
func (r *ActivityRepository) StatsByEmail(ctx context.Context, email string, types []domain.ActivityType, since time.Time) (port.EmailActivityStats, error) {
	query := r.builder.Select("COUNT(DISTINCT ip_address)", "COUNT(*)").
		From(activityTable).
		Where(squirrel.Eq{"email": email}).
		Where(squirrel.GtOrEq{"occurred_at": since})

	if len(types) > 0 {
		query = query.Where(squirrel.Eq{"activity_type": types})
	}

	stmt, args, err := query.ToSql()
	if err != nil {
		return port.EmailActivityStats{}, fmt.Errorf("build stats by email sql: %w", err)
	}

	var (
		distinctIPs int64
		attempts    int64
	)
	if err := r.exec.QueryRow(ctx, stmt, args...).Scan(&distinctIPs, &attempts); err != nil {
		return port.EmailActivityStats{}, fmt.Errorf("scan stats by email: %w", err)
	}

	return port.EmailActivityStats{
		DistinctIPs: int(distinctIPs),
		Attempts:    int(attempts),
	}, nil
}

var _ port.ActivityRepository = (*ActivityRepository)(nil)
