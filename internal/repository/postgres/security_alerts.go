package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	squirrel "github.com/Masterminds/squirrel"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/core/port"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

const alertsTable = "estate.security_alerts"

// AlertRepository implements port.AlertRepository using PostgreSQL.
// Alert details are stored as JSONB.
type AlertRepository struct {
	exec    pgExecutor
	builder squirrel.StatementBuilderType
}

// NewAlertRepository constructs a repository backed by any executor that satisfies pgExecutor.
func NewAlertRepository(exec pgExecutor) *AlertRepository {
	return &AlertRepository{
		exec:    exec,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a new alert row.
func (r *AlertRepository) Create(ctx context.Context, alert domain.SecurityAlert) error {
	details, err := json.Marshal(alert.Details)
	if err != nil {
		return fmt.Errorf("marshal alert details: %w", err)
	}

	stmt, args, err := r.builder.Insert(alertsTable).
		Columns("id", "user_id", "alert_type", "severity", "details", "is_resolved", "created_at").
		Values(alert.ID, alert.UserID, alert.Type, alert.Severity, details, alert.IsResolved, alert.CreatedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert alert sql: %w", err)
	}

	if _, err := r.exec.Exec(ctx, stmt, args...); err != nil {
		return fmt.Errorf("insert alert: %w", err)
	}

	return nil
}

// Resolve marks an alert as handled.
func (r *AlertRepository) Resolve(ctx context.Context, id string) error {
	stmt, args, err := r.builder.Update(alertsTable).
		Set("is_resolved", true).
		Set("resolved_at", time.Now().UTC()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build resolve alert sql: %w", err)
	}

	ct, err := r.exec.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// ListUnresolvedByUser returns open alerts for one user, newest first.
func (r *AlertRepository) ListUnresolvedByUser(ctx context.Context, userID string) ([]domain.SecurityAlert, error) {
	stmt, args, err := r.builder.
		Select("id", "user_id", "alert_type", "severity", "details", "is_resolved", "created_at", "resolved_at").
		From(alertsTable).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"is_resolved": false}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list alerts sql: %w", err)
	}

	rows, err := r.exec.Query(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]domain.SecurityAlert, 0)
	for rows.Next() {
		var (
			alert      domain.SecurityAlert
			details    []byte
			resolvedAt *time.Time
		)
		if err := rows.Scan(
			&alert.ID,
			&alert.UserID,
			&alert.Type,
			&alert.Severity,
			&details,
			&alert.IsResolved,
			&alert.CreatedAt,
			&resolvedAt,
		); err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}

		if len(details) > 0 {
			if err := json.Unmarshal(details, &alert.Details); err != nil {
				return nil, fmt.Errorf("unmarshal alert details: %w", err)
			}
		}
		alert.ResolvedAt = resolvedAt

		alerts = append(alerts, alert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}

	return alerts, nil
}

var _ port.AlertRepository = (*AlertRepository)(nil)
