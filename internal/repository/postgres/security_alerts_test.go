package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

func TestAlertRepository_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAlertRepository(mock)

	now := time.Now().UTC()

	mock.ExpectExec(`INSERT INTO estate\.security_alerts`).
		WithArgs(
			"alert-1",
			"user-1",
			domain.AlertAccountLocked,
			domain.SeverityHigh,
			[]byte(`{"failed_attempts":5}`),
			false,
			now,
		).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), domain.SecurityAlert{
		ID:        "alert-1",
		UserID:    "user-1",
		Type:      domain.AlertAccountLocked,
		Severity:  domain.SeverityHigh,
		Details:   map[string]any{"failed_attempts": 5},
		CreatedAt: now,
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestAlertRepository_Resolve(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAlertRepository(mock)

	mock.ExpectExec(`UPDATE estate\.security_alerts`).
		WithArgs(true, pgxmock.AnyArg(), "alert-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	if err := repo.Resolve(context.Background(), "alert-1"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
}

func TestAlertRepository_Resolve_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAlertRepository(mock)

	mock.ExpectExec(`UPDATE estate\.security_alerts`).
		WithArgs(true, pgxmock.AnyArg(), "ghost").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	if err := repo.Resolve(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAlertRepository_ListUnresolvedByUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewAlertRepository(mock)

	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{
		"id", "user_id", "alert_type", "severity", "details", "is_resolved", "created_at", "resolved_at",
	}).AddRow(
		"alert-1", "user-1", domain.AlertSuspiciousActivity, domain.SeverityMedium,
		[]byte(`{"distinct_ips":4}`), false, now, (*time.Time)(nil),
	)

	mock.ExpectQuery(`SELECT id, user_id, alert_type, severity, details, is_resolved, created_at, resolved_at FROM estate\.security_alerts`).
		WithArgs("user-1", false).
		WillReturnRows(rows)

	alerts, err := repo.ListUnresolvedByUser(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListUnresolvedByUser returned error: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("expected one alert, got %d", len(alerts))
	}
	if alerts[0].Details["distinct_ips"] != float64(4) {
		t.Fatalf("expected decoded details, got %+v", alerts[0].Details)
	}
	if alerts[0].ResolvedAt != nil {
		t.Fatalf("expected nil resolved_at")
	}
}
