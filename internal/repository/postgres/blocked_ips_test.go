package postgres

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v2"
)

func TestBlockedIPRepository_Upsert(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBlockedIPRepository(mock)

	until := time.Now().UTC().Add(30 * time.Minute)

	// GREATEST keeps an existing longer block in place on conflict.
	mock.ExpectExec(`INSERT INTO estate\.blocked_ips .*ON CONFLICT \(ip_address\) DO UPDATE\s+SET blocked_until = GREATEST`).
		WithArgs("203.0.113.7", until, "too many login attempts", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	if err := repo.Upsert(context.Background(), "203.0.113.7", until, "too many login attempts"); err != nil {
		t.Fatalf("Upsert returned error: %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestBlockedIPRepository_GetActive(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBlockedIPRepository(mock)

	now := time.Now().UTC()
	until := now.Add(20 * time.Minute)

	rows := pgxmock.NewRows([]string{"ip_address", "blocked_until", "reason", "created_at", "updated_at"}).
		AddRow("203.0.113.7", until, "abuse", now, now)

	mock.ExpectQuery(`SELECT .*FROM estate\.blocked_ips`).
		WithArgs("203.0.113.7", now).
		WillReturnRows(rows)

	block, err := repo.GetActive(context.Background(), "203.0.113.7", now)
	if err != nil {
		t.Fatalf("GetActive returned error: %v", err)
	}
	if block == nil {
		t.Fatalf("expected an active block")
	}
	if !block.BlockedUntil.Equal(until) {
		t.Fatalf("expected blocked_until %v, got %v", until, block.BlockedUntil)
	}
}

func TestBlockedIPRepository_GetActive_NotBlocked(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBlockedIPRepository(mock)

	now := time.Now().UTC()

	mock.ExpectQuery(`SELECT .*FROM estate\.blocked_ips`).
		WithArgs("198.51.100.1", now).
		WillReturnRows(pgxmock.NewRows([]string{"ip_address", "blocked_until", "reason", "created_at", "updated_at"}))

	block, err := repo.GetActive(context.Background(), "198.51.100.1", now)
	if err != nil {
		t.Fatalf("GetActive returned error: %v", err)
	}
	if block != nil {
		t.Fatalf("expected nil for unblocked ip, got %+v", block)
	}
}

func TestBlockedIPRepository_DeleteExpired(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock.NewPool: %v", err)
	}
	defer mock.Close()

	repo := NewBlockedIPRepository(mock)

	now := time.Now().UTC()

	mock.ExpectExec(`DELETE FROM estate\.blocked_ips`).
		WithArgs(now).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	deleted, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired returned error: %v", err)
	}
	if deleted != 3 {
		t.Fatalf("expected 3 deleted rows, got %d", deleted)
	}
}
