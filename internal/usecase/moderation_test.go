package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
	"github.com/arklim/estate-platform-auth/internal/infra/config"
	"github.com/arklim/estate-platform-auth/internal/repository"
)

type moderationFixture struct {
	svc        *ModerationService
	moderation *stubModerationRepo
	blocklist  *stubBlocklist
	alerts     *stubAlertRepo
	events     *stubEvents
	now        time.Time
}

func newModerationFixture() *moderationFixture {
	now := time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)
	moderation := &stubModerationRepo{}
	blocklist := &stubBlocklist{}
	alerts := &stubAlertRepo{}
	events := &stubEvents{}

	svc := NewModerationService(
		moderation,
		blocklist,
		alerts,
		config.IPBlockSettings{BlockDuration: 45 * time.Minute},
		events,
		zap.NewNop(),
	).WithClock(func() time.Time { return now })

	return &moderationFixture{
		svc:        svc,
		moderation: moderation,
		blocklist:  blocklist,
		alerts:     alerts,
		events:     events,
		now:        now,
	}
}

func TestModerationService_Block(t *testing.T) {
	f := newModerationFixture()

	err := f.svc.Block(context.Background(), ModerationInput{
		AdminID:  "admin-1",
		Target:   domain.BlockTargetAgent,
		TargetID: "agent-1",
		Reason:   "spam listings",
	})
	if err != nil {
		t.Fatalf("Block returned error: %v", err)
	}

	if len(f.moderation.blockedCalls) != 1 {
		t.Fatalf("expected one SetBlocked call, got %d", len(f.moderation.blockedCalls))
	}
	call := f.moderation.blockedCalls[0]
	if call.Target != domain.BlockTargetAgent || call.TargetID != "agent-1" || !call.Blocked {
		t.Fatalf("unexpected SetBlocked call: %+v", call)
	}

	if len(f.moderation.logs) != 1 {
		t.Fatalf("expected one audit row, got %d", len(f.moderation.logs))
	}
	entry := f.moderation.logs[0]
	if entry.Action != domain.BlockActionBlock || entry.AdminID != "admin-1" {
		t.Fatalf("unexpected audit entry: %+v", entry)
	}
	if entry.Reason == nil || *entry.Reason != "spam listings" {
		t.Fatalf("expected the reason in the audit row")
	}

	if len(f.events.blocked) != 1 || !f.events.blocked[0].Blocked {
		t.Fatalf("expected an entity blocked event")
	}
}

func TestModerationService_Unblock(t *testing.T) {
	f := newModerationFixture()

	err := f.svc.Unblock(context.Background(), ModerationInput{
		AdminID:  "admin-1",
		Target:   domain.BlockTargetUser,
		TargetID: "user-1",
	})
	if err != nil {
		t.Fatalf("Unblock returned error: %v", err)
	}

	if f.moderation.blockedCalls[0].Blocked {
		t.Fatalf("expected an unblock call")
	}
	if f.moderation.logs[0].Action != domain.BlockActionUnblock {
		t.Fatalf("expected unblock audit action, got %s", f.moderation.logs[0].Action)
	}
	if f.moderation.logs[0].Reason != nil {
		t.Fatalf("expected no reason pointer for an empty reason")
	}
	if len(f.events.blocked) != 1 || f.events.blocked[0].Blocked {
		t.Fatalf("expected an unblock event")
	}
}

func TestModerationService_Block_EmptyTarget(t *testing.T) {
	f := newModerationFixture()

	if err := f.svc.Block(context.Background(), ModerationInput{
		AdminID: "admin-1",
		Target:  domain.BlockTargetUser,
	}); err == nil {
		t.Fatalf("expected error for empty target id")
	}
	if len(f.moderation.blockedCalls) != 0 {
		t.Fatalf("expected no SetBlocked call")
	}
}

func TestModerationService_Block_AuditFailurePropagates(t *testing.T) {
	f := newModerationFixture()
	f.moderation.logErr = errors.New("insert failed")

	err := f.svc.Block(context.Background(), ModerationInput{
		AdminID:  "admin-1",
		Target:   domain.BlockTargetUser,
		TargetID: "user-1",
		Reason:   "fraud",
	})
	if err == nil {
		t.Fatalf("expected audit failure to surface")
	}
}

func TestModerationService_BlockIP(t *testing.T) {
	f := newModerationFixture()

	until, err := f.svc.BlockIP(context.Background(), "203.0.113.7", 2*time.Hour, "scraping")
	if err != nil {
		t.Fatalf("BlockIP returned error: %v", err)
	}
	if !until.Equal(f.now.Add(2 * time.Hour)) {
		t.Fatalf("expected expiry at now+2h, got %v", until)
	}

	if len(f.blocklist.upserts) != 1 {
		t.Fatalf("expected one upsert, got %d", len(f.blocklist.upserts))
	}
	if f.blocklist.upserts[0].IP != "203.0.113.7" || f.blocklist.upserts[0].Reason != "scraping" {
		t.Fatalf("unexpected upsert: %+v", f.blocklist.upserts[0])
	}
}

func TestModerationService_BlockIP_DefaultDuration(t *testing.T) {
	f := newModerationFixture()

	until, err := f.svc.BlockIP(context.Background(), "203.0.113.7", 0, "")
	if err != nil {
		t.Fatalf("BlockIP returned error: %v", err)
	}
	if !until.Equal(f.now.Add(45 * time.Minute)) {
		t.Fatalf("expected the configured default duration, got %v", until)
	}
	if !f.blocklist.upserts[0].Until.Equal(until) {
		t.Fatalf("expected the upsert expiry to match")
	}
}

func TestModerationService_BlockIP_RequiresIP(t *testing.T) {
	f := newModerationFixture()

	if _, err := f.svc.BlockIP(context.Background(), "", time.Hour, "x"); err == nil {
		t.Fatalf("expected error for empty ip")
	}
	if len(f.blocklist.upserts) != 0 {
		t.Fatalf("expected no upsert")
	}
}

func TestModerationService_ListUserAlerts(t *testing.T) {
	f := newModerationFixture()
	f.alerts.alerts = []domain.SecurityAlert{
		{ID: "alert-1", UserID: "user-1", Type: domain.AlertAccountLocked, Severity: domain.SeverityHigh},
		{ID: "alert-2", UserID: "user-1", Type: domain.AlertSuspiciousActivity, IsResolved: true},
		{ID: "alert-3", UserID: "user-2", Type: domain.AlertSuspiciousActivity},
	}

	alerts, err := f.svc.ListUserAlerts(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("ListUserAlerts returned error: %v", err)
	}
	if len(alerts) != 1 || alerts[0].ID != "alert-1" {
		t.Fatalf("expected only the open alert for user-1, got %+v", alerts)
	}

	if _, err := f.svc.ListUserAlerts(context.Background(), ""); err == nil {
		t.Fatalf("expected error for empty user id")
	}
}

func TestModerationService_ResolveAlert(t *testing.T) {
	f := newModerationFixture()
	f.alerts.alerts = []domain.SecurityAlert{{ID: "alert-1", UserID: "user-1"}}

	if err := f.svc.ResolveAlert(context.Background(), "alert-1"); err != nil {
		t.Fatalf("ResolveAlert returned error: %v", err)
	}
	if !f.alerts.alerts[0].IsResolved {
		t.Fatalf("expected the alert to be marked resolved")
	}

	if err := f.svc.ResolveAlert(context.Background(), "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown alert, got %v", err)
	}
}
