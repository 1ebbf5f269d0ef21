package security

import (
	"errors"
	"testing"
	"time"

	"github.com/arklim/estate-platform-auth/internal/core/domain"
)

func newTestTokenManager(t *testing.T) *TokenManager {
	t.Helper()

	manager, err := NewTokenManager("test-secret", "estate-auth-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}
	return manager
}

func TestNewTokenManager_MissingSecret(t *testing.T) {
	if _, err := NewTokenManager("", "issuer", time.Hour); err == nil {
		t.Fatalf("expected error for missing secret")
	}
	if _, err := NewTokenManager("   ", "issuer", time.Hour); err == nil {
		t.Fatalf("expected error for blank secret")
	}
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	manager := newTestTokenManager(t)

	signed, claims, err := manager.Issue("user-1", domain.RoleAgent)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	if claims.ID == "" {
		t.Fatalf("expected a jti to be set")
	}

	parsed, err := manager.Parse(signed)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if parsed.UserID != "user-1" {
		t.Fatalf("expected user id user-1, got %s", parsed.UserID)
	}
	if parsed.Role != domain.RoleAgent {
		t.Fatalf("expected role agent, got %s", parsed.Role)
	}
	if parsed.ID != claims.ID {
		t.Fatalf("expected jti to round-trip")
	}
}

func TestTokenManager_Expired(t *testing.T) {
	issuedAt := time.Now().Add(-48 * time.Hour)
	manager := newTestTokenManager(t).WithClock(func() time.Time { return issuedAt })

	signed, _, err := manager.Issue("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	manager.WithClock(time.Now)
	if _, err := manager.Parse(signed); !errors.Is(err, ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestTokenManager_WrongSecret(t *testing.T) {
	manager := newTestTokenManager(t)

	signed, _, err := manager.Issue("user-1", domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	other, err := NewTokenManager("different-secret", "estate-auth-test", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager returned error: %v", err)
	}

	if _, err := other.Parse(signed); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenManager_Garbage(t *testing.T) {
	manager := newTestTokenManager(t)

	for _, token := range []string{"", "   ", "not.a.token", "a.b"} {
		if _, err := manager.Parse(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
