package domain

import "time"

// ActivityType enumerates the kinds of entries recorded in the login activity ledger.
type ActivityType string

const (
	ActivityLogin                ActivityType = "login"
	ActivityFailedLogin          ActivityType = "failed_login"
	ActivityLogout               ActivityType = "logout"
	ActivityAccountLocked        ActivityType = "account_locked"
	ActivityAccountUnlocked      ActivityType = "account_unlocked"
	ActivityPasswordResetRequest ActivityType = "password_reset_request"
)

// LoginActivity is one append-only row in the attempt ledger. UserID is nil
// when the attempt referenced an email no account owns.
type LoginActivity struct {
	ID          string
	UserID      *string
	Email       string
	IP          string
	UserAgent   string
	Type        ActivityType
	Description string
	OccurredAt  time.Time
}
