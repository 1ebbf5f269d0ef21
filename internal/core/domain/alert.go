package domain

import "time"

// AlertSeverity grades security alerts.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertType enumerates the alert categories the auth subsystem raises.
type AlertType string

const (
	AlertAccountLocked      AlertType = "account_locked"
	AlertSuspiciousActivity AlertType = "suspicious_activity"
)

// SecurityAlert records a noteworthy security decision for later review.
// Rows are read-only after creation except for resolution bookkeeping.
type SecurityAlert struct {
	ID         string
	UserID     string
	Type       AlertType
	Severity   AlertSeverity
	Details    map[string]any
	IsResolved bool
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
