package domain

import "time"

// DeviceType classifies the client device derived from its user agent.
type DeviceType string

const (
	DeviceDesktop DeviceType = "desktop"
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
)

// UserSession represents a persisted login session keyed by the token's jti.
type UserSession struct {
	ID           string
	UserID       string
	TokenID      string
	IP           string
	UserAgent    string
	DeviceType   DeviceType
	Browser      string
	OS           string
	IsActive     bool
	CreatedAt    time.Time
	LastActivity time.Time
	ExpiresAt    time.Time
}

// IsLive reports whether the session is usable at the supplied moment.
// Expired rows are dead regardless of the is_active flag.
func (s UserSession) IsLive(at time.Time) bool {
	return s.IsActive && s.ExpiresAt.After(at)
}
