package domain

import "time"

// Role enumerates the closed set of account roles on the marketplace.
type Role string

const (
	RoleUser    Role = "user"
	RoleBuilder Role = "builder"
	RoleAgent   Role = "agent"
	RoleAdmin   Role = "admin"
)

// Valid reports whether the role belongs to the closed set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleBuilder, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// Registerable reports whether the role may be chosen at self-registration.
// Admin accounts are provisioned out of band, never through the public API.
func (r Role) Registerable() bool {
	switch r {
	case RoleUser, RoleBuilder, RoleAgent:
		return true
	}
	return false
}

// User mirrors the persisted representation in the users table.
type User struct {
	ID              string
	Name            string
	Email           string
	Phone           *string
	PasswordHash    string
	Role            Role
	IsBlocked       bool
	LockedUntil     *time.Time
	EmailVerifiedAt *time.Time
	RegisteredAt    time.Time
	LastLogin       *time.Time
}

// IsLocked reports whether the account lockout is still in effect at the supplied moment.
func (u User) IsLocked(at time.Time) bool {
	return u.LockedUntil != nil && u.LockedUntil.After(at)
}
