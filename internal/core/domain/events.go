package domain

import "time"

// UserRegisteredEvent is published after a successful registration.
type UserRegisteredEvent struct {
	EventID      string
	UserID       string
	Email        string
	Role         Role
	RegisteredAt time.Time
}

// AccountLockedEvent is published when the lock policy suspends an account.
type AccountLockedEvent struct {
	EventID        string
	UserID         string
	FailedAttempts int
	LockedUntil    time.Time
	IP             string
	OccurredAt     time.Time
}

// EntityBlockedEvent is published for admin block/unblock moderation actions.
type EntityBlockedEvent struct {
	EventID    string
	AdminID    string
	TargetType BlockTarget
	TargetID   string
	Blocked    bool
	Reason     string
	OccurredAt time.Time
}

// SuspiciousLoginEvent is published when the advisory heuristic fires.
type SuspiciousLoginEvent struct {
	EventID     string
	Email       string
	DistinctIPs int
	Attempts    int
	IP          string
	OccurredAt  time.Time
}
