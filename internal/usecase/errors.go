package usecase

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidCredentials indicates the provided email or password are incorrect.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrAccountBlocked indicates the account was blocked by moderation.
	ErrAccountBlocked = errors.New("account is blocked")
	// ErrAccountLocked indicates the account is temporarily locked by the lockout policy.
	ErrAccountLocked = errors.New("account is locked")
	// ErrEmailTaken indicates the email already belongs to an account.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidRole indicates the requested role cannot be chosen at registration.
	ErrInvalidRole = errors.New("role is not registerable")
	// ErrInvalidAccessToken indicates the provided access token is malformed or signature validation failed.
	ErrInvalidAccessToken = errors.New("invalid access token")
	// ErrExpiredAccessToken indicates the provided access token has expired.
	ErrExpiredAccessToken = errors.New("access token expired")
	// ErrTokenRevoked indicates the token was blacklisted ahead of its expiry.
	ErrTokenRevoked = errors.New("token revoked")
)

// AccountLockedError carries the lock expiry alongside the ErrAccountLocked
// sentinel so handlers can tell the caller when to retry.
type AccountLockedError struct {
	Until time.Time
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account is locked until %s", e.Until.UTC().Format(time.RFC3339))
}

func (e *AccountLockedError) Unwrap() error {
	return ErrAccountLocked
}
