package domain

import "time"

// BlacklistedToken denies a token identifier ahead of its natural expiry.
// ExpiresAt mirrors the token's own expiry so the row can be garbage
// collected once the token could no longer verify anyway.
type BlacklistedToken struct {
	ID        string
	UserID    string
	JTI       string
	ExpiresAt time.Time
	Reason    string
	CreatedAt time.Time
}

// Active reports whether the denylist entry still applies at the supplied moment.
func (t BlacklistedToken) Active(at time.Time) bool {
	return t.ExpiresAt.After(at)
}
