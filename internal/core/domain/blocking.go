package domain

import (
	"fmt"
	"time"
)

// BlockedIP is a temporarily blocked client address. A row is logically
// expired once blocked_until passes; housekeeping deletion is optional.
type BlockedIP struct {
	IP           string
	BlockedUntil time.Time
	Reason       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the block is still in effect at the supplied moment.
func (b BlockedIP) Active(at time.Time) bool {
	return b.BlockedUntil.After(at)
}

// BlockTarget enumerates the entity kinds an admin may block or unblock.
type BlockTarget string

const (
	BlockTargetUser     BlockTarget = "user"
	BlockTargetBuilder  BlockTarget = "builder"
	BlockTargetAgent    BlockTarget = "agent"
	BlockTargetProperty BlockTarget = "property"
)

// ParseBlockTarget validates an inbound target type string.
func ParseBlockTarget(raw string) (BlockTarget, error) {
	switch BlockTarget(raw) {
	case BlockTargetUser:
		return BlockTargetUser, nil
	case BlockTargetBuilder:
		return BlockTargetBuilder, nil
	case BlockTargetAgent:
		return BlockTargetAgent, nil
	case BlockTargetProperty:
		return BlockTargetProperty, nil
	}
	return "", fmt.Errorf("unknown block target %q", raw)
}

// BlockAction distinguishes audit rows for block and unblock operations.
type BlockAction string

const (
	BlockActionBlock   BlockAction = "block"
	BlockActionUnblock BlockAction = "unblock"
)

// BlockLogEntry is the audit row written for every admin moderation action.
type BlockLogEntry struct {
	ID         string
	AdminID    string
	TargetType BlockTarget
	TargetID   string
	Action     BlockAction
	Reason     *string
	CreatedAt  time.Time
}
