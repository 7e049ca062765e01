package model

import "time"

// PlayerID uniquely identifies a mole across the system
type PlayerID string

// Player is a registered mole. Accounts are created on the first login with
// an unseen username; there is no separate sign-up step and players are
// never deleted.
type Player struct {
	ID           PlayerID
	Username     string // login username (unique, immutable)
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}
