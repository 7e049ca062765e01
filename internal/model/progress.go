package model

import "time"

// Find records that a mole correctly submitted a location's code.
// At most one find exists per (location, player) pair; finds are never
// updated or deleted.
type Find struct {
	LocationID LocationID
	PlayerID   PlayerID
	FoundAt    time.Time
}

// Unlock records that a location became visible/playable for a mole.
// Level-1 locations are implicitly unlocked for everyone and never get a
// row. At most one unlock exists per (location, player) pair.
type Unlock struct {
	LocationID LocationID
	PlayerID   PlayerID
	UnlockedAt time.Time
}

// LocationView is a location annotated with one mole's progress.
// The secret code is deliberately absent.
type LocationView struct {
	ID       LocationID
	Level    int
	Name     string
	Clue     string
	Found    bool
	Unlocked bool
}
