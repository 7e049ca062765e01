package model

import "errors"

// Common errors used across the application
var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")

	// Catalog errors
	ErrLocationNotFound = errors.New("location not found")

	// Progress errors
	ErrAlreadyFound    = errors.New("location already found by player")
	ErrAlreadyUnlocked = errors.New("location already unlocked for player")
)
