package storage

import (
	"context"

	"github.com/molehunt/molehunt/internal/model"
)

// Storage defines the interface for game state persistence.
//
// Find and unlock inserts enforce the at-most-one-row-per-pair invariants:
// a duplicate (location, player) pair is rejected with a sentinel error and
// leaves stored state unchanged.
type Storage interface {
	// Player operations
	SavePlayer(ctx context.Context, player *model.Player) error
	GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error)
	GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error)
	// ListPlayers returns all players in a stable registration order
	ListPlayers(ctx context.Context) ([]*model.Player, error)

	// Location catalog operations
	// ReplaceLocations swaps the entire catalog for the given one,
	// regardless of prior contents
	ReplaceLocations(ctx context.Context, locations []*model.Location) error
	GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error)
	// ListLocations returns the catalog in catalog order (ascending ID)
	ListLocations(ctx context.Context) ([]*model.Location, error)

	// Find operations
	// SaveFind records a find; a duplicate pair returns model.ErrAlreadyFound
	SaveFind(ctx context.Context, find *model.Find) error
	ListFindsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Find, error)
	// CountFindsByPlayer returns find counts keyed by player; players
	// with no finds are absent from the map
	CountFindsByPlayer(ctx context.Context) (map[model.PlayerID]int, error)

	// Unlock operations
	// SaveUnlock records an unlock; a duplicate pair returns model.ErrAlreadyUnlocked
	SaveUnlock(ctx context.Context, unlock *model.Unlock) error
	ListUnlocksForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Unlock, error)
}
