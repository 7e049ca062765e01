package redis

import (
	"fmt"

	"github.com/molehunt/molehunt/internal/model"
)

// Key prefix for all hunt-related data
const keyPrefix = "molehunt"

// playerKey returns the Redis key for a Player
func playerKey(id model.PlayerID) string {
	return fmt.Sprintf("%s:player:%s", keyPrefix, id)
}

// usernameIndexKey returns the Redis key for the username -> player_id index
func usernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}

// playersIndexKey returns the Redis key for the LIST of player IDs in
// registration order
func playersIndexKey() string {
	return fmt.Sprintf("%s:idx:players", keyPrefix)
}

// catalogKey returns the Redis key holding the whole location catalog
func catalogKey() string {
	return fmt.Sprintf("%s:catalog", keyPrefix)
}

// findsKey returns the Redis key for the HASH of a player's finds,
// keyed by location ID
func findsKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:finds:%s", keyPrefix, playerID)
}

// unlocksKey returns the Redis key for the HASH of a player's unlocks,
// keyed by location ID
func unlocksKey(playerID model.PlayerID) string {
	return fmt.Sprintf("%s:unlocked:%s", keyPrefix, playerID)
}
