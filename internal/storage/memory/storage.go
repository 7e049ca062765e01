package memory

import (
	"context"
	"sync"

	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage"
)

// Storage is an in-memory implementation of the storage interface
type Storage struct {
	mu sync.RWMutex

	players       map[model.PlayerID]*model.Player
	playerOrder   []model.PlayerID
	usernameIndex map[string]model.PlayerID

	locations     []*model.Location
	locationIndex map[model.LocationID]*model.Location

	finds   map[pairKey]*model.Find
	unlocks map[pairKey]*model.Unlock
}

type pairKey struct {
	locationID model.LocationID
	playerID   model.PlayerID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:       make(map[model.PlayerID]*model.Player),
		usernameIndex: make(map[string]model.PlayerID),
		locationIndex: make(map[model.LocationID]*model.Location),
		finds:         make(map[pairKey]*model.Find),
		unlocks:       make(map[pairKey]*model.Unlock),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.players[player.ID]; !exists {
		s.playerOrder = append(s.playerOrder, player.ID)
	}
	s.players[player.ID] = player
	s.usernameIndex[player.Username] = player.ID
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernameIndex[username]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	return player, nil
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	players := make([]*model.Player, 0, len(s.playerOrder))
	for _, id := range s.playerOrder {
		players = append(players, s.players[id])
	}
	return players, nil
}

// Location catalog operations

func (s *Storage) ReplaceLocations(ctx context.Context, locations []*model.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = make([]*model.Location, len(locations))
	s.locationIndex = make(map[model.LocationID]*model.Location, len(locations))
	for i, loc := range locations {
		s.locations[i] = loc
		s.locationIndex[loc.ID] = loc
	}
	return nil
}

func (s *Storage) GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	loc, ok := s.locationIndex[id]
	if !ok {
		return nil, model.ErrLocationNotFound
	}
	return loc, nil
}

func (s *Storage) ListLocations(ctx context.Context) ([]*model.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	locations := make([]*model.Location, len(s.locations))
	copy(locations, s.locations)
	return locations, nil
}

// Find operations

func (s *Storage) SaveFind(ctx context.Context, find *model.Find) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{locationID: find.LocationID, playerID: find.PlayerID}
	if _, exists := s.finds[key]; exists {
		return model.ErrAlreadyFound
	}
	s.finds[key] = find
	return nil
}

func (s *Storage) ListFindsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Find, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var finds []*model.Find
	for key, find := range s.finds {
		if key.playerID == playerID {
			finds = append(finds, find)
		}
	}
	return finds, nil
}

func (s *Storage) CountFindsByPlayer(ctx context.Context) (map[model.PlayerID]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[model.PlayerID]int)
	for key := range s.finds {
		counts[key.playerID]++
	}
	return counts, nil
}

// Unlock operations

func (s *Storage) SaveUnlock(ctx context.Context, unlock *model.Unlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := pairKey{locationID: unlock.LocationID, playerID: unlock.PlayerID}
	if _, exists := s.unlocks[key]; exists {
		return model.ErrAlreadyUnlocked
	}
	s.unlocks[key] = unlock
	return nil
}

func (s *Storage) ListUnlocksForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Unlock, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var unlocks []*model.Unlock
	for key, unlock := range s.unlocks {
		if key.playerID == playerID {
			unlocks = append(unlocks, unlock)
		}
	}
	return unlocks, nil
}
