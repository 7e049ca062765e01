package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/molehunt/molehunt/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

// Player tests

func (s *StorageSuite) TestSaveAndGetPlayer() {
	player := &model.Player{
		ID:           "mole-1",
		Username:     "alice",
		PasswordHash: "hash123",
		CreatedAt:    time.Now(),
	}

	err := s.storage.SavePlayer(s.ctx, player)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetPlayer(s.ctx, "mole-1")
	s.Require().NoError(err)
	s.Equal(player.Username, retrieved.Username)
}

func (s *StorageSuite) TestGetPlayerNotFound() {
	_, err := s.storage.GetPlayer(s.ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestGetPlayerByUsername() {
	player := &model.Player{ID: "mole-1", Username: "alice", PasswordHash: "h"}
	_ = s.storage.SavePlayer(s.ctx, player)

	retrieved, err := s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("mole-1"), retrieved.ID)

	_, err = s.storage.GetPlayerByUsername(s.ctx, "bob")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *StorageSuite) TestListPlayersPreservesRegistrationOrder() {
	for _, name := range []string{"carol", "alice", "bob"} {
		err := s.storage.SavePlayer(s.ctx, &model.Player{
			ID:       model.PlayerID("mole-" + name),
			Username: name,
		})
		s.Require().NoError(err)
	}

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(players, 3)
	s.Equal("carol", players[0].Username)
	s.Equal("alice", players[1].Username)
	s.Equal("bob", players[2].Username)
}

func (s *StorageSuite) TestSavePlayerUpdateDoesNotDuplicate() {
	player := &model.Player{ID: "mole-1", Username: "alice", PasswordHash: "h1"}
	_ = s.storage.SavePlayer(s.ctx, player)

	updated := &model.Player{ID: "mole-1", Username: "alice", PasswordHash: "h2"}
	_ = s.storage.SavePlayer(s.ctx, updated)

	players, err := s.storage.ListPlayers(s.ctx)
	s.Require().NoError(err)
	s.Len(players, 1)
	s.Equal("h2", players[0].PasswordHash)
}

// Catalog tests

func (s *StorageSuite) catalog() []*model.Location {
	return []*model.Location{
		{ID: 1, Level: 1, Name: "Fountain", Clue: "Where water dances", Code: "AQUA"},
		{ID: 2, Level: 1, Name: "Library", Clue: "Silence speaks volumes", Code: "BOOK"},
		{ID: 3, Level: 2, Name: "Clocktower", Clue: "Time flies up here", Code: "TICK"},
	}
}

func (s *StorageSuite) TestReplaceAndListLocations() {
	err := s.storage.ReplaceLocations(s.ctx, s.catalog())
	s.Require().NoError(err)

	locations, err := s.storage.ListLocations(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(locations, 3)
	s.Equal(model.LocationID(1), locations[0].ID)
	s.Equal(model.LocationID(3), locations[2].ID)
}

func (s *StorageSuite) TestReplaceLocationsDiscardsPriorCatalog() {
	_ = s.storage.ReplaceLocations(s.ctx, s.catalog())

	err := s.storage.ReplaceLocations(s.ctx, []*model.Location{
		{ID: 1, Level: 1, Name: "Harbor", Clue: "Ships rest here", Code: "SAIL"},
	})
	s.Require().NoError(err)

	locations, err := s.storage.ListLocations(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(locations, 1)
	s.Equal("Harbor", locations[0].Name)

	_, err = s.storage.GetLocation(s.ctx, 3)
	s.ErrorIs(err, model.ErrLocationNotFound)
}

func (s *StorageSuite) TestGetLocation() {
	_ = s.storage.ReplaceLocations(s.ctx, s.catalog())

	loc, err := s.storage.GetLocation(s.ctx, 2)
	s.Require().NoError(err)
	s.Equal("Library", loc.Name)

	_, err = s.storage.GetLocation(s.ctx, 99)
	s.ErrorIs(err, model.ErrLocationNotFound)
}

// Find tests

func (s *StorageSuite) TestSaveFindRejectsDuplicate() {
	find := &model.Find{LocationID: 1, PlayerID: "mole-1", FoundAt: time.Now()}

	err := s.storage.SaveFind(s.ctx, find)
	s.Require().NoError(err)

	err = s.storage.SaveFind(s.ctx, find)
	s.ErrorIs(err, model.ErrAlreadyFound)

	finds, err := s.storage.ListFindsForPlayer(s.ctx, "mole-1")
	s.Require().NoError(err)
	s.Len(finds, 1)
}

func (s *StorageSuite) TestListFindsForPlayerScopedToPlayer() {
	_ = s.storage.SaveFind(s.ctx, &model.Find{LocationID: 1, PlayerID: "mole-1"})
	_ = s.storage.SaveFind(s.ctx, &model.Find{LocationID: 2, PlayerID: "mole-1"})
	_ = s.storage.SaveFind(s.ctx, &model.Find{LocationID: 1, PlayerID: "mole-2"})

	finds, err := s.storage.ListFindsForPlayer(s.ctx, "mole-1")
	s.Require().NoError(err)
	s.Len(finds, 2)
}

func (s *StorageSuite) TestCountFindsByPlayer() {
	_ = s.storage.SaveFind(s.ctx, &model.Find{LocationID: 1, PlayerID: "mole-1"})
	_ = s.storage.SaveFind(s.ctx, &model.Find{LocationID: 2, PlayerID: "mole-1"})
	_ = s.storage.SaveFind(s.ctx, &model.Find{LocationID: 1, PlayerID: "mole-2"})

	counts, err := s.storage.CountFindsByPlayer(s.ctx)
	s.Require().NoError(err)
	s.Equal(2, counts["mole-1"])
	s.Equal(1, counts["mole-2"])
	s.NotContains(counts, model.PlayerID("mole-3"))
}

// Unlock tests

func (s *StorageSuite) TestSaveUnlockRejectsDuplicate() {
	unlock := &model.Unlock{LocationID: 3, PlayerID: "mole-1", UnlockedAt: time.Now()}

	err := s.storage.SaveUnlock(s.ctx, unlock)
	s.Require().NoError(err)

	err = s.storage.SaveUnlock(s.ctx, unlock)
	s.ErrorIs(err, model.ErrAlreadyUnlocked)

	unlocks, err := s.storage.ListUnlocksForPlayer(s.ctx, "mole-1")
	s.Require().NoError(err)
	s.Len(unlocks, 1)
}

func (s *StorageSuite) TestListUnlocksForPlayerScopedToPlayer() {
	_ = s.storage.SaveUnlock(s.ctx, &model.Unlock{LocationID: 3, PlayerID: "mole-1"})
	_ = s.storage.SaveUnlock(s.ctx, &model.Unlock{LocationID: 3, PlayerID: "mole-2"})

	unlocks, err := s.storage.ListUnlocksForPlayer(s.ctx, "mole-2")
	s.Require().NoError(err)
	s.Require().Len(unlocks, 1)
	s.Equal(model.LocationID(3), unlocks[0].LocationID)
}
