package leaderboard

import (
	"context"
	"sort"

	"github.com/molehunt/molehunt/internal/storage"
)

// Entry is one leaderboard row
type Entry struct {
	Username string `json:"username"`
	Finds    int    `json:"finds"`
}

// Service aggregates find counts across players
type Service struct {
	storage storage.Storage
}

// New creates a new LeaderboardService
func New(storage storage.Storage) *Service {
	return &Service{storage: storage}
}

// GetLeaderboard returns every player with their find count, most finds
// first. Players with no finds are included with a count of zero. Ties
// keep storage player order.
func (s *Service) GetLeaderboard(ctx context.Context) ([]Entry, error) {
	players, err := s.storage.ListPlayers(ctx)
	if err != nil {
		return nil, err
	}

	counts, err := s.storage.CountFindsByPlayer(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(players))
	for _, player := range players {
		entries = append(entries, Entry{
			Username: player.Username,
			Finds:    counts[player.ID],
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Finds > entries[j].Finds
	})

	return entries, nil
}
