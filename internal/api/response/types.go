package response

import (
	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/services/leaderboard"
	"github.com/molehunt/molehunt/internal/services/progress"
)

// Player represents a player in API responses
type Player struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// PlayerFromModel converts a model.Player to a response Player
func PlayerFromModel(p *model.Player) Player {
	return Player{
		ID:       string(p.ID),
		Username: p.Username,
	}
}

// SessionResponse is the response for the passphrase endpoint
type SessionResponse struct {
	Accepted     bool   `json:"accepted"`
	SessionToken string `json:"session_token"`
}

// LoginResponse is the response for the login endpoint
type LoginResponse struct {
	Player Player `json:"player"`
}

// LocationView represents a location as seen by one player. The unlock
// code is never included.
type LocationView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name,omitempty"`
	Clue     string `json:"clue,omitempty"`
	Found    bool   `json:"found"`
	Unlocked bool   `json:"unlocked"`
}

// ProgressResponse is the response for the locations endpoint, keyed by
// level. Locked locations appear with only their ID and flags so players
// can see how much of a level remains hidden.
type ProgressResponse struct {
	Levels map[int][]LocationView `json:"levels"`
}

// ProgressFromView converts the engine's per-level view
func ProgressFromView(view map[int][]model.LocationView) ProgressResponse {
	levels := make(map[int][]LocationView, len(view))
	for level, locations := range view {
		views := make([]LocationView, 0, len(locations))
		for _, loc := range locations {
			lv := LocationView{
				ID:       int64(loc.ID),
				Found:    loc.Found,
				Unlocked: loc.Unlocked,
			}
			if loc.Unlocked {
				lv.Name = loc.Name
				lv.Clue = loc.Clue
			}
			views = append(views, lv)
		}
		levels[level] = views
	}
	return ProgressResponse{Levels: levels}
}

// UnlockedLocation describes a location revealed by a submission
type UnlockedLocation struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Clue string `json:"clue"`
}

// SubmitResponse is the response for the code submission endpoint
type SubmitResponse struct {
	Found           bool              `json:"found"`
	LocationID      int64             `json:"location_id"`
	Name            string            `json:"name,omitempty"`
	Clue            string            `json:"clue"`
	Unlocked        *UnlockedLocation `json:"unlocked,omitempty"`
	LevelFoundCount int               `json:"level_found_count"`
}

// SubmitFromOutcome converts a progress.Outcome
func SubmitFromOutcome(o *progress.Outcome) SubmitResponse {
	resp := SubmitResponse{
		Found:           o.Found,
		LocationID:      int64(o.LocationID),
		Name:            o.Name,
		Clue:            o.Clue,
		LevelFoundCount: o.LevelFoundCount,
	}
	if o.Unlocked != nil {
		resp.Unlocked = &UnlockedLocation{
			ID:   int64(o.Unlocked.ID),
			Name: o.Unlocked.Name,
			Clue: o.Unlocked.Clue,
		}
	}
	return resp
}

// LeaderboardEntry is one leaderboard row in API responses
type LeaderboardEntry struct {
	Username string `json:"username"`
	Finds    int    `json:"finds"`
}

// LeaderboardResponse is the response for the leaderboard endpoint
type LeaderboardResponse struct {
	Entries []LeaderboardEntry `json:"entries"`
}

// LeaderboardFromEntries converts service entries
func LeaderboardFromEntries(entries []leaderboard.Entry) LeaderboardResponse {
	out := make([]LeaderboardEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, LeaderboardEntry{Username: e.Username, Finds: e.Finds})
	}
	return LeaderboardResponse{Entries: out}
}
