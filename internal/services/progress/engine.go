package progress

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/molehunt/molehunt/internal/dependencies/clock"
	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage"
)

// UnlockedLocation describes a location newly revealed by a submission
type UnlockedLocation struct {
	ID   model.LocationID `json:"id"`
	Name string           `json:"name"`
	Clue string           `json:"clue"`
}

// Outcome is the result of a code submission. A wrong code is a normal
// outcome with Found false, not an error.
type Outcome struct {
	Found           bool              `json:"found"`
	LocationID      model.LocationID  `json:"location_id"`
	Name            string            `json:"name,omitempty"`
	Clue            string            `json:"clue"`
	Unlocked        *UnlockedLocation `json:"unlocked,omitempty"`
	LevelFoundCount int               `json:"level_found_count"`
}

// Engine implements the find/unlock progression rules
type Engine struct {
	storage   storage.Storage
	clock     clock.Clock
	logger    *slog.Logger
	threshold int

	mu          sync.Mutex
	playerLocks map[model.PlayerID]*sync.Mutex
}

// NewEngine creates a progress engine. threshold is the number of finds
// within a level that triggers an unlock in the next level.
func NewEngine(storage storage.Storage, clock clock.Clock, threshold int, logger *slog.Logger) *Engine {
	return &Engine{
		storage:     storage,
		clock:       clock,
		logger:      logger.With("component", "progress"),
		threshold:   threshold,
		playerLocks: make(map[model.PlayerID]*sync.Mutex),
	}
}

// SubmitCode checks a submitted code against a location and, when correct,
// records the find and applies the unlock rule. Submissions for the same
// player are serialized so concurrent submits cannot double-trigger an
// unlock.
func (e *Engine) SubmitCode(ctx context.Context, playerID model.PlayerID, locationID model.LocationID, code string) (*Outcome, error) {
	location, err := e.storage.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	// A wrong code is a normal outcome carrying the clue, with no state
	// change.
	if code != location.Code {
		return &Outcome{
			Found:      false,
			LocationID: location.ID,
			Clue:       location.Clue,
		}, nil
	}

	lock := e.lockFor(playerID)
	lock.Lock()
	defer lock.Unlock()

	alreadyFound := false
	err = e.storage.SaveFind(ctx, &model.Find{
		LocationID: locationID,
		PlayerID:   playerID,
		FoundAt:    e.clock.Now(),
	})
	if errors.Is(err, model.ErrAlreadyFound) {
		alreadyFound = true
	} else if err != nil {
		return nil, err
	}

	view, err := e.GetProgress(ctx, playerID)
	if err != nil {
		return nil, err
	}

	levelFoundCount := 0
	for _, lv := range view[location.Level] {
		if lv.Found {
			levelFoundCount++
		}
	}

	outcome := &Outcome{
		Found:           true,
		LocationID:      location.ID,
		Name:            location.Name,
		Clue:            location.Clue,
		LevelFoundCount: levelFoundCount,
	}

	if alreadyFound {
		return outcome, nil
	}

	e.logger.Info("location found",
		"player_id", playerID,
		"location_id", location.ID,
		"level", location.Level,
		"level_found_count", levelFoundCount)

	if levelFoundCount%e.threshold == 0 {
		unlocked, err := e.unlockNext(ctx, playerID, location.Level+1, view)
		if err != nil {
			return nil, err
		}
		outcome.Unlocked = unlocked
	}

	return outcome, nil
}

// GetProgress builds the player's per-level view of the catalog. Level 1
// locations are always unlocked; higher levels reflect stored unlock rows.
// The view is recomputed from storage on every call.
func (e *Engine) GetProgress(ctx context.Context, playerID model.PlayerID) (map[int][]model.LocationView, error) {
	locations, err := e.storage.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	finds, err := e.storage.ListFindsForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	found := make(map[model.LocationID]bool, len(finds))
	for _, f := range finds {
		found[f.LocationID] = true
	}

	unlocks, err := e.storage.ListUnlocksForPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	unlocked := make(map[model.LocationID]bool, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.LocationID] = true
	}

	view := make(map[int][]model.LocationView)
	for _, loc := range locations {
		view[loc.Level] = append(view[loc.Level], model.LocationView{
			ID:       loc.ID,
			Level:    loc.Level,
			Name:     loc.Name,
			Clue:     loc.Clue,
			Found:    found[loc.ID],
			Unlocked: loc.Level == 1 || unlocked[loc.ID],
		})
	}

	return view, nil
}

// unlockNext reveals the first location in the given level that the player
// has neither found nor unlocked, in catalog order. A level with no
// remaining candidates, or no locations at all, is a no-op.
func (e *Engine) unlockNext(ctx context.Context, playerID model.PlayerID, level int, view map[int][]model.LocationView) (*UnlockedLocation, error) {
	for _, candidate := range view[level] {
		if candidate.Found || candidate.Unlocked {
			continue
		}

		err := e.storage.SaveUnlock(ctx, &model.Unlock{
			LocationID: candidate.ID,
			PlayerID:   playerID,
			UnlockedAt: e.clock.Now(),
		})
		if errors.Is(err, model.ErrAlreadyUnlocked) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}

		e.logger.Info("location unlocked",
			"player_id", playerID,
			"location_id", candidate.ID,
			"level", level)

		return &UnlockedLocation{
			ID:   candidate.ID,
			Name: candidate.Name,
			Clue: candidate.Clue,
		}, nil
	}

	return nil, nil
}

func (e *Engine) lockFor(playerID model.PlayerID) *sync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()

	lock, ok := e.playerLocks[playerID]
	if !ok {
		lock = &sync.Mutex{}
		e.playerLocks[playerID] = lock
	}
	return lock
}
