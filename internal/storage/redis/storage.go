package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	exists, err := s.client.Exists(ctx, playerKey(player.ID)).Result()
	if err != nil {
		return err
	}

	// Pipeline the record, the username index and (for new players) the
	// registration-order index together
	pipe := s.client.Pipeline()
	pipe.Set(ctx, playerKey(player.ID), data, 0)
	pipe.Set(ctx, usernameIndexKey(player.Username), string(player.ID), 0)
	if exists == 0 {
		pipe.RPush(ctx, playersIndexKey(), string(player.ID))
	}
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	playerIDStr, err := s.client.Get(ctx, usernameIndexKey(username)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	return s.GetPlayer(ctx, model.PlayerID(playerIDStr))
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	ids, err := s.client.LRange(ctx, playersIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	players := make([]*model.Player, 0, len(ids))
	for _, id := range ids {
		player, err := s.GetPlayer(ctx, model.PlayerID(id))
		if err != nil {
			if errors.Is(err, model.ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		players = append(players, player)
	}
	return players, nil
}

// Location catalog operations

func (s *Storage) ReplaceLocations(ctx context.Context, locations []*model.Location) error {
	data, err := json.Marshal(locations)
	if err != nil {
		return err
	}

	// The whole catalog lives under one key, so replace-all is one SET
	return s.client.Set(ctx, catalogKey(), data, 0).Err()
}

func (s *Storage) GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error) {
	locations, err := s.ListLocations(ctx)
	if err != nil {
		return nil, err
	}

	for _, loc := range locations {
		if loc.ID == id {
			return loc, nil
		}
	}
	return nil, model.ErrLocationNotFound
}

func (s *Storage) ListLocations(ctx context.Context) ([]*model.Location, error) {
	data, err := s.client.Get(ctx, catalogKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []*model.Location{}, nil
		}
		return nil, err
	}

	var locations []*model.Location
	if err := json.Unmarshal(data, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

// Find operations

func (s *Storage) SaveFind(ctx context.Context, find *model.Find) error {
	data, err := json.Marshal(find)
	if err != nil {
		return err
	}

	// HSetNX upholds the at-most-one-find-per-pair invariant atomically
	set, err := s.client.HSetNX(ctx, findsKey(find.PlayerID), locationField(find.LocationID), data).Result()
	if err != nil {
		return err
	}
	if !set {
		return model.ErrAlreadyFound
	}
	return nil
}

func (s *Storage) ListFindsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Find, error) {
	values, err := s.client.HVals(ctx, findsKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	finds := make([]*model.Find, 0, len(values))
	for _, val := range values {
		var find model.Find
		if err := json.Unmarshal([]byte(val), &find); err != nil {
			return nil, err
		}
		finds = append(finds, &find)
	}
	return finds, nil
}

func (s *Storage) CountFindsByPlayer(ctx context.Context) (map[model.PlayerID]int, error) {
	ids, err := s.client.LRange(ctx, playersIndexKey(), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	pipe := s.client.Pipeline()
	cmds := make(map[model.PlayerID]*redis.IntCmd, len(ids))
	for _, id := range ids {
		cmds[model.PlayerID(id)] = pipe.HLen(ctx, findsKey(model.PlayerID(id)))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, err
	}

	counts := make(map[model.PlayerID]int)
	for id, cmd := range cmds {
		if n := cmd.Val(); n > 0 {
			counts[id] = int(n)
		}
	}
	return counts, nil
}

// Unlock operations

func (s *Storage) SaveUnlock(ctx context.Context, unlock *model.Unlock) error {
	data, err := json.Marshal(unlock)
	if err != nil {
		return err
	}

	set, err := s.client.HSetNX(ctx, unlocksKey(unlock.PlayerID), locationField(unlock.LocationID), data).Result()
	if err != nil {
		return err
	}
	if !set {
		return model.ErrAlreadyUnlocked
	}
	return nil
}

func (s *Storage) ListUnlocksForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Unlock, error) {
	values, err := s.client.HVals(ctx, unlocksKey(playerID)).Result()
	if err != nil {
		return nil, err
	}

	unlocks := make([]*model.Unlock, 0, len(values))
	for _, val := range values {
		var unlock model.Unlock
		if err := json.Unmarshal([]byte(val), &unlock); err != nil {
			return nil, err
		}
		unlocks = append(unlocks, &unlock)
	}
	return unlocks, nil
}

// locationField renders a location ID as a hash field name
func locationField(id model.LocationID) string {
	return strconv.FormatInt(int64(id), 10)
}
