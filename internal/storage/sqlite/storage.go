package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage"
)

// schema mirrors the hunt's original table layout. The UNIQUE constraints on
// finds and unlocked enforce the at-most-one-row-per-pair invariants at the
// database level.
const schema = `
CREATE TABLE IF NOT EXISTS players (
	id TEXT PRIMARY KEY,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY,
	level INTEGER NOT NULL,
	name TEXT NOT NULL,
	clue TEXT NOT NULL,
	code TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS finds (
	location_id INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	found_at INTEGER NOT NULL,
	UNIQUE (location_id, player_id)
);

CREATE TABLE IF NOT EXISTS unlocked (
	location_id INTEGER NOT NULL,
	player_id TEXT NOT NULL,
	unlocked_at INTEGER NOT NULL,
	UNIQUE (location_id, player_id)
);
`

// Storage is a SQLite-backed implementation of the storage interface.
// A single database file holds the catalog and all progress state so finds
// and unlocks share the same visibility boundary.
type Storage struct {
	db *sql.DB
}

// Open opens a SQLite storage at the given path and applies the schema.
func Open(path string) (*Storage, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close releases the underlying database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// toMillis normalizes timestamps into millisecond precision for storage
func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

// fromMillis restores millisecond precision and keeps UTC normalization
func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Player operations

func (s *Storage) SavePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO players (id, username, password_hash, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			password_hash = excluded.password_hash`,
		string(player.ID), player.Username, player.PasswordHash, toMillis(player.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("save player: %w", err)
	}
	return nil
}

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM players WHERE id = ?`, string(id))
	return scanPlayer(row)
}

func (s *Storage) GetPlayerByUsername(ctx context.Context, username string) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM players WHERE username = ?`, username)
	return scanPlayer(row)
}

func (s *Storage) ListPlayers(ctx context.Context) ([]*model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, password_hash, created_at
		FROM players ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var players []*model.Player
	for rows.Next() {
		player, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPlayer(row rowScanner) (*model.Player, error) {
	var player model.Player
	var id string
	var createdAt int64
	err := row.Scan(&id, &player.Username, &player.PasswordHash, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan player: %w", err)
	}
	player.ID = model.PlayerID(id)
	player.CreatedAt = fromMillis(createdAt)
	return &player, nil
}

// Location catalog operations

func (s *Storage) ReplaceLocations(ctx context.Context, locations []*model.Location) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin catalog replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM locations`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	for _, loc := range locations {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO locations (id, level, name, clue, code)
			VALUES (?, ?, ?, ?, ?)`,
			int64(loc.ID), loc.Level, loc.Name, loc.Clue, loc.Code,
		)
		if err != nil {
			return fmt.Errorf("insert location %d: %w", loc.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Storage) GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, level, name, clue, code
		FROM locations WHERE id = ?`, int64(id))

	var loc model.Location
	var locID int64
	err := row.Scan(&locID, &loc.Level, &loc.Name, &loc.Clue, &loc.Code)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan location: %w", err)
	}
	loc.ID = model.LocationID(locID)
	return &loc, nil
}

func (s *Storage) ListLocations(ctx context.Context) ([]*model.Location, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, level, name, clue, code
		FROM locations ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var locations []*model.Location
	for rows.Next() {
		var loc model.Location
		var locID int64
		if err := rows.Scan(&locID, &loc.Level, &loc.Name, &loc.Clue, &loc.Code); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		loc.ID = model.LocationID(locID)
		locations = append(locations, &loc)
	}
	return locations, rows.Err()
}

// Find operations

func (s *Storage) SaveFind(ctx context.Context, find *model.Find) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO finds (location_id, player_id, found_at)
		VALUES (?, ?, ?)`,
		int64(find.LocationID), string(find.PlayerID), toMillis(find.FoundAt),
	)
	if err != nil {
		return fmt.Errorf("save find: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save find: %w", err)
	}
	if affected == 0 {
		return model.ErrAlreadyFound
	}
	return nil
}

func (s *Storage) ListFindsForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Find, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location_id, player_id, found_at
		FROM finds WHERE player_id = ?`, string(playerID))
	if err != nil {
		return nil, fmt.Errorf("list finds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var finds []*model.Find
	for rows.Next() {
		var find model.Find
		var locID int64
		var pid string
		var foundAt int64
		if err := rows.Scan(&locID, &pid, &foundAt); err != nil {
			return nil, fmt.Errorf("scan find: %w", err)
		}
		find.LocationID = model.LocationID(locID)
		find.PlayerID = model.PlayerID(pid)
		find.FoundAt = fromMillis(foundAt)
		finds = append(finds, &find)
	}
	return finds, rows.Err()
}

func (s *Storage) CountFindsByPlayer(ctx context.Context) (map[model.PlayerID]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT player_id, COUNT(*)
		FROM finds GROUP BY player_id`)
	if err != nil {
		return nil, fmt.Errorf("count finds: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[model.PlayerID]int)
	for rows.Next() {
		var pid string
		var count int
		if err := rows.Scan(&pid, &count); err != nil {
			return nil, fmt.Errorf("scan find count: %w", err)
		}
		counts[model.PlayerID(pid)] = count
	}
	return counts, rows.Err()
}

// Unlock operations

func (s *Storage) SaveUnlock(ctx context.Context, unlock *model.Unlock) error {
	res, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO unlocked (location_id, player_id, unlocked_at)
		VALUES (?, ?, ?)`,
		int64(unlock.LocationID), string(unlock.PlayerID), toMillis(unlock.UnlockedAt),
	)
	if err != nil {
		return fmt.Errorf("save unlock: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save unlock: %w", err)
	}
	if affected == 0 {
		return model.ErrAlreadyUnlocked
	}
	return nil
}

func (s *Storage) ListUnlocksForPlayer(ctx context.Context, playerID model.PlayerID) ([]*model.Unlock, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT location_id, player_id, unlocked_at
		FROM unlocked WHERE player_id = ?`, string(playerID))
	if err != nil {
		return nil, fmt.Errorf("list unlocks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var unlocks []*model.Unlock
	for rows.Next() {
		var unlock model.Unlock
		var locID int64
		var pid string
		var unlockedAt int64
		if err := rows.Scan(&locID, &pid, &unlockedAt); err != nil {
			return nil, fmt.Errorf("scan unlock: %w", err)
		}
		unlock.LocationID = model.LocationID(locID)
		unlock.PlayerID = model.PlayerID(pid)
		unlock.UnlockedAt = fromMillis(unlockedAt)
		unlocks = append(unlocks, &unlock)
	}
	return unlocks, rows.Err()
}
