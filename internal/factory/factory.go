package factory

import (
	"errors"
	"io"
	"log/slog"

	"github.com/molehunt/molehunt/internal/config"
	"github.com/molehunt/molehunt/internal/dependencies/clock"
	"github.com/molehunt/molehunt/internal/services/auth"
	"github.com/molehunt/molehunt/internal/services/catalog"
	"github.com/molehunt/molehunt/internal/services/leaderboard"
	"github.com/molehunt/molehunt/internal/services/progress"
	"github.com/molehunt/molehunt/internal/storage"
	"github.com/molehunt/molehunt/internal/storage/memory"
	redisstorage "github.com/molehunt/molehunt/internal/storage/redis"
	sqlitestorage "github.com/molehunt/molehunt/internal/storage/sqlite"
)

// Storage type constants
const (
	StorageTypeMemory = "memory"
	StorageTypeRedis  = "redis"
	StorageTypeSqlite = "sqlite"
)

// App contains all wired application components
type App struct {
	// Storage
	Storage storage.Storage

	// External dependencies
	Clock clock.Clock

	// Services
	CatalogService     *catalog.Service
	AuthService        *auth.Service
	ProgressEngine     *progress.Engine
	LeaderboardService *leaderboard.Service
}

// Config holds configuration for the application factory
type Config struct {
	// Game holds the hunt's game configuration
	Game config.Game
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
	// StorageType selects the storage backend ("memory", "redis" or "sqlite")
	// If empty, defaults to "memory"
	StorageType string
	// RedisConfig holds Redis connection settings (required if StorageType is "redis")
	RedisConfig *redisstorage.Config
	// SqlitePath is the database file path (required if StorageType is "sqlite")
	SqlitePath string
}

// New creates a new application with all dependencies wired
func New(cfg Config) (*App, error) {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	// Create storage based on type
	var store storage.Storage
	storageType := cfg.StorageType
	if storageType == "" {
		storageType = StorageTypeMemory
	}

	switch storageType {
	case StorageTypeMemory:
		store = memory.New()
	case StorageTypeRedis:
		if cfg.RedisConfig == nil {
			return nil, errors.New("RedisConfig required when StorageType is redis")
		}
		redisStore, err := redisstorage.New(*cfg.RedisConfig)
		if err != nil {
			return nil, err
		}
		store = redisStore
	case StorageTypeSqlite:
		sqliteStore, err := sqlitestorage.Open(cfg.SqlitePath)
		if err != nil {
			return nil, err
		}
		store = sqliteStore
	default:
		return nil, errors.New("invalid StorageType: must be 'memory', 'redis' or 'sqlite'")
	}

	return newWithDependencies(store, clock.New(), cfg.Game, logger), nil
}

// newWithDependencies creates an App with the given dependencies (useful for testing)
func newWithDependencies(store storage.Storage, clk clock.Clock, game config.Game, logger *slog.Logger) *App {
	if game.NumFoundForUnlock < 1 {
		game.NumFoundForUnlock = config.Default().NumFoundForUnlock
	}

	catalogService := catalog.New(store, logger)
	authService := auth.New(store, clk, auth.Config{Passphrase: game.Passphrase}, logger)
	engine := progress.NewEngine(store, clk, game.NumFoundForUnlock, logger)
	leaderboardService := leaderboard.New(store)

	return &App{
		Storage:            store,
		Clock:              clk,
		CatalogService:     catalogService,
		AuthService:        authService,
		ProgressEngine:     engine,
		LeaderboardService: leaderboardService,
	}
}
