package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/molehunt/molehunt/internal/api"
	"github.com/molehunt/molehunt/internal/config"
	"github.com/molehunt/molehunt/internal/factory"
	redisstorage "github.com/molehunt/molehunt/internal/storage/redis"
)

// environment holds settings that come from the process environment rather
// than the game config file: where the file lives and which backend to use.
type environment struct {
	ConfigPath    string `env:"MOLEHUNT_CONFIG" envDefault:"molehunt.conf"`
	LocationsPath string `env:"MOLEHUNT_LOCATIONS"`
	StorageType   string `env:"MOLEHUNT_STORAGE"`
	RedisURL      string `env:"REDIS_URL"`
	SqlitePath    string `env:"SQLITE_PATH" envDefault:"molehunt.db"`
}

func main() {
	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// Load .env if present, then parse the environment
	_ = godotenv.Load()

	var envCfg environment
	if err := env.Parse(&envCfg); err != nil {
		logger.Error("failed to parse environment", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load game configuration
	game, err := config.Load(envCfg.ConfigPath)
	if err != nil {
		logger.Error("failed to load config",
			slog.String("path", envCfg.ConfigPath),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Build factory config
	cfg := factory.Config{
		Game:        game,
		Logger:      logger,
		StorageType: envCfg.StorageType,
		SqlitePath:  envCfg.SqlitePath,
	}

	// Configure Redis if storage type is redis
	if cfg.StorageType == factory.StorageTypeRedis {
		if envCfg.RedisURL == "" {
			logger.Error("REDIS_URL required when MOLEHUNT_STORAGE=redis")
			os.Exit(1)
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = envCfg.RedisURL
		cfg.RedisConfig = &redisCfg
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Load the location catalog if a file is configured
	if envCfg.LocationsPath != "" {
		if err := app.CatalogService.LoadFromFile(context.Background(), envCfg.LocationsPath); err != nil {
			logger.Error("failed to load locations",
				slog.String("path", envCfg.LocationsPath),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:             logger,
		AuthService:        app.AuthService,
		ProgressEngine:     app.ProgressEngine,
		LeaderboardService: app.LeaderboardService,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Port = game.Port
	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		logger.Info("shutdown signal received")
		cancel()
	}()

	// Start server in goroutine
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("base_url", game.BaseURL))

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}
