package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/molehunt/molehunt/internal/api/handler"
	"github.com/molehunt/molehunt/internal/api/middleware"
	"github.com/molehunt/molehunt/internal/services/auth"
	"github.com/molehunt/molehunt/internal/services/leaderboard"
	"github.com/molehunt/molehunt/internal/services/progress"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger             *slog.Logger
	AuthService        *auth.Service
	ProgressEngine     *progress.Engine
	LeaderboardService *leaderboard.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	// Create handlers
	sessionHandler := handler.NewSessionHandler(cfg.AuthService)
	gameHandler := handler.NewGameHandler(cfg.ProgressEngine, cfg.LeaderboardService)

	// Create middleware
	passphraseMiddleware := middleware.Passphrase(cfg.AuthService)
	authMiddleware := middleware.Auth(cfg.AuthService)
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)

	// The passphrase endpoint is the only route open to anyone
	api.HandleFunc("/session/passphrase", sessionHandler.Passphrase).Methods(http.MethodPost)

	// Login requires a session that has passed the passphrase gate
	login := api.PathPrefix("/session").Subrouter()
	login.Use(passphraseMiddleware)
	login.HandleFunc("/login", sessionHandler.Login).Methods(http.MethodPost)

	// Gameplay routes require a fully logged-in session
	game := api.NewRoute().Subrouter()
	game.Use(authMiddleware)
	game.HandleFunc("/locations", gameHandler.Locations).Methods(http.MethodGet)
	game.HandleFunc("/locations/{id}/submit", gameHandler.Submit).Methods(http.MethodPost)
	game.HandleFunc("/leaderboard", gameHandler.Leaderboard).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
