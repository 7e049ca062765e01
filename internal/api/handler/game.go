package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/molehunt/molehunt/internal/api/middleware"
	"github.com/molehunt/molehunt/internal/api/request"
	"github.com/molehunt/molehunt/internal/api/response"
	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/services/leaderboard"
	"github.com/molehunt/molehunt/internal/services/progress"
)

// GameHandler handles gameplay endpoints
type GameHandler struct {
	engine      *progress.Engine
	leaderboard *leaderboard.Service
}

// NewGameHandler creates a new game handler
func NewGameHandler(engine *progress.Engine, leaderboard *leaderboard.Service) *GameHandler {
	return &GameHandler{
		engine:      engine,
		leaderboard: leaderboard,
	}
}

// Locations handles GET /api/v1/locations
func (h *GameHandler) Locations(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	view, err := h.engine.GetProgress(r.Context(), player.ID)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.ProgressFromView(view))
}

// Submit handles POST /api/v1/locations/{id}/submit
func (h *GameHandler) Submit(w http.ResponseWriter, r *http.Request) {
	player := middleware.MustGetPlayer(r.Context())

	locationID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		WriteError(w, NewInvalidRequestError("invalid location id"))
		return
	}

	var req request.SubmitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	outcome, err := h.engine.SubmitCode(r.Context(), player.ID, model.LocationID(locationID), req.Code)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SubmitFromOutcome(outcome))
}

// Leaderboard handles GET /api/v1/leaderboard
func (h *GameHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboard.GetLeaderboard(r.Context())
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LeaderboardFromEntries(entries))
}
