package handler

import (
	"encoding/json"
	"net/http"

	"github.com/molehunt/molehunt/internal/api/middleware"
	"github.com/molehunt/molehunt/internal/api/request"
	"github.com/molehunt/molehunt/internal/api/response"
	"github.com/molehunt/molehunt/internal/services/auth"
)

// SessionHandler handles the passphrase gate and login endpoints
type SessionHandler struct {
	authService *auth.Service
}

// NewSessionHandler creates a new session handler
func NewSessionHandler(authService *auth.Service) *SessionHandler {
	return &SessionHandler{
		authService: authService,
	}
}

// Passphrase handles POST /api/v1/session/passphrase
func (h *SessionHandler) Passphrase(w http.ResponseWriter, r *http.Request) {
	var req request.PassphraseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	session, err := h.authService.StartSession(req.Passphrase)
	if err != nil {
		WriteError(w, err)
		return
	}

	setSessionCookie(w, session)

	response.JSON(w, http.StatusCreated, response.SessionResponse{
		Accepted:     true,
		SessionToken: session.Token,
	})
}

// Login handles POST /api/v1/session/login
func (h *SessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, NewInvalidRequestError("invalid request body"))
		return
	}

	token := middleware.GetToken(r.Context())
	player, err := h.authService.Login(r.Context(), token, req.Username, req.Password)
	if err != nil {
		WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.LoginResponse{
		Player: response.PlayerFromModel(player),
	})
}

// setSessionCookie attaches a long-lived session cookie so browser
// clients stay authenticated without managing the bearer token.
func setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session",
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
