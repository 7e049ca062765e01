package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/molehunt/molehunt/internal/dependencies/clock"
	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage"
)

// Errors
var (
	ErrIncorrectPassphrase  = errors.New("incorrect passphrase")
	ErrEmptyCredentials     = errors.New("username and password are required")
	ErrIncorrectCredentials = errors.New("incorrect username or password")
	ErrNeedPassphrase       = errors.New("passphrase required")
	ErrNeedLogin            = errors.New("login required")
)

// Session tracks a browser's progress through the entry gates. The
// passphrase and credentials are revalidated on every authenticated
// request rather than trusted from the time of entry, so changing the
// passphrase or a password takes effect immediately.
type Session struct {
	Token      string
	Passphrase string
	Username   string
	Password   string
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Service handles the passphrase gate, login, and session management
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	logger  *slog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session

	passphrase      string
	sessionDuration time.Duration
}

// Config holds configuration for the auth service
type Config struct {
	Passphrase      string
	SessionDuration time.Duration
}

// DefaultConfig returns default auth configuration
func DefaultConfig() Config {
	return Config{
		SessionDuration: 30 * 24 * time.Hour,
	}
}

// New creates a new AuthService
func New(storage storage.Storage, clock clock.Clock, cfg Config, logger *slog.Logger) *Service {
	if cfg.SessionDuration == 0 {
		cfg.SessionDuration = DefaultConfig().SessionDuration
	}
	return &Service{
		storage:         storage,
		clock:           clock,
		logger:          logger.With("component", "auth"),
		sessions:        make(map[string]*Session),
		passphrase:      cfg.Passphrase,
		sessionDuration: cfg.SessionDuration,
	}
}

// StartSession checks the shared passphrase and opens a new session.
// The passphrase is stored on the session and rechecked on later requests.
func (s *Service) StartSession(passphrase string) (*Session, error) {
	if !s.passphraseMatches(passphrase) {
		return nil, ErrIncorrectPassphrase
	}

	token := s.generateToken("sess_")
	now := s.clock.Now()

	session := &Session{
		Token:      token,
		Passphrase: passphrase,
		CreatedAt:  now,
		ExpiresAt:  now.Add(s.sessionDuration),
	}

	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()

	return session, nil
}

// Login authenticates against a session that has passed the passphrase
// gate. An unknown username registers a new player with the given
// password. A known username must present the matching password.
func (s *Service) Login(ctx context.Context, token, username, password string) (*model.Player, error) {
	session, err := s.sessionForToken(token)
	if err != nil {
		return nil, err
	}
	if !s.passphraseMatches(session.Passphrase) {
		return nil, ErrNeedPassphrase
	}

	if username == "" || password == "" {
		return nil, ErrEmptyCredentials
	}

	player, err := s.storage.GetPlayerByUsername(ctx, username)
	if errors.Is(err, model.ErrPlayerNotFound) {
		player, err = s.register(ctx, username, password)
		if err != nil {
			return nil, err
		}
		s.logger.Info("registered new player", "username", username, "player_id", player.ID)
	} else if err != nil {
		return nil, err
	} else {
		if bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)) != nil {
			return nil, ErrIncorrectCredentials
		}
	}

	s.mu.Lock()
	session.Username = username
	session.Password = password
	s.mu.Unlock()

	return player, nil
}

// Authenticate resolves a token to its player, rechecking the passphrase
// and credentials. Sessions that have passed only the passphrase gate
// return ErrNeedLogin. Valid sessions have their expiry extended.
func (s *Service) Authenticate(ctx context.Context, token string) (*model.Player, error) {
	session, err := s.sessionForToken(token)
	if err != nil {
		return nil, err
	}
	if !s.passphraseMatches(session.Passphrase) {
		return nil, ErrNeedPassphrase
	}

	s.mu.RLock()
	username, password := session.Username, session.Password
	s.mu.RUnlock()

	if username == "" || password == "" {
		return nil, ErrNeedLogin
	}

	player, err := s.storage.GetPlayerByUsername(ctx, username)
	if errors.Is(err, model.ErrPlayerNotFound) {
		return nil, ErrNeedLogin
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(player.PasswordHash), []byte(password)) != nil {
		return nil, ErrNeedLogin
	}

	s.mu.Lock()
	session.ExpiresAt = s.clock.Now().Add(s.sessionDuration)
	s.mu.Unlock()

	return player, nil
}

// RequirePassphrase verifies that a token belongs to a session that has
// passed the passphrase gate, without requiring a login.
func (s *Service) RequirePassphrase(token string) error {
	session, err := s.sessionForToken(token)
	if err != nil {
		return err
	}
	if !s.passphraseMatches(session.Passphrase) {
		return ErrNeedPassphrase
	}
	return nil
}

// InvalidateSession removes a session
func (s *Service) InvalidateSession(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// CleanExpiredSessions removes expired sessions (call periodically)
func (s *Service) CleanExpiredSessions() {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, session := range s.sessions {
		if now.After(session.ExpiresAt) {
			delete(s.sessions, token)
		}
	}
}

func (s *Service) register(ctx context.Context, username, password string) (*model.Player, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	player := &model.Player{
		ID:           model.PlayerID(s.generateToken("m_")),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.clock.Now(),
	}

	if err := s.storage.SavePlayer(ctx, player); err != nil {
		return nil, err
	}
	return player, nil
}

func (s *Service) sessionForToken(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNeedPassphrase
	}

	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNeedPassphrase
	}

	if s.clock.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, ErrNeedPassphrase
	}

	return session, nil
}

func (s *Service) passphraseMatches(candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(candidate), []byte(s.passphrase)) == 1
}

// generateToken generates a random token with a prefix
func (s *Service) generateToken(prefix string) string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return prefix + base64.RawURLEncoding.EncodeToString(b)
}
