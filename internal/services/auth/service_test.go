package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/molehunt/molehunt/internal/dependencies/mocks"
	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage/memory"
	"github.com/molehunt/molehunt/internal/testutil"
)

const testPassphrase = "open sesame"

type AuthSuite struct {
	suite.Suite
	storage *memory.Storage
	clock   *mocks.MockClock
	service *Service
	ctx     context.Context
}

func TestAuthSuite(t *testing.T) {
	suite.Run(t, new(AuthSuite))
}

func (s *AuthSuite) SetupTest() {
	s.storage = memory.New()
	s.clock = mocks.NewMockClock(time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC))
	s.service = New(s.storage, s.clock, Config{Passphrase: testPassphrase}, testutil.NopLogger())
	s.ctx = context.Background()
}

// StartSession tests

func (s *AuthSuite) TestStartSession() {
	session, err := s.service.StartSession(testPassphrase)
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.True(session.ExpiresAt.After(s.clock.Now()))
}

func (s *AuthSuite) TestStartSessionWrongPassphrase() {
	_, err := s.service.StartSession("wrong")
	s.ErrorIs(err, ErrIncorrectPassphrase)
}

func (s *AuthSuite) TestStartSessionEmptyPassphrase() {
	_, err := s.service.StartSession("")
	s.ErrorIs(err, ErrIncorrectPassphrase)
}

// Login tests

func (s *AuthSuite) startSession() string {
	session, err := s.service.StartSession(testPassphrase)
	s.Require().NoError(err)
	return session.Token
}

func (s *AuthSuite) TestLoginRegistersUnknownUsername() {
	token := s.startSession()

	player, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)
	s.Equal("alice", player.Username)
	s.NotEmpty(player.ID)
	s.NotEqual("hunter2", player.PasswordHash)

	stored, err := s.storage.GetPlayerByUsername(s.ctx, "alice")
	s.Require().NoError(err)
	s.Equal(player.ID, stored.ID)
}

func (s *AuthSuite) TestLoginExistingPlayerCorrectPassword() {
	token := s.startSession()
	registered, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	other := s.startSession()
	player, err := s.service.Login(s.ctx, other, "alice", "hunter2")
	s.Require().NoError(err)
	s.Equal(registered.ID, player.ID)
}

func (s *AuthSuite) TestLoginExistingPlayerWrongPassword() {
	token := s.startSession()
	_, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	other := s.startSession()
	_, err = s.service.Login(s.ctx, other, "alice", "wrong")
	s.ErrorIs(err, ErrIncorrectCredentials)
}

func (s *AuthSuite) TestLoginEmptyCredentials() {
	token := s.startSession()

	_, err := s.service.Login(s.ctx, token, "", "hunter2")
	s.ErrorIs(err, ErrEmptyCredentials)

	_, err = s.service.Login(s.ctx, token, "alice", "")
	s.ErrorIs(err, ErrEmptyCredentials)
}

func (s *AuthSuite) TestLoginWithoutSession() {
	_, err := s.service.Login(s.ctx, "bogus", "alice", "hunter2")
	s.ErrorIs(err, ErrNeedPassphrase)
}

// Authenticate tests

func (s *AuthSuite) TestAuthenticate() {
	token := s.startSession()
	registered, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	player, err := s.service.Authenticate(s.ctx, token)
	s.Require().NoError(err)
	s.Equal(registered.ID, player.ID)
}

func (s *AuthSuite) TestAuthenticateBeforeLogin() {
	token := s.startSession()

	_, err := s.service.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrNeedLogin)
}

func (s *AuthSuite) TestAuthenticateNoToken() {
	_, err := s.service.Authenticate(s.ctx, "")
	s.ErrorIs(err, ErrNeedPassphrase)
}

func (s *AuthSuite) TestAuthenticateAfterPasswordChange() {
	token := s.startSession()
	player, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	// Swap the stored hash to simulate a password change elsewhere
	player.PasswordHash = "$2a$10$invalidatedinvalidatedinvalidatedinvalid"
	s.Require().NoError(s.storage.SavePlayer(s.ctx, player))

	_, err = s.service.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrNeedLogin)
}

func (s *AuthSuite) TestAuthenticateExpiredSession() {
	token := s.startSession()
	_, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	s.clock.Advance(31 * 24 * time.Hour)

	_, err = s.service.Authenticate(s.ctx, token)
	s.ErrorIs(err, ErrNeedPassphrase)
}

func (s *AuthSuite) TestAuthenticateExtendsExpiry() {
	token := s.startSession()
	_, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	// Touch the session partway through its lifetime, then advance past
	// the original expiry
	s.clock.Advance(20 * 24 * time.Hour)
	_, err = s.service.Authenticate(s.ctx, token)
	s.Require().NoError(err)

	s.clock.Advance(20 * 24 * time.Hour)
	_, err = s.service.Authenticate(s.ctx, token)
	s.NoError(err)
}

// RequirePassphrase tests

func (s *AuthSuite) TestRequirePassphrase() {
	token := s.startSession()
	s.NoError(s.service.RequirePassphrase(token))
	s.ErrorIs(s.service.RequirePassphrase("bogus"), ErrNeedPassphrase)
	s.ErrorIs(s.service.RequirePassphrase(""), ErrNeedPassphrase)
}

// Session management tests

func (s *AuthSuite) TestInvalidateSession() {
	token := s.startSession()
	s.service.InvalidateSession(token)
	s.ErrorIs(s.service.RequirePassphrase(token), ErrNeedPassphrase)
}

func (s *AuthSuite) TestCleanExpiredSessions() {
	expired := s.startSession()
	s.clock.Advance(31 * 24 * time.Hour)
	fresh := s.startSession()

	s.service.CleanExpiredSessions()

	s.ErrorIs(s.service.RequirePassphrase(expired), ErrNeedPassphrase)
	s.NoError(s.service.RequirePassphrase(fresh))
}

func (s *AuthSuite) TestDistinctSessionsAreIndependent() {
	tokenA := s.startSession()
	tokenB := s.startSession()
	s.NotEqual(tokenA, tokenB)

	_, err := s.service.Login(s.ctx, tokenA, "alice", "hunter2")
	s.Require().NoError(err)

	_, err = s.service.Authenticate(s.ctx, tokenB)
	s.ErrorIs(err, ErrNeedLogin)
}

func (s *AuthSuite) TestRegisteredPlayerPersistsAcrossSessionLoss() {
	token := s.startSession()
	registered, err := s.service.Login(s.ctx, token, "alice", "hunter2")
	s.Require().NoError(err)

	s.service.InvalidateSession(token)

	stored, err := s.storage.GetPlayer(s.ctx, registered.ID)
	s.Require().NoError(err)
	s.Equal("alice", stored.Username)

	_, err = s.storage.GetPlayer(s.ctx, "someone-else")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}
