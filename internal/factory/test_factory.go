package factory

import (
	"context"
	"time"

	"github.com/molehunt/molehunt/internal/config"
	"github.com/molehunt/molehunt/internal/dependencies/mocks"
	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage/memory"
	"github.com/molehunt/molehunt/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock *mocks.MockClock
}

// NewTestApp creates an App configured for testing with mocked dependencies
func NewTestApp(game config.Game) *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))

	app := newWithDependencies(store, mockClock, game, testutil.NopLogger())

	return &TestApp{
		App:       app,
		MockClock: mockClock,
	}
}

// LoadTestCatalog loads a small two-level catalog for testing
func (t *TestApp) LoadTestCatalog(ctx context.Context) error {
	return t.CatalogService.LoadLocations(ctx, []*model.Location{
		{ID: 1, Level: 1, Name: "Fountain", Clue: "Where water dances", Code: "AQUA"},
		{ID: 2, Level: 1, Name: "Library", Clue: "Silence speaks volumes", Code: "BOOK"},
		{ID: 3, Level: 1, Name: "Market", Clue: "Haggle for it", Code: "COIN"},
		{ID: 4, Level: 2, Name: "Clocktower", Clue: "Time flies up here", Code: "TICK"},
		{ID: 5, Level: 2, Name: "Catacombs", Clue: "Mind your head", Code: "BONE"},
	})
}
