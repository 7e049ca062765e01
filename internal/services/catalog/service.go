package catalog

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/molehunt/molehunt/internal/model"
	"github.com/molehunt/molehunt/internal/storage"
)

// Service manages the location catalog
type Service struct {
	storage storage.Storage
	logger  *slog.Logger
}

// New creates a new CatalogService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		logger:  logger.With("component", "catalog"),
	}
}

// LoadFromFile reads a tab-separated location file and replaces the catalog.
// The first row is a header and is skipped. Each subsequent row is
// level, name, clue, code. Locations are assigned sequential IDs starting
// from 1, in file order.
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open locations file: %w", err)
	}
	defer func() { _ = f.Close() }()

	locations, err := parseLocations(f)
	if err != nil {
		return fmt.Errorf("parse locations file %s: %w", path, err)
	}

	if err := s.storage.ReplaceLocations(ctx, locations); err != nil {
		return fmt.Errorf("store catalog: %w", err)
	}

	s.logger.Info("loaded location catalog", "path", path, "count", len(locations))
	return nil
}

// LoadLocations replaces the catalog with the given locations directly
func (s *Service) LoadLocations(ctx context.Context, locations []*model.Location) error {
	return s.storage.ReplaceLocations(ctx, locations)
}

// GetLocation returns a single location by ID
func (s *Service) GetLocation(ctx context.Context, id model.LocationID) (*model.Location, error) {
	return s.storage.GetLocation(ctx, id)
}

// ListLocations returns the full catalog in ID order
func (s *Service) ListLocations(ctx context.Context) ([]*model.Location, error) {
	return s.storage.ListLocations(ctx)
}

func parseLocations(r io.Reader) ([]*model.Location, error) {
	reader := csv.NewReader(r)
	reader.Comma = '\t'
	reader.FieldsPerRecord = 4

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}

	// Skip the header row
	records = records[1:]

	locations := make([]*model.Location, 0, len(records))
	for i, record := range records {
		level, err := strconv.Atoi(record[0])
		if err != nil {
			return nil, fmt.Errorf("row %d: invalid level %q", i+2, record[0])
		}
		if level < 1 {
			return nil, fmt.Errorf("row %d: level must be at least 1", i+2)
		}
		locations = append(locations, &model.Location{
			ID:    model.LocationID(i + 1),
			Level: level,
			Name:  record[1],
			Clue:  record[2],
			Code:  record[3],
		})
	}

	return locations, nil
}
