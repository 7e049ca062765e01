package testutil

import (
	"io"
	"log/slog"
)

// NopLogger returns a logger that discards all output, for use in tests
func NopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
