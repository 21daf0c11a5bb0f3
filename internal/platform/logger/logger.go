package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. JSON output so log
// aggregation can index fields without parsing.
func New() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

// NewNop returns a logger that discards everything. For tests that need a
// logger but not its output.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
