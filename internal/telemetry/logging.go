// Package telemetry sets up the process-wide structured logger. Output
// format follows the environment the same way the teacher's
// cmd/oriond/main.go does: JSON in production, human-readable text
// otherwise.
package telemetry

import (
	"log/slog"
	"os"

	"github.com/jordandelbar/detr-mmap/internal/config"
)

// NewLogger builds a slog.Logger for env at the given level and installs
// it as the process default, mirroring cmd/oriond/main.go's
// slog.SetDefault call.
func NewLogger(env config.Environment, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if env == config.Production {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
