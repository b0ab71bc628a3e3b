// Package logging provides structured logging for chartly components.
//
// Built on log/slog: text to stderr by default for CLI compatibility, JSON
// when configured. A zero-value Config gives an Info-level stderr logger.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum level emitted. Default: slog.LevelInfo.
	Level slog.Level

	// Output receives log lines. Default: os.Stderr.
	Output io.Writer

	// Service, when set, is attached to every record as a "service"
	// attribute.
	Service string

	// JSON switches from text to JSON records.
	JSON bool
}

// New builds a logger from the config.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}
	hopts := &slog.HandlerOptions{Level: cfg.Level}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(out, hopts)
	} else {
		handler = slog.NewTextHandler(out, hopts)
	}

	logger := slog.New(handler)
	if cfg.Service != "" {
		logger = logger.With("service", cfg.Service)
	}
	return logger
}

// Default returns the stderr text logger at Info level.
func Default() *slog.Logger {
	return New(Config{})
}

// Discard returns a logger that drops everything. Meant for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
