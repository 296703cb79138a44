// Package logging provides structured logging infrastructure for Mewo.
package logging

import (
	"io"
	"log/slog"
	"os"

	"github.com/SirPigari/mewo/internal/config"
)

// newHandler builds a slog.Handler for the requested format.
func newHandler(format config.LogFormat, w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	switch format {
	case config.LogFormatJSON:
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// New creates the logger for an ordinary invocation: only warnings and
// above, using the configured format.
func New(cfg *config.Config) *slog.Logger {
	return slog.New(newHandler(cfg.Logging.Format, os.Stderr, slog.LevelWarn))
}

// NewDebug creates the logger used under -d/--debug: every parse,
// interpolation, and execution step is traced at Debug level.
func NewDebug(cfg *config.Config) *slog.Logger {
	return slog.New(newHandler(cfg.Logging.Format, os.Stderr, slog.LevelDebug))
}

// NewDefault creates a default logger writing text to stderr, for callers
// that have not loaded a Config yet.
func NewDefault() *slog.Logger {
	return slog.New(newHandler(config.LogFormatText, os.Stderr, slog.LevelWarn))
}

// NewForTest creates a silent logger for tests.
func NewForTest() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// WithLine returns a logger annotated with the current Mewofile line.
func WithLine(logger *slog.Logger, line int) *slog.Logger {
	return logger.With("line", line)
}
