// Package logging configures the process-wide slog logger.
package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

var ErrUnknownLevel = errors.New("unknown log level")

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w %q", ErrUnknownLevel, s)
	}
}

// New builds a tint handler writing to w. Color is only worth enabling for
// terminals; log files get plain text.
func New(w io.Writer, level slog.Level, color bool) *slog.Logger {
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: "15:04:05",
		NoColor:    !color,
	}))
}

// Setup installs a logger as the slog default and returns it.
func Setup(w io.Writer, level string, color bool) (*slog.Logger, error) {
	lvl, err := ParseLevel(level)
	logger := New(w, lvl, color)
	slog.SetDefault(logger)
	return logger, err
}

// SetupFile logs to path, for front-ends that own the terminal. The
// returned close function flushes and closes the file.
func SetupFile(path, level string) (*slog.Logger, func() error, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := New(f, lvl, false)
	slog.SetDefault(logger)
	return logger, f.Close, nil
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
