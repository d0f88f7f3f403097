// Package logger builds the zerolog logger used across extracto and carries it
// through command contexts.
package logger

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ContextKey is the type for context keys used by the logger
type ContextKey string

const (
	// LoggerKey is the context key for the logger instance
	LoggerKey ContextKey = "logger"
)

// New creates a console logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        w,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

// NewWithWriter creates a JSON logger with a custom writer
func NewWithWriter(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(level).With().Timestamp().Logger()
}

// Log output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Build creates a logger in the named format. Empty means console.
func Build(w io.Writer, format string, level zerolog.Level) (zerolog.Logger, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatConsole:
		return New(w, level), nil
	case FormatJSON:
		return NewWithWriter(w, level), nil
	}
	return zerolog.Nop(), fmt.Errorf("invalid log format %q (want console or json)", format)
}

// ParseLevel maps a config level name to a zerolog level. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return lvl, nil
}

// WithContext adds the logger to the context
func WithContext(ctx context.Context, logger zerolog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from the context or returns a stderr
// logger at warn level.
func FromContext(ctx context.Context) zerolog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(LoggerKey).(zerolog.Logger); ok {
			return logger
		}
	}
	return New(os.Stderr, zerolog.WarnLevel)
}
