// Package logger configures the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

// Init initializes the global logger with JSON output on stderr. Call
// early in main() before any logging occurs. verbose forces debug level
// regardless of LOG_LEVEL.
func Init(verbose bool) {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	}

	// Stdout carries record JSON; logs go to stderr.
	defaultLogger = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(defaultLogger)
}

// InitWriter is Init with an explicit sink, for tests.
func InitWriter(w io.Writer, level slog.Level) {
	defaultLogger = slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(defaultLogger)
}

// parseLevel converts string to slog.Level
func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Default returns the configured default logger
func Default() *slog.Logger {
	if defaultLogger == nil {
		Init(false)
	}
	return defaultLogger
}
