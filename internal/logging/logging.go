// Package logging configures the process-wide slog logger. The app
// writes one text stream to stderr; each subsystem (stores, services,
// handlers, websocket hub) tags its records with a component attribute
// via ForComponent so the front-desk log can be filtered per concern.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Setup creates a configured *slog.Logger, sets it as the default, and returns it.
// The level parameter accepts: "debug", "info", "warn", "error" (case-insensitive).
// Defaults to info if the level string is unrecognized.
func Setup(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	})
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ForComponent derives a subsystem logger carrying the component
// attribute every record in the stream is expected to have.
func ForComponent(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}
