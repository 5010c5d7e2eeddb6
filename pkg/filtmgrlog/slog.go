// Package filtmgrlog is the manager's structured logging surface.
// spec.md §6 leaves the logging transport out of scope but still requires
// four levels of structured records; this mirrors the richest in-pack
// example's slog wrapper (oriys-nova/internal/logging) rather than
// reaching for a stdlib println.
package filtmgrlog

import (
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	opLogger atomic.Pointer[slog.Logger]
	logLevel = new(slog.LevelVar)
)

func init() {
	logLevel.Set(slog.LevelInfo)
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})
	opLogger.Store(slog.New(handler))
}

// Op returns the manager's operational logger.
func Op() *slog.Logger {
	return opLogger.Load()
}

// SetLevel changes the log level.
func SetLevel(level slog.Level) {
	logLevel.Set(level)
}

// SetLevelFromString sets the log level from a string, ignoring unknown
// values.
func SetLevelFromString(level string) {
	switch level {
	case "debug", "DEBUG":
		logLevel.Set(slog.LevelDebug)
	case "info", "INFO":
		logLevel.Set(slog.LevelInfo)
	case "warn", "WARN", "warning", "WARNING":
		logLevel.Set(slog.LevelWarn)
	case "error", "ERROR":
		logLevel.Set(slog.LevelError)
	}
}
