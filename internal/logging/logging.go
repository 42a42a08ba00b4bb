// Package logging provides structured logging setup using log/slog.
//
// Logs always go to stderr; stdout carries only status lines.
package logging

import (
	"io"
	"log/slog"
	"os"
)

// DebugEnv enables debug logging when set to "1".
const DebugEnv = "NETSPEEDBAR_DEBUG"

// Level represents the logging verbosity level.
type Level int

const (
	// LevelInfo is the default logging level for normal operation.
	LevelInfo Level = iota
	// LevelDebug enables verbose debug output.
	LevelDebug
)

// Setup initializes the global slog logger at the given level, writing to stderr.
// Call this once at application startup.
func Setup(level Level) {
	SetupWriter(level, os.Stderr)
}

// SetupWriter initializes the global slog logger writing to w.
func SetupWriter(level Level, w io.Writer) {
	slogLevel := slog.LevelInfo
	if level == LevelDebug {
		slogLevel = slog.LevelDebug
	}

	handler := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(handler))
}

// LevelFromEnv returns LevelDebug when NETSPEEDBAR_DEBUG=1, LevelInfo otherwise.
func LevelFromEnv() Level {
	if os.Getenv(DebugEnv) == "1" {
		return LevelDebug
	}
	return LevelInfo
}

// SetupFromEnv initializes the logger based on environment variables.
func SetupFromEnv() {
	Setup(LevelFromEnv())
}
