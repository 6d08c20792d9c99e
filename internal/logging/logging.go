// Package logging configures the process-wide slog default for the landslide
// dashboard binaries. Both the server and the catalog checker call Setup once
// at startup; everything else logs through slog directly.
package logging

import (
	"fmt"
	"log/slog"
	"os"
)

// Setup installs a JSON handler at the given level. Unrecognized levels fall
// back to info; config validation rejects them before this is reached.
func Setup(level string) {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})

	slog.SetDefault(slog.New(handler))
}

// Fatalf logs at error level and exits. Reserved for startup failures that
// leave the process with nothing to serve (unreadable config, no catalog).
func Fatalf(format string, args ...any) {
	slog.Error(fmt.Sprintf(format, args...))
	os.Exit(1)
}
