// Package log configures the process-wide slog logger.
//
// Everything logs to stderr. Stdout is reserved for the interaction
// loop, which prints the conversation itself (prompts, replies,
// status banners) for the person sitting in front of the robot.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

var setup sync.Once

// Init installs the process logger at the given level and makes it
// the slog default. The level comes from main.log_level in the
// settings file; anything unrecognised falls back to info. Repeat
// calls are no-ops, so a -debug flag that rewrites the settings
// before Init still wins.
func Init(level string) {
	setup.Do(func() {
		opts := &slog.HandlerOptions{Level: parseLevel(level)}

		var h slog.Handler
		if os.Getenv("GO_ENV") == "production" {
			h = slog.NewJSONHandler(os.Stderr, opts)
		} else {
			h = slog.NewTextHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(h))
	})
}

// Component returns a logger tagged with the subsystem name.
// Packages that accept an injected *slog.Logger get one of these.
func Component(name string) *slog.Logger {
	Init("info")
	return slog.Default().With("component", name)
}

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
