// Package logging configures structured logging for the server.
//
// Usage:
//
//	logger := logging.New(logging.Options{Level: "debug"})
//	slog.SetDefault(logger)
//
// The default format is colored text via tint. Format "json" switches to
// slog's JSON handler for log shipping.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options selects the handler.
type Options struct {
	// Level is one of debug, info, warn, error (default: info).
	Level string
	// Format is "text" (default) or "json".
	Format string
	// Output defaults to os.Stderr.
	Output io.Writer
}

// New builds a logger for opts.
func New(opts Options) *slog.Logger {
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	level := ParseLevel(opts.Level)

	if strings.EqualFold(opts.Format, "json") {
		return slog.New(slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		}))
	}
	return slog.New(tint.NewHandler(out, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
		AddSource:  true,
	}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
