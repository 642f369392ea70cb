// Package logger builds the slog.Logger shared by the CLI, the mock backend
// and the listing components.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New returns a logger writing to stderr. Level is one of debug, info,
// warn/warning or error (default info); format is json or text (default
// text).
func New(level, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, level, format)
}

// NewWithWriter returns a logger writing to w.
func NewWithWriter(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// Nop returns a logger that drops everything.
func Nop() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Component tags l with a component attribute, substituting Nop for nil.
func Component(l *slog.Logger, name string) *slog.Logger {
	if l == nil {
		l = Nop()
	}
	return l.With("component", name)
}

// ParseLevel converts a level string to slog.Level. Unknown values map to
// info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
