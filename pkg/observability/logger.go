package observability

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Logger wraps slog so call sites don't depend on handler configuration.
type Logger struct {
	*slog.Logger
}

// NewLogger returns a JSON logger tagged with the component name. JSON is the
// default so log lines stay machine-parseable when the CLI runs headless
// (e.g. `barbearia watch` under a process supervisor).
func NewLogger(component string) *Logger {
	return NewLoggerWithOptions(component, os.Stderr, slog.LevelInfo, false)
}

// NewLoggerWithOptions builds a logger with an explicit sink, level and
// format. Interactive commands use text=true so output stays readable next to
// the rendered UI.
func NewLoggerWithOptions(component string, w io.Writer, level slog.Level, text bool) *Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if text {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return &Logger{slog.New(handler).With("component", component)}
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
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
