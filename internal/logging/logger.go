package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// DebugEnv forces debug level output when set to any non-empty value
const DebugEnv = "TASKFLOW_DEBUG"

// DebugEnabled returns true if debug mode is enabled via TASKFLOW_DEBUG environment variable
func DebugEnabled() bool {
	return os.Getenv(DebugEnv) != ""
}

// Level returns debug when verbose or TASKFLOW_DEBUG is set, info otherwise
func Level(verbose bool) slog.Level {
	if verbose || DebugEnabled() {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

// New builds a logger writing to stderr. format is "json" or "text".
func New(verbose bool, format string) *slog.Logger {
	return NewWithWriter(os.Stderr, verbose, format)
}

// NewWithWriter builds a logger writing to w.
func NewWithWriter(w io.Writer, verbose bool, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: Level(verbose)}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// Discard returns a logger that drops everything, for tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}
