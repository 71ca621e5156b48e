package flipgraph

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with the field vocabulary runs log with
// (run ids, state file paths), so lines from parallel searches stay
// attributable.
type Logger struct {
	*slog.Logger
}

// NewLogger builds a Logger on top of an arbitrary slog handler. Passing
// nil falls back to info-level text on stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger emits one JSON record per line to stderr, for runs whose
// logs are collected by machines. level is the minimum level kept.
func NewJSONLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NewTextLogger emits human-readable records to stderr at the given
// minimum level.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

// NoopLogger returns a Logger whose output goes nowhere, for runs that
// want the search completely silent.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRun adds a run identifier field to the logger.
func (l *Logger) WithRun(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run", id),
	}
}

// WithFile adds the state file path to the logger.
func (l *Logger) WithFile(path string) *Logger {
	return &Logger{
		Logger: l.Logger.With("file", path),
	}
}
