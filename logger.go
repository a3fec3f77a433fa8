package stabgo

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with table-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithTable adds a table name field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// LogResolve logs the resolution of a table name to a file.
func (l *Logger) LogResolve(ctx context.Context, name, path string, err error) {
	if err != nil {
		l.WarnContext(ctx, "table resolution failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "table resolved",
			"name", name,
			"path", path,
		)
	}
}

// LogOpen logs an open operation. Malformed or mismatching files are
// reported at error level together with their path.
func (l *Logger) LogOpen(ctx context.Context, name, path string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "table open failed",
			"name", name,
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "table opened",
			"name", name,
			"path", path,
		)
	}
}

// LogClose logs the release of a table.
func (l *Logger) LogClose(ctx context.Context, name, path string, err error) {
	if err != nil {
		l.WarnContext(ctx, "table close failed",
			"name", name,
			"path", path,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "table closed",
			"name", name,
			"path", path,
		)
	}
}

// LogDistribution logs the construction of a cumulative distribution.
func (l *Logger) LogDistribution(ctx context.Context, name string, bins int, err error) {
	if err != nil {
		l.WarnContext(ctx, "distribution failed",
			"name", name,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "distribution built",
			"name", name,
			"bins", bins,
		)
	}
}
