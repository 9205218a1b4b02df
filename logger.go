package tidyse

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with tidyse-specific context.
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
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithVerb adds a verb field to the logger.
func (l *Logger) WithVerb(verb string) *Logger {
	return &Logger{
		Logger: l.Logger.With("verb", verb),
	}
}

// LogFlatten logs a flatten (experiment to long table) operation.
func (l *Logger) LogFlatten(ctx context.Context, samples, features, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "flatten failed",
			"samples", samples,
			"features", features,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "flatten completed",
			"samples", samples,
			"features", features,
			"rows", rows,
		)
	}
}

// LogReconstruct logs a reconstruction attempt. A failed attempt is not an
// error: the caller receives the long table.
func (l *Logger) LogReconstruct(ctx context.Context, rows int, reason error) {
	if reason != nil {
		l.DebugContext(ctx, "reconstruction not possible, returning long table",
			"rows", rows,
			"reason", reason,
		)
	} else {
		l.DebugContext(ctx, "reconstruction completed",
			"rows", rows,
		)
	}
}

// LogVerb logs a verb call. The verb name comes from WithVerb.
func (l *Logger) LogVerb(ctx context.Context, kind Kind, err error) {
	if err != nil {
		l.WarnContext(ctx, "verb failed",
			"input", kind.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "verb completed",
			"input", kind.String(),
		)
	}
}

// LogCollision logs a metadata column renamed because it uses a reserved key name.
func (l *Logger) LogCollision(ctx context.Context, block, column, renamed string) {
	l.WarnContext(ctx, "metadata column uses a reserved key name and was renamed",
		"block", block,
		"column", column,
		"renamed", renamed,
	)
}
