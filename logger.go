package hashgo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with hashgo-specific context.
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

// WithTable adds the table identity field to the logger.
func (l *Logger) WithTable(id uint64) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", id),
	}
}

// WithKeyKind adds the table's key flavor to the logger.
func (l *Logger) WithKeyKind(kind KeyKind) *Logger {
	return &Logger{
		Logger: l.Logger.With("key_kind", kind.String()),
	}
}

// LogSizeAdjusted logs the rounding of a requested table size up to the next
// power of two.
func (l *Logger) LogSizeAdjusted(requested int, buckets uint64) {
	l.Debug("table size adjusted to next power of two",
		"requested", requested,
		"buckets", buckets,
	)
}

// LogGrowFailure logs a failed bucket-array doubling. The table keeps
// working with its current array; only the load-factor target is missed.
func (l *Logger) LogGrowFailure(target uint64, entries uint64) {
	l.Warn("bucket growth failed; table stays on its current array",
		"target_buckets", target,
		"entries", entries,
	)
}

// LogLeakedTable logs a table that was still registered when Shutdown ran.
// warn selects Warn level; otherwise the leak is reported at Debug.
func (l *Logger) LogLeakedTable(id uint64, kind KeyKind, createdAt string, warn bool) {
	args := []any{
		"table", id,
		"key_kind", kind.String(),
		"created_at", createdAt,
	}
	if warn {
		l.Warn("table never destroyed; swept at shutdown", args...)
	} else {
		l.Debug("table never destroyed; swept at shutdown", args...)
	}
}

// LogDestroySkipped logs a Destroy call that failed pre-execution validation
// and was skipped.
func (l *Logger) LogDestroySkipped(err error) {
	l.Error("destroy skipped", "error", err)
}
