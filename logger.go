package stdkit

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the slog.Logger a Toolkit logs through. Containers built by a
// Toolkit receive a child logger carrying a container=<kind> attribute, and
// the Log helpers below add size, used_bytes and limit_bytes fields.
type Logger struct {
	*slog.Logger
}

// NewLogger wraps handler. A nil handler logs text at Info level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger logs JSON records at level and above to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger logs key=value records at level and above to stderr.
// Set level to slog.LevelDebug to see container resizes and storage moves.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithContainer adds a container kind field to the logger.
func (l *Logger) WithContainer(kind string) *Logger {
	return &Logger{
		Logger: l.Logger.With("container", kind),
	}
}

// WithCapacity adds a capacity field to the logger.
func (l *Logger) WithCapacity(capacity uint32) *Logger {
	return &Logger{
		Logger: l.Logger.With("capacity", capacity),
	}
}

// LogCreate logs a container construction.
func (l *Logger) LogCreate(ctx context.Context, kind string, size uint32, err error) {
	if err != nil {
		l.ErrorContext(ctx, "create failed",
			"container", kind,
			"size", size,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "create completed",
			"container", kind,
			"size", size,
		)
	}
}

// LogMemoryPressure logs the memory budget state when usage crosses the
// warning threshold.
func (l *Logger) LogMemoryPressure(ctx context.Context, used, limit int64) {
	l.WarnContext(ctx, "memory budget nearly exhausted",
		"used_bytes", used,
		"limit_bytes", limit,
	)
}
