package dynvec

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger is a slog.Logger with helpers that keep container log records
// uniform across Vector and BitVector.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger on handler. A nil handler logs text at Info
// level to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		return NewTextLogger(slog.LevelInfo)
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON records at or above level
// to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return newStderrLogger(slog.NewJSONHandler, level)
}

// NewTextLogger creates a Logger that writes text records at or above level
// to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return newStderrLogger(slog.NewTextHandler, level)
}

func newStderrLogger[H slog.Handler](newHandler func(io.Writer, *slog.HandlerOptions) H, level slog.Level) *Logger {
	return &Logger{Logger: slog.New(newHandler(os.Stderr, &slog.HandlerOptions{Level: level}))}
}

var noopLogger = &Logger{Logger: slog.New(slog.DiscardHandler)}

// NoopLogger returns the shared Logger that discards everything.
func NoopLogger() *Logger {
	return noopLogger
}

// WithName tags every record with a container name.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{Logger: l.With("container", name)}
}

// WithCount tags every record with a count.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{Logger: l.With("count", count)}
}

// LogGrow logs a reallocation to a larger buffer.
func (l *Logger) LogGrow(ctx context.Context, size, oldCap, newCap int) {
	l.DebugContext(ctx, "buffer grown",
		"size", size,
		"old_cap", oldCap,
		"new_cap", newCap,
	)
}

// LogShrink logs a reallocation to a smaller buffer.
func (l *Logger) LogShrink(ctx context.Context, size, oldCap, newCap int) {
	l.DebugContext(ctx, "buffer shrunk",
		"size", size,
		"old_cap", oldCap,
		"new_cap", newCap,
	)
}

// LogAllocFailure logs a failed allocation. The container is unchanged.
func (l *Logger) LogAllocFailure(ctx context.Context, op string, requested int, err error) {
	l.WarnContext(ctx, "allocation failed",
		"op", op,
		"requested", requested,
		"error", err,
	)
}

// LogSnapshot logs a bit snapshot write or read.
func (l *Logger) LogSnapshot(ctx context.Context, op string, bits int, bytes int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed", "op", op, "bits", bits, "bytes", bytes, "error", err)
		return
	}
	l.DebugContext(ctx, "snapshot completed", "op", op, "bits", bits, "bytes", bytes)
}
