package poedata

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/weo-soft/poeData-sub000/cache"
)

// Logger wraps slog.Logger with estimation-specific context.
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

// WithCategory adds a category field to the logger.
func (l *Logger) WithCategory(category string) *Logger {
	return &Logger{
		Logger: l.Logger.With("category", category),
	}
}

// WithMode adds an estimation mode field to the logger.
func (l *Logger) WithMode(mode cache.Mode) *Logger {
	return &Logger{
		Logger: l.Logger.With("mode", mode.String()),
	}
}

// LogEstimate logs an estimation run.
func (l *Logger) LogEstimate(ctx context.Context, category string, mode cache.Mode, duration time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "estimation failed",
			"category", category,
			"mode", mode.String(),
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "estimation completed",
			"category", category,
			"mode", mode.String(),
			"duration", duration,
		)
	}
}

// LogCacheGet logs a cache lookup.
func (l *Logger) LogCacheGet(ctx context.Context, category string, mode cache.Mode, status cache.GetStatus) {
	l.DebugContext(ctx, "cache lookup",
		"category", category,
		"mode", mode.String(),
		"status", status.String(),
	)
}

// LogCachePut logs a cache store attempt.
func (l *Logger) LogCachePut(ctx context.Context, category string, mode cache.Mode, status cache.PutStatus) {
	if status == cache.PutStored {
		l.DebugContext(ctx, "cache store completed",
			"category", category,
			"mode", mode.String(),
		)
	} else {
		l.WarnContext(ctx, "cache store degraded or dropped",
			"category", category,
			"mode", mode.String(),
			"status", status.String(),
		)
	}
}

// LogWarmUp logs a warm-up batch.
func (l *Logger) LogWarmUp(ctx context.Context, requested, failed int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "warm-up failed",
			"requested", requested,
			"failed", failed,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "warm-up completed",
			"requested", requested,
		)
	}
}
