package geoterm

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with geoterm-specific context.
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
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000),
	}))
}

// WithKey adds a document key field.
func (l *Logger) WithKey(key string) *Logger {
	return &Logger{Logger: l.Logger.With("key", key)}
}

// WithSignature adds the level signature field.
func (l *Logger) WithSignature(sig string) *Logger {
	return &Logger{Logger: l.Logger.With("signature", sig)}
}

// LogIndex logs the indexing of one document.
func (l *Logger) LogIndex(ctx context.Context, key string, cells, terms int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "index failed",
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "index completed",
		"key", key,
		"cells", cells,
		"terms", terms,
	)
}

// LogBatchIndex logs a batch indexing operation.
func (l *Logger) LogBatchIndex(ctx context.Context, count, failed int, elapsed time.Duration) {
	if failed > 0 {
		l.WarnContext(ctx, "batch index completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
			"elapsed", elapsed,
		)
		return
	}
	l.InfoContext(ctx, "batch index completed",
		"count", count,
		"elapsed", elapsed,
	)
}

// LogQuery logs a search.
func (l *Logger) LogQuery(ctx context.Context, terms, results int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "query failed",
			"terms", terms,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"terms", terms,
		"results", results,
	)
}

// LogReject logs a polygon refused by the sanity checks.
func (l *Logger) LogReject(ctx context.Context, key string, reason RejectReason, err error) {
	l.WarnContext(ctx, "polygon rejected",
		"key", key,
		"reason", reason.String(),
		"error", err,
	)
}

// LogRemove logs a document removal.
func (l *Logger) LogRemove(ctx context.Context, key string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "remove failed",
			"key", key,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "remove completed", "key", key)
}

// LogSnapshot logs a snapshot save or load.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, bytes int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed",
		"name", name,
		"bytes", bytes,
	)
}
