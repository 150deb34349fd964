package sheetmem

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with sheet-specific context.
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
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithSheet adds the sheet id to the logger.
func (l *Logger) WithSheet(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("sheet", id),
	}
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(col int) *Logger {
	return &Logger{
		Logger: l.Logger.With("col", col),
	}
}

// WithRows adds a row range to the logger.
func (l *Logger) WithRows(start, count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("start", start, "count", count),
	}
}

// LogRowEdit logs a row edit fanned out over columns.
func (l *Logger) LogRowEdit(ctx context.Context, op string, start, count, columns int, err error) {
	lg := l.WithRows(start, count)
	if err != nil {
		lg.ErrorContext(ctx, "row edit failed",
			"op", op,
			"error", err,
		)
	} else {
		lg.DebugContext(ctx, "row edit completed",
			"op", op,
			"columns", columns,
		)
	}
}

// LogSweep logs a cell enumeration.
func (l *Logger) LogSweep(ctx context.Context, rows, cells int, elapsed time.Duration) {
	l.DebugContext(ctx, "sweep completed",
		"rows", rows,
		"cells", cells,
		"elapsed", elapsed,
	)
}

// LogMemoryLimit logs a refused allocation in column col.
func (l *Logger) LogMemoryLimit(ctx context.Context, row, col int, need, usage, limit int64) {
	l.WithColumn(col).WarnContext(ctx, "memory limit exceeded",
		"row", row,
		"need", need,
		"usage", usage,
		"limit", limit,
	)
}

// LogSnapshot logs a snapshot write or load.
func (l *Logger) LogSnapshot(ctx context.Context, op string, columns int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot failed",
			"op", op,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "snapshot completed",
			"op", op,
			"columns", columns,
		)
	}
}
