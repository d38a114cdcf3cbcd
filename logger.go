package colarray

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with catalog-specific context.
// Field names are kept consistent across operations.
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
	return &Logger{
		Logger: slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
			Level: slog.Level(1000),
		})),
	}
}

// WithTable adds a table field to the logger.
func (l *Logger) WithTable(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("table", name),
	}
}

// WithColumn adds a column field to the logger.
func (l *Logger) WithColumn(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("column", name),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogSave logs a table save.
func (l *Logger) LogSave(ctx context.Context, name string, rows int, size int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "save failed",
			"table", name,
			"rows", rows,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "table saved",
		"table", name,
		"rows", rows,
		"bytes", size,
	)
}

// LogLoad logs a table load.
func (l *Logger) LogLoad(ctx context.Context, name string, rows int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"table", name,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "table loaded",
		"table", name,
		"rows", rows,
	)
}

// LogSearch logs a column search.
func (l *Logger) LogSearch(ctx context.Context, name, column string, row int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"table", name,
			"column", column,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "search completed",
		"table", name,
		"column", column,
		"row", row,
	)
}

// LogDelete logs a table delete.
func (l *Logger) LogDelete(ctx context.Context, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "delete failed",
			"table", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "table deleted",
		"table", name,
	)
}

// LogCommit logs a manifest commit.
func (l *Logger) LogCommit(ctx context.Context, manifest string, tables int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "manifest commit failed",
			"manifest", manifest,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "manifest committed",
		"manifest", manifest,
		"tables", tables,
	)
}
