// Package logging provides structured logging using Go's slog package.
// Logs go to stderr; stdout is reserved for the scripts and models the
// commands print.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

// CommandKey is the context key for the name of the running command.
const CommandKey ContextKey = "command"

// Environment variables read by FromEnv.
const (
	EnvLevel  = "DDLKIT_LOG_LEVEL"
	EnvFormat = "DDLKIT_LOG_FORMAT"
)

var defaultLogger *slog.Logger

func init() {
	Init(os.Stderr, LevelInfo, FormatText)
}

// Level represents a log level.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// Format represents a log output format.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

// ParseLevel parses debug, info, warn or error.
func ParseLevel(s string) (Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug, nil
	case "", "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("unknown log level %q", s)
}

// ParseFormat parses text or json.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return FormatText, fmt.Errorf("unknown log format %q", s)
}

// FromEnv returns the level and format set in the environment, falling
// back to info and text.
func FromEnv() (Level, Format, error) {
	level, err := ParseLevel(os.Getenv(EnvLevel))
	if err != nil {
		return LevelInfo, FormatText, err
	}
	format, err := ParseFormat(os.Getenv(EnvFormat))
	if err != nil {
		return LevelInfo, FormatText, err
	}
	return level, format, nil
}

// Init initializes the global logger with the specified level and format.
func Init(w io.Writer, level Level, format Format) {
	var slogLevel slog.Level
	switch level {
	case LevelDebug:
		slogLevel = slog.LevelDebug
	case LevelWarn:
		slogLevel = slog.LevelWarn
	case LevelError:
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey && len(groups) == 0 {
				return slog.String(slog.TimeKey, a.Value.Time().Format(time.RFC3339))
			}
			return a
		},
	}

	var handler slog.Handler
	if format == FormatJSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	defaultLogger = slog.New(handler)
	slog.SetDefault(defaultLogger)
}

// Logger returns the global logger instance.
func Logger() *slog.Logger {
	return defaultLogger
}

// WithCommand adds the command name to the context.
func WithCommand(ctx context.Context, command string) context.Context {
	return context.WithValue(ctx, CommandKey, command)
}

// FromContext returns a logger with context values attached.
func FromContext(ctx context.Context) *slog.Logger {
	logger := defaultLogger
	if command, ok := ctx.Value(CommandKey).(string); ok && command != "" {
		logger = logger.With("command", command)
	}
	return logger
}

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }

// TableSkipped logs a table the reader could not read completely.
func TableSkipped(ctx context.Context, table, operation string, err error) {
	FromContext(ctx).Warn("table_skipped",
		"table", table,
		"operation", operation,
		"error", err.Error(),
	)
}

// StatementFailed logs a statement that failed during execution. code is
// the driver's error code, if it reported one.
func StatementFailed(ctx context.Context, index int, statement, code string, err error) {
	args := []any{"index", index, "statement", statement, "error", err.Error()}
	if code != "" {
		args = append(args, "code", code)
	}
	FromContext(ctx).Error("statement_failed", args...)
}
