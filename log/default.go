package log

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// DefaultContextProvider returns the default context used by context-unaware
// logging functions.
var DefaultContextProvider = context.TODO

var (
	defaultMu  sync.RWMutex
	defaultLog = Make(os.Stderr)
)

// Default returns the package-level logger.
func Default() Logger {
	defaultMu.RLock()
	defer defaultMu.RUnlock()

	return defaultLog
}

// Config updates the package-level logger with the given options.
func Config(opts ...Option) {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	defaultLog = defaultLog.Wrap(opts...)
}

// TraceContext logs a message at Trace level using the package-level logger.
func TraceContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 1, LevelTrace, msg, attrs)
}

// DebugContext logs a message at Debug level using the package-level logger.
func DebugContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 1, LevelDebug, msg, attrs)
}

// Debug logs a message at Debug level using the package-level logger.
func Debug(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 1, LevelDebug, msg, attrs)
}

// InfoContext logs a message at Info level using the package-level logger.
func InfoContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 1, LevelInfo, msg, attrs)
}

// Info logs a message at Info level using the package-level logger.
func Info(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 1, LevelInfo, msg, attrs)
}

// WarnContext logs a message at Warn level using the package-level logger.
func WarnContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 1, LevelWarn, msg, attrs)
}

// Warn logs a message at Warn level using the package-level logger.
func Warn(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 1, LevelWarn, msg, attrs)
}

// ErrorContext logs a message at Error level using the package-level logger.
func ErrorContext(ctx context.Context, msg string, attrs ...slog.Attr) {
	Default().log(ctx, 1, LevelError, msg, attrs)
}

// Error logs a message at Error level using the package-level logger.
func Error(msg string, attrs ...slog.Attr) {
	Default().log(DefaultContextProvider(), 1, LevelError, msg, attrs)
}

// With returns a copy of the package-level logger that includes the given
// attributes in each log message.
func With(attrs ...slog.Attr) Logger {
	return Default().With(attrs...)
}
