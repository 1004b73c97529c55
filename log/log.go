// Package log provides structured logging for the rollup core. It wraps
// zap's sugared logger with per-module child loggers so every component
// tags its records the same way.
package log

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger with the module conventions used across
// the repository.
type Logger struct {
	inner *zap.SugaredLogger
}

// defaultLogger is the process-wide logger used by the package-level
// convenience functions.
var defaultLogger *Logger

func init() {
	defaultLogger = New(zapcore.InfoLevel)
}

// New creates a Logger that writes JSON to stderr at the given level.
func New(level zapcore.Level) *Logger {
	l, _ := NewFormatted(level, "json")
	return l
}

// NewFormatted creates a stderr Logger using the named encoder, either
// "json" or "console".
func NewFormatted(level zapcore.Level, format string) (*Logger, error) {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch format {
	case "", "json":
		enc = zapcore.NewJSONEncoder(cfg)
	case "console":
		cfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(cfg)
	default:
		return nil, fmt.Errorf("log: unknown format %q", format)
	}
	core := zapcore.NewCore(enc, zapcore.Lock(os.Stderr), zap.NewAtomicLevelAt(level))
	return NewWithCore(core), nil
}

// NewWithCore creates a Logger backed by the supplied zapcore.Core. Tests use
// it with zaptest/observer to inspect emitted entries.
func NewWithCore(core zapcore.Core) *Logger {
	return &Logger{inner: zap.New(core).Sugar()}
}

// Nop returns a Logger that discards everything.
func Nop() *Logger {
	return &Logger{inner: zap.NewNop().Sugar()}
}

// ParseLevel converts a level name such as "debug" or "warn".
func ParseLevel(s string) (zapcore.Level, error) {
	lvl, err := zapcore.ParseLevel(s)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("log: %w", err)
	}
	return lvl, nil
}

// SetDefault replaces the package-level default logger.
func SetDefault(l *Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the current package-level default logger.
func Default() *Logger {
	return defaultLogger
}

// Module returns a child logger with an additional "module" field. This is
// how bls, registry, tx and the CLI obtain their own contextual logger.
func (l *Logger) Module(name string) *Logger {
	return &Logger{inner: l.inner.With("module", name)}
}

// With returns a child logger with additional key-value context.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{inner: l.inner.With(args...)}
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error { return l.inner.Sync() }

func (l *Logger) Debug(msg string, args ...any) { l.inner.Debugw(msg, args...) }

func (l *Logger) Info(msg string, args ...any) { l.inner.Infow(msg, args...) }

func (l *Logger) Warn(msg string, args ...any) { l.inner.Warnw(msg, args...) }

func (l *Logger) Error(msg string, args ...any) { l.inner.Errorw(msg, args...) }

// ---------------------------------------------------------------------------
// Package-level convenience functions, delegating to defaultLogger.
// ---------------------------------------------------------------------------

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }

func Info(msg string, args ...any) { defaultLogger.Info(msg, args...) }

func Warn(msg string, args ...any) { defaultLogger.Warn(msg, args...) }

func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
