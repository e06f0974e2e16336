// Package logger provides a small structured logging interface over zerolog.
package logger

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
)

// getCaller -> emit -> logging method -> actual caller.
const callerSkipFrames = 3

// Logger is the logging interface the rest of the codebase depends on.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field is one structured key-value attribute on a log entry.
type Field struct {
	Key   string
	Value interface{}
}

// Field constructors.
func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Int64(key string, val int64) Field     { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Any(key string, val interface{}) Field { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }

// zeroLogger implements Logger using zerolog.
type zeroLogger struct {
	zl zerolog.Logger
}

func (l *zeroLogger) Named(name string) Logger {
	return &zeroLogger{zl: l.zl.With().Str("logger", name).Logger()}
}

func (l *zeroLogger) Info(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Info(), msg, fields)
}

func (l *zeroLogger) Error(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Error(), msg, fields)
}

func (l *zeroLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Debug(), msg, fields)
}

func (l *zeroLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.emit(ctx, l.zl.Warn(), msg, fields)
}

func (l *zeroLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	// zerolog's Fatal event calls os.Exit(1) after writing.
	l.emit(ctx, l.zl.Fatal(), msg, fields)
}

// emit attaches fields and the caller location, then writes the event.
func (l *zeroLogger) emit(ctx context.Context, ev *zerolog.Event, msg string, fields []Field) {
	if ev == nil {
		return
	}
	ev = ev.Ctx(ctx).Str("source", getCaller())
	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			ev = ev.AnErr(f.Key, err)
			continue
		}
		ev = ev.Interface(f.Key, f.Value)
	}
	ev.Msg(msg)
}

var global Logger

// Init sets up the global zerolog-backed logger. Safe to call more than
// once; the last call wins.
func Init() error {
	// Default to info; can be changed with SetLevel*/SetLevelString.
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()
	global = &zeroLogger{zl: zl}
	return nil
}

// getCaller resolves the logging call site as path:line, relative to the
// working directory when possible so editors can jump to it.
func getCaller() string {
	_, file, line, ok := runtime.Caller(callerSkipFrames)
	if !ok {
		return "unknown:0"
	}

	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, file); err == nil {
			return fmt.Sprintf("%s:%d", rel, line)
		}
	}

	// Bare filename when the path cannot be made relative.
	return fmt.Sprintf("%s:%d", filepath.Base(file), line)
}

// Get returns the global logger. The application must call Init first;
// there is no silent auto-initialization.
func Get() Logger {
	if global == nil {
		panic("logger not initialized. Call logger.Init() first")
	}
	return global
}

// Named returns a child of the global logger tagged with name.
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync exists for callers that defer a flush; zerolog writes are
// unbuffered so there is nothing to do.
func Sync() error {
	return nil
}

// SetLevel updates the current logging level for all loggers.
func SetLevel(level zerolog.Level) { zerolog.SetGlobalLevel(level) }

// SetLevelString parses level (debug, info, warn/warning, error,
// case-insensitive) and applies it globally.
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(zerolog.DebugLevel)
	case "", "info":
		SetLevel(zerolog.InfoLevel)
	case "warn", "warning":
		SetLevel(zerolog.WarnLevel)
	case "error":
		SetLevel(zerolog.ErrorLevel)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
