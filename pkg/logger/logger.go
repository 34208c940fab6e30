// Package logger provides a zap-based application logger.
package logger

import (
	"context"
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level represents the minimum level a logger emits.
type Level zapcore.Level

// Available logging levels.
const (
	LevelDebug = Level(zapcore.DebugLevel)
	LevelInfo  = Level(zapcore.InfoLevel)
	LevelWarn  = Level(zapcore.WarnLevel)
	LevelError = Level(zapcore.ErrorLevel)
)

// Logger wraps zap with context-aware methods so every record can carry
// the trace id of the request that produced it.
type Logger struct {
	sugar   *zap.SugaredLogger
	traceID func(ctx context.Context) string
}

// New constructs a Logger writing JSON records to w at the given level.
// traceID extracts a trace identifier from the context; it may be nil.
func New(w io.Writer, level Level, service string, traceID func(ctx context.Context) string) *Logger {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "time"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(cfg), zapcore.AddSync(w), zapcore.Level(level))
	sugar := zap.New(core).Sugar().With("service", service)
	if traceID == nil {
		traceID = func(context.Context) string { return "" }
	}
	return &Logger{sugar: sugar, traceID: traceID}
}

// Debug logs at debug level with alternating key/value pairs.
func (l *Logger) Debug(ctx context.Context, msg string, args ...any) {
	l.write(ctx, l.sugar.Debugw, msg, args)
}

// Info logs at info level with alternating key/value pairs.
func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	l.write(ctx, l.sugar.Infow, msg, args)
}

// Warn logs at warn level with alternating key/value pairs.
func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	l.write(ctx, l.sugar.Warnw, msg, args)
}

// Error logs at error level with alternating key/value pairs.
func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	l.write(ctx, l.sugar.Errorw, msg, args)
}

// Sync flushes buffered records.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}

func (l *Logger) write(ctx context.Context, fn func(string, ...any), msg string, args []any) {
	if id := l.traceID(ctx); id != "" {
		args = append(args, "trace_id", id)
	}
	fn(msg, args...)
}
