// Package logger provides the process-wide structured logger. Entries are JSON
// encoded by zap and carry the trace and span identifiers of the active
// OpenTelemetry span, so scan and resolve logs can be joined with their traces.
//
// Loggers enriched with request-scoped fields travel in a context.Context via
// Derive; every logging helper picks them up from the context it receives.
// When telemetry registered an OTLP log provider, entries are also exported
// through the otelzap bridge.
package logger

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/gabapcia/blockscan/internal/pkg/telemetry"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const bridgeName = "github.com/gabapcia/blockscan"

type ctxKeyType struct{}

var (
	// baseLogger is the root logger built by Init.
	baseLogger *zap.SugaredLogger

	initBaseLoggerOnce sync.Once

	ctxKey = ctxKeyType{}

	nopLogger = zap.NewNop().Sugar()
)

type config struct {
	output io.Writer
}

// Option configures Init.
type Option func(*config)

// WithOutput sets where JSON entries are written. Defaults to os.Stderr so
// that command output on stdout stays machine readable.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// Init builds the root logger at the given level ("debug", "info", "warn", "error").
// Only the first successful call has an effect.
func Init(level string, opts ...Option) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return err
	}

	cfg := config{output: os.Stderr}
	for _, opt := range opts {
		opt(&cfg)
	}

	initBaseLoggerOnce.Do(func() {
		encoderConfig := zap.NewProductionEncoderConfig()
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

		cores := []zapcore.Core{
			zapcore.NewCore(
				zapcore.NewJSONEncoder(encoderConfig),
				zapcore.Lock(zapcore.AddSync(cfg.output)),
				lvl,
			),
		}

		if lp := telemetry.LoggerProvider(); lp != nil {
			cores = append(cores, otelzap.NewCore(bridgeName, otelzap.WithLoggerProvider(lp)))
		}

		baseLogger = zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(2)).Sugar()
	})

	return nil
}

// Sync flushes buffered entries. Call it before the process exits.
func Sync() error {
	return baseLogger.Sync()
}

// root returns the logger built by Init, or a no-op logger before Init ran.
func root() *zap.SugaredLogger {
	if baseLogger == nil {
		return nopLogger
	}
	return baseLogger
}

// deriveFromCtx returns the logger stored in ctx (or the root logger) enriched
// with the active span identifiers and the given key/value pairs.
func deriveFromCtx(ctx context.Context, keysAndValues ...any) *zap.SugaredLogger {
	l, ok := ctx.Value(ctxKey).(*zap.SugaredLogger)
	if !ok || l == nil {
		l = root()
	}

	spanCtx := trace.SpanContextFromContext(ctx)
	if spanCtx.HasTraceID() {
		l = l.With("trace_id", spanCtx.TraceID().String())
	}
	if spanCtx.HasSpanID() {
		l = l.With("span_id", spanCtx.SpanID().String())
	}

	if len(keysAndValues) > 0 {
		l = l.With(keysAndValues...)
	}

	return l
}

// Derive returns a copy of ctx whose logger carries the given key/value pairs
// in addition to whatever the parent context logger already had.
func Derive(ctx context.Context, keysAndValues ...any) context.Context {
	l, ok := ctx.Value(ctxKey).(*zap.SugaredLogger)
	if !ok || l == nil {
		l = root()
	}

	if len(keysAndValues) > 0 {
		l = l.With(keysAndValues...)
	}

	return context.WithValue(ctx, ctxKey, l)
}

func log(ctx context.Context, level zapcore.Level, msg string, keysAndValues ...any) {
	deriveFromCtx(ctx).Logw(level, msg, keysAndValues...)
}

// Debug logs at debug level.
func Debug(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.DebugLevel, msg, keysAndValues...)
}

// Info logs at info level.
func Info(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.InfoLevel, msg, keysAndValues...)
}

// Warn logs at warn level.
func Warn(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.WarnLevel, msg, keysAndValues...)
}

// Error logs at error level.
func Error(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.ErrorLevel, msg, keysAndValues...)
}

// Panic logs at panic level and then panics.
func Panic(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.PanicLevel, msg, keysAndValues...)
}

// Fatal logs at fatal level and then exits with status 1.
func Fatal(ctx context.Context, msg string, keysAndValues ...any) {
	log(ctx, zapcore.FatalLevel, msg, keysAndValues...)
}
