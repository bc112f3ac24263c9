package observability

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

type userIDKey struct{}

// InitLogger initializes the global zerolog logger for a service process
func InitLogger(serviceName, env, level string) {
	setLevel(level)

	if env == "development" {
		log.Logger = consoleLogger(os.Stdout, serviceName)
		return
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Str("service", serviceName).
		Logger()
}

// InitCLILogger logs to stderr so command output on stdout stays clean
func InitCLILogger(name, level string) {
	setLevel(level)
	log.Logger = consoleLogger(os.Stderr, name)
}

func setLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func consoleLogger(out io.Writer, name string) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}).
		With().
		Timestamp().
		Str("service", name).
		Logger()
}

// WithUserID attaches the caller id so request logs can carry it
func WithUserID(ctx context.Context, userID string) context.Context {
	if userID == "" {
		return ctx
	}
	return context.WithValue(ctx, userIDKey{}, userID)
}

// LoggerFromContext returns a logger with trace context and caller id
func LoggerFromContext(ctx context.Context) *zerolog.Logger {
	lc := log.With()

	if sc := trace.SpanFromContext(ctx).SpanContext(); sc.IsValid() {
		lc = lc.
			Str("trace_id", sc.TraceID().String()).
			Str("span_id", sc.SpanID().String())
	}
	if userID, ok := ctx.Value(userIDKey{}).(string); ok {
		lc = lc.Str("user_id", userID)
	}

	logger := lc.Logger()
	return &logger
}

// GetLogger returns the global logger
func GetLogger() *zerolog.Logger {
	return &log.Logger
}
