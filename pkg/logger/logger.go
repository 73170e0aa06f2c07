package logger

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger is the global logger instance
var log = zerolog.New(io.Discard)

type ctxKey struct{}

// Init initializes the global logger
func Init(env string, logLevel string) {
	var output io.Writer = os.Stdout

	// Pretty console output for development
	if env == "development" || env == "dev" || env == "" {
		output = zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		}
	}
	InitWithWriter(output, logLevel)
}

// InitWithWriter points the global logger at w. Tests use it to capture output.
func InitWithWriter(w io.Writer, logLevel string) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(parseLevel(logLevel))

	log = zerolog.New(w).
		With().
		Timestamp().
		Caller().
		Logger()
}

func parseLevel(logLevel string) zerolog.Level {
	switch logLevel {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log
}

// WithContext returns the request logger stored in ctx, or the global one.
func WithContext(ctx context.Context) *zerolog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*zerolog.Logger); ok {
		return l
	}
	return &log
}

// NewContext creates a new context with the logger
func NewContext(ctx context.Context, l *zerolog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// WithRequestID adds a request ID to the logger
func WithRequestID(requestID string) zerolog.Logger {
	return log.With().Str("request_id", requestID).Logger()
}

// WithSessionID tags l with the storefront session.
func WithSessionID(l zerolog.Logger, sessionID string) zerolog.Logger {
	return l.With().Str("session_id", sessionID).Logger()
}

// --- Convenience Methods ---

func Debug() *zerolog.Event {
	return log.Debug()
}

func Info() *zerolog.Event {
	return log.Info()
}

func Warn() *zerolog.Event {
	return log.Warn()
}

func Error() *zerolog.Event {
	return log.Error()
}

// Fatal logs a fatal message and exits
func Fatal() *zerolog.Event {
	return log.Fatal()
}

// --- Structured Logging Helpers ---

// Upstream logs one call to an external platform.
func Upstream(ctx context.Context, service, operation string, duration time.Duration, err error) {
	l := WithContext(ctx)
	if err != nil {
		l.Warn().
			Str("service", service).
			Str("operation", operation).
			Dur("duration_ms", duration).
			Err(err).
			Msg("Upstream call failed")
		return
	}
	l.Debug().
		Str("service", service).
		Str("operation", operation).
		Dur("duration_ms", duration).
		Msg("Upstream call")
}

// DBQuery logs a database query
func DBQuery(query string, duration time.Duration, err error) {
	event := log.Debug().
		Str("query", query).
		Dur("duration_ms", duration)

	if err != nil {
		event.Err(err).Msg("DB Query Failed")
	} else {
		event.Msg("DB Query")
	}
}

// ServiceStart logs service startup
func ServiceStart(name, version, port string) {
	log.Info().
		Str("service", name).
		Str("version", version).
		Str("port", port).
		Msg("Service Started")
}

// ServiceStop logs service shutdown
func ServiceStop(name string) {
	log.Info().
		Str("service", name).
		Msg("Service Stopped")
}
