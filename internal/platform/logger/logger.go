package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lingocards/lingo-api/internal/config"
)

type contextKey struct{}

// Setup initializes the application's logging system from the server
// configuration. It creates a structured JSON logger on stdout with the
// configured level and installs it as the slog default.
func Setup(cfg config.ServerConfig) (*slog.Logger, error) {
	logger := New(cfg.LogLevel, os.Stdout)

	// Allows slog.Info etc. in code that has no logger at hand
	slog.SetDefault(logger)

	return logger, nil
}

// New creates a JSON logger writing to out at the given level.
// Unknown levels fall back to info with a warning on stderr.
func New(level string, out io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	return slog.New(slog.NewJSONHandler(out, opts))
}

// ParseLevel maps a configured level name (case-insensitive) to a slog.Level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		tmpLogger := slog.New(slog.NewTextHandler(os.Stderr, nil))
		tmpLogger.Warn("invalid log level configured, using default level",
			"configured_level", level,
			"default_level", "info")
		return slog.LevelInfo
	}
}

// WithLogger returns a copy of ctx that carries logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext returns the logger stored in ctx, or slog.Default() if there is none.
func FromContext(ctx context.Context) *slog.Logger {
	return FromContextOrDefault(ctx, slog.Default())
}

// FromContextOrDefault returns the logger stored in ctx, or fallback if there is none.
// Request-scoped loggers carry the trace ID, so they win over component loggers.
func FromContextOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(contextKey{}).(*slog.Logger); ok && l != nil {
			return l
		}
	}
	if fallback == nil {
		return slog.Default()
	}
	return fallback
}
