package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/lingocards/lingo-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"Warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, logger.ParseLevel(in), "level %q", in)
	}
}

func TestNewWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New("warn", &buf)

	log.Info("hidden")
	log.Warn("shown", slog.String("card_id", "abc"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "abc", entry["card_id"])
}

func TestContextLogger(t *testing.T) {
	fallback := slog.New(slog.NewTextHandler(io.Discard, nil))
	scoped := slog.New(slog.NewTextHandler(io.Discard, nil))

	ctx := context.Background()
	assert.Same(t, fallback, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, slog.Default(), logger.FromContext(ctx))

	ctx = logger.WithLogger(ctx, scoped)
	assert.Same(t, scoped, logger.FromContextOrDefault(ctx, fallback))
	assert.Same(t, scoped, logger.FromContext(ctx))
}
