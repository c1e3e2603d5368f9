package observability

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name         string
		cfg          LoggerConfig
		enabledLevel slog.Level
		quietLevel   slog.Level
	}{
		{"debug level", LoggerConfig{Level: "debug", Format: "json"}, slog.LevelDebug, slog.LevelDebug - 1},
		{"info by default", LoggerConfig{Format: "json"}, slog.LevelInfo, slog.LevelDebug},
		{"warn level", LoggerConfig{Level: "warn", Format: "text"}, slog.LevelWarn, slog.LevelInfo},
		{"error level", LoggerConfig{Level: "error", Format: "json"}, slog.LevelError, slog.LevelWarn},
		{"unknown level falls back to info", LoggerConfig{Level: "verbose", Format: "json"}, slog.LevelInfo, slog.LevelDebug},
		{"case-insensitive level", LoggerConfig{Level: "DEBUG", Format: "json"}, slog.LevelDebug, slog.LevelDebug - 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.cfg)
			require.NotNil(t, logger)
			assert.True(t, logger.Enabled(context.Background(), tt.enabledLevel))
			assert.False(t, logger.Enabled(context.Background(), tt.quietLevel))
		})
	}
}
