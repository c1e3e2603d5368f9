package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("POLICY_FILE", "data/policies.csv")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)

	assert.Equal(t, "data/policies.csv", cfg.PolicyFile)
	assert.Equal(t, ModeSeasonal, cfg.Mode)
	assert.Equal(t, 365, cfg.WindowDays)
	assert.Zero(t, cfg.EventCount)
	assert.Zero(t, cfg.Seed)
	assert.Empty(t, cfg.ReportPath)

	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "claim-events", cfg.KafkaSinkTopic)
	assert.Equal(t, "data/claim_events.json", cfg.EventsOutPath)

	assert.False(t, cfg.CEPEnabled)
	assert.Equal(t, 5*time.Second, cfg.CEPTimeout)
	assert.Equal(t, 1000, cfg.CEPCacheSize)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("POLICY_FILE", "/srv/policies.csv")
	t.Setenv("HTTP_ADDR", ":9999")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("GENERATION_MODE", "bulk")
	t.Setenv("WINDOW_DAYS", "730")
	t.Setenv("EVENT_COUNT", "250")
	t.Setenv("SEED", "424242")
	t.Setenv("REPORT_PATH", "reports/out.json")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("KAFKA_SINK_TOPIC", "sinistros")
	t.Setenv("CEP_ENABLED", "true")
	t.Setenv("CEP_TIMEOUT", "2s")
	t.Setenv("CEP_CACHE_SIZE", "50")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, ModeBulk, cfg.Mode)
	assert.Equal(t, 730, cfg.WindowDays)
	assert.Equal(t, 250, cfg.EventCount)
	assert.Equal(t, int64(424242), cfg.Seed)
	assert.Equal(t, "reports/out.json", cfg.ReportPath)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "sinistros", cfg.KafkaSinkTopic)
	assert.True(t, cfg.CEPEnabled)
	assert.Equal(t, 2*time.Second, cfg.CEPTimeout)
	assert.Equal(t, 50, cfg.CEPCacheSize)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "missing policy file",
			env:     map[string]string{"POLICY_FILE": ""},
			wantErr: "POLICY_FILE is required",
		},
		{
			name:    "unknown generation mode",
			env:     map[string]string{"GENERATION_MODE": "streaming"},
			wantErr: "GENERATION_MODE must be",
		},
		{
			name:    "non-positive window",
			env:     map[string]string{"WINDOW_DAYS": "0"},
			wantErr: "WINDOW_DAYS must be positive",
		},
		{
			name:    "malformed window",
			env:     map[string]string{"WINDOW_DAYS": "a year"},
			wantErr: "invalid WINDOW_DAYS",
		},
		{
			name:    "negative event count",
			env:     map[string]string{"EVENT_COUNT": "-5"},
			wantErr: "EVENT_COUNT must not be negative",
		},
		{
			name:    "malformed seed",
			env:     map[string]string{"SEED": "not-a-number"},
			wantErr: "invalid SEED",
		},
		{
			name:    "malformed shutdown timeout",
			env:     map[string]string{"SHUTDOWN_TIMEOUT": "soon"},
			wantErr: "invalid SHUTDOWN_TIMEOUT",
		},
		{
			name:    "kafka enabled without brokers",
			env:     map[string]string{"KAFKA_ENABLED": "true", "KAFKA_BROKERS": " , "},
			wantErr: "KAFKA_BROKERS is empty",
		},
		{
			name:    "non-positive cache size",
			env:     map[string]string{"CEP_CACHE_SIZE": "0"},
			wantErr: "CEP_CACHE_SIZE must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("POLICY_FILE", "data/policies.csv")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
