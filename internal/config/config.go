package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Generation modes.
const (
	ModeSeasonal = "seasonal"
	ModeBulk     = "bulk"
)

// Config holds all job settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Generation parameters.
	PolicyFile string
	Mode       string // seasonal or bulk
	WindowDays int
	EventCount int   // 0 = draw automatically from the active-policy count
	Seed       int64 // 0 = derive from the wall clock
	ReportPath string

	// Sink configuration. With Kafka disabled, events are written to
	// EventsOutPath as a JSON array.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
	EventsOutPath  string

	// Postal-code geocoding (BrasilAPI CEP) configuration.
	CEPEnabled   bool
	CEPTimeout   time.Duration
	CEPCacheSize int
}

// Load reads configuration from environment variables, applying defaults
// where unset. Invalid values are startup errors, not silent fallbacks.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}
	cepTimeout, err := parseDuration("CEP_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	windowDays, err := parseInt("WINDOW_DAYS", 365)
	if err != nil {
		return nil, err
	}
	eventCount, err := parseInt("EVENT_COUNT", 0)
	if err != nil {
		return nil, err
	}
	cepCacheSize, err := parseInt("CEP_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	seed, err := parseInt64("SEED", 0)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		PolicyFile: os.Getenv("POLICY_FILE"),
		Mode:       envOrDefault("GENERATION_MODE", ModeSeasonal),
		WindowDays: windowDays,
		EventCount: eventCount,
		Seed:       seed,
		ReportPath: os.Getenv("REPORT_PATH"),

		KafkaEnabled:   os.Getenv("KAFKA_ENABLED") == "true",
		KafkaBrokers:   parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: envOrDefault("KAFKA_SINK_TOPIC", "claim-events"),
		EventsOutPath:  envOrDefault("EVENTS_OUT_PATH", "data/claim_events.json"),

		CEPEnabled:   os.Getenv("CEP_ENABLED") == "true",
		CEPTimeout:   cepTimeout,
		CEPCacheSize: cepCacheSize,
	}

	if cfg.PolicyFile == "" {
		return nil, errors.New("POLICY_FILE is required")
	}
	if cfg.Mode != ModeSeasonal && cfg.Mode != ModeBulk {
		return nil, fmt.Errorf("GENERATION_MODE must be %q or %q, got %q", ModeSeasonal, ModeBulk, cfg.Mode)
	}
	if cfg.WindowDays <= 0 {
		return nil, errors.New("WINDOW_DAYS must be positive")
	}
	if cfg.EventCount < 0 {
		return nil, errors.New("EVENT_COUNT must not be negative")
	}
	if cfg.KafkaEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaSinkTopic == "" {
			return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is empty")
		}
	} else if cfg.EventsOutPath == "" {
		return nil, errors.New("EVENTS_OUT_PATH is required when Kafka is disabled")
	}
	if cfg.CEPCacheSize <= 0 {
		return nil, errors.New("CEP_CACHE_SIZE must be positive")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseBrokers(raw string) []string {
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}

func parseInt64(key string, fallback int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, raw)
	}
	return n, nil
}
