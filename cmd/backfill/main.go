// Command backfill runs one claim-backfill cycle: it loads a policy
// portfolio, synthesizes historical claim events, publishes them to the
// configured sink (Kafka or a local JSON file), and exports the pattern
// analysis report. Health and metrics endpoints are served for the duration
// of the run.
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/meridianseguros/claims-backfill/internal/adapter/cep"
	"github.com/meridianseguros/claims-backfill/internal/adapter/filesink"
	httpadapter "github.com/meridianseguros/claims-backfill/internal/adapter/http"
	kafkaadapter "github.com/meridianseguros/claims-backfill/internal/adapter/kafka"
	"github.com/meridianseguros/claims-backfill/internal/adapter/policyfile"
	"github.com/meridianseguros/claims-backfill/internal/analysis"
	"github.com/meridianseguros/claims-backfill/internal/config"
	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/generator"
	"github.com/meridianseguros/claims-backfill/internal/observability"
	"github.com/meridianseguros/claims-backfill/internal/pipeline"
	"github.com/meridianseguros/claims-backfill/internal/taxonomy"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LoggerConfig{Level: cfg.LogLevel, Format: cfg.LogFormat})
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	seed := cfg.Seed
	if seed == 0 {
		seed = clock.Now().UnixNano()
	}
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	logger.Info("random source seeded", "seed", seed)

	tables, err := taxonomy.Default(logger)
	if err != nil {
		logger.Error("invalid taxonomy", "error", err)
		os.Exit(1)
	}

	// Postal-code geocoding is feature-flagged via CEP_ENABLED.
	var geocoder domain.Geocoder
	if cfg.CEPEnabled {
		client := cep.NewClient(cfg.CEPTimeout, metrics, logger)
		geocoder = cep.NewCachedGeocoder(client, cfg.CEPCacheSize, metrics)
		logger.Info("cep geocoding enabled", "cache_size", cfg.CEPCacheSize, "timeout", cfg.CEPTimeout)
	} else {
		logger.Info("cep geocoding disabled")
	}

	var sink pipeline.ClaimSink
	if cfg.KafkaEnabled {
		writer := kafkaadapter.NewWriter(cfg.KafkaBrokers, cfg.KafkaSinkTopic, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sink = writer
		logger.Info("kafka sink enabled", "topic", cfg.KafkaSinkTopic)
	} else {
		sink = filesink.New(cfg.EventsOutPath, logger)
		logger.Info("file sink enabled", "path", cfg.EventsOutPath)
	}

	source := policyfile.NewReader(cfg.PolicyFile, logger)
	gen := generator.New(tables, rng, clock, logger, metrics)
	analyzer := analysis.New(logger, clock)

	backfill := pipeline.New(source, gen, analyzer, sink, geocoder, logger, metrics, pipeline.Options{
		Bulk:       cfg.Mode == config.ModeBulk,
		Count:      cfg.EventCount,
		WindowDays: cfg.WindowDays,
		ReportPath: cfg.ReportPath,
	})

	srv := httpadapter.NewServer(cfg.HTTPAddr, backfill, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	result, runErr := backfill.Run(ctx)
	if runErr != nil {
		logger.Error("backfill failed", "error", runErr)
	} else {
		logger.Info("backfill finished",
			"policies", result.Policies,
			"events", result.Generated,
			"report", result.ReportPath,
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	if runErr != nil {
		os.Exit(1)
	}
}
