// Package pipeline orchestrates one backfill cycle: fetch policies, enrich
// locations, generate synthetic claim events, publish them to the sink, and
// run the pattern analysis with a report export.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/meridianseguros/claims-backfill/internal/analysis"
	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/generator"
	"github.com/meridianseguros/claims-backfill/internal/observability"
)

// PolicySource fetches the portfolio from the external policy store.
type PolicySource interface {
	FetchPolicies(ctx context.Context) ([]domain.Policy, error)
}

// ClaimSink receives generated claim events for persistence.
type ClaimSink interface {
	LoadBatch(ctx context.Context, events []domain.ClaimEvent) error
}

// Options selects the generation path and its parameters.
type Options struct {
	Bulk       bool
	Count      int
	WindowDays int
	ReportPath string
}

// Result summarizes a completed backfill cycle.
type Result struct {
	Policies   int
	Generated  int
	ReportPath string
	Summary    generator.Summary
}

// Backfill wires the stages together. Run may be invoked repeatedly but not
// concurrently: the analyzer holds per-cycle state.
type Backfill struct {
	source   PolicySource
	gen      *generator.Generator
	analyzer *analysis.Analyzer
	sink     ClaimSink
	geocoder domain.Geocoder
	logger   *slog.Logger
	metrics  *observability.Metrics
	opts     Options
	ready    atomic.Bool
}

// New creates a Backfill. The geocoder may be nil (coordinates default), the
// sink may not.
func New(source PolicySource, gen *generator.Generator, analyzer *analysis.Analyzer, sink ClaimSink, geocoder domain.Geocoder, logger *slog.Logger, metrics *observability.Metrics, opts Options) *Backfill {
	return &Backfill{
		source:   source,
		gen:      gen,
		analyzer: analyzer,
		sink:     sink,
		geocoder: geocoder,
		logger:   logger,
		metrics:  metrics,
		opts:     opts,
	}
}

// CheckReadiness returns nil once at least one backfill cycle has completed.
func (b *Backfill) CheckReadiness(_ context.Context) error {
	if !b.ready.Load() {
		return errors.New("backfill has not completed a cycle yet")
	}
	return nil
}

// Run executes one fetch → generate → publish → analyze cycle. Per-event
// generation failures are absorbed by the generator; failures of a whole
// stage (fetch, sink, report write) abort the cycle and are returned.
func (b *Backfill) Run(ctx context.Context) (Result, error) {
	b.metrics.BackfillRunning.Set(1)
	defer b.metrics.BackfillRunning.Set(0)

	policies, err := b.source.FetchPolicies(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("fetch policies: %w", err)
	}
	b.logger.Info("policies fetched", "count", len(policies))

	for i := range policies {
		policies[i] = domain.EnrichPolicyLocation(ctx, policies[i], b.geocoder, b.logger)
	}

	genStart := time.Now()
	var events []domain.ClaimEvent
	if b.opts.Bulk {
		events = b.gen.GenerateBulk(policies, nil)
	} else {
		events = b.gen.GenerateForPolicies(policies, generator.Options{
			Count:      b.opts.Count,
			WindowDays: b.opts.WindowDays,
		})
	}
	b.metrics.GenerationDuration.Observe(time.Since(genStart).Seconds())
	b.metrics.BatchSize.Observe(float64(len(events)))

	if len(events) > 0 {
		if err := b.sink.LoadBatch(ctx, events); err != nil {
			return Result{}, fmt.Errorf("load events: %w", err)
		}
		b.metrics.EventsPublished.Add(float64(len(events)))
	}

	analysisStart := time.Now()
	b.analyzer.Load(events)
	reportPath, err := b.analyzer.ExportReport(b.opts.ReportPath)
	if err != nil {
		return Result{}, fmt.Errorf("export report: %w", err)
	}
	b.metrics.AnalysisDuration.Observe(time.Since(analysisStart).Seconds())

	b.ready.Store(true)
	result := Result{
		Policies:   len(policies),
		Generated:  len(events),
		ReportPath: reportPath,
		Summary:    generator.Summarize(events),
	}
	b.logger.Info("backfill cycle complete",
		"policies", result.Policies,
		"events", result.Generated,
		"total_loss", result.Summary.TotalLoss,
		"report", result.ReportPath,
	)
	return result, nil
}
