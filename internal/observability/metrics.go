package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// backfill job.
type Metrics struct {
	EventsGenerated    prometheus.Counter
	GenerationFailures prometheus.Counter
	EventsPublished    prometheus.Counter
	BackfillRunning    prometheus.Gauge

	BatchSize          prometheus.Histogram
	GenerationDuration prometheus.Histogram
	AnalysisDuration   prometheus.Histogram

	// Postal-code geocoding metrics.
	CEPLookups *prometheus.CounterVec // labels: outcome={success,error,empty}
	CEPCache   *prometheus.CounterVec // labels: result={hit,miss}
}

// NewMetrics creates and registers all backfill metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		EventsGenerated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "claims_backfill",
			Name:      "events_generated_total",
			Help:      "Total synthetic claim events generated.",
		}),
		GenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "claims_backfill",
			Name:      "generation_failures_total",
			Help:      "Total per-event generation failures that were skipped.",
		}),
		EventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "claims_backfill",
			Name:      "events_published_total",
			Help:      "Total claim events handed to the sink.",
		}),
		BackfillRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "claims_backfill",
			Name:      "running",
			Help:      "1 while a backfill cycle is active, 0 otherwise.",
		}),
		BatchSize: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "claims_backfill",
			Name:      "batch_size",
			Help:      "Number of claim events produced per backfill cycle.",
			Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000},
		}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "claims_backfill",
			Name:      "generation_duration_seconds",
			Help:      "Duration of the event-generation stage.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		AnalysisDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "claims_backfill",
			Name:      "analysis_duration_seconds",
			Help:      "Duration of the pattern-analysis stage including report export.",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}),
		CEPLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "claims_backfill",
			Name:      "cep_lookups_total",
			Help:      "Postal-code geocoding requests by outcome.",
		}, []string{"outcome"}),
		CEPCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "claims_backfill",
			Name:      "cep_cache_total",
			Help:      "Postal-code cache lookups by result.",
		}, []string{"result"}),
	}

	prometheus.MustRegister(
		m.EventsGenerated,
		m.GenerationFailures,
		m.EventsPublished,
		m.BackfillRunning,
		m.BatchSize,
		m.GenerationDuration,
		m.AnalysisDuration,
		m.CEPLookups,
		m.CEPCache,
	)

	return m
}

// NewMetricsForTesting creates Metrics without registering them, avoiding
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		EventsGenerated:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "claims_backfill", Name: "events_generated_total"}),
		GenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{Namespace: "claims_backfill", Name: "generation_failures_total"}),
		EventsPublished:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "claims_backfill", Name: "events_published_total"}),
		BackfillRunning:    prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "claims_backfill", Name: "running"}),
		BatchSize:          prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "claims_backfill", Name: "batch_size"}),
		GenerationDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "claims_backfill", Name: "generation_duration_seconds"}),
		AnalysisDuration:   prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "claims_backfill", Name: "analysis_duration_seconds"}),
		CEPLookups:         prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "claims_backfill", Name: "cep_lookups_total"}, []string{"outcome"}),
		CEPCache:           prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "claims_backfill", Name: "cep_cache_total"}, []string{"result"}),
	}
}
