// Package generator synthesizes historical claim events for a policy
// portfolio using seasonality-weighted stochastic sampling over the static
// taxonomy tables.
package generator

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/observability"
	"github.com/meridianseguros/claims-backfill/internal/taxonomy"
)

// DefaultWindowDays is the generation window applied when the caller does
// not supply one.
const DefaultWindowDays = 365

// Seasonal weight multipliers: a type is 5× more likely in one of its peak
// months than off-peak (2.5 / 0.5).
const (
	peakMultiplier    = 2.5
	offPeakMultiplier = 0.5
)

// locationJitterDeg is the uniform noise added to each coordinate (~1 km).
const locationJitterDeg = 0.01

// Generator turns policy summaries into synthetic claim events. The taxonomy
// tables and clock are read-only; the random source is not synchronized, so
// use one Generator per goroutine when generating concurrently.
type Generator struct {
	tables  *taxonomy.Tables
	rng     *rand.Rand
	clock   clockwork.Clock
	logger  *slog.Logger
	metrics *observability.Metrics
}

// New creates a Generator. The random source must be seeded by the caller;
// a fixed seed makes every generation call a pure function of its inputs.
func New(tables *taxonomy.Tables, rng *rand.Rand, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Generator {
	return &Generator{
		tables:  tables,
		rng:     rng,
		clock:   clock,
		logger:  logger,
		metrics: metrics,
	}
}

// Options controls a GenerateForPolicies call. Zero values select defaults:
// Count 0 draws round(active × U[0.15, 0.25]), WindowDays 0 means 365.
type Options struct {
	Count      int
	WindowDays int
}

// GenerateForPolicies produces synthetic claim events for the active subset
// of the given policies. Each event draws its policy uniformly at random
// with replacement — a policy may receive zero or several events.
// Per-event failures are logged and skipped, never aborting the batch: the
// call returns whatever succeeded, possibly fewer than Count events.
func (g *Generator) GenerateForPolicies(policies []domain.Policy, opts Options) []domain.ClaimEvent {
	windowDays := opts.WindowDays
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}

	active := make([]domain.Policy, 0, len(policies))
	for _, p := range policies {
		if p.Active {
			active = append(active, p)
		}
	}
	if len(active) == 0 {
		g.logger.Info("no active policies, nothing to generate")
		return []domain.ClaimEvent{}
	}

	count := opts.Count
	if count <= 0 {
		frac := 0.15 + g.rng.Float64()*0.10
		count = int(math.Round(float64(len(active)) * frac))
		if count < 1 {
			count = 1
		}
		if count > len(active) {
			count = len(active)
		}
	}

	events := make([]domain.ClaimEvent, 0, count)
	for i := 0; i < count; i++ {
		p := active[g.rng.IntN(len(active))]
		event, err := g.generateSingleEvent(p, windowDays)
		if err != nil {
			g.logger.Warn("event generation failed, skipping",
				"policy_id", p.ID,
				"error", err,
			)
			g.metrics.GenerationFailures.Inc()
			continue
		}
		events = append(events, event)
	}

	g.metrics.EventsGenerated.Add(float64(len(events)))
	g.logger.Info("generated claim events",
		"requested", count,
		"produced", len(events),
		"active_policies", len(active),
		"window_days", windowDays,
	)
	return events
}

// generateSingleEvent synthesizes one claim event for a policy: random
// timestamp inside the generation window, seasonally weighted type draw for
// the event month, then cause/climate/loss from the taxonomy, jittered
// location, and the derived severity band.
func (g *Generator) generateSingleEvent(p domain.Policy, windowDays int) (domain.ClaimEvent, error) {
	if err := domain.ValidatePolicy(p); err != nil {
		return domain.ClaimEvent{}, err
	}

	occurredAt := g.randomTimestamp(p.ContractDate, windowDays)

	claimType, err := g.seasonalType(occurredAt.Month())
	if err != nil {
		return domain.ClaimEvent{}, err
	}

	cause := g.tables.CauseForType(g.rng, claimType)
	weather := g.tables.ClimateForType(g.rng, claimType)
	loss := g.tables.LossValue(g.rng, claimType, p.InsuredValue)
	geo := g.jitter(p.Geo)

	return domain.ClaimEvent{
		ID:         domain.NewEventID(p.ID, claimType, occurredAt, loss),
		PolicyID:   p.ID,
		OccurredAt: occurredAt,
		ClaimType:  claimType,
		Cause:      cause,
		LossValue:  loss,
		Geo:        geo,
		Weather:    &weather,
		Severity:   domain.SeverityFor(loss, p.InsuredValue),
	}, nil
}

// randomTimestamp draws an event time strictly after the contract date and
// no later than min(now, contract + windowDays). A policy too recent for the
// window falls back to a 30-day horizon. The random day offset plus
// time-of-day is clamped to the horizon so the upper bound is exact.
func (g *Generator) randomTimestamp(contractDate time.Time, windowDays int) time.Time {
	now := g.clock.Now().UTC()
	maxDate := contractDate.AddDate(0, 0, windowDays)
	if now.Before(maxDate) {
		maxDate = now
	}
	if !maxDate.After(contractDate) {
		maxDate = contractDate.AddDate(0, 0, 30)
	}

	deltaDays := int(maxDate.Sub(contractDate).Hours() / 24)
	if deltaDays < 1 {
		deltaDays = 1
	}

	dayOffset := 1 + g.rng.IntN(deltaDays)
	ts := contractDate.AddDate(0, 0, dayOffset).
		Add(time.Duration(g.rng.IntN(24))*time.Hour +
			time.Duration(g.rng.IntN(60))*time.Minute +
			time.Duration(g.rng.IntN(60))*time.Second)
	if ts.After(maxDate) {
		ts = maxDate
	}
	return ts
}

// seasonalType draws a claim type weighted by the event month. Types in a
// peak month weigh baseProbability×2.5, off-peak baseProbability×0.5. Only
// types present in the seasonality table participate — the restricted core
// pool; the remaining taxonomy types are reachable via GenerateBulk.
func (g *Generator) seasonalType(month time.Month) (domain.ClaimType, error) {
	types := g.tables.SeasonalTypes()
	if len(types) == 0 {
		return "", fmt.Errorf("no seasonal types configured")
	}

	weights := make([]float64, len(types))
	for i, ct := range types {
		s, _ := g.tables.SeasonalityFor(ct)
		mult := offPeakMultiplier
		for _, peak := range s.PeakMonths {
			if peak == month {
				mult = peakMultiplier
				break
			}
		}
		weights[i] = s.BaseProbability * mult
	}

	sampler, err := newWeightedSampler(types, weights)
	if err != nil {
		return "", err
	}
	return sampler.draw(g.rng), nil
}

func (g *Generator) jitter(geo domain.Geo) domain.Geo {
	return domain.Geo{
		Lat: geo.Lat + (g.rng.Float64()*2-1)*locationJitterDeg,
		Lon: geo.Lon + (g.rng.Float64()*2-1)*locationJitterDeg,
	}
}
