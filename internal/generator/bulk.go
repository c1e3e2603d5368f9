package generator

import (
	"math"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// bulkFraction sizes a bulk batch relative to the portfolio.
const bulkFraction = 0.2

// DefaultBulkDistribution is the fixed 8-type allocation used when the
// caller supplies no distribution. Proportions sum to 1.0.
func DefaultBulkDistribution() map[domain.ClaimType]float64 {
	return map[domain.ClaimType]float64{
		domain.TypeAlagamento: 0.25,
		domain.TypeVendaval:   0.20,
		domain.TypeGranizo:    0.12,
		domain.TypeIncendio:   0.10,
		domain.TypeRaio:       0.10,
		domain.TypeTempestade: 0.13,
		domain.TypeTornado:    0.05,
		domain.TypeSeca:       0.05,
	}
}

// GenerateBulk produces round(len(policies) × 0.2) events allocated across
// claim types by the given proportions, each drawing a uniformly random
// policy with no seasonality weighting. This is the simpler,
// caller-controlled alternative to GenerateForPolicies: it reaches every
// taxonomy type, including those outside the seasonal pool.
func (g *Generator) GenerateBulk(policies []domain.Policy, distribution map[domain.ClaimType]float64) []domain.ClaimEvent {
	if len(policies) == 0 {
		return []domain.ClaimEvent{}
	}
	if distribution == nil {
		distribution = DefaultBulkDistribution()
	}

	total := int(math.Round(float64(len(policies)) * bulkFraction))
	if total < 1 {
		total = 1
	}

	events := make([]domain.ClaimEvent, 0, total)
	// Iterate types in the fixed taxonomy order so a seeded run is
	// reproducible; map iteration order would not be.
	for _, ct := range domain.AllClaimTypes() {
		prop, ok := distribution[ct]
		if !ok || prop <= 0 {
			continue
		}
		n := int(math.Round(float64(total) * prop))
		for i := 0; i < n; i++ {
			p := policies[g.rng.IntN(len(policies))]
			event, err := g.generateTypedEvent(p, ct)
			if err != nil {
				g.logger.Warn("bulk event generation failed, skipping",
					"policy_id", p.ID,
					"claim_type", ct,
					"error", err,
				)
				g.metrics.GenerationFailures.Inc()
				continue
			}
			events = append(events, event)
		}
	}

	g.metrics.EventsGenerated.Add(float64(len(events)))
	g.logger.Info("generated bulk claim events", "produced", len(events), "policies", len(policies))
	return events
}

// generateTypedEvent synthesizes one event of a fixed claim type, bypassing
// the seasonal type draw.
func (g *Generator) generateTypedEvent(p domain.Policy, claimType domain.ClaimType) (domain.ClaimEvent, error) {
	if err := domain.ValidatePolicy(p); err != nil {
		return domain.ClaimEvent{}, err
	}

	occurredAt := g.randomTimestamp(p.ContractDate, DefaultWindowDays)
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
