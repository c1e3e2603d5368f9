// Package taxonomy holds the static claim-type tables: allowed causes,
// seasonal peaks, climate parameter ranges, and severity-factor ranges.
// Tables are built once at startup, validated, and never mutated. Lookups
// never fail — unmapped types fall back to broad defaults, and every
// fallback is logged so configuration gaps stay observable.
package taxonomy

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// FallbackCause is returned for claim types with no configured cause pool.
const FallbackCause domain.Cause = "fenomeno climatico extremo"

// Range is a closed [Min, Max] interval sampled uniformly.
type Range struct {
	Min float64
	Max float64
}

// ClimateProfile bounds each weather field for one claim type.
type ClimateProfile struct {
	Precipitation Range // mm
	WindSpeed     Range // km/h
	Temperature   Range // °C
	Humidity      Range // %
}

// Seasonality holds a type's peak months and base occurrence probability.
type Seasonality struct {
	PeakMonths      []time.Month
	BaseProbability float64
}

// defaultClimate is the broad fallback range used for unmapped types.
var defaultClimate = ClimateProfile{
	Precipitation: Range{0, 150},
	WindSpeed:     Range{0, 80},
	Temperature:   Range{5, 40},
	Humidity:      Range{20, 100},
}

// defaultSeverityFactor is the fallback fraction-of-insured-value range.
var defaultSeverityFactor = Range{0.1, 0.5}

// Tables is the immutable, process-wide taxonomy. Safe for concurrent use:
// all state is read-only after construction.
type Tables struct {
	causes          map[domain.ClaimType][]domain.Cause
	seasonality     map[domain.ClaimType]Seasonality
	climate         map[domain.ClaimType]ClimateProfile
	severityFactors map[domain.ClaimType]Range
	seasonalTypes   []domain.ClaimType // fixed iteration order for sampling
	logger          *slog.Logger
}

// Default builds the standard taxonomy for the Brazilian residential
// portfolio and validates cross-table consistency. Gaps that the lookup
// functions would paper over at call time are surfaced here instead: an
// inconsistent seasonality entry is a hard error, a taxonomy type without
// seasonal coverage is a startup warning.
func Default(logger *slog.Logger) (*Tables, error) {
	t := &Tables{
		causes: map[domain.ClaimType][]domain.Cause{
			domain.TypeAlagamento: {"chuva intensa", "transbordamento de rio", "drenagem urbana insuficiente", "mare de tempestade"},
			domain.TypeVendaval:   {"rajada de vento", "ciclone extratropical", "frente fria intensa"},
			domain.TypeGranizo:    {"tempestade de granizo", "instabilidade convectiva"},
			domain.TypeIncendio:   {"incendio florestal", "queimada descontrolada", "curto-circuito em rede eletrica"},
			domain.TypeRaio:       {"descarga atmosferica direta", "sobretensao por raio"},
			domain.TypeTempestade: {"tempestade severa", "chuva com vendaval", "microexplosao"},
			domain.TypeTornado:    {"tornado", "nuvem funil"},
			domain.TypeSeca:       {"estiagem prolongada", "deficit hidrico"},
		},
		// Southern-hemisphere seasons: floods peak in the austral summer rains,
		// wildfires in the dry winter months, hail and windstorms in spring.
		// Only the four core types carry seasonal weights; the remaining types
		// are reachable through the caller-controlled bulk path.
		seasonality: map[domain.ClaimType]Seasonality{
			domain.TypeAlagamento: {PeakMonths: []time.Month{time.December, time.January, time.February, time.March}, BaseProbability: 0.30},
			domain.TypeVendaval:   {PeakMonths: []time.Month{time.August, time.September, time.October}, BaseProbability: 0.25},
			domain.TypeGranizo:    {PeakMonths: []time.Month{time.September, time.October, time.November}, BaseProbability: 0.15},
			domain.TypeIncendio:   {PeakMonths: []time.Month{time.June, time.July, time.August, time.September}, BaseProbability: 0.20},
		},
		climate: map[domain.ClaimType]ClimateProfile{
			domain.TypeAlagamento: {Precipitation: Range{50, 200}, WindSpeed: Range{5, 40}, Temperature: Range{18, 28}, Humidity: Range{80, 100}},
			domain.TypeVendaval:   {Precipitation: Range{0, 60}, WindSpeed: Range{60, 120}, Temperature: Range{15, 30}, Humidity: Range{40, 90}},
			domain.TypeGranizo:    {Precipitation: Range{10, 80}, WindSpeed: Range{30, 90}, Temperature: Range{5, 22}, Humidity: Range{50, 95}},
			domain.TypeIncendio:   {Precipitation: Range{0, 5}, WindSpeed: Range{10, 50}, Temperature: Range{28, 42}, Humidity: Range{10, 30}},
			domain.TypeRaio:       {Precipitation: Range{5, 80}, WindSpeed: Range{20, 70}, Temperature: Range{18, 32}, Humidity: Range{50, 95}},
			domain.TypeTempestade: {Precipitation: Range{30, 150}, WindSpeed: Range{40, 100}, Temperature: Range{16, 30}, Humidity: Range{60, 100}},
			domain.TypeTornado:    {Precipitation: Range{20, 120}, WindSpeed: Range{90, 250}, Temperature: Range{18, 32}, Humidity: Range{55, 95}},
			domain.TypeSeca:       {Precipitation: Range{0, 2}, WindSpeed: Range{5, 30}, Temperature: Range{25, 40}, Humidity: Range{5, 25}},
		},
		severityFactors: map[domain.ClaimType]Range{
			domain.TypeAlagamento: {0.05, 0.40},
			domain.TypeVendaval:   {0.10, 0.50},
			domain.TypeGranizo:    {0.05, 0.30},
			domain.TypeIncendio:   {0.40, 1.00},
			domain.TypeRaio:       {0.05, 0.25},
			domain.TypeTempestade: {0.10, 0.45},
			domain.TypeTornado:    {0.30, 0.90},
			domain.TypeSeca:       {0.05, 0.20},
		},
		logger: logger,
	}

	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// validate enforces cross-table consistency: every seasonal type must have
// causes, climate, and severity-factor entries. Taxonomy types without
// seasonal coverage are warned about but allowed — they remain reachable via
// the bulk generation path.
func (t *Tables) validate() error {
	for _, ct := range domain.AllClaimTypes() {
		if _, ok := t.seasonality[ct]; ok {
			t.seasonalTypes = append(t.seasonalTypes, ct)
		}
	}

	for _, ct := range t.seasonalTypes {
		s := t.seasonality[ct]
		if s.BaseProbability <= 0 {
			return fmt.Errorf("taxonomy: type %q has non-positive base probability %g", ct, s.BaseProbability)
		}
		if len(s.PeakMonths) == 0 {
			return fmt.Errorf("taxonomy: type %q has no peak months", ct)
		}
		if _, ok := t.causes[ct]; !ok {
			return fmt.Errorf("taxonomy: seasonal type %q has no cause pool", ct)
		}
		if _, ok := t.climate[ct]; !ok {
			return fmt.Errorf("taxonomy: seasonal type %q has no climate profile", ct)
		}
		if _, ok := t.severityFactors[ct]; !ok {
			return fmt.Errorf("taxonomy: seasonal type %q has no severity-factor range", ct)
		}
	}

	for ct, r := range t.severityFactors {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("taxonomy: type %q has invalid severity-factor range [%g, %g]", ct, r.Min, r.Max)
		}
	}

	for _, ct := range domain.AllClaimTypes() {
		if _, ok := t.seasonality[ct]; !ok {
			t.logger.Warn("claim type has no seasonality entry, excluded from the seasonal pool", "claim_type", ct)
		}
	}
	return nil
}

// SeasonalTypes returns the types carrying seasonal weights, in the fixed
// taxonomy order.
func (t *Tables) SeasonalTypes() []domain.ClaimType {
	return t.seasonalTypes
}

// SeasonalityFor returns a type's seasonality entry, if present.
func (t *Tables) SeasonalityFor(ct domain.ClaimType) (Seasonality, bool) {
	s, ok := t.seasonality[ct]
	return s, ok
}

// CausesFor returns the configured cause pool for a type, if present.
func (t *Tables) CausesFor(ct domain.ClaimType) ([]domain.Cause, bool) {
	pool, ok := t.causes[ct]
	return pool, ok
}

// ClimateFor returns the configured climate profile, or the broad default.
func (t *Tables) ClimateFor(ct domain.ClaimType) ClimateProfile {
	if p, ok := t.climate[ct]; ok {
		return p
	}
	return defaultClimate
}

// CauseForType uniformly samples one cause from the type's pool, falling
// back to FallbackCause for unmapped types.
func (t *Tables) CauseForType(rng *rand.Rand, ct domain.ClaimType) domain.Cause {
	pool, ok := t.causes[ct]
	if !ok || len(pool) == 0 {
		t.logger.Warn("no cause pool for claim type, using fallback cause", "claim_type", ct)
		return FallbackCause
	}
	return pool[rng.IntN(len(pool))]
}

// ClimateForType independently samples each weather field within the type's
// configured ranges, or the broad default ranges for unmapped types.
func (t *Tables) ClimateForType(rng *rand.Rand, ct domain.ClaimType) domain.WeatherSnapshot {
	profile, ok := t.climate[ct]
	if !ok {
		t.logger.Warn("no climate profile for claim type, using default ranges", "claim_type", ct)
		profile = defaultClimate
	}
	return domain.WeatherSnapshot{
		PrecipitationMM: uniform(rng, profile.Precipitation),
		WindSpeedKMH:    uniform(rng, profile.WindSpeed),
		TemperatureC:    uniform(rng, profile.Temperature),
		HumidityPct:     uniform(rng, profile.Humidity),
	}
}

// LossValue samples a severity factor within the type's fraction range,
// applies an independent variation factor in [0.8, 1.2], and clamps the
// product to the monetary floor. The factor × variation product may exceed
// 1.0 (incendio's upper bound is 1.0), so a loss can exceed the insured
// value — intentional, modeling over-cap ancillary costs.
func (t *Tables) LossValue(rng *rand.Rand, ct domain.ClaimType, insuredValue float64) float64 {
	factors, ok := t.severityFactors[ct]
	if !ok {
		t.logger.Warn("no severity-factor range for claim type, using default", "claim_type", ct)
		factors = defaultSeverityFactor
	}

	factor := uniform(rng, factors)
	variation := uniform(rng, Range{0.8, 1.2})

	loss := insuredValue * factor * variation
	if loss < domain.MinLossValue {
		return domain.MinLossValue
	}
	return loss
}

func uniform(rng *rand.Rand, r Range) float64 {
	return r.Min + rng.Float64()*(r.Max-r.Min)
}
