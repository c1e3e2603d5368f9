package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// MinLossValue is the monetary floor (BRL) for any synthesized loss.
const MinLossValue = 1000.0

// ClaimType is the closed category of peril covered by the portfolio.
type ClaimType string

const (
	TypeAlagamento ClaimType = "alagamento" // flood
	TypeVendaval   ClaimType = "vendaval"   // windstorm
	TypeGranizo    ClaimType = "granizo"    // hail
	TypeIncendio   ClaimType = "incendio"   // wildfire
	TypeRaio       ClaimType = "raio"       // lightning
	TypeTempestade ClaimType = "tempestade" // storm
	TypeTornado    ClaimType = "tornado"
	TypeSeca       ClaimType = "seca" // drought
)

// AllClaimTypes returns the closed set of claim types in a fixed order.
// Callers iterating taxonomy tables use this order so sampling stays
// deterministic under a fixed seed.
func AllClaimTypes() []ClaimType {
	return []ClaimType{
		TypeAlagamento,
		TypeVendaval,
		TypeGranizo,
		TypeIncendio,
		TypeRaio,
		TypeTempestade,
		TypeTornado,
		TypeSeca,
	}
}

// Cause is the specific triggering phenomenon consistent with a claim type.
type Cause string

// Geo represents a WGS-84 latitude/longitude coordinate pair.
type Geo struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IsZero reports whether both coordinates are unset. (0,0) is in the Gulf of
// Guinea, far outside the covered territory, so it doubles as the "missing"
// sentinel.
func (g Geo) IsZero() bool {
	return g.Lat == 0 && g.Lon == 0
}

// WeatherSnapshot holds the climate readings attached to a claim event.
// It stays structured from creation through analysis; serialization to a
// string happens only at the persistence boundary.
type WeatherSnapshot struct {
	PrecipitationMM float64 `json:"precipitation_mm"`
	WindSpeedKMH    float64 `json:"wind_speed_kmh"`
	TemperatureC    float64 `json:"temperature_c"`
	HumidityPct     float64 `json:"humidity_pct"`
}

// Policy is the read-only input supplied by the external policy store.
type Policy struct {
	ID            string    `json:"id"`
	PostalCode    string    `json:"postal_code"`
	Geo           Geo       `json:"geo,omitempty"`
	ResidenceType string    `json:"residence_type"`
	InsuredValue  float64   `json:"insured_value"`
	ContractDate  time.Time `json:"contract_date"`
	Active        bool      `json:"active"`
}

// ValidatePolicy rejects policies whose mandatory numeric fields are missing
// or nonsensical. These fields parameterize the probability model directly,
// so silent defaulting would skew every downstream statistic. Missing
// coordinates are NOT an error: they are defaulted (with a warning) because
// the original system tolerated them.
func ValidatePolicy(p Policy) error {
	if p.ID == "" {
		return fmt.Errorf("policy: missing id")
	}
	if p.InsuredValue <= 0 {
		return fmt.Errorf("policy %s: insured value must be positive, got %g", p.ID, p.InsuredValue)
	}
	if p.ContractDate.IsZero() {
		return fmt.Errorf("policy %s: missing contract date", p.ID)
	}
	return nil
}

// ClaimEvent is one synthesized or real occurrence of an insured loss, tied
// to exactly one policy. Created once, immutable thereafter.
type ClaimEvent struct {
	ID         string           `json:"id"`
	PolicyID   string           `json:"policy_id"`
	OccurredAt time.Time        `json:"occurred_at"`
	ClaimType  ClaimType        `json:"claim_type"`
	Cause      Cause            `json:"cause"`
	LossValue  float64          `json:"loss_value"`
	Geo        Geo              `json:"geo"`
	Weather    *WeatherSnapshot `json:"weather,omitempty"`
	Severity   SeverityBand     `json:"severity"`
}

// NewEventID produces a deterministic ID from the event's key fields.
// Reprocessing the same inputs yields the same ID, so replays and fixed-seed
// regeneration are idempotent downstream.
func NewEventID(policyID string, claimType ClaimType, occurredAt time.Time, loss float64) string {
	input := fmt.Sprintf("%s|%s|%s|%.2f", policyID, claimType, occurredAt.UTC().Format(time.RFC3339), loss)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if claimType == "" {
		return short
	}
	return string(claimType) + "-" + short
}
