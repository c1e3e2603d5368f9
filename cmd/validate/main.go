// Command validate performs data integrity checks over a generated
// claim-event file against the policy portfolio it was generated from. It
// verifies referential integrity, monetary and temporal invariants, severity
// banding, and taxonomy consistency.
//
// Usage:
//
//	go run ./cmd/validate \
//	  -events data/claim_events.json \
//	  -policies data/policies.csv \
//	  -window-days 365
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/meridianseguros/claims-backfill/internal/adapter/policyfile"
	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/taxonomy"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	eventsPath := flag.String("events", "", "path to a claim-event JSON array")
	policiesPath := flag.String("policies", "", "path to the policy CSV the events were generated from")
	windowDays := flag.Int("window-days", 365, "generation window used for the events")
	flag.Parse()

	if *eventsPath == "" || *policiesPath == "" {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(*eventsPath, *policiesPath, *windowDays); code != 0 {
		os.Exit(code)
	}
}

func run(eventsPath, policiesPath string, windowDays int) int {
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	fmt.Println("=== Claim Event Integrity Validation ===")
	fmt.Println()

	events, err := loadEvents(eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load events: %v\n", err)
		return 1
	}

	policies, err := policyfile.NewReader(policiesPath, discard).FetchPolicies(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: load policies: %v\n", err)
		return 1
	}

	tables, err := taxonomy.Default(discard)
	if err != nil {
		fmt.Fprintf(os.Stderr, "FATAL: build taxonomy: %v\n", err)
		return 1
	}

	byID := make(map[string]domain.Policy, len(policies))
	for _, p := range policies {
		byID[p.ID] = p
	}

	phases := []*phase{
		validateReferences(events, byID),
		validateMonetary(events, byID),
		validateTemporal(events, byID, windowDays),
		validateTaxonomy(events, tables),
	}

	fmt.Println()
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Printf("  %-44s %s\n", p.name, status)
	}

	fmt.Println()
	fmt.Printf("Records: %d events, %d policies\n", len(events), len(policies))

	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Printf("\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Printf("  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Println("\nAll validations passed.")
		return 0
	}
	fmt.Println("\nValidation FAILED.")
	return 1
}

func loadEvents(path string) ([]domain.ClaimEvent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var events []domain.ClaimEvent
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// ── Phase 1: Referential Integrity ──
// Every event must reference an existing policy and carry a type-prefixed ID.

func validateReferences(events []domain.ClaimEvent, byID map[string]domain.Policy) *phase {
	p := &phase{name: "Phase 1: Referential Integrity"}
	seen := map[string]int{}

	for i := range events {
		e := &events[i]
		if e.PolicyID == "" {
			p.errorf("event %d: missing policy_id", i)
		} else if _, ok := byID[e.PolicyID]; !ok {
			p.errorf("event %d: policy %q not found in portfolio", i, e.PolicyID)
		}
		if e.ID == "" {
			p.errorf("event %d: missing id", i)
		} else {
			seen[e.ID]++
			if prefix := string(e.ClaimType) + "-"; len(e.ID) <= len(prefix) || e.ID[:len(prefix)] != prefix {
				p.errorf("event %d: id %q does not start with type prefix %q", i, e.ID, prefix)
			}
		}
	}
	for id, n := range seen {
		if n > 1 {
			p.errorf("duplicate event id %q occurs %d times", id, n)
		}
	}
	return p
}

// ── Phase 2: Monetary Invariants ──
// Loss floor and severity banding against the insured value.

func validateMonetary(events []domain.ClaimEvent, byID map[string]domain.Policy) *phase {
	p := &phase{name: "Phase 2: Monetary Invariants"}

	for i := range events {
		e := &events[i]
		if e.LossValue < domain.MinLossValue {
			p.errorf("event %d (%s): loss %.2f below floor %.2f", i, e.ID, e.LossValue, domain.MinLossValue)
		}
		pol, ok := byID[e.PolicyID]
		if !ok {
			continue // reported in phase 1
		}
		if expected := domain.SeverityFor(e.LossValue, pol.InsuredValue); e.Severity != expected {
			p.errorf("event %d (%s): severity %q, expected %q for ratio %.4f",
				i, e.ID, e.Severity, expected, e.LossValue/pol.InsuredValue)
		}
	}
	return p
}

// ── Phase 3: Temporal Invariants ──
// Events occur strictly after the contract date and inside the generation
// window (with the 30-day fallback horizon for very recent policies).

func validateTemporal(events []domain.ClaimEvent, byID map[string]domain.Policy, windowDays int) *phase {
	p := &phase{name: "Phase 3: Temporal Invariants"}
	horizon := windowDays
	if horizon < 30 {
		horizon = 30
	}

	for i := range events {
		e := &events[i]
		pol, ok := byID[e.PolicyID]
		if !ok {
			continue
		}
		if !e.OccurredAt.After(pol.ContractDate) {
			p.errorf("event %d (%s): occurred_at %s not after contract date %s",
				i, e.ID, e.OccurredAt.Format(time.RFC3339), pol.ContractDate.Format(time.RFC3339))
		}
		// One day of slack covers the fallback horizon's time-of-day draw.
		limit := pol.ContractDate.AddDate(0, 0, horizon+1)
		if e.OccurredAt.After(limit) {
			p.errorf("event %d (%s): occurred_at %s beyond %d-day window from %s",
				i, e.ID, e.OccurredAt.Format(time.RFC3339), horizon, pol.ContractDate.Format(time.RFC3339))
		}
	}
	return p
}

// ── Phase 4: Taxonomy Consistency ──
// Claim types belong to the closed set, causes to the type's pool, and
// weather readings to the type's climate profile.

func validateTaxonomy(events []domain.ClaimEvent, tables *taxonomy.Tables) *phase {
	p := &phase{name: "Phase 4: Taxonomy Consistency"}

	validTypes := map[domain.ClaimType]bool{}
	for _, ct := range domain.AllClaimTypes() {
		validTypes[ct] = true
	}

	for i := range events {
		e := &events[i]
		if !validTypes[e.ClaimType] {
			p.errorf("event %d (%s): unknown claim type %q", i, e.ID, e.ClaimType)
			continue
		}

		if pool, ok := tables.CausesFor(e.ClaimType); ok {
			found := e.Cause == taxonomy.FallbackCause
			for _, c := range pool {
				if c == e.Cause {
					found = true
					break
				}
			}
			if !found {
				p.errorf("event %d (%s): cause %q not allowed for type %q", i, e.ID, e.Cause, e.ClaimType)
			}
		}

		if e.Weather != nil {
			profile := tables.ClimateFor(e.ClaimType)
			checkRange(p, i, e.ID, "precipitation_mm", e.Weather.PrecipitationMM, profile.Precipitation)
			checkRange(p, i, e.ID, "wind_speed_kmh", e.Weather.WindSpeedKMH, profile.WindSpeed)
			checkRange(p, i, e.ID, "temperature_c", e.Weather.TemperatureC, profile.Temperature)
			checkRange(p, i, e.ID, "humidity_pct", e.Weather.HumidityPct, profile.Humidity)
		}
	}
	return p
}

func checkRange(p *phase, i int, id, field string, value float64, r taxonomy.Range) {
	if value < r.Min || value > r.Max {
		p.errorf("event %d (%s): %s %.2f outside [%.2f, %.2f]", i, id, field, value, r.Min, r.Max)
	}
}
