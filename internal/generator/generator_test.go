package generator

import (
	"io"
	"log/slog"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meridianseguros/claims-backfill/internal/domain"
	"github.com/meridianseguros/claims-backfill/internal/observability"
	"github.com/meridianseguros/claims-backfill/internal/taxonomy"
)

var testNow = time.Date(2026, time.January, 15, 12, 0, 0, 0, time.UTC)

func newTestGenerator(t *testing.T, seed uint64) *Generator {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tables, err := taxonomy.Default(logger)
	require.NoError(t, err)

	return New(
		tables,
		rand.New(rand.NewPCG(seed, seed)),
		clockwork.NewFakeClockAt(testNow),
		logger,
		observability.NewMetricsForTesting(),
	)
}

func testPolicies(n int) []domain.Policy {
	policies := make([]domain.Policy, 0, n)
	for i := 0; i < n; i++ {
		policies = append(policies, domain.Policy{
			ID:            "POL-" + string(rune('A'+i%26)) + string(rune('0'+i/26)),
			PostalCode:    "01310-100",
			Geo:           domain.Geo{Lat: -23.5505, Lon: -46.6333},
			ResidenceType: "casa",
			InsuredValue:  200_000 + float64(i)*10_000,
			ContractDate:  time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, i),
			Active:        true,
		})
	}
	return policies
}

func TestGenerateForPolicies(t *testing.T) {
	t.Run("produces the requested count with valid fields", func(t *testing.T) {
		gen := newTestGenerator(t, 1)
		policies := testPolicies(10)

		events := gen.GenerateForPolicies(policies, Options{Count: 5, WindowDays: 365})
		require.Len(t, events, 5)

		byID := map[string]domain.Policy{}
		for _, p := range policies {
			byID[p.ID] = p
		}

		for _, e := range events {
			p, ok := byID[e.PolicyID]
			require.True(t, ok, "event references unknown policy %q", e.PolicyID)

			assert.NotEmpty(t, e.ID)
			assert.NotEmpty(t, e.Cause)
			assert.NotNil(t, e.Weather)
			assert.GreaterOrEqual(t, e.LossValue, domain.MinLossValue)
			assert.Equal(t, domain.SeverityFor(e.LossValue, p.InsuredValue), e.Severity)

			assert.True(t, e.OccurredAt.After(p.ContractDate),
				"event at %s not after contract %s", e.OccurredAt, p.ContractDate)
			limit := p.ContractDate.AddDate(0, 0, 365)
			if testNow.Before(limit) {
				limit = testNow
			}
			assert.False(t, e.OccurredAt.After(limit),
				"event at %s beyond window limit %s", e.OccurredAt, limit)
		}
	})

	t.Run("fixed seed reproduces the batch exactly", func(t *testing.T) {
		policies := testPolicies(10)
		opts := Options{Count: 20, WindowDays: 365}

		first := newTestGenerator(t, 99).GenerateForPolicies(policies, opts)
		second := newTestGenerator(t, 99).GenerateForPolicies(policies, opts)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("seeded batches differ (-first +second):\n%s", diff)
		}
	})

	t.Run("different seeds diverge", func(t *testing.T) {
		policies := testPolicies(10)
		opts := Options{Count: 20, WindowDays: 365}

		first := newTestGenerator(t, 1).GenerateForPolicies(policies, opts)
		second := newTestGenerator(t, 2).GenerateForPolicies(policies, opts)

		assert.NotEqual(t, first, second)
	})

	t.Run("inactive policies never receive events", func(t *testing.T) {
		gen := newTestGenerator(t, 1)
		policies := testPolicies(10)
		policies[3].Active = false
		policies[7].Active = false

		events := gen.GenerateForPolicies(policies, Options{Count: 50})
		for _, e := range events {
			assert.NotEqual(t, policies[3].ID, e.PolicyID)
			assert.NotEqual(t, policies[7].ID, e.PolicyID)
		}
	})

	t.Run("no active policies yields an empty batch", func(t *testing.T) {
		gen := newTestGenerator(t, 1)
		policies := testPolicies(5)
		for i := range policies {
			policies[i].Active = false
		}

		events := gen.GenerateForPolicies(policies, Options{Count: 10})
		assert.NotNil(t, events)
		assert.Empty(t, events)
	})

	t.Run("zero count draws 15 to 25 percent of the active portfolio", func(t *testing.T) {
		gen := newTestGenerator(t, 7)
		policies := testPolicies(100)

		events := gen.GenerateForPolicies(policies, Options{})
		assert.GreaterOrEqual(t, len(events), 15)
		assert.LessOrEqual(t, len(events), 25)
	})

	t.Run("seasonal path only emits types from the seasonal pool", func(t *testing.T) {
		gen := newTestGenerator(t, 3)
		seasonal := map[domain.ClaimType]bool{
			domain.TypeAlagamento: true,
			domain.TypeVendaval:   true,
			domain.TypeGranizo:    true,
			domain.TypeIncendio:   true,
		}

		events := gen.GenerateForPolicies(testPolicies(10), Options{Count: 200})
		for _, e := range events {
			assert.True(t, seasonal[e.ClaimType], "unexpected type %q from the seasonal path", e.ClaimType)
		}
	})
}

func TestSeasonalTypeWeighting(t *testing.T) {
	const draws = 10_000

	share := func(t *testing.T, gen *Generator, month time.Month, ct domain.ClaimType) float64 {
		t.Helper()
		hits := 0
		for i := 0; i < draws; i++ {
			got, err := gen.seasonalType(month)
			require.NoError(t, err)
			if got == ct {
				hits++
			}
		}
		return float64(hits) / draws
	}

	t.Run("flood dominates its peak month and recedes off-peak", func(t *testing.T) {
		gen := newTestGenerator(t, 11)
		january := share(t, gen, time.January, domain.TypeAlagamento)
		july := share(t, gen, time.July, domain.TypeAlagamento)

		assert.Greater(t, january, 0.5, "january share")
		assert.Less(t, july, 0.35, "july share")
		assert.GreaterOrEqual(t, january/july, 2.0, "peak-to-off-peak ratio")
	})

	t.Run("wildfire dominates the dry winter", func(t *testing.T) {
		gen := newTestGenerator(t, 11)
		july := share(t, gen, time.July, domain.TypeIncendio)
		january := share(t, gen, time.January, domain.TypeIncendio)

		assert.Greater(t, july, january)
	})
}

func TestRandomTimestamp(t *testing.T) {
	t.Run("recent policy falls back to a 30-day horizon", func(t *testing.T) {
		gen := newTestGenerator(t, 5)
		// Contract signed "today": the window has no room before now.
		contract := testNow

		for i := 0; i < 100; i++ {
			ts := gen.randomTimestamp(contract, 365)
			assert.True(t, ts.After(contract))
			assert.False(t, ts.After(contract.AddDate(0, 0, 30)))
		}
	})

	t.Run("old policy stays inside the window", func(t *testing.T) {
		gen := newTestGenerator(t, 5)
		contract := testNow.AddDate(-3, 0, 0)

		for i := 0; i < 100; i++ {
			ts := gen.randomTimestamp(contract, 365)
			assert.True(t, ts.After(contract))
			assert.False(t, ts.After(contract.AddDate(0, 0, 365)))
		}
	})
}

func TestJitterStaysBounded(t *testing.T) {
	gen := newTestGenerator(t, 13)
	origin := domain.Geo{Lat: -23.5505, Lon: -46.6333}

	for i := 0; i < 1_000; i++ {
		got := gen.jitter(origin)
		assert.InDelta(t, origin.Lat, got.Lat, locationJitterDeg)
		assert.InDelta(t, origin.Lon, got.Lon, locationJitterDeg)
	}
}
