package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSeverityFor(t *testing.T) {
	const insured = 100_000.0

	tests := []struct {
		name string
		loss float64
		want SeverityBand
	}{
		{"tiny loss", 1_000, SeverityLeve},
		{"just under first boundary", 9_990, SeverityLeve},
		{"exactly 10 percent", 10_000, SeverityModerado},
		{"just under 30 percent", 29_990, SeverityModerado},
		{"exactly 30 percent", 30_000, SeverityGrave},
		{"just under 60 percent", 59_990, SeverityGrave},
		{"exactly 60 percent", 60_000, SeveritySevero},
		{"just under 90 percent", 89_990, SeveritySevero},
		{"exactly 90 percent", 90_000, SeverityCatastrofico},
		{"full insured value", 100_000, SeverityCatastrofico},
		{"loss above insured value", 120_000, SeverityCatastrofico},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityFor(tt.loss, insured))
		})
	}
}

func TestSeverityForNonPositiveInsuredValue(t *testing.T) {
	assert.Equal(t, SeverityCatastrofico, SeverityFor(5_000, 0))
	assert.Equal(t, SeverityCatastrofico, SeverityFor(5_000, -1))
}

func TestSeverityForIsMonotonic(t *testing.T) {
	order := map[SeverityBand]int{
		SeverityLeve:         0,
		SeverityModerado:     1,
		SeverityGrave:        2,
		SeveritySevero:       3,
		SeverityCatastrofico: 4,
	}

	prev := 0
	for loss := 1_000.0; loss <= 150_000; loss += 1_000 {
		band := SeverityFor(loss, 100_000)
		rank, known := order[band]
		assert.True(t, known, "unknown band %q", band)
		assert.GreaterOrEqual(t, rank, prev, "band rank decreased at loss %.0f", loss)
		prev = rank
	}
}
