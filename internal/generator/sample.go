package generator

import (
	"fmt"
	"math/rand/v2"
	"sort"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// weightedSampler draws claim types from a categorical distribution using a
// cumulative-weight array and binary search. Built once per event batch and
// reused for every draw in that batch.
type weightedSampler struct {
	types []domain.ClaimType
	cum   []float64
}

// newWeightedSampler builds a sampler over parallel type/weight slices.
// Weights need not be normalized; they must be non-negative with a positive
// sum.
func newWeightedSampler(types []domain.ClaimType, weights []float64) (weightedSampler, error) {
	if len(types) == 0 || len(types) != len(weights) {
		return weightedSampler{}, fmt.Errorf("weighted sampler: %d types vs %d weights", len(types), len(weights))
	}

	cum := make([]float64, len(weights))
	var total float64
	for i, w := range weights {
		if w < 0 {
			return weightedSampler{}, fmt.Errorf("weighted sampler: negative weight %g for type %q", w, types[i])
		}
		total += w
		cum[i] = total
	}
	if total <= 0 {
		return weightedSampler{}, fmt.Errorf("weighted sampler: weights sum to zero")
	}

	return weightedSampler{types: types, cum: cum}, nil
}

// draw samples one claim type.
func (s weightedSampler) draw(rng *rand.Rand) domain.ClaimType {
	u := rng.Float64() * s.cum[len(s.cum)-1]
	i := sort.SearchFloat64s(s.cum, u)
	// SearchFloat64s returns the first index with cum[i] >= u; u lands in
	// [0, total) so i is always in range, but guard against float edge cases.
	if i >= len(s.types) {
		i = len(s.types) - 1
	}
	return s.types[i]
}
