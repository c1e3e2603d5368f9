package generator

import (
	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// LossStats aggregates loss values for one claim type.
type LossStats struct {
	Sum  float64 `json:"sum"`
	Mean float64 `json:"mean"`
	Max  float64 `json:"max"`
	Min  float64 `json:"min"`
}

// Summary describes a generated batch: totals plus per-type breakdowns.
type Summary struct {
	Total       int                            `json:"total"`
	TotalLoss   float64                        `json:"total_loss"`
	MeanLoss    float64                        `json:"mean_loss"`
	CountByType map[domain.ClaimType]int       `json:"count_by_type"`
	LossByType  map[domain.ClaimType]LossStats `json:"loss_by_type"`
}

// Summarize computes batch statistics over a set of claim events. An empty
// input yields a zeroed Summary with empty maps, not an error.
func Summarize(events []domain.ClaimEvent) Summary {
	s := Summary{
		CountByType: make(map[domain.ClaimType]int),
		LossByType:  make(map[domain.ClaimType]LossStats),
	}
	if len(events) == 0 {
		return s
	}

	for i := range events {
		e := &events[i]
		s.Total++
		s.TotalLoss += e.LossValue
		s.CountByType[e.ClaimType]++

		stats, seen := s.LossByType[e.ClaimType]
		if !seen {
			stats = LossStats{Min: e.LossValue, Max: e.LossValue}
		}
		stats.Sum += e.LossValue
		if e.LossValue > stats.Max {
			stats.Max = e.LossValue
		}
		if e.LossValue < stats.Min {
			stats.Min = e.LossValue
		}
		s.LossByType[e.ClaimType] = stats
	}

	s.MeanLoss = s.TotalLoss / float64(s.Total)
	for ct, stats := range s.LossByType {
		stats.Mean = stats.Sum / float64(s.CountByType[ct])
		s.LossByType[ct] = stats
	}
	return s
}
