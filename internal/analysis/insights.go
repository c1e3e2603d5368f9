package analysis

import (
	"fmt"
	"time"
)

// Insights is the output of the rule engine: plain statements derived from
// the computed patterns, not a model.
type Insights struct {
	Alerts          []string `json:"alerts,omitempty"`
	Recommendations []string `json:"recommendations,omitempty"`
	Trends          []string `json:"trends,omitempty"`
	Opportunities   []string `json:"opportunities,omitempty"`
}

// standardRecommendations is the fixed list emitted regardless of the data.
var standardRecommendations = []string{
	"Revisar a precificação dos tipos de sinistro com maior perda média.",
	"Reforçar campanhas de prevenção antes dos meses de pico sazonal.",
	"Avaliar cobertura de resseguro para eventos na banda catastrófica.",
	"Cruzar células geográficas densas com dados de infraestrutura local.",
}

// GenerateInsights applies the alert/trend rules over the current dataset.
// An empty dataset yields the zero Insights value — every rule that would
// divide by the event count is guarded.
func (a *Analyzer) GenerateInsights() Insights {
	if len(a.records) == 0 {
		return Insights{}
	}

	patterns := a.AnalyzePatterns()
	var ins Insights

	if t := patterns.Temporal; t != nil && t.PeakMonth != 0 {
		ins.Alerts = append(ins.Alerts, fmt.Sprintf(
			"Concentração sazonal: %s é o mês de pico com %d sinistros.",
			time.Month(t.PeakMonth), t.ByMonth[t.PeakMonth],
		))
	}
	if bt := patterns.ByType; bt != nil {
		ins.Alerts = append(ins.Alerts, fmt.Sprintf(
			"Tipo mais custoso: %s com perda média de R$ %.2f.",
			bt.MostCostly, bt.Stats[bt.MostCostly].Mean,
		))
		if bt.MostCostly != bt.MostFrequent {
			ins.Opportunities = append(ins.Opportunities, fmt.Sprintf(
				"%s é raro porém custoso (frequência lidera %s): candidato a prevenção direcionada.",
				bt.MostCostly, bt.MostFrequent,
			))
		}
	}

	ins.Recommendations = append(ins.Recommendations, standardRecommendations...)

	if f := patterns.Financial; f != nil {
		meanLoss := f.TotalLoss / float64(len(a.records))
		ins.Trends = append(ins.Trends, fmt.Sprintf(
			"Perda média por sinistro no período: R$ %.2f (%d eventos, R$ %.2f no total).",
			meanLoss, len(a.records), f.TotalLoss,
		))
	}

	return ins
}
