package analysis

import (
	"fmt"
	"sort"
	"time"

	"github.com/meridianseguros/claims-backfill/internal/domain"
)

// Patterns groups the analysis output. Groups are computed independently;
// a group that cannot be computed (empty dataset, no weather fields, no
// coordinates) is nil and omitted from serialization rather than raising.
type Patterns struct {
	Temporal   *TemporalPatterns   `json:"temporal,omitempty"`
	ByType     *TypePatterns       `json:"by_type,omitempty"`
	Climatic   *ClimaticPatterns   `json:"climatic,omitempty"`
	Financial  *FinancialPatterns  `json:"financial,omitempty"`
	Geographic *GeographicPatterns `json:"geographic,omitempty"`
}

// YearStats aggregates one calendar year.
type YearStats struct {
	Count int     `json:"count"`
	Sum   float64 `json:"sum"`
	Mean  float64 `json:"mean"`
}

// TemporalPatterns holds calendar-based aggregations.
type TemporalPatterns struct {
	ByMonth     map[int]int                      `json:"by_month"`
	ByWeekday   map[string]int                   `json:"by_weekday"`
	Yearly      map[int]YearStats                `json:"yearly"`
	TypeByMonth map[domain.ClaimType]map[int]int `json:"type_by_month"`
	PeakMonth   int                              `json:"peak_month"`
	TroughMonth int                              `json:"trough_month"`
}

// TypeStats aggregates loss and weather per claim type.
type TypeStats struct {
	Count           int      `json:"count"`
	Sum             float64  `json:"sum"`
	Mean            float64  `json:"mean"`
	Median          float64  `json:"median"`
	StdDev          float64  `json:"std_dev"`
	MeanPrecipMM    *float64 `json:"mean_precipitation_mm,omitempty"`
	MeanWindKMH     *float64 `json:"mean_wind_speed_kmh,omitempty"`
	MeanTemperature *float64 `json:"mean_temperature_c,omitempty"`
}

// TypePatterns holds per-type statistics and the two independent rankings.
// MostFrequent and MostCostly may disagree: frequency ranks by count,
// severity by mean loss.
type TypePatterns struct {
	Stats            map[domain.ClaimType]TypeStats `json:"stats"`
	FrequencyRanking []domain.ClaimType             `json:"frequency_ranking"`
	SeverityRanking  []domain.ClaimType             `json:"severity_ranking"`
	MostFrequent     domain.ClaimType               `json:"most_frequent"`
	MostCostly       domain.ClaimType               `json:"most_costly"`
}

// FieldStats are descriptive statistics for one numeric field.
type FieldStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P95    float64 `json:"p95"`
}

// ClimaticPatterns correlates weather readings with losses.
type ClimaticPatterns struct {
	Fields          map[string]FieldStats `json:"fields"`
	LossCorrelation map[string]float64    `json:"loss_correlation"`
	ExtremeCounts   map[string]int        `json:"extreme_counts"`
}

// TopLoss identifies one of the highest-loss events.
type TopLoss struct {
	ClaimType  domain.ClaimType `json:"claim_type"`
	LossValue  float64          `json:"loss_value"`
	OccurredAt time.Time        `json:"occurred_at"`
}

// FinancialPatterns holds the loss distribution and ranking views.
type FinancialPatterns struct {
	Histogram       map[string]int  `json:"histogram"`
	TopLosses       []TopLoss       `json:"top_losses"`
	TotalLoss       float64         `json:"total_loss"`
	MeanLossByMonth map[int]float64 `json:"mean_loss_by_month"`
}

// CellCount is a coarse spatial cell (coordinates rounded to 2 decimal
// places, ~1 km) with its event count.
type CellCount struct {
	Cell  string `json:"cell"`
	Count int    `json:"count"`
}

// GeographicPatterns holds spatial dispersion statistics.
type GeographicPatterns struct {
	Latitude     FieldStats  `json:"latitude"`
	Longitude    FieldStats  `json:"longitude"`
	DensestCells []CellCount `json:"densest_cells"`
	LatSpan      float64     `json:"lat_span"`
	LonSpan      float64     `json:"lon_span"`
}

// weatherFields enumerates the flattened weather field names in a fixed
// order so maps built from them serialize and iterate deterministically.
var weatherFields = []string{
	"precipitation_mm",
	"wind_speed_kmh",
	"temperature_c",
	"humidity_pct",
}

func weatherValue(w *domain.WeatherSnapshot, field string) float64 {
	switch field {
	case "precipitation_mm":
		return w.PrecipitationMM
	case "wind_speed_kmh":
		return w.WindSpeedKMH
	case "temperature_c":
		return w.TemperatureC
	default:
		return w.HumidityPct
	}
}

// AnalyzePatterns computes all pattern groups over the loaded dataset.
// An empty dataset yields the zero Patterns value, never an error.
func (a *Analyzer) AnalyzePatterns() Patterns {
	if len(a.records) == 0 {
		return Patterns{}
	}
	return Patterns{
		Temporal:   a.temporalPatterns(),
		ByType:     a.typePatterns(),
		Climatic:   a.climaticPatterns(),
		Financial:  a.financialPatterns(),
		Geographic: a.geographicPatterns(),
	}
}

func (a *Analyzer) temporalPatterns() *TemporalPatterns {
	tp := &TemporalPatterns{
		ByMonth:     make(map[int]int),
		ByWeekday:   make(map[string]int),
		Yearly:      make(map[int]YearStats),
		TypeByMonth: make(map[domain.ClaimType]map[int]int),
	}

	for i := range a.records {
		r := &a.records[i]
		m := int(r.month)
		tp.ByMonth[m]++
		tp.ByWeekday[r.weekday.String()]++

		ys := tp.Yearly[r.year]
		ys.Count++
		ys.Sum += r.LossValue
		tp.Yearly[r.year] = ys

		if tp.TypeByMonth[r.ClaimType] == nil {
			tp.TypeByMonth[r.ClaimType] = make(map[int]int)
		}
		tp.TypeByMonth[r.ClaimType][m]++
	}

	for year, ys := range tp.Yearly {
		ys.Mean = ys.Sum / float64(ys.Count)
		tp.Yearly[year] = ys
	}

	// Peak = argmax, trough = argmin over months present in the dataset;
	// ties break toward the smaller month number.
	peak, trough := 0, 0
	for m := 1; m <= 12; m++ {
		count, present := tp.ByMonth[m]
		if !present {
			continue
		}
		if peak == 0 || count > tp.ByMonth[peak] {
			peak = m
		}
		if trough == 0 || count < tp.ByMonth[trough] {
			trough = m
		}
	}
	tp.PeakMonth = peak
	tp.TroughMonth = trough
	return tp
}

func (a *Analyzer) typePatterns() *TypePatterns {
	losses := make(map[domain.ClaimType][]float64)
	precip := make(map[domain.ClaimType][]float64)
	wind := make(map[domain.ClaimType][]float64)
	temp := make(map[domain.ClaimType][]float64)

	for i := range a.records {
		r := &a.records[i]
		losses[r.ClaimType] = append(losses[r.ClaimType], r.LossValue)
		if r.Weather != nil {
			precip[r.ClaimType] = append(precip[r.ClaimType], r.Weather.PrecipitationMM)
			wind[r.ClaimType] = append(wind[r.ClaimType], r.Weather.WindSpeedKMH)
			temp[r.ClaimType] = append(temp[r.ClaimType], r.Weather.TemperatureC)
		}
	}

	tp := &TypePatterns{Stats: make(map[domain.ClaimType]TypeStats, len(losses))}
	for ct, vals := range losses {
		stats := TypeStats{
			Count:  len(vals),
			Mean:   mean(vals),
			Median: median(vals),
			StdDev: stdDev(vals),
		}
		for _, v := range vals {
			stats.Sum += v
		}
		if ws := precip[ct]; len(ws) > 0 {
			stats.MeanPrecipMM = meanPtr(ws)
			stats.MeanWindKMH = meanPtr(wind[ct])
			stats.MeanTemperature = meanPtr(temp[ct])
		}
		tp.Stats[ct] = stats
	}

	types := make([]domain.ClaimType, 0, len(tp.Stats))
	for ct := range tp.Stats {
		types = append(types, ct)
	}

	tp.FrequencyRanking = rankTypes(types, func(x, y domain.ClaimType) bool {
		return tp.Stats[x].Count > tp.Stats[y].Count
	})
	tp.SeverityRanking = rankTypes(types, func(x, y domain.ClaimType) bool {
		return tp.Stats[x].Mean > tp.Stats[y].Mean
	})
	tp.MostFrequent = tp.FrequencyRanking[0]
	tp.MostCostly = tp.SeverityRanking[0]
	return tp
}

// rankTypes sorts a copy of types by the given strict ordering, breaking
// ties lexicographically so output is deterministic.
func rankTypes(types []domain.ClaimType, less func(x, y domain.ClaimType) bool) []domain.ClaimType {
	ranked := append([]domain.ClaimType(nil), types...)
	sort.Slice(ranked, func(i, j int) bool {
		if less(ranked[i], ranked[j]) {
			return true
		}
		if less(ranked[j], ranked[i]) {
			return false
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}

func meanPtr(vals []float64) *float64 {
	m := mean(vals)
	return &m
}

// climaticPatterns returns nil when no event carries a weather snapshot —
// the group is marked unavailable rather than computed over nothing.
func (a *Analyzer) climaticPatterns() *ClimaticPatterns {
	series := make(map[string][]float64, len(weatherFields))
	var lossesWithWeather []float64

	for i := range a.records {
		r := &a.records[i]
		if r.Weather == nil {
			continue
		}
		for _, field := range weatherFields {
			series[field] = append(series[field], weatherValue(r.Weather, field))
		}
		lossesWithWeather = append(lossesWithWeather, r.LossValue)
	}
	if len(lossesWithWeather) == 0 {
		a.logger.Debug("no weather snapshots present, climatic patterns unavailable")
		return nil
	}

	cp := &ClimaticPatterns{
		Fields:          make(map[string]FieldStats, len(weatherFields)),
		LossCorrelation: make(map[string]float64, len(weatherFields)),
		ExtremeCounts:   make(map[string]int, len(weatherFields)),
	}
	for _, field := range weatherFields {
		vals := series[field]
		cp.Fields[field] = fieldStats(vals)
		cp.LossCorrelation[field] = pearson(vals, lossesWithWeather)

		p95 := cp.Fields[field].P95
		for _, v := range vals {
			if v >= p95 {
				cp.ExtremeCounts[field]++
			}
		}
	}
	return cp
}

// lossBands are the fixed histogram edges for loss values (BRL).
var lossBands = []struct {
	label string
	upper float64
}{
	{"0-10k", 10_000},
	{"10k-50k", 50_000},
	{"50k-100k", 100_000},
	{"100k-500k", 500_000},
	{"500k+", 0}, // open-ended
}

func (a *Analyzer) financialPatterns() *FinancialPatterns {
	fp := &FinancialPatterns{
		Histogram:       make(map[string]int, len(lossBands)),
		MeanLossByMonth: make(map[int]float64),
	}
	for _, band := range lossBands {
		fp.Histogram[band.label] = 0
	}

	monthSums := make(map[int]float64)
	monthCounts := make(map[int]int)

	for i := range a.records {
		r := &a.records[i]
		fp.TotalLoss += r.LossValue
		fp.Histogram[lossBand(r.LossValue)]++

		m := int(r.month)
		monthSums[m] += r.LossValue
		monthCounts[m]++
	}
	for m, sum := range monthSums {
		fp.MeanLossByMonth[m] = sum / float64(monthCounts[m])
	}

	ranked := make([]*record, len(a.records))
	for i := range a.records {
		ranked[i] = &a.records[i]
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].LossValue != ranked[j].LossValue {
			return ranked[i].LossValue > ranked[j].LossValue
		}
		return ranked[i].ID < ranked[j].ID
	})
	n := 10
	if len(ranked) < n {
		n = len(ranked)
	}
	fp.TopLosses = make([]TopLoss, 0, n)
	for _, r := range ranked[:n] {
		fp.TopLosses = append(fp.TopLosses, TopLoss{
			ClaimType:  r.ClaimType,
			LossValue:  r.LossValue,
			OccurredAt: r.OccurredAt,
		})
	}
	return fp
}

func lossBand(loss float64) string {
	for _, band := range lossBands[:len(lossBands)-1] {
		if loss < band.upper {
			return band.label
		}
	}
	return lossBands[len(lossBands)-1].label
}

// geographicPatterns returns nil when no event carries coordinates.
func (a *Analyzer) geographicPatterns() *GeographicPatterns {
	var lats, lons []float64
	cells := make(map[string]int)

	for i := range a.records {
		r := &a.records[i]
		if r.Geo.IsZero() {
			continue
		}
		lats = append(lats, r.Geo.Lat)
		lons = append(lons, r.Geo.Lon)
		cells[fmt.Sprintf("%.2f,%.2f", r.Geo.Lat, r.Geo.Lon)]++
	}
	if len(lats) == 0 {
		a.logger.Debug("no coordinates present, geographic patterns unavailable")
		return nil
	}

	gp := &GeographicPatterns{
		Latitude:  fieldStats(lats),
		Longitude: fieldStats(lons),
	}
	gp.LatSpan = gp.Latitude.Max - gp.Latitude.Min
	gp.LonSpan = gp.Longitude.Max - gp.Longitude.Min

	ranked := make([]CellCount, 0, len(cells))
	for cell, count := range cells {
		ranked = append(ranked, CellCount{Cell: cell, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Cell < ranked[j].Cell
	})
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}
	gp.DensestCells = ranked
	return gp
}

func fieldStats(vals []float64) FieldStats {
	if len(vals) == 0 {
		return FieldStats{}
	}
	fs := FieldStats{
		Count:  len(vals),
		Mean:   mean(vals),
		StdDev: stdDev(vals),
		Min:    vals[0],
		Max:    vals[0],
		P95:    percentile(vals, 95),
	}
	for _, v := range vals {
		if v < fs.Min {
			fs.Min = v
		}
		if v > fs.Max {
			fs.Max = v
		}
	}
	return fs
}
