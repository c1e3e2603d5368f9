package domain

// SeverityBand is the ordered classification of loss magnitude relative to
// the insured value.
type SeverityBand string

const (
	SeverityLeve         SeverityBand = "leve"
	SeverityModerado     SeverityBand = "moderado"
	SeverityGrave        SeverityBand = "grave"
	SeveritySevero       SeverityBand = "severo"
	SeverityCatastrofico SeverityBand = "catastrofico"
)

// SeverityFor classifies a loss against the insured value. The banding is
// monotonic in the ratio and boundary-exact: a ratio of exactly 0.1 is
// moderado, 0.3 is grave, 0.6 is severo, 0.9 is catastrofico. A non-positive
// insured value classifies as catastrofico since the loss exceeds any cover.
func SeverityFor(lossValue, insuredValue float64) SeverityBand {
	if insuredValue <= 0 {
		return SeverityCatastrofico
	}
	ratio := lossValue / insuredValue
	switch {
	case ratio < 0.1:
		return SeverityLeve
	case ratio < 0.3:
		return SeverityModerado
	case ratio < 0.6:
		return SeverityGrave
	case ratio < 0.9:
		return SeveritySevero
	default:
		return SeverityCatastrofico
	}
}
