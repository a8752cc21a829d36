package valueobject

// Thresholds on the 0-100 scale. A score strictly above AlertThreshold is a
// fraud alert; strictly above HighRiskThreshold is a high-risk loan.
const (
	AlertThreshold    = 90.0
	HighRiskThreshold = 60.0
	MediumThreshold   = 30.0
)

// RiskLevel is the coarse band a RiskScore falls into. It travels as text in
// alert events and API responses.
type RiskLevel struct {
	value string
}

var (
	RiskLevelLow      = RiskLevel{value: "LOW"}
	RiskLevelMedium   = RiskLevel{value: "MEDIUM"}
	RiskLevelHigh     = RiskLevel{value: "HIGH"}
	RiskLevelCritical = RiskLevel{value: "CRITICAL"}
)

// bands is ordered from the most to the least severe level.
var bands = []struct {
	level RiskLevel
	above func(RiskScore) bool
}{
	{RiskLevelCritical, func(s RiskScore) bool { return s.Exceeds(AlertThreshold) }},
	{RiskLevelHigh, func(s RiskScore) bool { return s.Exceeds(HighRiskThreshold) }},
	{RiskLevelMedium, func(s RiskScore) bool { return s.Float64() >= MediumThreshold }},
}

// RiskLevelFromScore returns the band of score. Alert and high-risk bands are
// exclusive of their threshold, the medium band is inclusive.
func RiskLevelFromScore(score RiskScore) RiskLevel {
	for _, b := range bands {
		if b.above(score) {
			return b.level
		}
	}
	return RiskLevelLow
}

func (r RiskLevel) String() string {
	return r.value
}

// IsZero reports whether the level was never derived from a score.
func (r RiskLevel) IsZero() bool {
	return r.value == ""
}

func (r RiskLevel) Equal(other RiskLevel) bool {
	return r.value == other.value
}
