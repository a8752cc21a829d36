package valueobject

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	minRisk = decimal.Zero
	maxRisk = decimal.NewFromInt(100)
)

// RiskScore is an immutable risk value in [0, 100] held at one decimal place.
type RiskScore struct {
	value decimal.Decimal
}

// NewRiskScore clamps v to [0, 100] and rounds it half away from zero to one
// decimal place. NaN maps to zero.
func NewRiskScore(v float64) RiskScore {
	switch {
	case math.IsNaN(v), v <= 0:
		return RiskScore{value: minRisk}
	case v >= 100:
		return RiskScore{value: maxRisk}
	}
	return RiskScore{value: decimal.NewFromFloat(v).Round(1)}
}

// RiskScoreFromString parses a risk score previously rendered with String.
func RiskScoreFromString(s string) (RiskScore, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return RiskScore{}, fmt.Errorf("invalid risk score %q: %w", s, err)
	}
	if d.LessThan(minRisk) || d.GreaterThan(maxRisk) {
		return RiskScore{}, fmt.Errorf("risk score %s outside [0, 100]", s)
	}
	return RiskScore{value: d.Round(1)}, nil
}

// Float64 returns the score as a float.
func (r RiskScore) Float64() float64 {
	return r.value.InexactFloat64()
}

// Decimal returns the underlying decimal value.
func (r RiskScore) Decimal() decimal.Decimal {
	return r.value
}

// String renders the score with exactly one decimal place.
func (r RiskScore) String() string {
	return r.value.StringFixed(1)
}

// Exceeds reports whether the score is strictly above threshold.
func (r RiskScore) Exceeds(threshold float64) bool {
	return r.value.GreaterThan(decimal.NewFromFloat(threshold))
}

// Equal checks equality with another RiskScore.
func (r RiskScore) Equal(other RiskScore) bool {
	return r.value.Equal(other.value)
}

// Compare returns -1, 0 or 1 as r is below, equal to or above other.
func (r RiskScore) Compare(other RiskScore) int {
	return r.value.Cmp(other.value)
}

// Level derives the risk level for this score.
func (r RiskScore) Level() RiskLevel {
	return RiskLevelFromScore(r)
}

// MarshalJSON renders the score as a JSON number with one decimal place.
func (r RiskScore) MarshalJSON() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalJSON parses a JSON number into a score.
func (r *RiskScore) UnmarshalJSON(data []byte) error {
	parsed, err := RiskScoreFromString(string(data))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
