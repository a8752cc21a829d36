package valueobject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

func TestRiskLevelFromScore_Bands(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{0, "LOW"},
		{29.9, "LOW"},
		{30, "MEDIUM"},
		{60, "MEDIUM"},
		{60.1, "HIGH"},
		{90, "HIGH"},
		{90.1, "CRITICAL"},
		{100, "CRITICAL"},
		{250, "CRITICAL"},
		{-5, "LOW"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := valueobject.NewRiskScore(tt.score).Level()
			assert.Equal(t, tt.want, got.String(), "score %.1f", tt.score)
		})
	}
}

func TestRiskLevel_ThresholdsAgreeWithAlerts(t *testing.T) {
	alert := valueobject.NewRiskScore(valueobject.AlertThreshold + 0.1)
	assert.True(t, alert.Exceeds(valueobject.AlertThreshold))
	assert.True(t, valueobject.RiskLevelCritical.Equal(alert.Level()))

	edge := valueobject.NewRiskScore(valueobject.AlertThreshold)
	assert.False(t, edge.Exceeds(valueobject.AlertThreshold))
	assert.True(t, valueobject.RiskLevelHigh.Equal(edge.Level()))
}

func TestRiskLevel_IsZero(t *testing.T) {
	var zero valueobject.RiskLevel
	assert.True(t, zero.IsZero())
	assert.Empty(t, zero.String())
	assert.False(t, valueobject.RiskLevelLow.IsZero())
}
