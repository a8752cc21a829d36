package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
)

func TestHeuristicScorer_Score(t *testing.T) {
	tests := []struct {
		name string
		txn  model.Transaction
		want string
	}{
		{
			name: "large foreign transaction is capped",
			txn:  model.Transaction{Amount: 1000, MerchantID: 5, DeviceScore: 0.2, DistanceFromLastKm: 3, Foreign: true, Hour: 14},
			want: "100.0",
		},
		{
			name: "trusted device with no amount scores zero",
			txn:  model.Transaction{Amount: 0, MerchantID: 1, DeviceScore: 1.0, Hour: 0},
			want: "0.0",
		},
		{
			name: "domestic mid-range",
			txn:  model.Transaction{Amount: 120, DeviceScore: 0.5},
			want: "17.0",
		},
		{
			name: "rounded to one decimal",
			txn:  model.Transaction{Amount: 33.33, DeviceScore: 0.75, Foreign: true},
			want: "25.8",
		},
		{
			name: "negative amount clamps at zero",
			txn:  model.Transaction{Amount: -500, DeviceScore: 0.1},
			want: "0.0",
		},
	}

	scorer := service.NewHeuristicScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.Score(tt.txn).String())
		})
	}
}

func TestHeuristicScorer_ScoreInputKeepsRawForeignValue(t *testing.T) {
	tests := []struct {
		name string
		in   service.HeuristicInput
		want string
	}{
		{"foreign flag of two doubles the term", service.HeuristicInput{Amount: 100, IsForeign: 2, DeviceScore: 1}, "50.0"},
		{"negative foreign flag subtracts", service.HeuristicInput{Amount: 500, IsForeign: -1, DeviceScore: 1}, "30.0"},
		{"large foreign flag clamps", service.HeuristicInput{Amount: 10, IsForeign: 9, DeviceScore: 1}, "100.0"},
		{"matches Score for a regular flag", service.HeuristicInput{Amount: 120, IsForeign: 1, DeviceScore: 0.5}, "37.0"},
	}

	scorer := service.NewHeuristicScorer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, scorer.ScoreInput(tt.in).String())
		})
	}

	txn := model.Transaction{Amount: 120, DeviceScore: 0.5, Foreign: true}
	assert.True(t, scorer.Score(txn).Equal(scorer.ScoreInput(service.HeuristicInputFrom(txn))))
}

func TestHeuristicScorer_IsPure(t *testing.T) {
	scorer := service.NewHeuristicScorer()
	txn := model.Transaction{Amount: 250, MerchantID: 9, DeviceScore: 0.4, DistanceFromLastKm: 12, Foreign: true, Hour: 3}

	first := scorer.Score(txn)
	second := scorer.Score(txn)
	assert.True(t, first.Equal(second))
}

func TestHeuristicScorer_ScoreBatch(t *testing.T) {
	scorer := service.NewHeuristicScorer()
	assert.Equal(t, service.MethodHeuristic, scorer.Method())

	_, err := scorer.ScoreBatch(nil)
	assert.ErrorIs(t, err, model.ErrEmptyBatch)

	scored, err := scorer.ScoreBatch([]model.Transaction{
		{Amount: 1000, DeviceScore: 0.2, Foreign: true},
		{Amount: 120, DeviceScore: 0.5},
	})
	require.NoError(t, err)
	require.Len(t, scored, 2)
	assert.Equal(t, "100.0", scored[0].FraudRisk.String())
	assert.Equal(t, "17.0", scored[1].FraudRisk.String())
	assert.False(t, scored[0].Outlier)
}

func TestParseScoringMethod(t *testing.T) {
	m, err := service.ParseScoringMethod("")
	require.NoError(t, err)
	assert.Equal(t, service.MethodAnomaly, m)

	m, err = service.ParseScoringMethod("heuristic")
	require.NoError(t, err)
	assert.Equal(t, service.MethodHeuristic, m)

	_, err = service.ParseScoringMethod("neural")
	assert.Error(t, err)
}
