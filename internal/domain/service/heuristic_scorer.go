package service

import (
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

// HeuristicScorer computes a fixed-formula fraud risk for a single transaction:
//
//	risk = clamp(amount/10 + 20*is_foreign + (1-device_score)*10, 0, 100)
//
// Inputs are not validated; out-of-domain values only move the clamped output.
type HeuristicScorer struct{}

// HeuristicInput holds the fields the formula reads. IsForeign is used as
// given, so a caller sending 2 or -1 gets that multiple of the foreign term.
type HeuristicInput struct {
	Amount      float64
	IsForeign   float64
	DeviceScore float64
}

// HeuristicInputFrom takes the formula fields from a decoded transaction.
func HeuristicInputFrom(txn model.Transaction) HeuristicInput {
	return HeuristicInput{Amount: txn.Amount, IsForeign: txn.ForeignFlag(), DeviceScore: txn.DeviceScore}
}

// NewHeuristicScorer creates a new HeuristicScorer instance.
func NewHeuristicScorer() *HeuristicScorer {
	return &HeuristicScorer{}
}

// Method returns MethodHeuristic.
func (s *HeuristicScorer) Method() ScoringMethod {
	return MethodHeuristic
}

// Score evaluates one transaction.
func (s *HeuristicScorer) Score(txn model.Transaction) valueobject.RiskScore {
	return s.ScoreInput(HeuristicInputFrom(txn))
}

// ScoreInput evaluates the formula on raw endpoint fields.
func (s *HeuristicScorer) ScoreInput(in HeuristicInput) valueobject.RiskScore {
	raw := in.Amount/10 + 20*in.IsForeign + (1-in.DeviceScore)*10
	return valueobject.NewRiskScore(raw)
}

// ScoreBatch applies Score to every transaction independently.
func (s *HeuristicScorer) ScoreBatch(txns []model.Transaction) ([]model.ScoredTransaction, error) {
	if len(txns) == 0 {
		return nil, model.ErrEmptyBatch
	}
	out := make([]model.ScoredTransaction, len(txns))
	for i, txn := range txns {
		out[i] = model.ScoredTransaction{Transaction: txn, FraudRisk: s.Score(txn)}
	}
	return out, nil
}
