package service

import (
	"fmt"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

// ScoringMethod names a fraud-risk definition. The two methods produce
// different, incomparable scales and callers must pick one explicitly.
type ScoringMethod string

const (
	// MethodHeuristic is the stateless formula on a single transaction's fields.
	MethodHeuristic ScoringMethod = "heuristic"
	// MethodAnomaly is the isolation-forest score rescaled within the batch.
	MethodAnomaly ScoringMethod = "anomaly"
)

// ParseScoringMethod validates a method name. The empty string selects MethodAnomaly.
func ParseScoringMethod(s string) (ScoringMethod, error) {
	switch ScoringMethod(s) {
	case "", MethodAnomaly:
		return MethodAnomaly, nil
	case MethodHeuristic:
		return MethodHeuristic, nil
	default:
		return "", fmt.Errorf("unknown scoring method %q", s)
	}
}

// FraudScorer defines the interface for fraud scoring strategies.
// Both HeuristicScorer and AnomalyScorer implement this.
type FraudScorer interface {
	Method() ScoringMethod
	ScoreBatch(txns []model.Transaction) ([]model.ScoredTransaction, error)
}
