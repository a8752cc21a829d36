package service

import (
	"errors"
	"fmt"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// normalizationEpsilon keeps the min-max rescale finite when every raw score is equal.
const normalizationEpsilon = 1e-9

// AnomalyScorer scores transactions with an isolation forest and rescales
// the raw scores so the batch minimum maps to 0 and the maximum to 100.
//
// Without a pre-fitted forest, a fresh forest is fitted on every batch.
type AnomalyScorer struct {
	forest *learn.IsolationForest
	config learn.IsolationForestConfig
}

// NewAnomalyScorer returns a scorer that fits a new forest on each batch.
func NewAnomalyScorer(cfg learn.IsolationForestConfig) *AnomalyScorer {
	return &AnomalyScorer{config: cfg}
}

// NewFittedAnomalyScorer returns a scorer bound to an already fitted forest.
func NewFittedAnomalyScorer(forest *learn.IsolationForest) (*AnomalyScorer, error) {
	if forest == nil || len(forest.Trees) == 0 {
		return nil, fmt.Errorf("anomaly scorer: %w", learn.ErrNotFitted)
	}
	if forest.Features != len(model.TransactionSchema.Features) {
		return nil, fmt.Errorf("%w: forest fitted on %d features, transactions have %d",
			model.ErrSchemaMismatch, forest.Features, len(model.TransactionSchema.Features))
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSchemaMismatch, err)
	}
	return &AnomalyScorer{forest: forest, config: forest.Config}, nil
}

// FitFraudModel fits an isolation forest on txns.
func FitFraudModel(txns []model.Transaction, cfg learn.IsolationForestConfig) (*learn.IsolationForest, error) {
	if len(txns) == 0 {
		return nil, model.ErrEmptyBatch
	}
	forest := learn.NewIsolationForest(cfg)
	if err := forest.Fit(model.TransactionMatrix(txns)); err != nil {
		return nil, fmt.Errorf("failed to fit fraud model: %w", err)
	}
	return forest, nil
}

// Method returns MethodAnomaly.
func (s *AnomalyScorer) Method() ScoringMethod {
	return MethodAnomaly
}

// ScoreBatch scores txns. The risk of a row only has meaning relative to the
// other rows of the same batch.
func (s *AnomalyScorer) ScoreBatch(txns []model.Transaction) ([]model.ScoredTransaction, error) {
	if len(txns) == 0 {
		return nil, model.ErrEmptyBatch
	}

	forest := s.forest
	if forest == nil {
		fitted, err := FitFraudModel(txns, s.config)
		if err != nil {
			return nil, err
		}
		forest = fitted
	}

	X := model.TransactionMatrix(txns)
	raw, err := forest.Score(X)
	if err != nil {
		if errors.Is(err, learn.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: %v", model.ErrSchemaMismatch, err)
		}
		return nil, fmt.Errorf("failed to score transactions: %w", err)
	}

	risks := NormalizeRisk(raw)
	out := make([]model.ScoredTransaction, len(txns))
	for i, txn := range txns {
		out[i] = model.ScoredTransaction{
			Transaction: txn,
			FraudRisk:   risks[i],
			Outlier:     raw[i] > forest.Threshold,
		}
	}
	return out, nil
}

// NormalizeRisk maps raw anomaly scores onto 0..100 by min-max scaling
// within the slice. Equal scores all map to 0.
func NormalizeRisk(raw []float64) []valueobject.RiskScore {
	if len(raw) == 0 {
		return nil
	}
	lo, hi := raw[0], raw[0]
	for _, v := range raw[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}

	out := make([]valueobject.RiskScore, len(raw))
	for i, v := range raw {
		scaled := (v - lo) / (hi - lo + normalizationEpsilon)
		scaled = min(max(scaled, 0), 1)
		out[i] = valueobject.NewRiskScore(scaled * 100)
	}
	return out
}
