package usecase

import (
	"context"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
)

// ScoreTransaction is the use case behind the stateless scoring endpoint.
type ScoreTransaction struct {
	scorer  *service.HeuristicScorer
	metrics port.MetricsRecorder
}

// NewScoreTransaction creates a new ScoreTransaction use case.
func NewScoreTransaction(scorer *service.HeuristicScorer, metrics port.MetricsRecorder) *ScoreTransaction {
	return &ScoreTransaction{scorer: scorer, metrics: metrics}
}

// Execute scores one transaction with the heuristic formula. Out-of-range
// inputs are accepted and only the output is clamped.
func (uc *ScoreTransaction) Execute(ctx context.Context, req dto.ScoreTransactionRequest) (dto.ScoreTransactionResponse, error) {
	risk := uc.scorer.ScoreInput(req.HeuristicInput())
	level := risk.Level().String()
	uc.metrics.RecordSingleScore(ctx, level)

	return dto.ScoreTransactionResponse{FraudRisk: risk, RiskLevel: level}, nil
}
