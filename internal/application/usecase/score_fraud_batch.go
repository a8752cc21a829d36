package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/event"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/events"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// PipelineFraud and PipelineLoans label batch events and metrics.
const (
	PipelineFraud = "fraud"
	PipelineLoans = "loans"
)

// ScoreFraudBatch is the use case for scoring a table of transactions with
// an explicitly chosen method.
type ScoreFraudBatch struct {
	artifacts port.ArtifactStore
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	logger    *slog.Logger
	forest    learn.IsolationForestConfig
}

// NewScoreFraudBatch creates a new ScoreFraudBatch use case. artifacts may be
// nil when stored models are not available.
func NewScoreFraudBatch(
	artifacts port.ArtifactStore,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
	forest learn.IsolationForestConfig,
) *ScoreFraudBatch {
	return &ScoreFraudBatch{
		artifacts: artifacts,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		forest:    forest,
	}
}

// Execute scores the batch, publishes an alert for every row above the alert
// threshold followed by a batch summary, and records batch metrics.
func (uc *ScoreFraudBatch) Execute(ctx context.Context, req dto.ScoreFraudBatchRequest) (dto.ScoreFraudBatchResponse, error) {
	started := time.Now()
	if len(req.Transactions) == 0 {
		return dto.ScoreFraudBatchResponse{}, model.ErrEmptyBatch
	}

	scorer, err := uc.scorer(ctx, req)
	if err != nil {
		return dto.ScoreFraudBatchResponse{}, err
	}

	scored, err := scorer.ScoreBatch(req.Transactions)
	if err != nil {
		return dto.ScoreFraudBatchResponse{}, fmt.Errorf("failed to score fraud batch: %w", err)
	}

	batchID := uuid.New()
	method := string(scorer.Method())

	var batch events.Batch
	for i, s := range scored {
		if !s.FraudRisk.Exceeds(valueobject.AlertThreshold) {
			continue
		}
		flagged := event.NewTransactionFlagged(batchID)
		flagged.Method = method
		flagged.Row = i
		flagged.FraudRisk = s.FraudRisk.String()
		flagged.RiskLevel = s.FraudRisk.Level().String()
		flagged.Amount = s.Amount
		flagged.Merchant = s.MerchantID
		flagged.Foreign = s.Foreign
		flagged.Outlier = s.Outlier
		batch.Add(flagged)
	}
	alerts := batch.Count(event.EventTypeTransactionFlagged)
	batch.Add(event.NewBatchScored(batchID, PipelineFraud, method, len(scored), alerts))

	if err := uc.publisher.Publish(ctx, batch.Drain()...); err != nil {
		return dto.ScoreFraudBatchResponse{}, fmt.Errorf("failed to publish fraud batch events: %w", err)
	}

	elapsed := time.Since(started)
	uc.metrics.RecordBatch(ctx, PipelineFraud, method, len(scored), alerts, elapsed)
	uc.logger.InfoContext(ctx, "fraud batch scored",
		"batch_id", batchID,
		"method", method,
		"records", len(scored),
		"flagged", alerts,
		"elapsed", elapsed,
	)

	return dto.ScoreFraudBatchResponse{
		Scored:  scored,
		Method:  scorer.Method(),
		Flagged: alerts,
		BatchID: batchID,
	}, nil
}

func (uc *ScoreFraudBatch) scorer(ctx context.Context, req dto.ScoreFraudBatchRequest) (service.FraudScorer, error) {
	method := req.Method
	if method == "" {
		method = service.MethodAnomaly
	}

	switch method {
	case service.MethodHeuristic:
		return service.NewHeuristicScorer(), nil
	case service.MethodAnomaly:
		if !req.UseStoredModel {
			return service.NewAnomalyScorer(uc.forest), nil
		}
		forest, err := loadForest(ctx, uc.artifacts)
		if err != nil {
			return nil, err
		}
		return service.NewFittedAnomalyScorer(forest)
	default:
		return nil, fmt.Errorf("unknown scoring method %q", method)
	}
}
