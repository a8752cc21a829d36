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
)

// Method labels for loan batches.
const (
	loanMethodEvaluate = "evaluate"
	loanMethodStored   = "stored"
)

// ScoreLoanBook is the use case for attaching default risk to a loan book.
type ScoreLoanBook struct {
	artifacts port.ArtifactStore
	publisher port.EventPublisher
	metrics   port.MetricsRecorder
	logger    *slog.Logger
	scorer    *service.DefaultScorer
}

// NewScoreLoanBook creates a new ScoreLoanBook use case.
func NewScoreLoanBook(
	artifacts port.ArtifactStore,
	publisher port.EventPublisher,
	metrics port.MetricsRecorder,
	logger *slog.Logger,
	scorer *service.DefaultScorer,
) *ScoreLoanBook {
	return &ScoreLoanBook{
		artifacts: artifacts,
		publisher: publisher,
		metrics:   metrics,
		logger:    logger,
		scorer:    scorer,
	}
}

// Execute evaluates a labeled book with a fresh fit, or scores the book with
// the persisted classifier when the book is unlabeled or a stored model is
// requested.
func (uc *ScoreLoanBook) Execute(ctx context.Context, req dto.ScoreLoanBookRequest) (dto.ScoreLoanBookResponse, error) {
	started := time.Now()
	if req.Book.Len() == 0 {
		return dto.ScoreLoanBookResponse{}, model.ErrEmptyBatch
	}

	resp := dto.ScoreLoanBookResponse{Labeled: req.Book.Labeled}
	method := loanMethodEvaluate

	if req.Book.Labeled && !req.UseStoredModel {
		eval, err := uc.scorer.Evaluate(req.Book)
		if err != nil {
			return dto.ScoreLoanBookResponse{}, fmt.Errorf("failed to evaluate loan book: %w", err)
		}
		auc := eval.AUC
		resp.AUC = &auc
		resp.Scored = eval.Scored
		resp.Influence = eval.Influence
	} else {
		method = loanMethodStored
		clf, _, err := loadClassifier(ctx, uc.artifacts)
		if err != nil {
			return dto.ScoreLoanBookResponse{}, err
		}
		scored, err := uc.scorer.Score(req.Book, clf)
		if err != nil {
			return dto.ScoreLoanBookResponse{}, fmt.Errorf("failed to score loan book: %w", err)
		}
		resp.Scored = scored
		resp.Influence = service.RankInfluence(model.LoanSchema, clf.Coef)
	}

	for _, s := range resp.Scored {
		if s.DefaultRisk.Exceeds(valueobject.HighRiskThreshold) {
			resp.HighRisk++
		}
	}

	resp.BatchID = uuid.New()
	summary := event.NewBatchScored(resp.BatchID, PipelineLoans, method, len(resp.Scored), resp.HighRisk)
	if err := uc.publisher.Publish(ctx, summary); err != nil {
		return dto.ScoreLoanBookResponse{}, fmt.Errorf("failed to publish loan batch event: %w", err)
	}

	elapsed := time.Since(started)
	uc.metrics.RecordBatch(ctx, PipelineLoans, method, len(resp.Scored), resp.HighRisk, elapsed)

	attrs := []any{
		"batch_id", resp.BatchID,
		"method", method,
		"records", len(resp.Scored),
		"high_risk", resp.HighRisk,
	}
	if resp.AUC != nil {
		attrs = append(attrs, "auc", *resp.AUC)
	}
	uc.logger.InfoContext(ctx, "loan book scored", attrs...)

	return resp, nil
}
