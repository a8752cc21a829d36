package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// Artifact metric keys.
const (
	MetricThreshold = "threshold"
	MetricRows      = "rows"
	MetricOutliers  = "outliers"
	MetricAUC       = "auc"
	MetricTrainRows = "train_rows"
	MetricTestRows  = "test_rows"
)

// TrainFraudModel fits the isolation forest on a transaction table and
// persists it.
type TrainFraudModel struct {
	artifacts port.ArtifactStore
	logger    *slog.Logger
	config    learn.IsolationForestConfig
}

// NewTrainFraudModel creates a new TrainFraudModel use case.
func NewTrainFraudModel(artifacts port.ArtifactStore, logger *slog.Logger, cfg learn.IsolationForestConfig) *TrainFraudModel {
	return &TrainFraudModel{artifacts: artifacts, logger: logger, config: cfg}
}

// Execute fits and saves the forest, replacing any previous fraud artifact.
func (uc *TrainFraudModel) Execute(ctx context.Context, req dto.TrainFraudModelRequest) (dto.TrainModelResponse, error) {
	forest, err := service.FitFraudModel(req.Transactions, uc.config)
	if err != nil {
		return dto.TrainModelResponse{}, err
	}

	labels, err := forest.Predict(model.TransactionMatrix(req.Transactions))
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to label training rows: %w", err)
	}
	var outliers int
	for _, l := range labels {
		if l {
			outliers++
		}
	}

	artifact, err := model.NewArtifact(model.ArtifactFraudForest, model.TransactionSchema, forest, map[string]float64{
		MetricThreshold: forest.Threshold,
		MetricRows:      float64(len(req.Transactions)),
		MetricOutliers:  float64(outliers),
	})
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to build fraud artifact: %w", err)
	}
	if err := uc.artifacts.Save(ctx, artifact); err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to save fraud artifact: %w", err)
	}

	uc.logger.InfoContext(ctx, "fraud model trained",
		"artifact_id", artifact.ID,
		"rows", len(req.Transactions),
		"outliers", outliers,
	)
	return dto.FromArtifact(artifact, len(req.Transactions)), nil
}

// TrainLoanModel evaluates and persists the logistic default model.
type TrainLoanModel struct {
	artifacts port.ArtifactStore
	logger    *slog.Logger
	scorer    *service.DefaultScorer
}

// NewTrainLoanModel creates a new TrainLoanModel use case.
func NewTrainLoanModel(artifacts port.ArtifactStore, logger *slog.Logger, scorer *service.DefaultScorer) *TrainLoanModel {
	return &TrainLoanModel{artifacts: artifacts, logger: logger, scorer: scorer}
}

// Execute fits on the training split of a labeled book, records the held-out
// AUC and saves the classifier.
func (uc *TrainLoanModel) Execute(ctx context.Context, req dto.TrainLoanModelRequest) (dto.TrainModelResponse, error) {
	eval, err := uc.scorer.Evaluate(req.Book)
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to evaluate loan book: %w", err)
	}

	artifact, err := model.NewArtifact(model.ArtifactLoanClassifier, model.LoanSchema, eval.Model, map[string]float64{
		MetricAUC:       eval.AUC,
		MetricTrainRows: float64(eval.TrainSize),
		MetricTestRows:  float64(eval.TestSize),
	})
	if err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to build loan artifact: %w", err)
	}
	if err := uc.artifacts.Save(ctx, artifact); err != nil {
		return dto.TrainModelResponse{}, fmt.Errorf("failed to save loan artifact: %w", err)
	}

	uc.logger.InfoContext(ctx, "loan model trained",
		"artifact_id", artifact.ID,
		"auc", eval.AUC,
		"converged", eval.Model.Converged,
	)

	resp := dto.FromArtifact(artifact, req.Book.Len())
	resp.Influence = eval.Influence
	return resp, nil
}
