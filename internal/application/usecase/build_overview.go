package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// BuildOverview assembles the executive KPI summary. Tables that are not
// supplied are generated with the default seeds, so the overview of an empty
// request is reproducible.
type BuildOverview struct {
	generator port.DatasetGenerator
	artifacts port.ArtifactStore
	logger    *slog.Logger
	forest    learn.IsolationForestConfig
	scorer    *service.DefaultScorer
}

// NewBuildOverview creates a new BuildOverview use case.
func NewBuildOverview(
	generator port.DatasetGenerator,
	artifacts port.ArtifactStore,
	logger *slog.Logger,
	forest learn.IsolationForestConfig,
	scorer *service.DefaultScorer,
) *BuildOverview {
	return &BuildOverview{
		generator: generator,
		artifacts: artifacts,
		logger:    logger,
		forest:    forest,
		scorer:    scorer,
	}
}

// Execute scores both tables and reduces them to the overview KPIs. Nothing
// is published; the overview is a read-only view.
func (uc *BuildOverview) Execute(ctx context.Context, req dto.BuildOverviewRequest) (service.Overview, error) {
	rows := req.Rows
	if rows <= 0 {
		rows = DefaultRows
	}

	txns := req.Transactions
	if len(txns) == 0 {
		txns, _ = uc.generator.Transactions(rows, DefaultTransactionSeed)
	}
	var book model.LoanBook
	if req.Loans != nil {
		book = *req.Loans
	} else {
		book = uc.generator.Loans(rows, DefaultLoanSeed)
	}

	scoredTxns, err := service.NewAnomalyScorer(uc.forest).ScoreBatch(txns)
	if err != nil {
		return service.Overview{}, fmt.Errorf("failed to score transactions: %w", err)
	}

	loans, err := uc.scoreLoans(ctx, book)
	if err != nil {
		return service.Overview{}, err
	}

	ov := service.BuildOverview(scoredTxns, loans.scored, loans.auc)
	ov.LoanModel = loans.source
	uc.logger.DebugContext(ctx, "overview built",
		"transactions", ov.TransactionsScored,
		"loans", ov.LoansScored,
		"loan_model", ov.LoanModel,
		"fraud_alerts", ov.FraudAlerts,
	)
	return ov, nil
}

type overviewLoans struct {
	scored []model.ScoredApplicant
	auc    *float64
	source string
}

// scoreLoans evaluates a labeled book with a fresh fit. A labeled book whose
// splits lack a class falls back to the stored classifier, and when none is
// stored the overview carries fraud figures only. Unlabeled books always need
// the stored classifier.
func (uc *BuildOverview) scoreLoans(ctx context.Context, book model.LoanBook) (overviewLoans, error) {
	if book.Labeled {
		eval, err := uc.scorer.Evaluate(book)
		if err == nil {
			return overviewLoans{scored: eval.Scored, auc: &eval.AUC, source: service.LoanModelEvaluated}, nil
		}
		if !errors.Is(err, model.ErrDegenerateData) {
			return overviewLoans{}, fmt.Errorf("failed to evaluate loan book: %w", err)
		}
		uc.logger.WarnContext(ctx, "loan book cannot be evaluated, trying stored classifier", "error", err)

		loans, err := uc.scoreWithStored(ctx, book)
		if errors.Is(err, model.ErrArtifactNotFound) {
			uc.logger.WarnContext(ctx, "no stored loan classifier, overview omits loan figures")
			return overviewLoans{source: service.LoanModelUnavailable}, nil
		}
		return loans, err
	}
	return uc.scoreWithStored(ctx, book)
}

func (uc *BuildOverview) scoreWithStored(ctx context.Context, book model.LoanBook) (overviewLoans, error) {
	clf, artifact, err := loadClassifier(ctx, uc.artifacts)
	if err != nil {
		return overviewLoans{}, err
	}
	scored, err := uc.scorer.Score(book, clf)
	if err != nil {
		return overviewLoans{}, fmt.Errorf("failed to score loan book: %w", err)
	}
	auc := artifact.Metrics[MetricAUC]
	return overviewLoans{scored: scored, auc: &auc, source: service.LoanModelStored}, nil
}
