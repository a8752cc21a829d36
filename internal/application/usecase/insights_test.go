package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/synthetic"
)

func TestScoreTransaction_Execute(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.ScoreTransactionRequest
		wantRisk  string
		wantLevel string
	}{
		{"clamped at 100", dto.ScoreTransactionRequest{Amount: 1000, IsForeign: 1, DeviceScore: 0.1}, "100.0", "CRITICAL"},
		{"low risk", dto.ScoreTransactionRequest{Amount: 50, DeviceScore: 0.9}, "6.0", "LOW"},
		{"foreign medium", dto.ScoreTransactionRequest{Amount: 120, IsForeign: 1, DeviceScore: 0.5}, "37.0", "MEDIUM"},
		{"negative amount clamps to zero", dto.ScoreTransactionRequest{Amount: -500, DeviceScore: 1}, "0.0", "LOW"},
		{"foreign flag above one is used as given", dto.ScoreTransactionRequest{Amount: 100, IsForeign: 2, DeviceScore: 1}, "50.0", "MEDIUM"},
		{"negative foreign flag is used as given", dto.ScoreTransactionRequest{Amount: 500, IsForeign: -1, DeviceScore: 1}, "30.0", "MEDIUM"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			metrics := &mockMetricsRecorder{}
			resp, err := usecase.NewScoreTransaction(service.NewHeuristicScorer(), metrics).
				Execute(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.wantRisk, resp.FraudRisk.String())
			assert.Equal(t, tt.wantLevel, resp.RiskLevel)
			assert.Equal(t, []string{tt.wantLevel}, metrics.levels)
		})
	}
}

func TestGenerateDatasets_Execute(t *testing.T) {
	uc := usecase.NewGenerateDatasets(learnableGenerator())

	resp, err := uc.Execute(context.Background(), dto.GenerateDatasetsRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Transactions, usecase.DefaultRows)
	assert.Equal(t, usecase.DefaultRows, resp.Loans.Len())
	assert.True(t, resp.Loans.Labeled)
	assert.NotEmpty(t, resp.Planted)

	again, err := uc.Execute(context.Background(), dto.GenerateDatasetsRequest{Rows: usecase.DefaultRows, TransactionSeed: 42, LoanSeed: 7})
	require.NoError(t, err)
	assert.Equal(t, resp.Transactions, again.Transactions)
	assert.Equal(t, resp.Loans, again.Loans)

	other, err := uc.Execute(context.Background(), dto.GenerateDatasetsRequest{Rows: 100, TransactionSeed: 9})
	require.NoError(t, err)
	assert.Len(t, other.Transactions, 100)
	assert.NotEqual(t, resp.Transactions[:100], other.Transactions)
}

func TestSummarizeRegulation_Execute(t *testing.T) {
	uc := usecase.NewSummarizeRegulation()

	t.Run("blank text uses the sample excerpt", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.SummarizeRegulationRequest{Text: "  \n"})
		require.NoError(t, err)
		assert.Equal(t, []string{service.SampleRegulation}, resp.Bullets)
	})

	t.Run("bullets are extracted up to the limit", func(t *testing.T) {
		text := "- Firms must screen every new customer\n\nok\n• Report suspicious activity within thirty days\n- Keep records for five years"
		resp, err := uc.Execute(context.Background(), dto.SummarizeRegulationRequest{Text: text, MaxItems: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Firms must screen every new customer",
			"Report suspicious activity within thirty days",
		}, resp.Bullets)
	})

	t.Run("no usable lines falls back to defaults", func(t *testing.T) {
		resp, err := uc.Execute(context.Background(), dto.SummarizeRegulationRequest{Text: "too short\nalso"})
		require.NoError(t, err)
		assert.Equal(t, service.DefaultActionItems, resp.Bullets)
	})
}

func TestBuildOverview_Execute(t *testing.T) {
	scorer := service.NewDefaultScorer(service.DefaultDefaultScorerConfig())

	t.Run("generates missing tables", func(t *testing.T) {
		uc := usecase.NewBuildOverview(learnableGenerator(), nil, discardLogger(), smallForest(), scorer)

		ov, err := uc.Execute(context.Background(), dto.BuildOverviewRequest{Rows: 800})
		require.NoError(t, err)

		assert.Equal(t, 800, ov.TransactionsScored)
		assert.Equal(t, 800, ov.LoansScored)
		assert.Equal(t, service.ComplianceFlags, ov.ComplianceFlags)
		require.NotNil(t, ov.LoanAUC)
		assert.Greater(t, *ov.LoanAUC, 0.0)
		assert.Equal(t, service.LoanModelEvaluated, ov.LoanModel)
		require.Len(t, ov.TopAlerts, service.TopAlertCount)
		for i := 1; i < len(ov.TopAlerts); i++ {
			assert.GreaterOrEqual(t, ov.TopAlerts[i-1].FraudRisk.Float64(), ov.TopAlerts[i].FraudRisk.Float64())
		}
		assert.GreaterOrEqual(t, ov.HighRiskLoanPct, 0.0)
		assert.LessOrEqual(t, ov.HighRiskLoanPct, 100.0)
	})

	t.Run("unlabeled loans use the stored classifier and its auc", func(t *testing.T) {
		store := newMockArtifactStore()
		gen := learnableGenerator()
		trained, err := usecase.NewTrainLoanModel(store, discardLogger(), scorer).
			Execute(context.Background(), dto.TrainLoanModelRequest{Book: gen.Loans(2000, 7)})
		require.NoError(t, err)

		book := gen.Loans(300, 11)
		book.Labeled = false
		txns, _ := gen.Transactions(300, 5)

		ov, err := usecase.NewBuildOverview(gen, store, discardLogger(), smallForest(), scorer).
			Execute(context.Background(), dto.BuildOverviewRequest{Transactions: txns, Loans: &book})
		require.NoError(t, err)
		assert.Equal(t, 300, ov.LoansScored)
		require.NotNil(t, ov.LoanAUC)
		assert.Equal(t, trained.Metrics[usecase.MetricAUC], *ov.LoanAUC)
		assert.Equal(t, service.LoanModelStored, ov.LoanModel)
	})

	t.Run("default generator still yields fraud figures", func(t *testing.T) {
		uc := usecase.NewBuildOverview(synthetic.NewGenerator(), newMockArtifactStore(), discardLogger(), smallForest(), scorer)

		ov, err := uc.Execute(context.Background(), dto.BuildOverviewRequest{Rows: 2000})
		require.NoError(t, err)
		assert.Equal(t, 2000, ov.TransactionsScored)
		assert.Len(t, ov.TopAlerts, service.TopAlertCount)
		if ov.LoanModel == service.LoanModelUnavailable {
			assert.Nil(t, ov.LoanAUC)
			assert.Zero(t, ov.LoansScored)
		}
	})

	t.Run("degenerate labeled book falls back to the stored classifier", func(t *testing.T) {
		store := newMockArtifactStore()
		gen := learnableGenerator()
		trained, err := usecase.NewTrainLoanModel(store, discardLogger(), scorer).
			Execute(context.Background(), dto.TrainLoanModelRequest{Book: gen.Loans(2000, 7)})
		require.NoError(t, err)

		book := noDefaults(gen.Loans(300, 11))
		ov, err := usecase.NewBuildOverview(gen, store, discardLogger(), smallForest(), scorer).
			Execute(context.Background(), dto.BuildOverviewRequest{Loans: &book})
		require.NoError(t, err)
		assert.Equal(t, service.LoanModelStored, ov.LoanModel)
		assert.Equal(t, 300, ov.LoansScored)
		require.NotNil(t, ov.LoanAUC)
		assert.Equal(t, trained.Metrics[usecase.MetricAUC], *ov.LoanAUC)
	})

	t.Run("degenerate labeled book without a stored model omits loan figures", func(t *testing.T) {
		book := noDefaults(learnableGenerator().Loans(300, 11))
		ov, err := usecase.NewBuildOverview(learnableGenerator(), newMockArtifactStore(), discardLogger(), smallForest(), scorer).
			Execute(context.Background(), dto.BuildOverviewRequest{Rows: 300, Loans: &book})
		require.NoError(t, err)
		assert.Equal(t, service.LoanModelUnavailable, ov.LoanModel)
		assert.Nil(t, ov.LoanAUC)
		assert.Zero(t, ov.LoansScored)
		assert.Equal(t, 300, ov.TransactionsScored)
	})

	t.Run("other evaluation errors still fail", func(t *testing.T) {
		book := model.LoanBook{Labeled: true}
		_, err := usecase.NewBuildOverview(learnableGenerator(), newMockArtifactStore(), discardLogger(), smallForest(), scorer).
			Execute(context.Background(), dto.BuildOverviewRequest{Loans: &book})
		assert.Error(t, err)
		assert.NotErrorIs(t, err, model.ErrDegenerateData)
	})

	t.Run("unlabeled loans without a stored model", func(t *testing.T) {
		book := model.LoanBook{Applicants: []model.LoanApplicant{{Income: 1}}}
		_, err := usecase.NewBuildOverview(learnableGenerator(), newMockArtifactStore(), discardLogger(), smallForest(), scorer).
			Execute(context.Background(), dto.BuildOverviewRequest{Loans: &book})
		assert.ErrorIs(t, err, model.ErrArtifactNotFound)
	})
}

// noDefaults clears every label so no split can hold both classes.
func noDefaults(book model.LoanBook) model.LoanBook {
	out := model.LoanBook{Labeled: true, Applicants: append([]model.LoanApplicant(nil), book.Applicants...)}
	for i := range out.Applicants {
		out.Applicants[i].Default = false
	}
	return out
}
