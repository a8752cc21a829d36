package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

func scoredTxn(risk float64) model.ScoredTransaction {
	return model.ScoredTransaction{FraudRisk: valueobject.NewRiskScore(risk)}
}

func scoredLoan(risk float64) model.ScoredApplicant {
	return model.ScoredApplicant{DefaultRisk: valueobject.NewRiskScore(risk)}
}

func TestBuildOverview(t *testing.T) {
	txns := []model.ScoredTransaction{scoredTxn(10), scoredTxn(95), scoredTxn(90), scoredTxn(100), scoredTxn(42)}
	loans := []model.ScoredApplicant{scoredLoan(61), scoredLoan(60), scoredLoan(5)}

	auc := 0.71
	ov := service.BuildOverview(txns, loans, &auc)

	assert.Equal(t, 2, ov.FraudAlerts)
	assert.Equal(t, 33.3, ov.HighRiskLoanPct)
	assert.Equal(t, service.ComplianceFlags, ov.ComplianceFlags)
	require.NotNil(t, ov.LoanAUC)
	assert.Equal(t, 0.71, *ov.LoanAUC)
	assert.Equal(t, 5, ov.TransactionsScored)
	assert.Equal(t, 3, ov.LoansScored)

	require.Len(t, ov.TopAlerts, 5)
	assert.Equal(t, "100.0", ov.TopAlerts[0].FraudRisk.String())
	assert.Equal(t, "95.0", ov.TopAlerts[1].FraudRisk.String())
	assert.Equal(t, "10.0", ov.TopAlerts[4].FraudRisk.String())
}

func TestBuildOverview_TopAlertsAreCapped(t *testing.T) {
	txns := make([]model.ScoredTransaction, 50)
	for i := range txns {
		txns[i] = scoredTxn(float64(i))
	}

	ov := service.BuildOverview(txns, nil, nil)
	require.Len(t, ov.TopAlerts, service.TopAlertCount)
	assert.Equal(t, "49.0", ov.TopAlerts[0].FraudRisk.String())
	assert.Equal(t, 0.0, ov.HighRiskLoanPct)
	assert.Nil(t, ov.LoanAUC)
	assert.Equal(t, "0.0", txns[0].FraudRisk.String(), "input order must be untouched")
}
