package service

import (
	"math"
	"sort"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

const (
	// TopAlertCount is the number of transactions listed in an overview.
	TopAlertCount = 20

	// ComplianceFlags is the fixed weekly compliance flag count shown on the
	// overview until a case-management source exists.
	ComplianceFlags = 12
)

// Where the loan figures of an overview came from.
const (
	LoanModelEvaluated   = "evaluated"
	LoanModelStored      = "stored"
	LoanModelUnavailable = "unavailable"
)

// Overview is the executive KPI summary of a fraud batch and a loan book.
type Overview struct {
	TopAlerts          []model.ScoredTransaction `json:"top_alerts"`
	FraudAlerts        int                       `json:"fraud_alerts"`
	HighRiskLoanPct    float64                   `json:"high_risk_loans_pct"`
	ComplianceFlags    int                       `json:"compliance_flags"`
	LoanAUC            *float64                  `json:"loan_auc"`
	LoanModel          string                    `json:"loan_model,omitempty"`
	TransactionsScored int                       `json:"transactions_scored"`
	LoansScored        int                       `json:"loans_scored"`
}

// BuildOverview counts fraud alerts above AlertThreshold, the share of loans
// above HighRiskThreshold, and lists the riskiest transactions first. A nil
// loanAUC means no loan model could be evaluated or loaded.
func BuildOverview(txns []model.ScoredTransaction, loans []model.ScoredApplicant, loanAUC *float64) Overview {
	ov := Overview{
		ComplianceFlags:    ComplianceFlags,
		LoanAUC:            loanAUC,
		TransactionsScored: len(txns),
		LoansScored:        len(loans),
	}

	for _, t := range txns {
		if t.FraudRisk.Exceeds(valueobject.AlertThreshold) {
			ov.FraudAlerts++
		}
	}

	if len(loans) > 0 {
		var high int
		for _, l := range loans {
			if l.DefaultRisk.Exceeds(valueobject.HighRiskThreshold) {
				high++
			}
		}
		ov.HighRiskLoanPct = math.Round(float64(high)/float64(len(loans))*1000) / 10
	}

	ranked := append([]model.ScoredTransaction(nil), txns...)
	sort.SliceStable(ranked, func(a, b int) bool {
		return ranked[a].FraudRisk.Compare(ranked[b].FraudRisk) > 0
	})
	ov.TopAlerts = ranked[:min(TopAlertCount, len(ranked))]
	return ov
}
