package model

import (
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

// LoanApplicant holds the features of a single credit applicant. Default is
// the ground-truth label and is only meaningful inside a labeled LoanBook.
type LoanApplicant struct {
	Income        float64 `json:"income"`
	DebtToIncome  float64 `json:"debt_to_income"`
	CreditScore   float64 `json:"credit_score"`
	Delinquencies int     `json:"delinquencies"`
	Utilization   float64 `json:"utilization"`
	LoanAmount    float64 `json:"loan_amount"`
	Default       bool    `json:"default"`
}

// Features returns the feature vector in LoanSchema order.
func (a LoanApplicant) Features() []float64 {
	return []float64{
		a.Income,
		a.DebtToIncome,
		a.CreditScore,
		float64(a.Delinquencies),
		a.Utilization,
		a.LoanAmount,
	}
}

// Label returns the default label as 0 or 1.
func (a LoanApplicant) Label() float64 {
	if a.Default {
		return 1
	}
	return 0
}

// LoanBook is a table of applicants. Labeled reports whether the default
// column was present when the book was built.
type LoanBook struct {
	Applicants []LoanApplicant
	Labeled    bool
}

// Len returns the number of applicants.
func (b LoanBook) Len() int {
	return len(b.Applicants)
}

// Matrix stacks the feature vectors of the given applicant indexes, or of
// every applicant when idx is nil.
func (b LoanBook) Matrix(idx []int) [][]float64 {
	if idx == nil {
		X := make([][]float64, len(b.Applicants))
		for i, a := range b.Applicants {
			X[i] = a.Features()
		}
		return X
	}
	X := make([][]float64, len(idx))
	for i, j := range idx {
		X[i] = b.Applicants[j].Features()
	}
	return X
}

// Labels returns the default labels of the given applicant indexes.
func (b LoanBook) Labels(idx []int) []float64 {
	y := make([]float64, len(idx))
	for i, j := range idx {
		y[i] = b.Applicants[j].Label()
	}
	return y
}

// ScoredApplicant is an applicant with the model's default risk attached.
type ScoredApplicant struct {
	LoanApplicant
	DefaultRisk valueobject.RiskScore `json:"default_risk"`
}

// FeatureInfluence is the absolute fitted coefficient of one feature.
type FeatureInfluence struct {
	Feature     string  `json:"feature"`
	Coefficient float64 `json:"coefficient"`
	Influence   float64 `json:"influence"`
}
