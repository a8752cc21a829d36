package dto

import (
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

// GenerateDatasetsRequest is the input DTO for synthetic data generation.
// Zero values select the defaults.
type GenerateDatasetsRequest struct {
	Rows            int
	TransactionSeed uint64
	LoanSeed        uint64
}

// GenerateDatasetsResponse carries both generated tables.
type GenerateDatasetsResponse struct {
	Transactions []model.Transaction
	Planted      []int
	Loans        model.LoanBook
}

// SummarizeRegulationRequest is the input DTO for the regulation summary.
type SummarizeRegulationRequest struct {
	Text     string `json:"text"`
	MaxItems int    `json:"max_items"`
}

// SummarizeRegulationResponse lists the extracted action items.
type SummarizeRegulationResponse struct {
	Bullets []string `json:"bullets"`
}

// BuildOverviewRequest is the input DTO for the executive overview. Missing
// tables are generated with the default seeds.
type BuildOverviewRequest struct {
	Loans        *model.LoanBook
	Transactions []model.Transaction
	Rows         int
}
