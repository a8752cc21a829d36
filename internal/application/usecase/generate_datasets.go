package usecase

import (
	"context"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
)

// Default generation parameters, shared with the synthetic package defaults.
const (
	DefaultRows                   = 2000
	DefaultTransactionSeed uint64 = 42
	DefaultLoanSeed        uint64 = 7
)

// GenerateDatasets is the use case for producing synthetic transaction and
// loan tables.
type GenerateDatasets struct {
	generator port.DatasetGenerator
}

// NewGenerateDatasets creates a new GenerateDatasets use case.
func NewGenerateDatasets(generator port.DatasetGenerator) *GenerateDatasets {
	return &GenerateDatasets{generator: generator}
}

// Execute generates both tables. Each table draws from its own seed, so the
// transaction table does not depend on whether loans are generated too.
func (uc *GenerateDatasets) Execute(_ context.Context, req dto.GenerateDatasetsRequest) (dto.GenerateDatasetsResponse, error) {
	rows := req.Rows
	if rows <= 0 {
		rows = DefaultRows
	}
	txSeed := req.TransactionSeed
	if txSeed == 0 {
		txSeed = DefaultTransactionSeed
	}
	loanSeed := req.LoanSeed
	if loanSeed == 0 {
		loanSeed = DefaultLoanSeed
	}

	txns, planted := uc.generator.Transactions(rows, txSeed)
	return dto.GenerateDatasetsResponse{
		Transactions: txns,
		Planted:      planted,
		Loans:        uc.generator.Loans(rows, loanSeed),
	}, nil
}
