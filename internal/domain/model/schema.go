package model

import (
	"fmt"
	"slices"
)

// Column names shared by the CSV codec, the schemas and the scored outputs.
const (
	ColAmount       = "amount"
	ColMerchantID   = "merchant_id"
	ColDeviceScore  = "device_score"
	ColDistanceKm   = "distance_from_last_km"
	ColForeignTxn   = "foreign_txn"
	ColIsForeign    = "is_foreign"
	ColHour         = "hour"
	ColFraudRisk    = "fraud_risk"
	ColIncome       = "income"
	ColDebtToIncome = "debt_to_income"
	ColCreditScore  = "credit_score"
	ColDelinquency  = "delinquencies"
	ColUtilization  = "utilization"
	ColLoanAmount   = "loan_amount"
	ColDefault      = "default"
	ColDefaultRisk  = "default_risk"
)

// FeatureSchema is the ordered feature list a model is fitted on. It is
// embedded in every persisted artifact and checked again at load time.
type FeatureSchema struct {
	Name     string   `json:"name"`
	Features []string `json:"features"`
	Version  int      `json:"version"`
}

// TransactionSchema is the feature layout of the fraud anomaly model.
var TransactionSchema = FeatureSchema{
	Name:    "transaction",
	Version: 1,
	Features: []string{
		ColAmount, ColMerchantID, ColDeviceScore, ColDistanceKm, ColForeignTxn, ColHour,
	},
}

// LoanSchema is the feature layout of the loan default model.
var LoanSchema = FeatureSchema{
	Name:    "loan_applicant",
	Version: 1,
	Features: []string{
		ColIncome, ColDebtToIncome, ColCreditScore, ColDelinquency, ColUtilization, ColLoanAmount,
	},
}

// columnAliases maps accepted alternative column names to their canonical name.
var columnAliases = map[string]string{
	ColIsForeign: ColForeignTxn,
}

// CanonicalColumn returns the canonical name for a CSV column header.
func CanonicalColumn(name string) string {
	if canonical, ok := columnAliases[name]; ok {
		return canonical
	}
	return name
}

// Equal reports whether two schemas describe the same features in the same order.
func (s FeatureSchema) Equal(other FeatureSchema) bool {
	return s.Name == other.Name && s.Version == other.Version && slices.Equal(s.Features, other.Features)
}

// Check returns ErrSchemaMismatch when other differs from s.
func (s FeatureSchema) Check(other FeatureSchema) error {
	if s.Equal(other) {
		return nil
	}
	return fmt.Errorf("%w: expected %s v%d %v, got %s v%d %v",
		ErrSchemaMismatch, s.Name, s.Version, s.Features, other.Name, other.Version, other.Features)
}

// Locate maps each schema feature to its position in header. Header order is
// free, aliases are honoured and every feature must be present exactly once.
func (s FeatureSchema) Locate(header []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		name := CanonicalColumn(h)
		if _, dup := positions[name]; dup && slices.Contains(s.Features, name) {
			return nil, fmt.Errorf("%w: %s column %s appears more than once (%q at position %d)",
				ErrSchemaMismatch, s.Name, name, h, i+1)
		}
		positions[name] = i
	}

	idx := make([]int, len(s.Features))
	var missing []string
	for i, f := range s.Features {
		pos, ok := positions[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		idx[i] = pos
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s missing columns %v", ErrSchemaMismatch, s.Name, missing)
	}
	return idx, nil
}
