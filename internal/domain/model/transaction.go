package model

import "github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"

// Transaction is a single card transaction as seen by the fraud scorers.
type Transaction struct {
	Amount             float64 `json:"amount"`
	MerchantID         int     `json:"merchant_id"`
	DeviceScore        float64 `json:"device_score"`
	DistanceFromLastKm float64 `json:"distance_from_last_km"`
	Foreign            bool    `json:"foreign_txn"`
	Hour               int     `json:"hour"`
}

// ForeignFlag returns the foreign indicator as 0 or 1.
func (t Transaction) ForeignFlag() float64 {
	if t.Foreign {
		return 1
	}
	return 0
}

// Features returns the feature vector in TransactionSchema order.
func (t Transaction) Features() []float64 {
	return []float64{
		t.Amount,
		float64(t.MerchantID),
		t.DeviceScore,
		t.DistanceFromLastKm,
		t.ForeignFlag(),
		float64(t.Hour),
	}
}

// TransactionMatrix stacks the feature vectors of txns.
func TransactionMatrix(txns []Transaction) [][]float64 {
	X := make([][]float64, len(txns))
	for i, t := range txns {
		X[i] = t.Features()
	}
	return X
}

// ScoredTransaction is a transaction with its derived fraud risk attached.
type ScoredTransaction struct {
	Transaction
	FraudRisk valueobject.RiskScore `json:"fraud_risk"`
	// Outlier is set by the anomaly model when the raw score lies above the
	// contamination threshold. The heuristic formula never sets it.
	Outlier bool `json:"outlier"`
}
