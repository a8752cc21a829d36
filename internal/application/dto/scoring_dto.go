package dto

import (
	"github.com/google/uuid"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
)

// ScoreTransactionRequest is the input DTO for the single-transaction
// heuristic score. is_foreign is expected to be 0 or 1 but any integer is
// accepted and enters the formula unchanged.
type ScoreTransactionRequest struct {
	Amount             float64 `json:"amount"`
	MerchantID         int     `json:"merchant_id"`
	DeviceScore        float64 `json:"device_score"`
	DistanceFromLastKm float64 `json:"distance_from_last_km"`
	IsForeign          int     `json:"is_foreign"`
	Hour               int     `json:"hour"`
}

// HeuristicInput maps the request onto the formula fields without
// normalising is_foreign.
func (r ScoreTransactionRequest) HeuristicInput() service.HeuristicInput {
	return service.HeuristicInput{
		Amount:      r.Amount,
		IsForeign:   float64(r.IsForeign),
		DeviceScore: r.DeviceScore,
	}
}

// ScoreTransactionResponse is the output DTO of the heuristic score.
type ScoreTransactionResponse struct {
	FraudRisk valueobject.RiskScore `json:"fraud_risk"`
	RiskLevel string                `json:"risk_level"`
}

// ScoreFraudBatchRequest is the input DTO for scoring a transaction table.
type ScoreFraudBatchRequest struct {
	Method       service.ScoringMethod
	Transactions []model.Transaction
	// UseStoredModel scores with the persisted forest instead of fitting
	// one on the batch. Only meaningful for the anomaly method.
	UseStoredModel bool
}

// ScoreFraudBatchResponse is the output DTO of a fraud batch.
type ScoreFraudBatchResponse struct {
	Scored  []model.ScoredTransaction
	Method  service.ScoringMethod
	Flagged int
	BatchID uuid.UUID
}

// ScoreLoanBookRequest is the input DTO for scoring a loan book. Labeled
// books are evaluated with a fresh fit unless UseStoredModel is set;
// unlabeled books always use the persisted model.
type ScoreLoanBookRequest struct {
	Book           model.LoanBook
	UseStoredModel bool
}

// ScoreLoanBookResponse is the output DTO of a loan batch. AUC is only set
// when the book was evaluated.
type ScoreLoanBookResponse struct {
	AUC       *float64
	Scored    []model.ScoredApplicant
	Influence []model.FeatureInfluence
	HighRisk  int
	BatchID   uuid.UUID
	Labeled   bool
}
