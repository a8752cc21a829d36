package event

import (
	"github.com/google/uuid"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/events"
)

const (
	// EventTypeTransactionFlagged is emitted for every transaction in a scored
	// batch whose fraud risk exceeds the alert threshold.
	EventTypeTransactionFlagged = "risk.transaction.flagged"

	// EventTypeBatchScored is emitted once a fraud or loan batch has been scored.
	EventTypeBatchScored = "risk.batch.scored"

	aggregateBatch = "scoring_batch"
)

// TransactionFlagged is published when a transaction is scored above the
// alert threshold.
type TransactionFlagged struct {
	events.BaseEvent
	BatchID   uuid.UUID `json:"batch_id"`
	Method    string    `json:"method"`
	FraudRisk string    `json:"fraud_risk"`
	RiskLevel string    `json:"risk_level"`
	Row       int       `json:"row"`
	Amount    float64   `json:"amount"`
	Merchant  int       `json:"merchant_id"`
	Foreign   bool      `json:"foreign_txn"`
	Outlier   bool      `json:"outlier"`
}

// NewTransactionFlagged builds a flagged-transaction event for the given batch.
func NewTransactionFlagged(batchID uuid.UUID) TransactionFlagged {
	return TransactionFlagged{
		BaseEvent: events.NewBaseEvent(EventTypeTransactionFlagged, batchID, aggregateBatch),
		BatchID:   batchID,
	}
}

// BatchScored summarises a completed scoring run.
type BatchScored struct {
	events.BaseEvent
	BatchID  uuid.UUID `json:"batch_id"`
	Pipeline string    `json:"pipeline"`
	Method   string    `json:"method"`
	Records  int       `json:"records"`
	Flagged  int       `json:"flagged"`
}

// NewBatchScored builds a batch summary event.
func NewBatchScored(batchID uuid.UUID, pipeline, method string, records, flagged int) BatchScored {
	return BatchScored{
		BaseEvent: events.NewBaseEvent(EventTypeBatchScored, batchID, aggregateBatch),
		BatchID:   batchID,
		Pipeline:  pipeline,
		Method:    method,
		Records:   records,
		Flagged:   flagged,
	}
}
