package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

// TrainFraudModelRequest is the input DTO for fitting the anomaly model.
type TrainFraudModelRequest struct {
	Transactions []model.Transaction
}

// TrainLoanModelRequest is the input DTO for fitting the default model.
type TrainLoanModelRequest struct {
	Book model.LoanBook
}

// TrainModelResponse describes a saved artifact.
type TrainModelResponse struct {
	CreatedAt  time.Time                `json:"created_at"`
	Metrics    map[string]float64       `json:"metrics"`
	Kind       model.ArtifactKind       `json:"kind"`
	Influence  []model.FeatureInfluence `json:"influence,omitempty"`
	Rows       int                      `json:"rows"`
	ArtifactID uuid.UUID                `json:"artifact_id"`
}

// FromArtifact maps a saved artifact to the response DTO.
func FromArtifact(a *model.Artifact, rows int) TrainModelResponse {
	return TrainModelResponse{
		ArtifactID: a.ID,
		Kind:       a.Kind,
		Metrics:    a.Metrics,
		Rows:       rows,
		CreatedAt:  a.CreatedAt,
	}
}
