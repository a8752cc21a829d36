package grpc

import (
	"context"
	"log/slog"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
)

// Compile-time assertion that ScoringServiceHandler implements ScoringServiceServer.
var _ ScoringServiceServer = (*ScoringServiceHandler)(nil)

// ScoringServiceHandler implements the gRPC ScoringServiceServer interface.
type ScoringServiceHandler struct {
	UnimplementedScoringServiceServer
	scoreTransaction *usecase.ScoreTransaction
	logger           *slog.Logger
}

// NewScoringServiceHandler creates a new gRPC handler.
func NewScoringServiceHandler(scoreTransaction *usecase.ScoreTransaction, logger *slog.Logger) *ScoringServiceHandler {
	return &ScoringServiceHandler{
		scoreTransaction: scoreTransaction,
		logger:           logger,
	}
}

// ScoreFraudRequest represents the proto ScoreFraudRequest message.
type ScoreFraudRequest struct {
	Amount             float64 `json:"amount"`
	MerchantID         int32   `json:"merchant_id"`
	DeviceScore        float64 `json:"device_score"`
	DistanceFromLastKm float64 `json:"distance_from_last_km"`
	IsForeign          int32   `json:"is_foreign"`
	Hour               int32   `json:"hour"`
}

// ScoreFraudResponse represents the proto ScoreFraudResponse message.
type ScoreFraudResponse struct {
	FraudRisk float64                `json:"fraud_risk"`
	RiskLevel string                 `json:"risk_level"`
	ScoredAt  *timestamppb.Timestamp `json:"scored_at"`
}

// ScoreFraud scores a single transaction with the heuristic formula.
// Out-of-range field values are accepted; only the score is clamped.
func (h *ScoringServiceHandler) ScoreFraud(ctx context.Context, req *ScoreFraudRequest) (*ScoreFraudResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}

	resp, err := h.scoreTransaction.Execute(ctx, dto.ScoreTransactionRequest{
		Amount:             req.Amount,
		MerchantID:         int(req.MerchantID),
		DeviceScore:        req.DeviceScore,
		DistanceFromLastKm: req.DistanceFromLastKm,
		IsForeign:          int(req.IsForeign),
		Hour:               int(req.Hour),
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to score transaction", "error", err)
		return nil, status.Error(codes.Internal, "failed to score transaction")
	}

	return &ScoreFraudResponse{
		FraudRisk: resp.FraudRisk.Float64(),
		RiskLevel: resp.RiskLevel,
		ScoredAt:  timestamppb.Now(),
	}, nil
}
