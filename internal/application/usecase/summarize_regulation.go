package usecase

import (
	"context"
	"strings"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/dto"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
)

// SummarizeRegulation is the use case for turning regulatory text into
// action-item bullets.
type SummarizeRegulation struct{}

// NewSummarizeRegulation creates a new SummarizeRegulation use case.
func NewSummarizeRegulation() *SummarizeRegulation {
	return &SummarizeRegulation{}
}

// Execute summarizes req.Text, falling back to the bundled sample excerpt
// when the text is blank.
func (uc *SummarizeRegulation) Execute(_ context.Context, req dto.SummarizeRegulationRequest) (dto.SummarizeRegulationResponse, error) {
	text := req.Text
	if strings.TrimSpace(text) == "" {
		text = service.SampleRegulation
	}
	return dto.SummarizeRegulationResponse{
		Bullets: service.SummarizeRegulation(text, req.MaxItems),
	}, nil
}
