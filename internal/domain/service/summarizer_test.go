package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
)

func TestSummarizeRegulation(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		maxItems int
		want     []string
	}{
		{
			name: "strips bullets and drops short lines",
			text: "- Banks must refresh KYC annually\n\n• Short line here\n  -- Report large cash deposits within ten days --  \n",
			want: []string{"Banks must refresh KYC annually", "Report large cash deposits within ten days"},
		},
		{
			name:     "limits the number of bullets",
			text:     "one two three four\nfive six seven eight\nnine ten eleven twelve",
			maxItems: 2,
			want:     []string{"one two three four", "five six seven eight"},
		},
		{
			name: "single paragraph is one bullet",
			text: service.SampleRegulation,
			want: []string{service.SampleRegulation},
		},
		{
			name: "falls back to default action items",
			text: "too short\n- also short",
			want: service.DefaultActionItems,
		},
		{
			name: "empty text",
			text: "",
			want: service.DefaultActionItems,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, service.SummarizeRegulation(tt.text, tt.maxItems))
		})
	}
}

func TestSummarizeRegulation_DefaultsAreCopied(t *testing.T) {
	got := service.SummarizeRegulation("", 0)
	got[0] = "changed"
	assert.NotEqual(t, "changed", service.DefaultActionItems[0])
}
