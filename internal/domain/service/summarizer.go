package service

import "strings"

// DefaultSummaryItems is the bullet limit used when the caller passes none.
const DefaultSummaryItems = 5

// DefaultActionItems is returned when the text contains no usable lines.
var DefaultActionItems = []string{
	"Update KYC refresh cadence for high-risk segments",
	"Require enhanced due diligence for foreign transactions",
	"Tighten thresholds for large cash deposits",
	"Expand PEP screening and adverse media checks",
	"Log exceptions and provide quarterly attestations",
}

// SampleRegulation is a short excerpt used when no text is supplied.
const SampleRegulation = "Institutions must perform enhanced due diligence for high-risk customers. " +
	"Cross-border transactions above defined thresholds require additional monitoring. " +
	"Regular KYC refresh cycles must be maintained, with expedited reviews upon adverse media signals."

// SummarizeRegulation turns regulatory text into action-item bullets. Each
// non-blank line is stripped of leading and trailing dashes, bullets and
// spaces; lines of more than three words are kept, up to maxItems.
func SummarizeRegulation(text string, maxItems int) []string {
	if maxItems <= 0 {
		maxItems = DefaultSummaryItems
	}

	bullets := make([]string, 0, maxItems)
	for _, line := range strings.Split(text, "\n") {
		if len(bullets) == maxItems {
			break
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		line = strings.Trim(strings.TrimRight(line, "\r"), "-• ")
		if len(strings.Fields(line)) > 3 {
			bullets = append(bullets, line)
		}
	}

	if len(bullets) == 0 {
		return append([]string(nil), DefaultActionItems...)
	}
	return bullets
}
