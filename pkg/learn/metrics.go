package learn

import (
	"fmt"

	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
)

// ROCAUC returns the area under the ROC curve for the given scores and
// binary labels. Tied scores share a single cutoff.
func ROCAUC(scores []float64, labels []bool) (float64, error) {
	if len(scores) == 0 {
		return 0, ErrEmptyInput
	}
	if len(scores) != len(labels) {
		return 0, fmt.Errorf("roc auc: %w: %d scores, %d labels", ErrDimensionMismatch, len(scores), len(labels))
	}

	var positives int
	for _, l := range labels {
		if l {
			positives++
		}
	}
	if positives == 0 || positives == len(labels) {
		return 0, fmt.Errorf("roc auc: %w", ErrSingleClass)
	}

	y := append([]float64(nil), scores...)
	classes := append([]bool(nil), labels...)
	stat.SortWeightedLabeled(y, classes, nil)

	tpr, fpr, _ := stat.ROC(nil, y, classes, nil)
	return integrate.Trapezoidal(fpr, tpr), nil
}
