// Package learn provides the small set of statistical learners used by the
// risk pipeline: an isolation forest for unsupervised outlier scoring, an
// L2-regularised logistic regression, ROC-AUC evaluation and a seeded
// train/test splitter.
//
// Every learner takes an explicit seed and owns its random source, so two
// fits with the same seed and data always produce the same model.
package learn

import (
	"errors"
	"math/rand/v2"
)

var (
	// ErrEmptyInput is returned when a learner receives no samples.
	ErrEmptyInput = errors.New("learn: empty input")

	// ErrDimensionMismatch is returned when rows have inconsistent widths or
	// do not match the width the model was fitted on.
	ErrDimensionMismatch = errors.New("learn: dimension mismatch")

	// ErrSingleClass is returned when a binary learner or metric sees only one class.
	ErrSingleClass = errors.New("learn: only one class present")

	// ErrNotFitted is returned when predicting with an unfitted model.
	ErrNotFitted = errors.New("learn: model not fitted")

	// ErrMalformedModel is returned when a decoded model fails its structural checks.
	ErrMalformedModel = errors.New("learn: malformed model")
)

// newSource returns a deterministic random source for the given seed.
func newSource(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// width validates that X is a non-empty rectangular matrix and returns its column count.
func width(X [][]float64) (int, error) {
	if len(X) == 0 {
		return 0, ErrEmptyInput
	}
	w := len(X[0])
	if w == 0 {
		return 0, ErrDimensionMismatch
	}
	for _, row := range X {
		if len(row) != w {
			return 0, ErrDimensionMismatch
		}
	}
	return w, nil
}

// TrainTestSplit shuffles the indexes 0..n-1 with the given seed and returns
// the training and test partitions. The test partition holds
// ceil(n*testFraction) samples.
func TrainTestSplit(n int, testFraction float64, seed uint64) (train, test []int) {
	if n <= 0 {
		return nil, nil
	}
	nTest := int(float64(n)*testFraction + 0.999999999)
	if nTest < 1 {
		nTest = 1
	}
	if nTest >= n {
		nTest = n - 1
	}

	perm := newSource(seed).Perm(n)
	test = append([]int(nil), perm[:nTest]...)
	train = append([]int(nil), perm[nTest:]...)
	return train, test
}
