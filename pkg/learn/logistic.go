package learn

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// LogisticConfig holds the hyperparameters of a logistic regression.
type LogisticConfig struct {
	// C is the inverse L2 regularisation strength; the intercept is not penalised.
	C       float64 `json:"c"`
	MaxIter int     `json:"max_iter"`
	Tol     float64 `json:"tol"`
}

// DefaultLogisticConfig returns C=1.0 with at most 200 iterations.
func DefaultLogisticConfig() LogisticConfig {
	return LogisticConfig{C: 1.0, MaxIter: 200, Tol: 1e-8}
}

// LogisticRegression is a binary classifier fitted by Newton's method on
// standardised features. Coefficients are reported on the original feature scale.
type LogisticRegression struct {
	Config     LogisticConfig `json:"config"`
	Coef       []float64      `json:"coef"`
	Intercept  float64        `json:"intercept"`
	Iterations int            `json:"iterations"`
	Converged  bool           `json:"converged"`
}

// NewLogisticRegression returns an unfitted model.
func NewLogisticRegression(cfg LogisticConfig) *LogisticRegression {
	if cfg.C <= 0 {
		cfg.C = 1.0
	}
	if cfg.MaxIter <= 0 {
		cfg.MaxIter = 200
	}
	if cfg.Tol <= 0 {
		cfg.Tol = 1e-8
	}
	return &LogisticRegression{Config: cfg}
}

// Fit learns the coefficients from X and binary targets y (0 or 1).
func (m *LogisticRegression) Fit(X [][]float64, y []float64) error {
	w, err := width(X)
	if err != nil {
		return fmt.Errorf("logistic fit: %w", err)
	}
	if len(y) != len(X) {
		return fmt.Errorf("logistic fit: %w: %d rows, %d targets", ErrDimensionMismatch, len(X), len(y))
	}

	var positives int
	for _, v := range y {
		if v != 0 && v != 1 {
			return fmt.Errorf("logistic fit: target %v is not binary", v)
		}
		if v == 1 {
			positives++
		}
	}
	if positives == 0 || positives == len(y) {
		return fmt.Errorf("logistic fit: %w", ErrSingleClass)
	}

	means, scales := standardization(X, w)
	n, k := len(X), w+1

	// Design matrix with a leading intercept column.
	Z := make([][]float64, n)
	for i, row := range X {
		z := make([]float64, k)
		z[0] = 1
		for j, v := range row {
			z[j+1] = (v - means[j]) / scales[j]
		}
		Z[i] = z
	}

	lambda := 1 / m.Config.C
	beta := make([]float64, k)
	grad := make([]float64, k)

	m.Converged = false
	m.Iterations = 0
	for iter := 0; iter < m.Config.MaxIter; iter++ {
		m.Iterations = iter + 1

		for a := range grad {
			grad[a] = 0
		}
		hess := mat.NewSymDense(k, nil)
		for i, z := range Z {
			p := sigmoid(floats.Dot(beta, z))
			r := y[i] - p
			wgt := p * (1 - p)
			floats.AddScaled(grad, r, z)
			for a := 0; a < k; a++ {
				for b := a; b < k; b++ {
					hess.SetSym(a, b, hess.At(a, b)+wgt*z[a]*z[b])
				}
			}
		}
		for a := 1; a < k; a++ {
			grad[a] -= lambda * beta[a]
			hess.SetSym(a, a, hess.At(a, a)+lambda)
		}

		var step mat.VecDense
		if err := step.SolveVec(hess, mat.NewVecDense(k, grad)); err != nil {
			return fmt.Errorf("logistic fit: newton step %d: %w", iter+1, err)
		}

		var maxStep float64
		for a := 0; a < k; a++ {
			d := step.AtVec(a)
			beta[a] += d
			maxStep = math.Max(maxStep, math.Abs(d))
		}
		if maxStep < m.Config.Tol {
			m.Converged = true
			break
		}
	}

	m.Coef = make([]float64, w)
	m.Intercept = beta[0]
	for j := 0; j < w; j++ {
		m.Coef[j] = beta[j+1] / scales[j]
		m.Intercept -= beta[j+1] * means[j] / scales[j]
	}
	return nil
}

// PredictProba returns the probability of the positive class for every row.
func (m *LogisticRegression) PredictProba(X [][]float64) ([]float64, error) {
	if m.Coef == nil {
		return nil, ErrNotFitted
	}
	w, err := width(X)
	if err != nil {
		return nil, fmt.Errorf("logistic predict: %w", err)
	}
	if w != len(m.Coef) {
		return nil, fmt.Errorf("logistic predict: %w: fitted on %d features, got %d", ErrDimensionMismatch, len(m.Coef), w)
	}

	out := make([]float64, len(X))
	for i, row := range X {
		out[i] = sigmoid(m.Intercept + floats.Dot(m.Coef, row))
	}
	return out, nil
}

func sigmoid(x float64) float64 {
	if x >= 0 {
		return 1 / (1 + math.Exp(-x))
	}
	e := math.Exp(x)
	return e / (1 + e)
}

// standardization returns per-column means and standard deviations; constant
// columns get a unit scale.
func standardization(X [][]float64, w int) (means, scales []float64) {
	means = make([]float64, w)
	scales = make([]float64, w)
	n := float64(len(X))

	for _, row := range X {
		floats.Add(means, row)
	}
	floats.Scale(1/n, means)

	for _, row := range X {
		for j, v := range row {
			d := v - means[j]
			scales[j] += d * d
		}
	}
	for j := range scales {
		scales[j] = math.Sqrt(scales[j] / n)
		if scales[j] == 0 {
			scales[j] = 1
		}
	}
	return means, scales
}
