package service

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/valueobject"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// DefaultScorerConfig controls the evaluation split and the classifier.
type DefaultScorerConfig struct {
	Logistic     learn.LogisticConfig
	TestFraction float64
	SplitSeed    uint64
}

// DefaultDefaultScorerConfig holds out 25% of the book with split seed 42 and
// fits an L2 logistic regression with C=1 and at most 200 iterations.
func DefaultDefaultScorerConfig() DefaultScorerConfig {
	return DefaultScorerConfig{
		Logistic:     learn.DefaultLogisticConfig(),
		TestFraction: 0.25,
		SplitSeed:    42,
	}
}

// LoanEvaluation is the result of fitting and evaluating a default model.
type LoanEvaluation struct {
	Model     *learn.LogisticRegression
	Scored    []model.ScoredApplicant
	Influence []model.FeatureInfluence
	AUC       float64
	TrainSize int
	TestSize  int
}

// DefaultScorer fits a logistic default model on a labeled loan book and
// scores applicants with the probability of default times 100.
type DefaultScorer struct {
	config DefaultScorerConfig
}

// NewDefaultScorer creates a new DefaultScorer.
func NewDefaultScorer(cfg DefaultScorerConfig) *DefaultScorer {
	if cfg.TestFraction <= 0 || cfg.TestFraction >= 1 {
		cfg.TestFraction = 0.25
	}
	return &DefaultScorer{config: cfg}
}

// Evaluate splits the book, fits on the training part, measures ROC-AUC on
// the held-out part and scores every applicant. The AUC is reported, never
// enforced.
func (s *DefaultScorer) Evaluate(book model.LoanBook) (*LoanEvaluation, error) {
	if book.Len() == 0 {
		return nil, model.ErrEmptyBatch
	}
	if !book.Labeled {
		return nil, model.ErrUnlabeledBook
	}
	if book.Len() < 2 {
		return nil, fmt.Errorf("%w: need at least 2 applicants, got %d", model.ErrDegenerateData, book.Len())
	}

	train, test := learn.TrainTestSplit(book.Len(), s.config.TestFraction, s.config.SplitSeed)
	if err := requireBothClasses(book, train, "training"); err != nil {
		return nil, err
	}
	if err := requireBothClasses(book, test, "held-out"); err != nil {
		return nil, err
	}

	clf := learn.NewLogisticRegression(s.config.Logistic)
	if err := clf.Fit(book.Matrix(train), book.Labels(train)); err != nil {
		return nil, fmt.Errorf("failed to fit default model: %w", err)
	}

	heldOut, err := clf.PredictProba(book.Matrix(test))
	if err != nil {
		return nil, fmt.Errorf("failed to score held-out split: %w", err)
	}
	labels := make([]bool, len(test))
	for i, j := range test {
		labels[i] = book.Applicants[j].Default
	}
	auc, err := learn.ROCAUC(heldOut, labels)
	if err != nil {
		return nil, fmt.Errorf("failed to compute held-out auc: %w", err)
	}

	scored, err := s.Score(book, clf)
	if err != nil {
		return nil, err
	}

	return &LoanEvaluation{
		Model:     clf,
		Scored:    scored,
		Influence: RankInfluence(model.LoanSchema, clf.Coef),
		AUC:       auc,
		TrainSize: len(train),
		TestSize:  len(test),
	}, nil
}

// Score attaches default_risk to every applicant using a fitted model.
// Labels, if any, are ignored.
func (s *DefaultScorer) Score(book model.LoanBook, clf *learn.LogisticRegression) ([]model.ScoredApplicant, error) {
	if book.Len() == 0 {
		return nil, model.ErrEmptyBatch
	}
	if clf == nil {
		return nil, fmt.Errorf("default scorer: %w", learn.ErrNotFitted)
	}
	proba, err := clf.PredictProba(book.Matrix(nil))
	if err != nil {
		if errors.Is(err, learn.ErrDimensionMismatch) {
			return nil, fmt.Errorf("%w: %v", model.ErrSchemaMismatch, err)
		}
		return nil, fmt.Errorf("failed to score loan book: %w", err)
	}

	out := make([]model.ScoredApplicant, book.Len())
	for i, a := range book.Applicants {
		out[i] = model.ScoredApplicant{
			LoanApplicant: a,
			DefaultRisk:   valueobject.NewRiskScore(proba[i] * 100),
		}
	}
	return out, nil
}

// RankInfluence pairs each feature with the absolute value of its coefficient,
// ordered from most to least influential.
func RankInfluence(schema model.FeatureSchema, coef []float64) []model.FeatureInfluence {
	out := make([]model.FeatureInfluence, 0, len(coef))
	for i, c := range coef {
		name := fmt.Sprintf("feature_%d", i)
		if i < len(schema.Features) {
			name = schema.Features[i]
		}
		out = append(out, model.FeatureInfluence{Feature: name, Coefficient: c, Influence: math.Abs(c)})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Influence > out[b].Influence
	})
	return out
}

func requireBothClasses(book model.LoanBook, idx []int, split string) error {
	var positives int
	for _, i := range idx {
		if book.Applicants[i].Default {
			positives++
		}
	}
	if positives == 0 || positives == len(idx) {
		return fmt.Errorf("%w: %s split of %d applicants has %d defaults", model.ErrDegenerateData, split, len(idx), positives)
	}
	return nil
}
