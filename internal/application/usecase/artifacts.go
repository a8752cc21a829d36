package usecase

import (
	"context"
	"fmt"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// loadModel fetches the artifact of the given kind, checks it against the
// expected schema and decodes its payload into fitted.
func loadModel(ctx context.Context, store port.ArtifactStore, kind model.ArtifactKind, schema model.FeatureSchema, fitted any) (*model.Artifact, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: no artifact store configured", model.ErrArtifactNotFound)
	}
	artifact, err := store.Load(ctx, kind)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s model: %w", kind, err)
	}
	if err := artifact.Expect(kind, schema); err != nil {
		return nil, fmt.Errorf("failed to validate %s model: %w", kind, err)
	}
	if err := artifact.Decode(fitted); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrSchemaMismatch, err)
	}
	return artifact, nil
}

func loadForest(ctx context.Context, store port.ArtifactStore) (*learn.IsolationForest, error) {
	var forest learn.IsolationForest
	if _, err := loadModel(ctx, store, model.ArtifactFraudForest, model.TransactionSchema, &forest); err != nil {
		return nil, err
	}
	if err := forest.Validate(); err != nil {
		return nil, fmt.Errorf("%w: stored forest: %v", model.ErrSchemaMismatch, err)
	}
	return &forest, nil
}

// loadClassifier also returns the artifact so callers can report the AUC
// measured at training time.
func loadClassifier(ctx context.Context, store port.ArtifactStore) (*learn.LogisticRegression, *model.Artifact, error) {
	var clf learn.LogisticRegression
	artifact, err := loadModel(ctx, store, model.ArtifactLoanClassifier, model.LoanSchema, &clf)
	if err != nil {
		return nil, nil, err
	}
	if len(clf.Coef) != len(model.LoanSchema.Features) {
		return nil, nil, fmt.Errorf("%w: stored classifier has %d coefficients", model.ErrSchemaMismatch, len(clf.Coef))
	}
	return &clf, artifact, nil
}
