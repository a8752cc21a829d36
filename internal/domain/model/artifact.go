package model

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ArtifactFormat is the version of the artifact envelope written by this build.
const ArtifactFormat = 1

// ArtifactKind identifies which model an artifact holds.
type ArtifactKind string

const (
	ArtifactFraudForest    ArtifactKind = "fraud_iforest"
	ArtifactLoanClassifier ArtifactKind = "loan_logit"
)

// Artifact is a persisted fitted model together with the feature schema it
// was fitted on.
type Artifact struct {
	CreatedAt time.Time          `json:"created_at"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
	Kind      ArtifactKind       `json:"kind"`
	Payload   json.RawMessage    `json:"payload"`
	Schema    FeatureSchema      `json:"schema"`
	Format    int                `json:"format"`
	ID        uuid.UUID          `json:"id"`
}

// NewArtifact serialises a fitted model into a new artifact.
func NewArtifact(kind ArtifactKind, schema FeatureSchema, fitted any, metrics map[string]float64) (*Artifact, error) {
	if kind == "" {
		return nil, fmt.Errorf("artifact kind is required")
	}
	payload, err := json.Marshal(fitted)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s model: %w", kind, err)
	}
	return &Artifact{
		ID:        uuid.New(),
		Kind:      kind,
		Format:    ArtifactFormat,
		Schema:    schema,
		Metrics:   metrics,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Expect fails with ErrSchemaMismatch unless the artifact holds a model of
// the given kind fitted on exactly the given schema.
func (a *Artifact) Expect(kind ArtifactKind, schema FeatureSchema) error {
	if a.Format != ArtifactFormat {
		return fmt.Errorf("%w: artifact format %d, want %d", ErrSchemaMismatch, a.Format, ArtifactFormat)
	}
	if a.Kind != kind {
		return fmt.Errorf("%w: artifact holds %s, want %s", ErrSchemaMismatch, a.Kind, kind)
	}
	return schema.Check(a.Schema)
}

// Decode unmarshals the model payload into fitted.
func (a *Artifact) Decode(fitted any) error {
	if err := json.Unmarshal(a.Payload, fitted); err != nil {
		return fmt.Errorf("failed to decode %s model: %w", a.Kind, err)
	}
	return nil
}
