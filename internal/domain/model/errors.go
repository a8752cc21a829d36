package model

import "errors"

var (
	// ErrSchemaMismatch is returned when required feature columns are missing,
	// non-numeric, or differ from the schema a model was fitted on.
	ErrSchemaMismatch = errors.New("feature schema mismatch")

	// ErrInvalidLabel is returned when a default label is not 0 or 1.
	ErrInvalidLabel = errors.New("invalid default label")

	// ErrDegenerateData is returned when a training or evaluation split lacks
	// one of the two label classes.
	ErrDegenerateData = errors.New("degenerate training data")

	// ErrEmptyBatch is returned when there is nothing to score.
	ErrEmptyBatch = errors.New("empty batch")

	// ErrUnlabeledBook is returned when evaluation is requested on a loan book
	// without default labels.
	ErrUnlabeledBook = errors.New("loan book has no default labels")

	// ErrArtifactNotFound is returned when no model artifact is stored for a kind.
	ErrArtifactNotFound = errors.New("model artifact not found")
)
