package port

import (
	"context"
	"time"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/events"
)

// ArtifactStore defines the persistence port for fitted model artifacts.
// There is at most one artifact per kind; Save replaces it.
type ArtifactStore interface {
	// Save persists the artifact, replacing any artifact of the same kind.
	Save(ctx context.Context, artifact *model.Artifact) error

	// Load returns the stored artifact of the given kind or ErrArtifactNotFound.
	Load(ctx context.Context, kind model.ArtifactKind) (*model.Artifact, error)
}

// EventPublisher defines the port for publishing domain events.
type EventPublisher interface {
	Publish(ctx context.Context, events ...events.DomainEvent) error
}

// MetricsRecorder receives scoring telemetry.
type MetricsRecorder interface {
	RecordBatch(ctx context.Context, pipeline, method string, records, flagged int, elapsed time.Duration)
	RecordSingleScore(ctx context.Context, level string)
}

// DatasetGenerator produces reproducible synthetic tables.
type DatasetGenerator interface {
	Transactions(n int, seed uint64) ([]model.Transaction, []int)
	Loans(n int, seed uint64) model.LoanBook
}
