package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/postgres"
)

// ArtifactRepository implements port.ArtifactStore using PostgreSQL. It keeps
// one row per model kind.
type ArtifactRepository struct {
	db postgres.Querier
}

// NewArtifactRepository creates a new PostgreSQL-backed artifact store. db is
// usually a *pgxpool.Pool.
func NewArtifactRepository(db postgres.Querier) *ArtifactRepository {
	return &ArtifactRepository{db: db}
}

// Save upserts the artifact, replacing any previous artifact of its kind.
func (r *ArtifactRepository) Save(ctx context.Context, artifact *model.Artifact) error {
	metrics, err := json.Marshal(artifact.Metrics)
	if err != nil {
		return fmt.Errorf("failed to encode artifact metrics: %w", err)
	}
	if artifact.Metrics == nil {
		metrics = []byte("{}")
	}

	query := `
		INSERT INTO model_artifacts (
			kind, id, format, schema_name, schema_version,
			features, metrics, payload, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (kind) DO UPDATE SET
			id = EXCLUDED.id,
			format = EXCLUDED.format,
			schema_name = EXCLUDED.schema_name,
			schema_version = EXCLUDED.schema_version,
			features = EXCLUDED.features,
			metrics = EXCLUDED.metrics,
			payload = EXCLUDED.payload,
			created_at = EXCLUDED.created_at
	`

	_, err = r.db.Exec(ctx, query,
		string(artifact.Kind),
		artifact.ID,
		artifact.Format,
		artifact.Schema.Name,
		artifact.Schema.Version,
		artifact.Schema.Features,
		metrics,
		[]byte(artifact.Payload),
		artifact.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s artifact: %w", artifact.Kind, err)
	}
	return nil
}

// Load returns the stored artifact of the given kind.
func (r *ArtifactRepository) Load(ctx context.Context, kind model.ArtifactKind) (*model.Artifact, error) {
	query := `
		SELECT id, format, schema_name, schema_version,
			features, metrics, payload, created_at
		FROM model_artifacts
		WHERE kind = $1
	`

	var (
		id        uuid.UUID
		format    int
		name      string
		version   int
		features  []string
		metrics   []byte
		payload   []byte
		createdAt time.Time
	)
	err := r.db.QueryRow(ctx, query, string(kind)).Scan(
		&id, &format, &name, &version,
		&features, &metrics, &payload, &createdAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", model.ErrArtifactNotFound, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s artifact: %w", kind, err)
	}

	artifact := &model.Artifact{
		ID:        id,
		Kind:      kind,
		Format:    format,
		Schema:    model.FeatureSchema{Name: name, Version: version, Features: features},
		Payload:   json.RawMessage(payload),
		CreatedAt: createdAt,
	}
	if len(metrics) > 0 {
		if err := json.Unmarshal(metrics, &artifact.Metrics); err != nil {
			return nil, fmt.Errorf("failed to decode %s artifact metrics: %w", kind, err)
		}
	}
	return artifact, nil
}
