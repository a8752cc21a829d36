// Package artifact stores fitted model artifacts as JSON documents on disk.
package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
)

// FileStore implements port.ArtifactStore with one <kind>.json file per
// model kind under a directory. Concurrent writers of the same kind race and
// the last rename wins.
type FileStore struct {
	dir string
}

// NewFileStore creates a store rooted at dir. The directory is created on
// first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// Path returns the file an artifact of the given kind is stored at.
func (s *FileStore) Path(kind model.ArtifactKind) string {
	return filepath.Join(s.dir, string(kind)+".json")
}

// Save writes the artifact to a temporary file and renames it into place.
func (s *FileStore) Save(_ context.Context, artifact *model.Artifact) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode artifact: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, string(artifact.Kind)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.Write(data); err != nil {
		tmp.Close() //nolint:errcheck
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.Path(artifact.Kind)); err != nil {
		return fmt.Errorf("failed to publish artifact: %w", err)
	}
	return nil
}

// Load reads the artifact of the given kind.
func (s *FileStore) Load(_ context.Context, kind model.ArtifactKind) (*model.Artifact, error) {
	data, err := os.ReadFile(s.Path(kind))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", model.ErrArtifactNotFound, kind)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact: %w", err)
	}

	var artifact model.Artifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, fmt.Errorf("%w: %s artifact is not valid json: %v", model.ErrSchemaMismatch, kind, err)
	}
	return &artifact, nil
}
