package usecase_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/model"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/synthetic"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/events"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
)

// --- Mock implementations ---

type mockArtifactStore struct {
	mu        sync.Mutex
	artifacts map[model.ArtifactKind]*model.Artifact
	saveFunc  func(ctx context.Context, a *model.Artifact) error
	loadFunc  func(ctx context.Context, kind model.ArtifactKind) (*model.Artifact, error)
}

func newMockArtifactStore() *mockArtifactStore {
	return &mockArtifactStore{artifacts: make(map[model.ArtifactKind]*model.Artifact)}
}

func (m *mockArtifactStore) Save(ctx context.Context, a *model.Artifact) error {
	if m.saveFunc != nil {
		return m.saveFunc(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.artifacts[a.Kind] = a
	return nil
}

func (m *mockArtifactStore) Load(ctx context.Context, kind model.ArtifactKind) (*model.Artifact, error) {
	if m.loadFunc != nil {
		return m.loadFunc(ctx, kind)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.artifacts[kind]
	if !ok {
		return nil, model.ErrArtifactNotFound
	}
	return a, nil
}

type mockEventPublisher struct {
	publishedEvents []events.DomainEvent
	publishFunc     func(ctx context.Context, evts ...events.DomainEvent) error
}

func (m *mockEventPublisher) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if m.publishFunc != nil {
		return m.publishFunc(ctx, evts...)
	}
	m.publishedEvents = append(m.publishedEvents, evts...)
	return nil
}

func (m *mockEventPublisher) ofType(eventType string) []events.DomainEvent {
	var out []events.DomainEvent
	for _, e := range m.publishedEvents {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

type recordedBatch struct {
	pipeline, method string
	records, flagged int
}

type mockMetricsRecorder struct {
	batches []recordedBatch
	levels  []string
}

func (m *mockMetricsRecorder) RecordBatch(_ context.Context, pipeline, method string, records, flagged int, _ time.Duration) {
	m.batches = append(m.batches, recordedBatch{pipeline: pipeline, method: method, records: records, flagged: flagged})
}

func (m *mockMetricsRecorder) RecordSingleScore(_ context.Context, level string) {
	m.levels = append(m.levels, level)
}

// --- Fixtures ---

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// learnableGenerator raises default prevalence so small books hold both classes.
func learnableGenerator() *synthetic.Generator {
	return synthetic.NewGenerator(synthetic.WithLoanProfile(synthetic.LoanProfile{Intercept: -2}))
}

func smallForest() learn.IsolationForestConfig {
	cfg := learn.DefaultIsolationForestConfig()
	cfg.Trees = 25
	return cfg
}
