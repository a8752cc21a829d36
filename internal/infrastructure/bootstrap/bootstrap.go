// Package bootstrap wires the infrastructure adapters and use cases shared by
// the riskd server and the riskctl CLI.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/application/usecase"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/port"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/domain/service"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/artifact"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/config"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/messaging"
	pgstore "github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/postgres"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/telemetry"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/auth"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/kafka"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/learn"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/postgres"
)

// Resources holds the opened adapters. Close releases them in reverse order.
type Resources struct {
	Artifacts port.ArtifactStore
	Publisher port.EventPublisher
	Metrics   port.MetricsRecorder
	// DB is set only when artifacts live in PostgreSQL.
	DB      postgres.Pinger
	closers []func() error
}

// Open selects the artifact store (PostgreSQL when DATABASE_URL is set, the
// filesystem otherwise) and the event publisher (Kafka when brokers are
// configured, the log otherwise). A nil provider records no metrics.
func Open(ctx context.Context, cfg *config.Config, logger *slog.Logger, provider metric.MeterProvider) (*Resources, error) {
	res := &Resources{}

	if cfg.UsePostgres() {
		pgCfg := postgres.Config{URL: cfg.DatabaseURL}
		pool, err := postgres.NewPool(ctx, pgCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to artifact database: %w", err)
		}
		res.closers = append(res.closers, func() error { pool.Close(); return nil })

		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
			res.Close()
			return nil, err
		}
		res.Artifacts = pgstore.NewArtifactRepository(pool)
		res.DB = pool
		logger.Info("artifact store: postgres", "url", pgCfg.Redacted())
	} else {
		res.Artifacts = artifact.NewFileStore(cfg.ArtifactDir)
		logger.Info("artifact store: filesystem", "dir", cfg.ArtifactDir)
	}

	if kcfg := cfg.Kafka(); kcfg.Enabled() {
		producer, err := kafka.NewProducer(kcfg)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("failed to create kafka producer: %w", err)
		}
		res.closers = append(res.closers, producer.Close)
		res.Publisher = messaging.NewKafkaPublisher(producer, cfg.AlertTopic, logger)
		logger.Info("alert publisher: kafka", "brokers", kcfg.Brokers, "topic", cfg.AlertTopic)
	} else {
		res.Publisher = messaging.NewLogPublisher(logger)
		logger.Info("alert publisher: log")
	}

	if provider == nil {
		res.Metrics = telemetry.NewNoopRecorder()
	} else {
		recorder, err := telemetry.NewRecorder(provider)
		if err != nil {
			res.Close()
			return nil, fmt.Errorf("failed to create metrics recorder: %w", err)
		}
		res.Metrics = recorder
	}

	return res, nil
}

// Close releases every opened adapter.
func (r *Resources) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		errs = append(errs, r.closers[i]())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// Tokens returns the token service configured by the AUTH_* variables, or
// nil when authentication is disabled.
func Tokens(cfg *config.Config) (*auth.TokenService, error) {
	acfg, err := cfg.Auth()
	if err != nil {
		return nil, err
	}
	if !acfg.Enabled() {
		return nil, nil
	}
	tokens, err := auth.NewTokenService(acfg)
	if err != nil {
		return nil, fmt.Errorf("failed to configure authentication: %w", err)
	}
	return tokens, nil
}

// UseCases bundles every application use case.
type UseCases struct {
	GenerateDatasets    *usecase.GenerateDatasets
	ScoreTransaction    *usecase.ScoreTransaction
	ScoreFraudBatch     *usecase.ScoreFraudBatch
	ScoreLoanBook       *usecase.ScoreLoanBook
	TrainFraudModel     *usecase.TrainFraudModel
	TrainLoanModel      *usecase.TrainLoanModel
	SummarizeRegulation *usecase.SummarizeRegulation
	BuildOverview       *usecase.BuildOverview
}

// UseCases wires the use cases onto the opened adapters with the default
// model hyperparameters.
func (r *Resources) UseCases(generator port.DatasetGenerator, logger *slog.Logger) UseCases {
	forest := learn.DefaultIsolationForestConfig()
	loans := service.NewDefaultScorer(service.DefaultDefaultScorerConfig())

	return UseCases{
		GenerateDatasets:    usecase.NewGenerateDatasets(generator),
		ScoreTransaction:    usecase.NewScoreTransaction(service.NewHeuristicScorer(), r.Metrics),
		ScoreFraudBatch:     usecase.NewScoreFraudBatch(r.Artifacts, r.Publisher, r.Metrics, logger, forest),
		ScoreLoanBook:       usecase.NewScoreLoanBook(r.Artifacts, r.Publisher, r.Metrics, logger, loans),
		TrainFraudModel:     usecase.NewTrainFraudModel(r.Artifacts, logger, forest),
		TrainLoanModel:      usecase.NewTrainLoanModel(r.Artifacts, logger, loans),
		SummarizeRegulation: usecase.NewSummarizeRegulation(),
		BuildOverview:       usecase.NewBuildOverview(generator, r.Artifacts, logger, forest, loans),
	}
}
