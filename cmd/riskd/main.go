package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/bootstrap"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/config"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/infrastructure/synthetic"
	grpcpresentation "github.com/jenishsoftx6/ai-compliance-risk-insights/internal/presentation/grpc"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/internal/presentation/rest"
	"github.com/jenishsoftx6/ai-compliance-risk-insights/pkg/observability"
)

const serviceName = "risk-insights"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Initialize structured logger via shared observability package.
	logger := observability.InitLogger(observability.LogConfig{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: serviceName,
	})

	logger.Info("starting risk-insights",
		"http_port", cfg.HTTPPort,
		"grpc_port", cfg.GRPCPort,
	)

	// Initialize metrics.
	metrics, err := observability.InitMetrics(observability.MetricsConfig{
		ServiceName:       serviceName,
		ProcessCollectors: true,
	})
	if err != nil {
		logger.Error("failed to initialize metrics", "error", err)
		os.Exit(1)
	}

	// Wire infrastructure adapters.
	openCtx, openCancel := context.WithTimeout(ctx, 10*time.Second)
	res, err := bootstrap.Open(openCtx, cfg, logger, metrics.Provider)
	openCancel()
	if err != nil {
		logger.Error("failed to open infrastructure", "error", err)
		os.Exit(1)
	}

	// Wire use cases.
	uc := res.UseCases(synthetic.NewGenerator(), logger)

	tokens, err := bootstrap.Tokens(cfg)
	if err != nil {
		logger.Error("failed to configure authentication", "error", err)
		res.Close()
		os.Exit(1)
	}

	// gRPC server.
	grpcHandler := grpcpresentation.NewScoringServiceHandler(uc.ScoreTransaction, logger)
	grpcServer, err := grpcpresentation.NewServer(grpcHandler, grpcpresentation.ServerConfig{
		Address:     cfg.GRPCAddress(),
		TLSCertFile: cfg.GRPCTLSCertFile,
		TLSKeyFile:  cfg.GRPCTLSKeyFile,
		Reflection:  cfg.GRPCReflection,
		Tokens:      tokens,
	}, logger)
	if err != nil {
		logger.Error("failed to create gRPC server", "error", err)
		res.Close()
		os.Exit(1)
	}

	// HTTP server.
	router := rest.NewRouter(rest.Routes{
		Health:   rest.NewHealthHandler(logger, res.DB),
		Scoring:  rest.NewScoringHandler(uc.ScoreTransaction, uc.ScoreFraudBatch, uc.ScoreLoanBook, logger),
		Insights: rest.NewInsightsHandler(uc.SummarizeRegulation, uc.BuildOverview, logger),
		Metrics:  metrics.Handler,
		Tokens:   tokens,
	}, logger, cfg.HTTPRateLimit)

	httpServer := &http.Server{
		Addr:              cfg.HTTPAddress(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start servers.
	errCh := make(chan error, 2)

	go func() {
		if err := grpcServer.Start(); err != nil {
			errCh <- fmt.Errorf("gRPC server error: %w", err)
		}
	}()

	go func() {
		logger.Info("HTTP server starting", "address", cfg.HTTPAddress())
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	logger.Info("risk-insights started",
		"grpc_address", cfg.GRPCAddress(),
		"http_address", cfg.HTTPAddress(),
		"environment", cfg.Environment,
	)

	// Wait for shutdown signal.
	exitCode := 0
	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		logger.Error("server error", "error", err)
		exitCode = 1
	}

	// Graceful shutdown.
	logger.Info("shutting down risk-insights")

	grpcServer.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", "error", err)
	}
	if err := metrics.Shutdown(shutdownCtx); err != nil {
		logger.Error("metrics shutdown error", "error", err)
	}
	if err := res.Close(); err != nil {
		logger.Error("failed to release infrastructure", "error", err)
	}

	logger.Info("risk-insights stopped")
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}
