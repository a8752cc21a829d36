// Package telemetry records scoring activity as OpenTelemetry metrics.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const meterName = "github.com/jenishsoftx6/ai-compliance-risk-insights"

// Recorder implements port.MetricsRecorder.
type Recorder struct {
	records  metric.Int64Counter
	flagged  metric.Int64Counter
	batches  metric.Int64Counter
	latency  metric.Float64Histogram
	requests metric.Int64Counter
}

// NewRecorder creates the instruments on the given meter provider.
func NewRecorder(provider metric.MeterProvider) (*Recorder, error) {
	meter := provider.Meter(meterName)

	records, err := meter.Int64Counter("risk_scored_records",
		metric.WithDescription("Records scored, by pipeline and method."))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create records counter: %w", err)
	}
	flagged, err := meter.Int64Counter("risk_flagged_records",
		metric.WithDescription("Records scored above the alert threshold."))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create flagged counter: %w", err)
	}
	batches, err := meter.Int64Counter("risk_batches",
		metric.WithDescription("Completed scoring batches."))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create batch counter: %w", err)
	}
	latency, err := meter.Float64Histogram("risk_batch_duration_seconds",
		metric.WithDescription("Wall time spent scoring one batch."),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create latency histogram: %w", err)
	}
	requests, err := meter.Int64Counter("risk_single_scores",
		metric.WithDescription("Single-transaction heuristic scores, by risk level."))
	if err != nil {
		return nil, fmt.Errorf("telemetry: create single score counter: %w", err)
	}

	return &Recorder{
		records:  records,
		flagged:  flagged,
		batches:  batches,
		latency:  latency,
		requests: requests,
	}, nil
}

// NewNoopRecorder returns a recorder that discards everything.
func NewNoopRecorder() *Recorder {
	r, _ := NewRecorder(noop.NewMeterProvider())
	return r
}

// RecordBatch records the size, alert count and duration of one scored batch.
func (r *Recorder) RecordBatch(ctx context.Context, pipeline, method string, records, flagged int, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("pipeline", pipeline),
		attribute.String("method", method),
	)
	r.batches.Add(ctx, 1, attrs)
	r.records.Add(ctx, int64(records), attrs)
	r.flagged.Add(ctx, int64(flagged), attrs)
	r.latency.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordSingleScore counts one heuristic score by level.
func (r *Recorder) RecordSingleScore(ctx context.Context, level string) {
	r.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("level", level)))
}
