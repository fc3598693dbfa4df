package observability

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "siteflow"

// MetricsRecorder records pipeline metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordSubmission counts one ingestion request by result (accepted, invalid, queue_full, queue_unavailable).
	RecordSubmission(ctx context.Context, result string)

	// RecordJobCompleted counts a job that was persisted and acked.
	RecordJobCompleted(ctx context.Context, attempt int)

	// RecordJobRetried counts a failed delivery that was returned to the queue.
	RecordJobRetried(ctx context.Context, attempt int)

	// RecordJobDeadLettered counts a job that reached the terminal failure state.
	RecordJobDeadLettered(ctx context.Context, reason string)

	// RecordAppend records one event store write.
	RecordAppend(ctx context.Context, duration time.Duration, err error)
}

type otelMetrics struct {
	submissions  metric.Int64Counter
	processed    metric.Int64Counter
	retried      metric.Int64Counter
	deadLettered metric.Int64Counter
	appendErrors metric.Int64Counter
	appendMs     metric.Float64Histogram
}

func newOtelMetrics(meter metric.Meter) (*otelMetrics, error) {
	submissions, err := meter.Int64Counter("siteflow.ingest.submissions",
		metric.WithDescription("Number of event submissions by result"),
	)
	if err != nil {
		return nil, err
	}

	processed, err := meter.Int64Counter("siteflow.jobs.processed",
		metric.WithDescription("Number of jobs persisted and acknowledged"),
	)
	if err != nil {
		return nil, err
	}

	retried, err := meter.Int64Counter("siteflow.jobs.retried",
		metric.WithDescription("Number of failed deliveries scheduled for retry"),
	)
	if err != nil {
		return nil, err
	}

	deadLettered, err := meter.Int64Counter("siteflow.jobs.dead_lettered",
		metric.WithDescription("Number of jobs moved to the dead-letter state"),
	)
	if err != nil {
		return nil, err
	}

	appendErrors, err := meter.Int64Counter("siteflow.store.append_errors",
		metric.WithDescription("Number of failed event store writes"),
	)
	if err != nil {
		return nil, err
	}

	appendMs, err := meter.Float64Histogram("siteflow.store.append_ms",
		metric.WithDescription("Event store write latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		submissions:  submissions,
		processed:    processed,
		retried:      retried,
		deadLettered: deadLettered,
		appendErrors: appendErrors,
		appendMs:     appendMs,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder on the global OTel meter provider.
// If instrument creation fails, it logs and returns a no-op recorder.
func NewMetricsRecorder() MetricsRecorder {
	return NewMetricsRecorderWithMeter(otel.Meter(meterName))
}

// NewMetricsRecorderWithMeter builds the recorder on an explicit meter.
func NewMetricsRecorderWithMeter(meter metric.Meter) MetricsRecorder {
	m, err := newOtelMetrics(meter)
	if err != nil {
		slog.Warn("[Metrics] Initialization failed, using no-op recorder", "error", err)
		return NoopMetrics{}
	}
	return m
}

func (m *otelMetrics) RecordSubmission(ctx context.Context, result string) {
	m.submissions.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
}

func (m *otelMetrics) RecordJobCompleted(ctx context.Context, attempt int) {
	m.processed.Add(ctx, 1, metric.WithAttributes(attribute.Int("attempt", attempt)))
}

func (m *otelMetrics) RecordJobRetried(ctx context.Context, attempt int) {
	m.retried.Add(ctx, 1, metric.WithAttributes(attribute.Int("attempt", attempt)))
}

func (m *otelMetrics) RecordJobDeadLettered(ctx context.Context, reason string) {
	m.deadLettered.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

func (m *otelMetrics) RecordAppend(ctx context.Context, duration time.Duration, err error) {
	attrs := metric.WithAttributes(attribute.Bool("success", err == nil))
	m.appendMs.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	if err != nil {
		m.appendErrors.Add(ctx, 1)
	}
}
