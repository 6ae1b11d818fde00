package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records reload metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordReload records one reload attempt cycle and its outcome.
	RecordReload(ctx context.Context, sourceName string, success bool, duration time.Duration)

	// RecordRegistrations records the size of the snapshot now in service.
	RecordRegistrations(ctx context.Context, sourceName string, count int)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	reloads       metric.Int64Counter
	reloadLatency metric.Float64Histogram
	reloadErrors  metric.Int64Counter
	registrations metric.Int64Gauge
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("clientdir")

	reloads, err := meter.Int64Counter("clientdir.reload.count",
		metric.WithDescription("Number of registration reloads"),
	)
	if err != nil {
		return nil, err
	}

	reloadLatency, err := meter.Float64Histogram("clientdir.reload.latency_ms",
		metric.WithDescription("Registration reload latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	reloadErrors, err := meter.Int64Counter("clientdir.reload.errors",
		metric.WithDescription("Number of rejected or failed registration reloads"),
	)
	if err != nil {
		return nil, err
	}

	registrations, err := meter.Int64Gauge("clientdir.registrations",
		metric.WithDescription("Registrations in the active snapshot"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		reloads:       reloads,
		reloadLatency: reloadLatency,
		reloadErrors:  reloadErrors,
		registrations: registrations,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function.
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordReload records a reload.
func (m *otelMetrics) RecordReload(ctx context.Context, sourceName string, success bool, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("source", sourceName),
		attribute.Bool("success", success),
	)
	m.reloads.Add(ctx, 1, attrs)
	m.reloadLatency.Record(ctx, float64(duration.Microseconds())/1000, attrs)

	if !success {
		m.reloadErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("source", sourceName)))
	}
}

// RecordRegistrations records the active snapshot size.
func (m *otelMetrics) RecordRegistrations(ctx context.Context, sourceName string, count int) {
	m.registrations.Record(ctx, int64(count), metric.WithAttributes(attribute.String("source", sourceName)))
}
