package observability

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTracingTest creates a test tracer provider with an in-memory span recorder.
func setupTracingTest(t *testing.T) (*tracetest.InMemoryExporter, func()) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	originalProvider := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	tracer = otel.Tracer("clientdir")

	cleanup := func() {
		otel.SetTracerProvider(originalProvider)
		tracer = otel.Tracer("clientdir")
		if err := tp.Shutdown(context.Background()); err != nil {
			t.Logf("Error shutting down tracer provider: %v", err)
		}
	}
	return exporter, cleanup
}

func TestStartReloadSpan(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()
	ctx, span := m.StartReloadSpan(context.Background(), "file", "watch")
	m.AddSpanEvent(ctx, "registrations.loaded", attribute.Int("count", 3))
	m.EndSpanWithError(span, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "clientdir.reload", s.Name)
	assert.Equal(t, codes.Ok, s.Status.Code)
	assert.Contains(t, s.Attributes, attribute.String("source.name", "file"))
	assert.Contains(t, s.Attributes, attribute.String("reload.trigger", "watch"))
	require.Len(t, s.Events, 1)
	assert.Equal(t, "registrations.loaded", s.Events[0].Name)
}

func TestEndSpanWithError(t *testing.T) {
	exporter, cleanup := setupTracingTest(t)
	defer cleanup()

	m := NewSpanManager()
	_, span := m.StartReloadSpan(context.Background(), "sqlite", "manual")
	m.EndSpanWithError(span, errors.New("duplicate alias"))
	m.EndSpanWithError(nil, nil)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "duplicate alias", spans[0].Status.Description)
	require.NotEmpty(t, spans[0].Events, "error should be recorded as an event")
}

func TestAddSpanEvent_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		NewSpanManager().AddSpanEvent(context.Background(), "ignored")
	})
}

func TestNoopImplementations(t *testing.T) {
	ctx := context.Background()

	var metrics MetricsRecorder = NoopMetrics{}
	metrics.RecordReload(ctx, "file", true, 0)
	metrics.RecordRegistrations(ctx, "file", 1)

	var spans SpanManager = NoopSpanManager{}
	got, span := spans.StartReloadSpan(ctx, "file", "manual")
	assert.Equal(t, ctx, got)
	assert.False(t, span.IsRecording())
	spans.AddSpanEvent(ctx, "event")
	spans.EndSpanWithError(span, errors.New("ignored"))
}
