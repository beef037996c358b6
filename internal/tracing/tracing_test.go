package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// useRecorder swaps the package tracer for one backed by an in-memory recorder.
func useRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))

	old := tracer
	tracer = tp.Tracer(serviceName)
	t.Cleanup(func() { tracer = old })
	return rec
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")

	cfg := DefaultConfig()
	assert.False(t, cfg.Enabled)
	assert.Empty(t, cfg.Endpoint)
}

func TestDefaultConfig_WithEnv(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	cfg := DefaultConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, "localhost:4317", cfg.Endpoint)
}

func TestSetup_Disabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: false})

	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(context.Background()))
	assert.NotNil(t, Tracer())
}

func TestSetup_EmptyEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), Config{Enabled: true, Endpoint: ""})

	require.NoError(t, err)
	assert.NotNil(t, shutdown)
}

func TestTracer_ReturnsNonNil(t *testing.T) {
	old := tracer
	tracer = nil
	defer func() { tracer = old }()

	assert.NotNil(t, Tracer())
}

func TestStartSpan_RecordsNameAndAttributes(t *testing.T) {
	rec := useRecorder(t)

	ctx := context.Background()
	newCtx, span := StartSpan(ctx, "scan.Steam", WithAttributes(attribute.String("root", "/steam")))
	AddSpanAttributes(span, attribute.Int("found", 3))
	SetSpanOK(span)
	span.End()

	assert.NotEqual(t, ctx, newCtx)
	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "scan.Steam", ended[0].Name())
	assert.Equal(t, codes.Ok, ended[0].Status().Code)
	assert.Contains(t, ended[0].Attributes(), attribute.String("root", "/steam"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int("found", 3))
}

func TestRecordError(t *testing.T) {
	rec := useRecorder(t)

	_, span := StartSpan(context.Background(), "test-error")
	RecordError(span, nil)
	RecordError(span, assert.AnError)
	span.End()

	ended := rec.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, assert.AnError.Error(), ended[0].Status().Description)
}

func TestNilSpanHelpers(t *testing.T) {
	assert.NotPanics(t, func() { RecordError(nil, assert.AnError) })
	assert.NotPanics(t, func() { SetSpanOK(nil) })
	assert.NotPanics(t, func() { AddSpanAttributes(nil) })
}
