package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.trai.ch/robcache/internal/adapters/telemetry"
	"go.trai.ch/robcache/internal/core/ports"
)

func TestInterfaceSatisfaction(_ *testing.T) {
	var _ ports.Tracer = (*telemetry.OTelTracer)(nil)
	var _ ports.Span = (*telemetry.OTelSpan)(nil)
	var _ ports.Tracer = (*telemetry.NoOpTracer)(nil)
	var _ ports.Span = telemetry.NoOpSpan{}
	var _ sdktrace.SpanProcessor = (*telemetry.Collector)(nil)
}

func setupRecorder(t *testing.T) (*tracetest.SpanRecorder, *sdktrace.TracerProvider) {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return sr, tp
}

func TestOTelTracer_GlobalProvider(t *testing.T) {
	tracer := telemetry.NewOTelTracer(telemetry.InstrumentationName)

	_, span := tracer.Start(context.Background(), "test-span")
	assert.NotNil(t, span)
	span.SetAttribute("key", "value")
	span.End()
}

func TestOTelTracer_StartWithAttributes(t *testing.T) {
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracerWithProvider(tp, "test-tracer")

	_, span := tracer.Start(context.Background(), "robcache.fetch",
		ports.WithAttribute("slot", 2),
		ports.WithAttribute("l1_id", int64(77)),
	)
	span.SetAttribute("kept", 3)
	span.SetAttribute("complete", true)
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "robcache.fetch", ended[0].Name())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range ended[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, int64(2), attrs["slot"].AsInt64())
	assert.Equal(t, int64(77), attrs["l1_id"].AsInt64())
	assert.Equal(t, int64(3), attrs["kept"].AsInt64())
	assert.True(t, attrs["complete"].AsBool())
}

func TestOTelSpan_RecordError(t *testing.T) {
	sr, tp := setupRecorder(t)
	tracer := telemetry.NewOTelTracerWithProvider(tp, "test-tracer")

	_, span := tracer.Start(context.Background(), "robcache.fetch")
	span.RecordError(nil)
	span.RecordError(errors.New("readout unreachable"))
	span.End()

	ended := sr.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, codes.Error, ended[0].Status().Code)
	assert.Equal(t, "readout unreachable", ended[0].Status().Description)
	require.Len(t, ended[0].Events(), 1)
}

func TestNoOpTracer_Start(t *testing.T) {
	tracer := telemetry.NewNoOpTracer()

	ctx := context.Background()
	got, span := tracer.Start(ctx, "test-span", ports.WithAttribute("k", "v"))
	assert.Equal(t, ctx, got)

	span.SetAttribute("key", "value")
	span.RecordError(errors.New("ignored"))
	span.End()
}

func TestCollector_AggregatesByName(t *testing.T) {
	c := telemetry.NewCollector()
	tp := telemetry.NewProvider(c)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	tracer := telemetry.NewOTelTracerWithProvider(tp, "test-tracer")
	ctx := context.Background()

	for range 3 {
		_, span := tracer.Start(ctx, "robcache.fetch")
		span.End()
	}
	_, span := tracer.Start(ctx, "robcache.collect")
	span.RecordError(errors.New("boom"))
	span.End()

	ops := c.Snapshot()
	require.Len(t, ops, 2)
	assert.Equal(t, "robcache.collect", ops[0].Name)
	assert.Equal(t, int64(1), ops[0].Count)
	assert.Equal(t, int64(1), ops[0].Errors)
	assert.Equal(t, "robcache.fetch", ops[1].Name)
	assert.Equal(t, int64(3), ops[1].Count)
	assert.Equal(t, int64(0), ops[1].Errors)
	assert.GreaterOrEqual(t, ops[1].Max, ops[1].Mean())
}

func TestOperationStats_MeanOfEmpty(t *testing.T) {
	assert.Zero(t, telemetry.OperationStats{}.Mean())
}
