package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.uber.org/zap"
)

func TestInitWithoutEndpoint(t *testing.T) {
	ctx := context.Background()
	tp, err := Init(ctx, Config{}, "wealth-math-test", "test", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	assert.Same(t, tp, otel.GetTracerProvider())

	_, span := otel.Tracer("test").Start(ctx, "projection")
	assert.True(t, span.SpanContext().IsValid())
	span.End()

	require.NoError(t, tp.ForceFlush(ctx))
}

func TestInitResourceAttributes(t *testing.T) {
	ctx := context.Background()
	tp, err := Init(ctx, Config{}, "wealth-math-test", "1.2.3", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(ctx) })

	_, span := tp.Tracer("test").Start(ctx, "projection")
	defer span.End()

	ro, ok := span.(sdktrace.ReadOnlySpan)
	require.True(t, ok)
	attrs := ro.Resource().Attributes()
	assert.Contains(t, attrs, semconv.ServiceNameKey.String("wealth-math-test"))
	assert.Contains(t, attrs, semconv.ServiceVersionKey.String("1.2.3"))
}

func TestNoopExporter(t *testing.T) {
	exporter := noopExporter{}
	assert.NoError(t, exporter.ExportSpans(context.Background(), nil))
	assert.NoError(t, exporter.Shutdown(context.Background()))
}

func TestInitWithEndpoint(t *testing.T) {
	ctx := context.Background()
	tp, err := Init(ctx, Config{Endpoint: "localhost:4318", Insecure: true}, "wealth-math-test", "test", zap.NewNop())
	require.NoError(t, err)

	// Shutting down flushes to an absent collector; only creation matters here.
	shutdownCtx, cancel := context.WithCancel(ctx)
	cancel()
	_ = tp.Shutdown(shutdownCtx)
}
