package obs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

func TestNewTracerProviderExportsWithResource(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, TracingConfig{ServiceName: "sales-api", Environment: "test"}, exporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	_, span := tp.Tracer("test").Start(ctx, "cart.calculate")
	span.End()
	require.NoError(t, tp.ForceFlush(ctx))

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	require.Equal(t, "cart.calculate", spans[0].Name)
	name, ok := spans[0].Resource.Set().Value(semconv.ServiceNameKey)
	require.True(t, ok)
	require.Equal(t, "sales-api", name.AsString())
	env, ok := spans[0].Resource.Set().Value(semconv.DeploymentEnvironmentKey)
	require.True(t, ok)
	require.Equal(t, "test", env.AsString())
}

func TestNewTracerProviderFollowsParentSampling(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, TracingConfig{ServiceName: "sales-api", SamplingRatio: 1e-9}, exporter)
	require.NoError(t, err)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	remote := func(flags trace.TraceFlags) context.Context {
		sc := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    trace.TraceID{0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 1},
			SpanID:     trace.SpanID{1},
			TraceFlags: flags,
			Remote:     true,
		})
		return trace.ContextWithRemoteSpanContext(ctx, sc)
	}

	_, sampled := tp.Tracer("test").Start(remote(trace.FlagsSampled), "sampled")
	require.True(t, sampled.SpanContext().IsSampled())
	sampled.End()

	_, dropped := tp.Tracer("test").Start(remote(0), "dropped")
	require.False(t, dropped.SpanContext().IsSampled())
	dropped.End()
}

func TestSamplingRatio(t *testing.T) {
	require.Equal(t, 1.0, samplingRatio(0))
	require.Equal(t, 1.0, samplingRatio(-0.5))
	require.Equal(t, 1.0, samplingRatio(3))
	require.Equal(t, 0.25, samplingRatio(0.25))
}

func TestInitTracerExporters(t *testing.T) {
	previous := otel.GetTracerProvider()

	shutdown, err := InitTracer(context.Background(), TracingConfig{Exporter: " None "})
	require.NoError(t, err)
	require.NoError(t, shutdown(context.Background()))
	require.Equal(t, previous, otel.GetTracerProvider())

	_, err = InitTracer(context.Background(), TracingConfig{Exporter: "zipkin"})
	require.EqualError(t, err, "unsupported tracing exporter: zipkin")
}
