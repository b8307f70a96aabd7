package tracer

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/Aleph-Alpha/httptracing/v1/logger"
)

const instrumentationName = "github.com/Aleph-Alpha/httptracing"

// TracerClient implements Tracer on top of an OpenTelemetry TracerProvider.
//
// It is safe for concurrent use and is normally shared by the whole process.
type TracerClient struct {
	provider   trace.TracerProvider
	sdk        *sdktrace.TracerProvider
	tracer     trace.Tracer
	propagator propagation.TextMapPropagator
	logger     logger.Logger
}

var _ Tracer = (*TracerClient)(nil)

// NewClient creates an SDK tracer provider from cfg and registers it, along
// with the W3C trace context and baggage propagators, as the OpenTelemetry globals.
//
// If export is enabled an OTLP/HTTP exporter is attached in batch mode.
// The resource carries the service name, the deployment environment and an
// "environment" attribute.
//
// Example:
//
//	tc, err := tracer.NewClient(tracer.Config{
//	    ServiceName:  "orders",
//	    AppEnv:       "production",
//	    EnableExport: true,
//	}, log)
//	if err != nil {
//	    return err
//	}
//	defer tc.Shutdown(context.Background())
func NewClient(cfg Config, log logger.Logger) (*TracerClient, error) {
	if log == nil {
		log = logger.NewNopLogger()
	}
	if cfg.AppEnv == "" {
		cfg.AppEnv = DefaultAppEnv
	}

	var options []sdktrace.TracerProviderOption

	if cfg.EnableExport {
		var clientOpts []otlptracehttp.Option
		if cfg.Endpoint != "" {
			clientOpts = append(clientOpts, otlptracehttp.WithEndpoint(cfg.Endpoint))
		}
		if cfg.Insecure {
			clientOpts = append(clientOpts, otlptracehttp.WithInsecure())
		}

		exporter, err := otlptrace.New(context.Background(), otlptracehttp.NewClient(clientOpts...))
		if err != nil {
			return nil, fmt.Errorf("cannot initiate trace exporter: %w", err)
		}
		options = append(options, sdktrace.WithBatcher(exporter))
		log.Info("OTLP trace export enabled", nil, map[string]interface{}{
			"endpoint": cfg.Endpoint,
		})
	}

	options = append(options, sdktrace.WithResource(resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(cfg.ServiceName),
		semconv.DeploymentEnvironment(cfg.AppEnv),
		attribute.String("environment", cfg.AppEnv),
	)))

	tp := sdktrace.NewTracerProvider(options...)
	prop := propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(prop)

	tc := NewWithProvider(tp, prop)
	tc.sdk = tp
	tc.logger = log
	return tc, nil
}

// NewWithProvider wraps an existing provider without touching the
// OpenTelemetry globals. A nil propagator selects W3C trace context and baggage.
//
// Tests use it with an SDK provider recording into tracetest.InMemoryExporter.
func NewWithProvider(tp trace.TracerProvider, prop propagation.TextMapPropagator) *TracerClient {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if prop == nil {
		prop = propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{})
	}
	return &TracerClient{
		provider:   tp,
		tracer:     tp.Tracer(instrumentationName),
		propagator: prop,
		logger:     logger.NewNopLogger(),
	}
}

// Global returns a Tracer backed by the process-wide OpenTelemetry provider
// and propagator. Spans started through it follow later calls to
// otel.SetTracerProvider; until one happens they are no-ops.
func Global() *TracerClient {
	return NewWithProvider(otel.GetTracerProvider(), otel.GetTextMapPropagator())
}

// Shutdown flushes and stops the provider created by NewClient. It is a
// no-op for clients that wrap a provider they do not own.
func (t *TracerClient) Shutdown(ctx context.Context) error {
	if t == nil || t.sdk == nil {
		return nil
	}
	return t.sdk.Shutdown(ctx)
}

// StartSpan creates a new span with the given name and returns an updated context
// containing the span, along with the span itself.
//
// The created span becomes a child of any span that exists in ctx. If there
// is none, a new root span is created.
//
// Example:
//
//	ctx, span := tc.StartSpan(r.Context(), "load-order")
//	defer span.End()
func (t *TracerClient) StartSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name)
}

// BuildSpan returns a builder for a span named operationName.
func (t *TracerClient) BuildSpan(operationName string) SpanBuilder {
	return &spanBuilder{
		tracer: t.tracer,
		name:   operationName,
	}
}
