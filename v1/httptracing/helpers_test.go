package httptracing

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
	"github.com/Aleph-Alpha/httptracing/v1/tracer"
)

const (
	upstreamTraceID     = "4bf92f3577b34da6a3ce929d0e0e4736"
	upstreamSpanID      = "00f067aa0ba902b7"
	upstreamTraceparent = "00-" + upstreamTraceID + "-" + upstreamSpanID + "-01"
)

func newTestTracer(t *testing.T) (*tracer.TracerClient, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })
	return tracer.NewWithProvider(tp, nil), exporter
}

// testStack is a pipeline with a registered tracing middleware.
type testStack struct {
	pipeline   *pipeline.Pipeline
	middleware *Middleware
	exporter   *tracetest.InMemoryExporter
}

func newTestStack(t *testing.T, cfg Config) *testStack {
	t.Helper()
	tc, exporter := newTestTracer(t)
	p := pipeline.NewPipeline(pipeline.Config{}, nil)
	m := NewMiddleware(cfg, tc, nil)
	require.NoError(t, Register(p, m))
	return &testStack{pipeline: p, middleware: m, exporter: exporter}
}

func (s *testStack) serve(fn pipeline.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.pipeline.WrapFunc(fn).ServeHTTP(rec, r)
	return rec
}

func okHandler(w http.ResponseWriter, r *http.Request) error {
	_, err := w.Write([]byte("ok"))
	return err
}

func attrMap(attrs []attribute.KeyValue) map[attribute.Key]attribute.Value {
	m := make(map[attribute.Key]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[a.Key] = a.Value
	}
	return m
}

func spanNamed(t *testing.T, spans tracetest.SpanStubs, name string) tracetest.SpanStub {
	t.Helper()
	for _, s := range spans {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no span named %q in %d spans", name, len(spans))
	return tracetest.SpanStub{}
}

// faultyTracer wraps a real tracer and panics when the status code tag is
// written. It counts scope closes.
type faultyTracer struct {
	tracer.Tracer
	scopes []*countingScope
}

func (f *faultyTracer) BuildSpan(name string) tracer.SpanBuilder {
	return &faultyBuilder{SpanBuilder: f.Tracer.BuildSpan(name), owner: f}
}

type faultyBuilder struct {
	tracer.SpanBuilder
	owner *faultyTracer
}

func (b *faultyBuilder) AsChildOf(parent tracer.SpanContext) tracer.SpanBuilder {
	b.SpanBuilder = b.SpanBuilder.AsChildOf(parent)
	return b
}

func (b *faultyBuilder) WithTag(key string, value interface{}) tracer.SpanBuilder {
	b.SpanBuilder = b.SpanBuilder.WithTag(key, value)
	return b
}

func (b *faultyBuilder) StartActive(ctx context.Context) tracer.Scope {
	s := &countingScope{Scope: b.SpanBuilder.StartActive(ctx)}
	b.owner.scopes = append(b.owner.scopes, s)
	return s
}

type countingScope struct {
	tracer.Scope
	closes int
}

func (s *countingScope) Span() tracer.Span {
	return statusPanicSpan{Span: s.Scope.Span()}
}

func (s *countingScope) Close() {
	s.closes++
	s.Scope.Close()
}

type statusPanicSpan struct {
	tracer.Span
}

func (s statusPanicSpan) SetTag(key string, value interface{}) tracer.Span {
	if key == tracer.TagHTTPStatusCode {
		panic("status tag rejected")
	}
	return s.Span.SetTag(key, value)
}

// validationError is a handler error with a distinct type name.
type validationError struct {
	field string
}

func (e *validationError) Error() string {
	return "invalid " + e.field
}

// extractFailingTracer fails every Extract with err.
type extractFailingTracer struct {
	tracer.Tracer
	err error
}

func (f *extractFailingTracer) Extract(tracer.Format, interface{}) (tracer.SpanContext, error) {
	return tracer.SpanContext{}, f.err
}
