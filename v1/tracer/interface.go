package tracer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/trace"
)

// Format selects how trace context is laid out in a carrier.
type Format int

const (
	// HTTPHeaders expects a carrier over HTTP header names. Keys are
	// matched case-insensitively.
	HTTPHeaders Format = iota + 1

	// TextMap expects an arbitrary string map carrier.
	TextMap
)

func (f Format) String() string {
	switch f {
	case HTTPHeaders:
		return "http_headers"
	case TextMap:
		return "text_map"
	default:
		return "unknown"
	}
}

// TextMapReader is a carrier that trace context can be extracted from.
// ForeachKey must call handler once per key and stop at the first error,
// returning it.
type TextMapReader interface {
	ForeachKey(handler func(key, val string) error) error
}

// TextMapWriter is a carrier that trace context can be injected into.
type TextMapWriter interface {
	Set(key, val string) error
}

// SpanContext is the propagated identity of an upstream span together with
// the baggage that travelled with it.
type SpanContext struct {
	trace.SpanContext
	Baggage baggage.Baggage
}

// Tracer is the contract consumed by the HTTP instrumentation and by
// request handlers creating child spans.
//
// *TracerClient implements it. All methods are safe for concurrent use.
type Tracer interface {
	// BuildSpan starts describing a span named operationName.
	BuildSpan(operationName string) SpanBuilder

	// Extract reads a parent span context out of carrier.
	Extract(format Format, carrier interface{}) (SpanContext, error)

	// Inject writes the span context carried by ctx into carrier.
	Inject(ctx context.Context, format Format, carrier interface{}) error

	// StartSpan starts a child of the span carried by ctx, or a root span.
	StartSpan(ctx context.Context, name string) (context.Context, trace.Span)

	// RecordErrorOnSpan records err on span and marks the span as failed.
	RecordErrorOnSpan(span trace.Span, err error)

	// SetAttributes adds attrs to span.
	SetAttributes(span trace.Span, attrs map[string]interface{})
}

// SpanBuilder collects the options of a span before it is started.
type SpanBuilder interface {
	// AsChildOf makes the span a child of parent. Invalid parents are ignored.
	AsChildOf(parent SpanContext) SpanBuilder

	// WithTag records a tag at start time. span.kind selects the span kind.
	WithTag(key string, value interface{}) SpanBuilder

	// WithStartTime overrides the start timestamp.
	WithStartTime(t time.Time) SpanBuilder

	// Start starts the span without making it active.
	Start(ctx context.Context) Span

	// StartActive starts the span and returns a scope whose Context carries it.
	StartActive(ctx context.Context) Scope
}

// Span is a started unit of work.
type Span interface {
	// SetTag records a key/value attribute. error=true also marks the span status as failed.
	SetTag(key string, value interface{}) Span

	// Log attaches a structured record. The "event" field names the record.
	Log(fields map[string]interface{}) Span

	// Context returns the span's own identity.
	Context() trace.SpanContext

	// Finish ends the span. Calls after the first are ignored.
	Finish()
}

// Scope holds a span as the active span of its Context. Closing a scope
// finishes the span; the scope's context must not be used for new work afterwards.
type Scope interface {
	Span() Span
	Context() context.Context
	Close()
}
