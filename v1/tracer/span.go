package tracer

import (
	"context"
	"sort"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type spanBuilder struct {
	tracer    trace.Tracer
	name      string
	parent    SpanContext
	hasParent bool
	kind      trace.SpanKind
	attrs     []attribute.KeyValue
	failed    bool
	start     time.Time
}

func (b *spanBuilder) AsChildOf(parent SpanContext) SpanBuilder {
	if !parent.IsValid() {
		return b
	}
	b.parent = parent
	b.hasParent = true
	return b
}

func (b *spanBuilder) WithTag(key string, value interface{}) SpanBuilder {
	switch key {
	case TagSpanKind:
		if s, ok := value.(string); ok {
			b.kind = trace.ValidateSpanKind(spanKind(s))
		}
	case TagError:
		if v, ok := value.(bool); ok && v {
			b.failed = true
		}
	}
	b.attrs = append(b.attrs, toAttribute(key, value))
	return b
}

func (b *spanBuilder) WithStartTime(t time.Time) SpanBuilder {
	b.start = t
	return b
}

func (b *spanBuilder) Start(ctx context.Context) Span {
	_, s := b.start0(ctx)
	return s
}

func (b *spanBuilder) StartActive(ctx context.Context) Scope {
	ctx, s := b.start0(ctx)
	return &scope{span: s, ctx: ctx}
}

func (b *spanBuilder) start0(ctx context.Context) (context.Context, *span) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.hasParent {
		ctx = trace.ContextWithRemoteSpanContext(ctx, b.parent.SpanContext)
		if b.parent.Baggage.Len() > 0 {
			ctx = baggage.ContextWithBaggage(ctx, b.parent.Baggage)
		}
	}

	opts := []trace.SpanStartOption{trace.WithAttributes(b.attrs...)}
	if b.kind != trace.SpanKindUnspecified {
		opts = append(opts, trace.WithSpanKind(b.kind))
	}
	if !b.start.IsZero() {
		opts = append(opts, trace.WithTimestamp(b.start))
	}

	ctx, otelSpan := b.tracer.Start(ctx, b.name, opts...)
	s := &span{otel: otelSpan}
	if b.failed {
		otelSpan.SetStatus(codes.Error, "")
	}
	return ctx, s
}

func spanKind(s string) trace.SpanKind {
	switch s {
	case SpanKindServer:
		return trace.SpanKindServer
	case SpanKindClient:
		return trace.SpanKindClient
	case SpanKindProducer:
		return trace.SpanKindProducer
	case SpanKindConsumer:
		return trace.SpanKindConsumer
	default:
		return trace.SpanKindInternal
	}
}

type span struct {
	otel     trace.Span
	finished atomic.Bool
}

func (s *span) SetTag(key string, value interface{}) Span {
	s.otel.SetAttributes(toAttribute(key, value))
	if key == TagError {
		if v, ok := value.(bool); ok && v {
			s.otel.SetStatus(codes.Error, "")
		}
	}
	return s
}

func (s *span) Log(fields map[string]interface{}) Span {
	name := defaultLogEvent
	attrs := make([]attribute.KeyValue, 0, len(fields))
	for k, v := range fields {
		if k == LogFieldEvent {
			if event, ok := v.(string); ok && event != "" {
				name = event
				continue
			}
		}
		attrs = append(attrs, toAttribute(k, v))
	}
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Key < attrs[j].Key })

	s.otel.AddEvent(name, trace.WithAttributes(attrs...))
	return s
}

func (s *span) Context() trace.SpanContext {
	return s.otel.SpanContext()
}

func (s *span) Finish() {
	if s.finished.CompareAndSwap(false, true) {
		s.otel.End()
	}
}

type scope struct {
	span   *span
	ctx    context.Context
	closed atomic.Bool
}

func (s *scope) Span() Span {
	return s.span
}

func (s *scope) Context() context.Context {
	return s.ctx
}

func (s *scope) Close() {
	if s.closed.CompareAndSwap(false, true) {
		s.span.Finish()
	}
}
