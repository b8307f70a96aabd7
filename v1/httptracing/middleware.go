package httptracing

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/Aleph-Alpha/httptracing/v1/logger"
	"github.com/Aleph-Alpha/httptracing/v1/observability"
	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
	"github.com/Aleph-Alpha/httptracing/v1/tracer"
)

// TraceContextItem is the request item key holding the active request trace.
const TraceContextItem = "TraceContext"

// observedComponent is the component reported to the observer.
const observedComponent = "httptracing"

// requestTrace is the per-request state stored under TraceContextItem.
type requestTrace struct {
	scope     tracer.Scope
	operation string
	start     time.Time
	err       error
}

var traceSlot = pipeline.NewSlot[*requestTrace](TraceContextItem)

// Middleware traces every request of the pipeline it is registered on.
// It implements pipeline.Observer and is safe for concurrent use once
// registered.
type Middleware struct {
	cfg      Config
	tracer   tracer.Tracer
	logger   logger.Logger
	namer    OperationNameFunc
	observer observability.Observer
}

var _ pipeline.Observer = (*Middleware)(nil)

// NewMiddleware creates a Middleware. A nil tracer selects tracer.Global()
// and a nil logger discards log output.
func NewMiddleware(cfg Config, tr tracer.Tracer, log logger.Logger) *Middleware {
	if cfg.Component == "" {
		cfg.Component = DefaultComponent
	}
	if tr == nil {
		tr = tracer.Global()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Middleware{
		cfg:    cfg,
		tracer: tr,
		logger: log,
		namer:  DefaultOperationName,
	}
}

// WithOperationNamer replaces the operation naming function. nil restores
// DefaultOperationName. It must be called before the middleware serves requests.
func (m *Middleware) WithOperationNamer(fn OperationNameFunc) *Middleware {
	if fn == nil {
		fn = DefaultOperationName
	}
	m.namer = fn
	return m
}

// WithObserver reports every finished request to o. nil disables reporting.
func (m *Middleware) WithObserver(o observability.Observer) *Middleware {
	m.observer = o
	return m
}

// Tracer returns the tracer request spans are created with. Handlers use it
// to start child spans.
func (m *Middleware) Tracer() tracer.Tracer {
	return m.tracer
}

// OnBeforeRequest starts the request span and makes it active for the handler.
func (m *Middleware) OnBeforeRequest(c *pipeline.Context) (resp *pipeline.Response) {
	defer m.recoverHook("before_request", c)

	if traceSlot.Present(c.Items()) {
		m.logger.Warn("request is already traced", nil, map[string]interface{}{
			"request_id": c.RequestID(),
		})
		return nil
	}

	d := c.Descriptor()
	operation := m.namer(d.Method, d.Path)

	builder := m.tracer.BuildSpan(operation)
	parent, err := m.extract(d.Header)
	switch {
	case err == nil:
		builder = builder.AsChildOf(parent)
	case errors.Is(err, tracer.ErrSpanContextNotFound), errors.Is(err, tracer.ErrSpanContextCorrupted):
		m.logger.DebugWithContext(c.Request().Context(), "no usable inbound trace context, starting root span", err, map[string]interface{}{
			"operation": operation,
		})
	default:
		m.logger.WarnWithContext(c.Request().Context(), "trace context extraction failed, starting root span", err, map[string]interface{}{
			"operation": operation,
		})
	}

	scope := builder.
		WithTag(tracer.TagComponent, m.cfg.Component).
		WithTag(tracer.TagSpanKind, tracer.SpanKindServer).
		WithTag(tracer.TagHTTPMethod, d.Method).
		WithTag(tracer.TagHTTPURL, d.URL()).
		StartActive(c.Request().Context())

	rt := &requestTrace{scope: scope, operation: operation, start: time.Now()}
	if err := traceSlot.Store(c.Items(), rt); err != nil {
		scope.Close()
		m.logger.Warn("failed to store request trace", err)
		return nil
	}
	c.SetRequestContext(scope.Context())

	if id := c.RequestID(); id != "" {
		scope.Span().SetTag(tracer.TagHTTPRequestID, id)
	}
	if m.cfg.TraceIDHeader != "" {
		if sc := scope.Span().Context(); sc.HasTraceID() {
			c.ResponseHeader().Set(m.cfg.TraceIDHeader, sc.TraceID().String())
		}
	}
	return nil
}

// OnAfterRequest records the response status and finishes the request span.
// It does nothing when the request has no span.
func (m *Middleware) OnAfterRequest(c *pipeline.Context) {
	defer m.recoverHook("after_request", c)

	rt, ok := traceSlot.Load(c.Items())
	if !ok {
		return
	}
	defer traceSlot.Remove(c.Items())
	defer m.finish(c, rt)

	rt.scope.Span().SetTag(tracer.TagHTTPStatusCode, c.StatusCode())
}

// OnError marks the request span as failed and logs err on it. The span stays
// open until OnAfterRequest.
func (m *Middleware) OnError(c *pipeline.Context, err error) (resp *pipeline.Response) {
	defer m.recoverHook("error", c)

	rt, ok := traceSlot.Load(c.Items())
	if !ok || err == nil {
		return nil
	}
	rt.err = err

	rt.scope.Span().
		SetTag(tracer.TagError, true).
		Log(map[string]interface{}{
			tracer.LogFieldEvent:       tracer.LogEventError,
			tracer.LogFieldErrorKind:   errorKind(err),
			tracer.LogFieldErrorObject: err,
			tracer.LogFieldMessage:     err.Error(),
		})
	return nil
}

// ScopeFromContext returns the active request scope of c, if any.
func ScopeFromContext(c *pipeline.Context) (tracer.Scope, bool) {
	rt, ok := traceSlot.Load(c.Items())
	if !ok {
		return nil, false
	}
	return rt.scope, true
}

func (m *Middleware) extract(h http.Header) (tracer.SpanContext, error) {
	carrier, err := NewHeaderCarrier(h)
	if err != nil {
		return tracer.SpanContext{}, err
	}
	return m.tracer.Extract(tracer.HTTPHeaders, carrier)
}

func (m *Middleware) finish(c *pipeline.Context, rt *requestTrace) {
	rt.scope.Close()

	if m.observer == nil {
		return
	}
	d := c.Descriptor()
	m.observer.ObserveOperation(observability.OperationContext{
		Component:   observedComponent,
		Operation:   rt.operation,
		Resource:    d.Path,
		SubResource: d.Method,
		Duration:    time.Since(rt.start),
		Error:       rt.err,
		Size:        int64(c.StatusCode()),
		Metadata: map[string]interface{}{
			"request_id": c.RequestID(),
		},
	})
}

func (m *Middleware) recoverHook(hook string, c *pipeline.Context) {
	if r := recover(); r != nil {
		m.logger.Warn("tracing hook failed", fmt.Errorf("%v", r), map[string]interface{}{
			"hook":       hook,
			"request_id": c.RequestID(),
		})
	}
}

func errorKind(err error) string {
	return fmt.Sprintf("%T", err)
}
