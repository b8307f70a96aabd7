// Package tracer provides distributed tracing on top of OpenTelemetry.
//
// It exposes two layers:
//
//   - the Tracer contract (BuildSpan, Extract, Inject, StartSpan) with its
//     SpanBuilder, Span and Scope types, used by the HTTP instrumentation to
//     drive a span from pipeline hooks that do not share a call stack
//   - the OpenTelemetry-native helpers inherited from the std tracer
//     (StartSpan returning trace.Span, SetAttributes, RecordErrorOnSpan,
//     GetCarrier, SetCarrierOnContext) for ordinary application code
//
// Basic Usage:
//
//	tc, err := tracer.NewClient(tracer.Config{ServiceName: "orders"}, log)
//	if err != nil {
//		return err
//	}
//	defer tc.Shutdown(context.Background())
//
//	scope := tc.BuildSpan("HTTP GET /orders").
//		WithTag(tracer.TagSpanKind, tracer.SpanKindServer).
//		StartActive(ctx)
//	defer scope.Close()
//
//	// children of the scope's span
//	ctx, span := tc.StartSpan(scope.Context(), "load-orders")
//	defer span.End()
//
// Propagation:
//
// Extract and Inject speak W3C trace context (traceparent, tracestate) and
// W3C baggage. Carriers implement TextMapReader / TextMapWriter; MapCarrier
// is provided for plain maps.
//
//	parent, err := tc.Extract(tracer.HTTPHeaders, carrier)
//	switch {
//	case err == nil:
//		builder = builder.AsChildOf(parent)
//	case errors.Is(err, tracer.ErrSpanContextNotFound):
//		// root span
//	}
//
// Global Tracer:
//
// Global returns a client bound to the OpenTelemetry global provider.
// NewClient installs its provider there, so code that falls back to Global
// picks it up.
//
// Thread Safety:
//
// TracerClient is safe for concurrent use. A Span or Scope belongs to the
// request that created it; Finish and Close are idempotent.
package tracer
