// Package httptracing traces inbound HTTP requests.
//
// A Middleware registers on a pipeline.Pipeline and, for every request:
//
//  1. names the operation ("HTTP GET /orders" by default)
//  2. continues the trace found in the inbound W3C headers, or starts a root
//     span when there is none or it cannot be read
//  3. tags the span with component, span.kind, http.method and http.url
//  4. makes the span active for the handler, so spans the handler starts
//     from r.Context() become its children
//  5. records http.status_code and finishes the span when the request is done
//
// Handler failures mark the span with error=true and an "error" log record
// carrying error.kind, error.object and message. The span is finished by the
// after-request hook, which the pipeline runs on every path.
//
// Instrumentation never fails a request: extraction problems, panics in the
// hooks and tracer errors are logged and swallowed.
//
// Basic usage:
//
//	tr, _ := tracer.NewClient(tracer.Config{ServiceName: "orders"}, log)
//	p := pipeline.NewPipeline(pipeline.Config{}, log)
//	mw := httptracing.NewMiddleware(httptracing.Config{}, tr, log)
//	if err := httptracing.Register(p, mw); err != nil {
//	    return err
//	}
//	http.ListenAndServe(":8080", p.Wrap(mux))
//
// Handlers create child spans from the request context:
//
//	ctx, span := mw.Tracer().StartSpan(r.Context(), "LoadOrder")
//	defer span.End()
//
// With fx, include FXModule next to pipeline.FXModule. It provides the
// *Middleware and the tracer.Tracer handlers should use and registers the
// middleware on the pipeline.
package httptracing
