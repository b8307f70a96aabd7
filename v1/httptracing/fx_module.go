package httptracing

import (
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/httptracing/v1/logger"
	"github.com/Aleph-Alpha/httptracing/v1/observability"
	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
	"github.com/Aleph-Alpha/httptracing/v1/tracer"
)

// FXModule provides the tracing *Middleware and the tracer.Tracer it uses,
// and registers the middleware on the container's *pipeline.Pipeline.
//
// A *tracer.TracerClient, a logger.Logger, an observability.Observer and an
// OperationNameFunc are picked up when present. Without a tracer client the
// global tracer is used.
var FXModule = fx.Module("httptracing",
	fx.Provide(
		NewMiddlewareWithDI,
		ProvideTracer,
	),
	fx.Invoke(RegisterMiddleware),
)

// MiddlewareParams holds the dependencies of the tracing middleware.
type MiddlewareParams struct {
	fx.In

	Config   Config
	Tracer   *tracer.TracerClient   `optional:"true"`
	Logger   logger.Logger          `optional:"true"`
	Observer observability.Observer `optional:"true"`
	Namer    OperationNameFunc      `optional:"true"`
}

// NewMiddlewareWithDI builds a Middleware from injected dependencies.
func NewMiddlewareWithDI(p MiddlewareParams) *Middleware {
	var tr tracer.Tracer
	if p.Tracer != nil {
		tr = p.Tracer
	}
	return NewMiddleware(p.Config, tr, p.Logger).
		WithOperationNamer(p.Namer).
		WithObserver(p.Observer)
}

// ProvideTracer exposes the middleware's tracer to handlers.
func ProvideTracer(m *Middleware) tracer.Tracer {
	return m.Tracer()
}

// RegisterMiddleware registers m on p.
func RegisterMiddleware(p *pipeline.Pipeline, m *Middleware) error {
	return Register(p, m)
}
