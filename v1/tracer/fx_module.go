package tracer

import (
	"context"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/httptracing/v1/logger"
)

// FXModule provides *TracerClient built by NewClient from a tracer.Config in
// the container and shuts the provider down when the application stops,
// flushing spans still held by the batch exporter.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Supply(tracer.Config{ServiceName: "orders"}),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// RegisterTracerLifecycle registers the shutdown hook of the tracer.
func RegisterTracerLifecycle(lc fx.Lifecycle, tracer *TracerClient, log logger.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer...", nil, nil)
			return tracer.Shutdown(ctx)
		},
	})
}
