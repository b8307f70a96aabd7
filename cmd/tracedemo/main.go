// Command tracedemo serves a small gin API behind the tracing middleware.
//
// Configuration is read from the YAML file named by CONFIG_PATH (optional)
// and from the environment. Spans are exported over OTLP/HTTP when
// TRACER_ENABLE_EXPORT=true; metrics are served on METRICS_ADDRESS.
package main

import (
	"fmt"
	"os"

	"go.uber.org/fx"

	"github.com/Aleph-Alpha/httptracing/v1/config"
	"github.com/Aleph-Alpha/httptracing/v1/httptracing"
	"github.com/Aleph-Alpha/httptracing/v1/logger"
	"github.com/Aleph-Alpha/httptracing/v1/metrics"
	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
	"github.com/Aleph-Alpha/httptracing/v1/tracer"
)

func main() {
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "tracedemo: %v\n", err)
		os.Exit(1)
	}

	fx.New(
		fx.Supply(
			cfg.Server,
			cfg.Logger,
			cfg.Tracer,
			cfg.Metrics,
			cfg.Pipeline,
			cfg.HTTPTracing,
		),
		logger.FXModule,
		tracer.FXModule,
		metrics.FXModule,
		pipeline.FXModule,
		httptracing.FXModule,
		fx.Provide(NewRouter),
		fx.Invoke(RegisterServerLifecycle),
	).Run()
}
