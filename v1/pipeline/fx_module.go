package pipeline

import (
	"go.uber.org/fx"
)

// FXModule provides a *Pipeline built from a pipeline.Config in the
// container. Observers register themselves on it from their own modules.
//
//	app := fx.New(
//	    logger.FXModule,
//	    pipeline.FXModule,
//	    httptracing.FXModule,
//	    fx.Invoke(func(p *pipeline.Pipeline, mux *http.ServeMux) {
//	        handler = p.Wrap(mux)
//	    }),
//	)
var FXModule = fx.Module("pipeline",
	fx.Provide(NewPipeline),
)
