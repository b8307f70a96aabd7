package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/Aleph-Alpha/httptracing/v1/config"
	"github.com/Aleph-Alpha/httptracing/v1/logger"
	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
	"github.com/Aleph-Alpha/httptracing/v1/tracer"
)

var errOrderNotFound = errors.New("order not found")

// NewRouter builds the demo API. Every route runs inside p.
func NewRouter(p *pipeline.Pipeline, tr tracer.Tracer, log logger.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(pipeline.GinMiddleware(p))

	r.GET("/test/", func(c *gin.Context) {
		ctx, span := tr.StartSpan(c.Request.Context(), "MyOp")
		defer span.End()
		log.InfoWithContext(ctx, "handling test request", nil)
		c.String(http.StatusOK, "hello")
	})

	r.GET("/orders/:id", func(c *gin.Context) {
		_, span := tr.StartSpan(c.Request.Context(), "LoadOrder")
		defer span.End()

		id, err := strconv.Atoi(c.Param("id"))
		if err != nil || id <= 0 {
			tr.RecordErrorOnSpan(span, errOrderNotFound)
			_ = c.Error(errOrderNotFound)
			c.Status(http.StatusNotFound)
			return
		}
		tr.SetAttributes(span, map[string]interface{}{"order.id": id})
		c.JSON(http.StatusOK, gin.H{"id": id})
	})

	return r
}

// RegisterServerLifecycle runs the API server for the lifetime of the app.
func RegisterServerLifecycle(lc fx.Lifecycle, cfg config.ServerConfig, router *gin.Engine, log logger.Logger) {
	srv := &http.Server{
		Addr:    cfg.Address,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("starting API server", nil, map[string]interface{}{
				"address": srv.Addr,
			})
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("API server stopped", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down API server", nil)
			ctx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
			defer cancel()
			return srv.Shutdown(ctx)
		},
	})
}
