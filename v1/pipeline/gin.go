package pipeline

import (
	"github.com/gin-gonic/gin"
)

// GinMiddleware runs the pipeline's hooks around the rest of a gin handler
// chain. The last entry of c.Errors, if any, is reported to the error hooks
// once the chain returns.
//
//	r := gin.New()
//	r.Use(pipeline.GinMiddleware(p))
func GinMiddleware(p *Pipeline) gin.HandlerFunc {
	return func(gc *gin.Context) {
		// gin buffers the status until the first write; a status the handler
		// set without a body still counts as its response.
		initial := gc.Writer.Status()
		statusSet := func() bool { return gc.Writer.Status() != initial }

		c := &Context{
			request:   gc.Request,
			writer:    gc.Writer,
			status:    gc.Writer.Status,
			written:   gc.Writer.Written,
			statusSet: statusSet,
			items:     NewItems(),
			basePath:  p.cfg.BasePath,
		}
		c.requestID = p.requestID(gc.Request)
		gc.Header(p.cfg.RequestIDHeader, c.requestID)

		dispatched := false
		p.serve(c, func(c *Context) error {
			dispatched = true
			gc.Request = c.request
			gc.Next()
			if last := gc.Errors.Last(); last != nil {
				return last.Err
			}
			return nil
		})

		// a before hook answered the request
		if !dispatched {
			gc.Abort()
		}
	}
}
