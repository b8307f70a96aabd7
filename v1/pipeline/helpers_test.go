package pipeline

import "context"

func contextWith(c *Context, key, value interface{}) context.Context {
	return context.WithValue(c.Request().Context(), key, value)
}
