package httptracing

import (
	"fmt"

	"github.com/Aleph-Alpha/httptracing/v1/pipeline"
)

// Register adds m's hooks to p: the span is started before routing, marked
// on handler errors and finished once the response is complete.
func Register(p *pipeline.Pipeline, m *Middleware) error {
	if err := p.AddObserver(m); err != nil {
		return fmt.Errorf("failed to register tracing middleware: %w", err)
	}
	return nil
}
