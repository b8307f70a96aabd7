// Package observability defines the callback contract instrumented
// components use to report finished operations to metrics backends.
package observability

import "time"

// OperationContext describes one finished operation.
type OperationContext struct {
	// Component is the reporting package, e.g. "httptracing".
	Component string

	// Operation is the operation name, e.g. "HTTP GET /orders".
	Operation string

	// Resource is the primary target of the operation (for HTTP the path).
	Resource string

	// SubResource carries secondary context such as the HTTP method.
	SubResource string

	// Duration is the wall time of the operation.
	Duration time.Duration

	// Error is the failure observed during the operation, if any.
	Error error

	// Size is a component specific size, for HTTP the response status code.
	Size int64

	// Metadata holds additional labels.
	Metadata map[string]interface{}
}

// Observer receives finished operations. Implementations must be safe for
// concurrent use and must not block.
//
//go:generate mockgen -source=interface.go -destination=mock_observer.go -package=observability
type Observer interface {
	ObserveOperation(ctx OperationContext)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx OperationContext)

// ObserveOperation implements Observer.
func (f ObserverFunc) ObserveOperation(ctx OperationContext) {
	f(ctx)
}
