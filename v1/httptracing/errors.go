package httptracing

import "errors"

var (
	// ErrNilHeaders is returned when a carrier is built over a nil header map.
	ErrNilHeaders = errors.New("httptracing: nil header map")

	// ErrUnsupportedOperation is returned by HeaderCarrier.Set. The carrier
	// is read-only.
	ErrUnsupportedOperation = errors.New("httptracing: unsupported operation")
)
