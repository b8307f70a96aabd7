package tracer

import "errors"

// Errors returned by Extract and Inject. Callers that only want to know
// whether a parent context was found should test for ErrSpanContextNotFound
// and ErrSpanContextCorrupted with errors.Is.
var (
	// ErrUnsupportedFormat is returned when the propagation format is unknown.
	ErrUnsupportedFormat = errors.New("unsupported propagation format")

	// ErrInvalidCarrier is returned when the carrier does not implement the
	// reader or writer contract required by the format.
	ErrInvalidCarrier = errors.New("invalid carrier")

	// ErrSpanContextNotFound is returned when the carrier holds no trace context.
	ErrSpanContextNotFound = errors.New("span context not found")

	// ErrSpanContextCorrupted is returned when trace headers are present but
	// cannot be decoded into a valid span context.
	ErrSpanContextCorrupted = errors.New("span context corrupted")
)
