package tracer

// Span tag keys and values shared by the instrumentation in this module.
const (
	TagComponent      = "component"
	TagSpanKind       = "span.kind"
	TagHTTPMethod     = "http.method"
	TagHTTPURL        = "http.url"
	TagHTTPStatusCode = "http.status_code"
	TagHTTPRequestID  = "http.request_id"
	TagError          = "error"

	SpanKindServer   = "server"
	SpanKindClient   = "client"
	SpanKindProducer = "producer"
	SpanKindConsumer = "consumer"
)

// Field keys for Span.Log records.
const (
	LogFieldEvent       = "event"
	LogFieldErrorKind   = "error.kind"
	LogFieldErrorObject = "error.object"
	LogFieldMessage     = "message"

	// LogEventError is the event value of error records.
	LogEventError = "error"

	defaultLogEvent = "log"
)
