package httptracing

// DefaultComponent is the value of the component tag on request spans.
const DefaultComponent = "HttpIn"

// Config controls how request spans are tagged.
type Config struct {
	// Component is written to the component tag of every request span.
	Component string `yaml:"component" envconfig:"HTTPTRACING_COMPONENT"`

	// TraceIDHeader, when set, names a response header that receives the
	// trace id of the request span.
	TraceIDHeader string `yaml:"trace_id_header" envconfig:"HTTPTRACING_TRACE_ID_HEADER"`
}
