package pipeline

// DefaultRequestIDHeader is read for an inbound request id and echoed on the response.
const DefaultRequestIDHeader = "X-Request-ID"

// Config defines how the pipeline describes requests.
type Config struct {
	// BasePath is the prefix the application is mounted under, e.g. when
	// the handler sits behind http.StripPrefix. It is part of the request
	// descriptor and of reconstructed URLs.
	BasePath string `yaml:"base_path" envconfig:"PIPELINE_BASE_PATH"`

	// RequestIDHeader names the header carrying the request id. When the
	// inbound request has none a random UUID is generated.
	RequestIDHeader string `yaml:"request_id_header" envconfig:"PIPELINE_REQUEST_ID_HEADER"`
}
