package tracer

// DefaultAppEnv is recorded when no environment is configured.
const DefaultAppEnv = "development"

// Config defines how the tracer provider is built.
type Config struct {
	// ServiceName is recorded as the service.name resource attribute.
	ServiceName string `yaml:"service_name" envconfig:"TRACER_SERVICE_NAME"`

	// AppEnv is recorded as deployment.environment and as "environment".
	// Defaults to DefaultAppEnv.
	AppEnv string `yaml:"app_env" envconfig:"APP_ENV"`

	// EnableExport turns on the OTLP/HTTP batch exporter. Without it spans
	// are created and propagated but never leave the process.
	EnableExport bool `yaml:"enable_export" envconfig:"TRACER_ENABLE_EXPORT"`

	// Endpoint overrides the OTLP/HTTP collector address (host:port).
	// When empty the exporter reads OTEL_EXPORTER_OTLP_* variables.
	Endpoint string `yaml:"endpoint" envconfig:"TRACER_ENDPOINT"`

	// Insecure disables TLS towards the collector.
	Insecure bool `yaml:"insecure" envconfig:"TRACER_INSECURE"`
}
