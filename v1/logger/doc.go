// Package logger provides structured logging built on Uber's Zap.
//
// # Architecture
//
// The package follows the "accept interfaces, return structs" pattern:
//   - Logger interface: the contract other packages depend on
//   - LoggerClient struct: the Zap-backed implementation
//   - NewLoggerClient constructor: returns *LoggerClient
//   - FXModule: provides both *LoggerClient and Logger
//
// # Direct Usage
//
//	log := logger.NewLoggerClient(logger.Config{
//		Level:         "info",
//		EnableTracing: true,
//		ServiceName:   "orders",
//	})
//
//	log.Info("Listening", nil, map[string]interface{}{"address": ":8080"})
//
// # Context-Aware Logging
//
// When EnableTracing is set, the *WithContext methods read the OpenTelemetry
// span carried by the context and add the trace_id and span_id fields:
//
//	log.ErrorWithContext(r.Context(), "Handler failed", err, nil)
//
// # Configuration
//
//	ZAP_LOGGER_LEVEL=debug          # debug, info, warning, error
//	LOGGER_ENABLE_TRACING=true      # add trace_id/span_id to *WithContext entries
//	LOGGER_SERVICE_NAME=orders      # value of the "service" field
//
// # Thread Safety
//
// All methods on LoggerClient are safe for concurrent use.
package logger
