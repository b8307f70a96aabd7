// Package metrics provides Prometheus-based metrics collection and exposure.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: the contract for metrics operations
//   - Metrics struct: the concrete implementation, also an observability.Observer
//   - NewMetrics constructor: returns *Metrics
//   - FXModule: provides *Metrics, MetricsCollector and observability.Observer
//
// # Direct Usage
//
//	m := metrics.NewMetrics(metrics.Config{
//		Address:                 ":9090",
//		EnableDefaultCollectors: true,
//		ServiceName:             "orders",
//	})
//	go m.Server.ListenAndServe()
//
//	mw := httptracing.NewMiddleware(httptracing.Config{}, tc, log).WithObserver(m)
//
// # Built-in Metrics
//
//   - requests_total{status}: HTTP requests by status code
//   - request_duration_seconds{endpoint}: HTTP request latency by path
//   - operations_total{component,method,status}: every observed operation
//   - operation_duration_seconds{component,operation}: latency of observed operations
//
// All metrics carry the constant label service="<ServiceName>" and, when
// Namespace is set, the "<Namespace>_" prefix.
//
// # Configuration
//
//	METRICS_ADDRESS=:9090
//	METRICS_ENABLE_DEFAULT_COLLECTORS=true
//	METRICS_NAMESPACE=orders
//	METRICS_SERVICE_NAME=orders-api
//
// # Thread Safety
//
// All methods are safe for concurrent use.
package metrics
