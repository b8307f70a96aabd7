package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Aleph-Alpha/httptracing/v1/observability"
)

// createCounterVec defines a new CounterVec with standard options.
func createCounterVec(namespace, name, help string, labels []string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// createHistogramVec defines a new HistogramVec with configurable buckets.
func createHistogramVec(namespace, name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
			Buckets:   buckets,
		},
		labels,
	)
}

// createGaugeVec defines a new GaugeVec.
func createGaugeVec(namespace, name, help string, labels []string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      name,
			Help:      help,
		},
		labels,
	)
}

// IncrementRequests increments the request counter for status.
func (m *Metrics) IncrementRequests(status string) {
	m.requestsTotal.WithLabelValues(status).Inc()
}

// RecordRequestDuration observes the time elapsed since start for endpoint.
//
//	defer m.RecordRequestDuration(time.Now(), "/orders")
func (m *Metrics) RecordRequestDuration(start time.Time, endpoint string) {
	m.observeRequestDuration(endpoint, time.Since(start))
}

func (m *Metrics) observeRequestDuration(endpoint string, d time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// httpComponent is the component name reported by the HTTP tracing middleware.
const httpComponent = "httptracing"

// ObserveOperation implements observability.Observer.
//
// For the HTTP component Size holds the response status code, which becomes
// the status label and also feeds requests_total and request_duration_seconds.
// Other components are labelled "ok" or "error".
func (m *Metrics) ObserveOperation(ctx observability.OperationContext) {
	status := "ok"
	if ctx.Error != nil {
		status = "error"
	}
	if ctx.Component == httpComponent && ctx.Size > 0 {
		status = strconv.FormatInt(ctx.Size, 10)
	}

	m.operationsTotal.WithLabelValues(ctx.Component, ctx.SubResource, status).Inc()
	m.operationDuration.WithLabelValues(ctx.Component, ctx.Operation).Observe(ctx.Duration.Seconds())

	if ctx.Component == httpComponent {
		m.IncrementRequests(status)
		m.observeRequestDuration(ctx.Resource, ctx.Duration)
	}
}

// CreateCounter creates and registers a CounterVec.
func (m *Metrics) CreateCounter(name, help string, labels []string) *prometheus.CounterVec {
	c := createCounterVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(c)
	return c
}

// CreateHistogram creates and registers a HistogramVec. Nil buckets select prometheus.DefBuckets.
func (m *Metrics) CreateHistogram(name, help string, labels []string, buckets []float64) *prometheus.HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	h := createHistogramVec(m.namespace, name, help, labels, buckets)
	m.registerer.MustRegister(h)
	return h
}

// CreateGauge creates and registers a GaugeVec.
func (m *Metrics) CreateGauge(name, help string, labels []string) *prometheus.GaugeVec {
	g := createGaugeVec(m.namespace, name, help, labels)
	m.registerer.MustRegister(g)
	return g
}
