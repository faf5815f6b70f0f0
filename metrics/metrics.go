// Package metrics defines the optional Prometheus instrumentation a
// fcgiclient.Client can be wired up to with fcgiclient.WithMetrics. Wiring
// metrics is opt-in: every method on Collector is nil-safe, so a Client
// built without WithMetrics pays no cost for instrumentation.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector holds the instruments for one Client. Construct it with New and
// register it with whatever prometheus.Registerer the caller uses; a nil
// *Collector is valid and every method on it is a no-op.
type Collector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration prometheus.Histogram
	bytesSent       *prometheus.CounterVec
	bytesReceived   *prometheus.CounterVec
}

// New builds a Collector under the given namespace and registers its
// instruments with reg. Passing prometheus.NewRegistry() isolates the
// Collector's metrics from the global default registry, which matters when
// more than one Client in the same process is instrumented independently.
func New(namespace string, reg prometheus.Registerer) *Collector {
	c := &Collector{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fcgi_client",
			Name:      "requests_total",
			Help:      "Count of FastCGI requests by outcome.",
		}, []string{"outcome"}),
		requestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fcgi_client",
			Name:      "request_duration_seconds",
			Help:      "Duration of a complete FastCGI request, from BEGIN_REQUEST to END_REQUEST.",
			Buckets:   prometheus.DefBuckets,
		}),
		bytesSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fcgi_client",
			Name:      "bytes_sent_total",
			Help:      "Bytes written to the connection by stream.",
		}, []string{"stream"}),
		bytesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "fcgi_client",
			Name:      "bytes_received_total",
			Help:      "Bytes read from the connection by stream.",
		}, []string{"stream"}),
	}
	reg.MustRegister(c.requestsTotal, c.requestDuration, c.bytesSent, c.bytesReceived)
	return c
}

// ObserveRequest records the outcome and duration of one completed request.
func (c *Collector) ObserveRequest(success bool, d time.Duration) {
	if c == nil {
		return
	}
	outcome := "error"
	if success {
		outcome = "success"
	}
	c.requestsTotal.WithLabelValues(outcome).Inc()
	c.requestDuration.Observe(d.Seconds())
}

// AddBytesSent adds n bytes to the sent counter for the given stream label
// ("params" or "stdin").
func (c *Collector) AddBytesSent(stream string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesSent.WithLabelValues(stream).Add(float64(n))
}

// AddBytesReceived adds n bytes to the received counter for the given
// stream label ("stdout" or "stderr").
func (c *Collector) AddBytesReceived(stream string, n int) {
	if c == nil || n <= 0 {
		return
	}
	c.bytesReceived.WithLabelValues(stream).Add(float64(n))
}
