package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ClientMetrics records outbound calls made against the marketplace API.
type ClientMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewClientMetrics registers the API client metrics on the provided registerer.
func NewClientMetrics(reg prometheus.Registerer) *ClientMetrics {
	if reg == nil {
		return &ClientMetrics{}
	}
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "admin_api_requests_total",
		Help: "Marketplace API requests by resource, method and status.",
	}, []string{"resource", "method", "status"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "admin_api_request_duration_seconds",
		Help:    "Marketplace API request latency in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"resource", "method"})
	reg.MustRegister(requests, duration)
	return &ClientMetrics{
		requests: requests,
		duration: duration,
	}
}

// Observe records one finished request. A status of 0 means the transport failed.
func (c *ClientMetrics) Observe(resource, method string, status int, elapsed time.Duration) {
	if c == nil || c.requests == nil {
		return
	}
	resource = normalizeLabel(resource)
	statusLabel := "error"
	if status > 0 {
		statusLabel = strconv.Itoa(status)
	}
	c.requests.WithLabelValues(resource, method, statusLabel).Inc()
	c.duration.WithLabelValues(resource, method).Observe(elapsed.Seconds())
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
