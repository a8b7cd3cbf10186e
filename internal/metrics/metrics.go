package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the service's Prometheus collectors
type Metrics struct {
	requestsTotal      *prometheus.CounterVec
	requestDuration    *prometheus.HistogramVec
	ContractsCreated   prometheus.Counter
	PaymentsRegistered prometheus.Counter
}

// New registers and returns the service metrics
func New() *Metrics {
	m := &Metrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "transport",
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "transport",
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latencies in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		ContractsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transport",
			Name:      "contracts_created_total",
			Help:      "Total number of contracts created",
		}),
		PaymentsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "transport",
			Name:      "payments_registered_total",
			Help:      "Total number of installment payments registered (single and bulk)",
		}),
	}

	prometheus.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ContractsCreated,
		m.PaymentsRegistered,
	)
	return m
}

// Middleware records request counts and latencies per route
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		// Use the route template, not the raw path, to bound cardinality
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		m.requestsTotal.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).
			Observe(time.Since(start).Seconds())
	}
}
