package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus metrics collectors
type Metrics struct {
	gatherer         prometheus.Gatherer
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	requestsInFlight prometheus.Gauge
	contactOutcomes  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg. A nil reg
// gets a private registry, which keeps tests independent of each other.
func NewMetrics(namespace string, reg *prometheus.Registry) *Metrics {
	if namespace == "" {
		namespace = "portfolio"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		gatherer: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path", "status"},
		),
		requestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed",
			},
		),
		contactOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "contact_submissions_total",
				Help:      "Contact submissions by response status",
			},
			[]string{"status"},
		),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.requestsInFlight,
		m.contactOutcomes,
	)

	return m
}

// Middleware records request count, latency and in-flight requests.
// Paths are labelled with the route template, so unknown URLs collapse
// into a single "unmatched" series.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		m.requestsInFlight.Inc()
		defer func() {
			m.requestsInFlight.Dec()

			recovered := recover()
			path := c.FullPath()
			if path == "" {
				path = "unmatched"
			}
			status := finalStatus(c, recovered)

			m.requestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
			m.requestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
			if recovered != nil {
				panic(recovered)
			}
		}()

		c.Next()
	}
}

// ContactOutcome counts finished contact submissions by status code.
// A panic is counted as a 500 and handed on to the recovery middleware.
func (m *Metrics) ContactOutcome() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			recovered := recover()
			m.contactOutcomes.WithLabelValues(finalStatus(c, recovered)).Inc()
			if recovered != nil {
				panic(recovered)
			}
		}()
		c.Next()
	}
}

// finalStatus is the status the client will see. A panicking request has
// not written yet; Recovery turns it into a 500.
func finalStatus(c *gin.Context, recovered any) string {
	if recovered != nil {
		return strconv.Itoa(http.StatusInternalServerError)
	}
	return strconv.Itoa(c.Writer.Status())
}

// Handler returns the Prometheus metrics HTTP handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
