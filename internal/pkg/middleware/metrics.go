package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gamma-omg/lexi-annotate/internal/pkg/router"
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "corpora_http"

// Collector is a prometheus.Collector with the HTTP request metrics of the
// service.
type Collector struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	inflight prometheus.Gauge
}

func NewMetricsCollector() *Collector {
	return &Collector{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "requests_total",
				Help:      "The number of handled HTTP requests.",
			}, []string{"method", "route", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "request_duration_seconds",
				Help:      "The time taken to handle an HTTP request.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			}, []string{"method", "route"},
		),
		inflight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: metricsNamespace,
				Name:      "requests_in_flight",
				Help:      "The number of HTTP requests being handled.",
			},
		),
	}
}

// Describe is part of the prometheus.Collector interface.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.requests.Describe(ch)
	c.duration.Describe(ch)
	c.inflight.Describe(ch)
}

// Collect is part of the prometheus.Collector interface.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.requests.Collect(ch)
	c.duration.Collect(ch)
	c.inflight.Collect(ch)
}

// Metrics records every request on c. Requests are labelled with the matched
// ServeMux pattern so that path parameters do not explode cardinality.
func Metrics(c *Collector) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			c.inflight.Inc()
			defer c.inflight.Dec()

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			route := r.Pattern
			if route == "" {
				route = "unmatched"
			}

			c.requests.WithLabelValues(r.Method, route, strconv.Itoa(rec.Status())).Inc()
			c.duration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
		})
	}
}
