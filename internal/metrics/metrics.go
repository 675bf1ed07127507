// Package metrics collects and exposes Prometheus metrics for the frontend:
// page views and backend round-trip outcomes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	pageViews      *prometheus.CounterVec
	backendCalls   *prometheus.CounterVec
	backendLatency prometheus.Histogram
}

// NewCollector registers the frontend metrics on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		pageViews: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_page_views_total",
			Help: "Page requests by route and response status.",
		}, []string{"route", "status"}),
		backendCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightdesk_backend_calls_total",
			Help: "Backend REST calls by operation and HTTP status (0 = transport error).",
		}, []string{"op", "status"}),
		backendLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flightdesk_backend_latency_seconds",
			Help:    "Backend REST call latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(c.pageViews, c.backendCalls, c.backendLatency)
	return c
}

func (c *Collector) RecordPageView(route string, statusCode int) {
	c.pageViews.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
}

// RecordBackendCall implements the backend client's Recorder interface.
func (c *Collector) RecordBackendCall(op string, statusCode int, duration time.Duration) {
	c.backendCalls.WithLabelValues(op, strconv.Itoa(statusCode)).Inc()
	c.backendLatency.Observe(duration.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
