// Package metrics collects and exposes Prometheus metrics for the auth service.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records auth outcomes and HTTP request measurements.
type Collector struct {
	logins       *prometheus.CounterVec
	refreshes    *prometheus.CounterVec
	revocations  prometheus.Counter
	httpStatus   *prometheus.CounterVec
	httpDuration prometheus.Histogram

	registry *prometheus.Registry
}

// NewCollector creates a Collector and registers its metrics with a fresh registry.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	c := &Collector{
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessiongate_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessiongate_refreshes_total",
			Help: "Refresh attempts by result.",
		}, []string{"result"}),
		revocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sessiongate_session_revocations_total",
			Help: "Sessions revoked by logout, per-session revoke, or logout-all.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sessiongate_http_responses_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "sessiongate_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		registry: reg,
	}
	reg.MustRegister(c.logins, c.refreshes, c.revocations, c.httpStatus, c.httpDuration)
	return c
}

// RecordLogin counts one login attempt.
func (c *Collector) RecordLogin(success bool) {
	c.logins.WithLabelValues(result(success)).Inc()
}

// RecordRefresh counts one refresh attempt.
func (c *Collector) RecordRefresh(success bool) {
	c.refreshes.WithLabelValues(result(success)).Inc()
}

// RecordRevocations counts revoked sessions.
func (c *Collector) RecordRevocations(count int64) {
	c.revocations.Add(float64(count))
}

// RecordHTTPStatus counts one HTTP response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordRequestDuration observes one request latency.
func (c *Collector) RecordRequestDuration(d time.Duration) {
	c.httpDuration.Observe(d.Seconds())
}

// Handler returns the /metrics scrape handler for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func result(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
