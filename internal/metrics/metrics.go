// Package metrics holds the Prometheus instruments for the login service.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	LoginSubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_submissions_total",
			Help: "Login form submissions by outcome (invalid, rejected, error, success, ignored).",
		}, []string{"outcome"})

	UpstreamDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "login_upstream_duration_seconds",
			Help:    "Round-trip time of calls to the authentication service.",
			Buckets: prometheus.DefBuckets,
		})

	PagesActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "login_pages_active",
			Help: "Number of login page views currently held in memory.",
		})

	PagesEvictedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_pages_evicted_total",
			Help: "Login page views dropped from memory, by reason (idle, capacity).",
		}, []string{"reason"})
)

func init() {
	prometheus.MustRegister(
		LoginSubmissionsTotal,
		UpstreamDuration,
		PagesActive,
		PagesEvictedTotal,
	)
}
