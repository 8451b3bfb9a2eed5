// Package metrics exposes the Prometheus instruments used across the
// gateway and the /metrics handler that serves them.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts gateway requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_http_requests_total",
		Help: "Gateway HTTP requests by method, route and status code.",
	}, []string{"method", "route", "code"})

	// PushEvents counts push-channel events by type and outcome.
	PushEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gateway_push_events_total",
		Help: "Push channel events by type and outcome (applied|dropped|invalid).",
	}, []string{"type", "outcome"})

	// ActiveSessions tracks currently connected client sessions.
	ActiveSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "gateway_active_sessions",
		Help: "Number of connected client sessions.",
	})
)

// Handler serves the default Prometheus registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
