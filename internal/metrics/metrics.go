// Package metrics provides Prometheus metrics for the nextbus application.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	// Registry is the Prometheus registry for this metrics instance
	Registry *prometheus.Registry

	// CommandsTotal counts executed bot commands by shape and outcome.
	CommandsTotal *prometheus.CounterVec

	// APIRequestsTotal counts requests to the transit data source.
	APIRequestsTotal *prometheus.CounterVec

	// APIRequestDuration tracks transit API latency.
	APIRequestDuration *prometheus.HistogramVec

	// FeedUpdatesTotal counts GTFS-RT feed polls by result.
	FeedUpdatesTotal *prometheus.CounterVec
}

// New creates and registers all application metrics with a fresh registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	commandsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextbus_commands_total",
			Help: "Total number of bot commands executed",
		},
		[]string{"command", "outcome"},
	)

	apiRequestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextbus_api_requests_total",
			Help: "Total number of requests to the transit data source",
		},
		[]string{"endpoint", "status"},
	)

	apiRequestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nextbus_api_request_duration_seconds",
			Help:    "Transit data source request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	feedUpdatesTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nextbus_gtfsrt_updates_total",
			Help: "Total number of GTFS-RT feed polls",
		},
		[]string{"result"},
	)

	registry.MustRegister(commandsTotal, apiRequestsTotal, apiRequestDuration, feedUpdatesTotal)

	return &Metrics{
		Registry:           registry,
		CommandsTotal:      commandsTotal,
		APIRequestsTotal:   apiRequestsTotal,
		APIRequestDuration: apiRequestDuration,
		FeedUpdatesTotal:   feedUpdatesTotal,
	}
}

// Handler returns an HTTP handler exposing this registry in the
// Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
