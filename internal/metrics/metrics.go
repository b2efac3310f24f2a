// Package metrics defines the Prometheus collectors shared across the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Toggle metrics
var (
	// TogglesTotal tracks reaction toggles by kind and transition outcome.
	TogglesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reaction_toggles_total",
			Help: "Total reaction toggles by requested kind and transition (created/removed/switched)",
		},
		[]string{"kind", "transition"},
	)

	// ToggleDuration tracks the latency of the toggle transaction in seconds.
	ToggleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "reaction_toggle_duration_seconds",
			Help:    "Toggle transaction duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
	)

	// ToggleConflictRetries tracks detected toggle races that triggered a retry.
	ToggleConflictRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "reaction_toggle_conflict_retries_total",
			Help: "Total toggle retries caused by a detected concurrent toggle",
		},
	)
)

// Notification metrics
var (
	// PublishFailuresTotal tracks post update publishes that failed.
	// Publishes are fire-and-forget; failures never fail the toggle.
	PublishFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "post_update_publish_failures_total",
			Help: "Total post update publishes that failed",
		},
	)

	// CircuitBreakerState tracks the Redis circuit breaker state (0=closed, 1=half-open, 2=open).
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Current circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"component"},
	)
)

// Hub metrics
var (
	// HubActivePosts tracks the number of posts with at least one subscriber.
	HubActivePosts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_active_posts",
			Help: "Number of posts with at least one connected subscriber",
		},
	)

	// HubConnectedClients tracks connected WebSocket clients across all posts.
	HubConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hub_connected_clients_total",
			Help: "Total number of connected WebSocket clients across all posts",
		},
	)

	// HubSlowClientsEvicted tracks slow clients dropped due to a full send buffer.
	HubSlowClientsEvicted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hub_slow_clients_evicted_total",
			Help: "Total number of slow WebSocket clients evicted due to buffer full",
		},
	)
)
