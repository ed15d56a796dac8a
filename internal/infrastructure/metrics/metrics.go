// Package metrics provides Prometheus metrics for the session-api service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveSessions tracks the number of tracked lesson sessions.
	ActiveSessions = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "session_active_sessions",
			Help: "Number of currently tracked lesson sessions",
		},
	)

	// SessionsCreated tracks the total number of sessions created.
	SessionsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_sessions_created_total",
			Help: "Total number of lesson sessions created",
		},
	)

	// SessionsDeleted tracks the total number of sessions deleted.
	SessionsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_sessions_deleted_total",
			Help: "Total number of lesson sessions deleted",
		},
	)

	// SessionStateTransitions tracks session state changes.
	SessionStateTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_state_transitions_total",
			Help: "Total number of session state transitions",
		},
		[]string{"from_state", "to_state"},
	)

	// ProvisioningOutcomes counts room creation attempts by tagged outcome.
	ProvisioningOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_room_provisioning_outcomes_total",
			Help: "Total room provisioning attempts by outcome",
		},
		[]string{"outcome"},
	)

	// ProvisioningDegraded counts sessions issued without a fully
	// provisioned room.
	ProvisioningDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_room_provisioning_degraded_total",
			Help: "Total sessions issued despite room provisioning failure",
		},
	)

	// RoomSyncDuration tracks the duration of room state sync operations.
	RoomSyncDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_room_sync_duration_seconds",
			Help:    "Duration of room state sync operations",
			Buckets: prometheus.DefBuckets,
		},
	)

	// RoomSyncErrors tracks errors during room state sync.
	RoomSyncErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "session_room_sync_errors_total",
			Help: "Total number of errors during room state sync",
		},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_http_requests_total",
			Help: "Total HTTP requests processed",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration tracks HTTP request latency by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "session_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// TokenMintDuration tracks access credential mint time.
	TokenMintDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "session_token_mint_duration_seconds",
			Help:    "Duration of access credential minting",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1},
		},
	)
)

// RecordSessionCreated increments session creation metrics.
func RecordSessionCreated() {
	SessionsCreated.Inc()
	ActiveSessions.Inc()
}

// RecordSessionDeleted increments session deletion metrics.
func RecordSessionDeleted() {
	SessionsDeleted.Inc()
	ActiveSessions.Dec()
}

// RecordStateTransition records a session state change.
func RecordStateTransition(fromState, toState string) {
	SessionStateTransitions.WithLabelValues(fromState, toState).Inc()
}

// RecordProvisioningOutcome records the tagged result of a room create call.
func RecordProvisioningOutcome(outcome string) {
	ProvisioningOutcomes.WithLabelValues(outcome).Inc()
}
