package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "barberbook"

// Metrics holds the Prometheus collectors shared by the services.
type Metrics struct {
	// HTTPRequestsTotal counts served requests by route, method and status.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration is the handler latency by route and method.
	HTTPRequestDuration *prometheus.HistogramVec

	// AppointmentsCreated counts successful bookings.
	AppointmentsCreated prometheus.Counter

	// SlotConflicts counts bookings rejected because the slot was taken.
	SlotConflicts prometheus.Counter

	// Transitions counts lifecycle transitions by source and target status.
	Transitions *prometheus.CounterVec

	// SlotCacheLookups counts slot cache reads by result (hit, miss, error).
	SlotCacheLookups *prometheus.CounterVec

	// RateLimited counts requests rejected by the per-actor limiter.
	RateLimited prometheus.Counter

	// IdempotentReplays counts responses served from the idempotency store.
	IdempotentReplays prometheus.Counter

	// EventsPublished counts outgoing domain events by topic and outcome.
	EventsPublished *prometheus.CounterVec

	// EventsConsumed counts consumed events by topic and outcome.
	EventsConsumed *prometheus.CounterVec

	// RatingRecomputations counts aggregate refreshes by trigger.
	RatingRecomputations *prometheus.CounterVec
}

// New registers the collectors on reg. Pass prometheus.DefaultRegisterer in
// binaries and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),

		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"route", "method"},
		),

		AppointmentsCreated: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "appointments_created_total",
				Help:      "Total number of appointments created",
			},
		),

		SlotConflicts: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "slot_conflicts_total",
				Help:      "Total number of bookings rejected due to an overlapping appointment",
			},
		),

		Transitions: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "appointment_transitions_total",
				Help:      "Total number of appointment status transitions",
			},
			[]string{"from", "to"},
		),

		SlotCacheLookups: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "slot_cache_lookups_total",
				Help:      "Slot cache lookups by result",
			},
			[]string{"result"},
		),

		RateLimited: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Total number of requests rejected by the rate limiter",
			},
		),

		IdempotentReplays: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "idempotent_replays_total",
				Help:      "Total number of responses replayed for a repeated idempotency key",
			},
		),

		EventsPublished: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "events_published_total",
				Help:      "Domain events published by topic and status",
			},
			[]string{"topic", "status"},
		),

		EventsConsumed: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "events_consumed_total",
				Help:      "Domain events consumed by topic and status",
			},
			[]string{"topic", "status"},
		),

		RatingRecomputations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "rating_recomputations_total",
				Help:      "Barber rating aggregate refreshes by trigger",
			},
			[]string{"trigger"},
		),
	}
}

// NewNoop returns collectors bound to a private registry, for tests and for
// components constructed without metrics.
func NewNoop() *Metrics {
	return New(prometheus.NewRegistry())
}
