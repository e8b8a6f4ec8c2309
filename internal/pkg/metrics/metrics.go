// Package metrics exposes Prometheus collectors for the shop core.
//
// Collectors are registered on the Registerer passed to New, so tests can
// use a private prometheus.NewRegistry(). A nil *Metrics is valid and
// records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eshop"

// Checkout outcomes.
const (
	OutcomeCreated           = "created"
	OutcomeEmptyCart         = "empty_cart"
	OutcomeNoSelection       = "no_selection"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeNotFound          = "not_found"
	OutcomeFailed            = "failed"
)

type Metrics struct {
	Checkouts        *prometheus.CounterVec
	CheckoutDuration prometheus.Histogram
	Reservations     *prometheus.CounterVec
	OrderTransitions *prometheus.CounterVec
	StaleCarts       prometheus.Counter
	OutboxPublished  prometheus.Counter
	ReconciledCarts  prometheus.Counter
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Checkouts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "total",
			Help:      "Checkouts by outcome.",
		}, []string{"outcome"}),
		CheckoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "duration_seconds",
			Help:      "Checkout latency in seconds.",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}),
		Reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "stock",
			Name:      "reservations_total",
			Help:      "Checkout stock reservations by result.",
		}, []string{"result"}),
		OrderTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "order",
			Name:      "transitions_total",
			Help:      "Order status transitions by target status.",
		}, []string{"status"}),
		StaleCarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "checkout",
			Name:      "stale_carts_total",
			Help:      "Checkouts whose order was stored but whose cart update failed.",
		}),
		OutboxPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "outbox",
			Name:      "published_total",
			Help:      "Outbox messages delivered to the broker.",
		}),
		ReconciledCarts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "reconciled_total",
			Help:      "Stale carts cleaned up by reconciliation.",
		}),
	}

	reg.MustRegister(
		m.Checkouts,
		m.CheckoutDuration,
		m.Reservations,
		m.OrderTransitions,
		m.StaleCarts,
		m.OutboxPublished,
		m.ReconciledCarts,
	)
	return m
}

func (m *Metrics) ObserveCheckout(outcome string, started time.Time) {
	if m == nil {
		return
	}
	m.Checkouts.WithLabelValues(outcome).Inc()
	m.CheckoutDuration.Observe(time.Since(started).Seconds())
}

func (m *Metrics) ObserveReservation(granted bool) {
	if m == nil {
		return
	}
	result := "granted"
	if !granted {
		result = "refused"
	}
	m.Reservations.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveTransition(status string) {
	if m == nil {
		return
	}
	m.OrderTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveStaleCart() {
	if m == nil {
		return
	}
	m.StaleCarts.Inc()
}

func (m *Metrics) ObserveOutboxPublished(n int) {
	if m == nil {
		return
	}
	m.OutboxPublished.Add(float64(n))
}

func (m *Metrics) ObserveReconciledCart() {
	if m == nil {
		return
	}
	m.ReconciledCarts.Inc()
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
