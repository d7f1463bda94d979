// internal/pkg/metrics/metrics.go
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the storefront Prometheus collectors
type Metrics struct {
	PaymentsCreated    *prometheus.CounterVec
	PaymentTransitions *prometheus.CounterVec
	CheckoutSubmitted  *prometheus.CounterVec
	RequestDuration    *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PaymentsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_payments_created_total",
				Help: "Total number of payment records created",
			},
			[]string{"method"},
		),
		PaymentTransitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_payment_transitions_total",
				Help: "Total number of payment status transitions",
			},
			[]string{"from", "to", "actor"},
		),
		CheckoutSubmitted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_checkout_submissions_total",
				Help: "Total number of checkout submissions by result",
			},
			[]string{"result"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "storefront_http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
	}

	reg.MustRegister(
		m.PaymentsCreated,
		m.PaymentTransitions,
		m.CheckoutSubmitted,
		m.RequestDuration,
	)

	return m
}

// NewNop returns collectors registered on a throwaway registry
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}

// PaymentCreated records a new payment record
func (m *Metrics) PaymentCreated(method string) {
	if m == nil {
		return
	}
	m.PaymentsCreated.WithLabelValues(method).Inc()
}

// Transition records a status change
func (m *Metrics) Transition(from, to, actor string) {
	if m == nil {
		return
	}
	m.PaymentTransitions.WithLabelValues(from, to, actor).Inc()
}

// Checkout records a checkout submission outcome
func (m *Metrics) Checkout(result string) {
	if m == nil {
		return
	}
	m.CheckoutSubmitted.WithLabelValues(result).Inc()
}

// ObserveRequest records one HTTP request duration
func (m *Metrics) ObserveRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
}
