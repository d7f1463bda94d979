package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.PaymentCreated("COD")
	m.PaymentCreated("COD")
	m.Transition("pending", "paid", "gateway")
	m.Checkout("accepted")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.PaymentsCreated.WithLabelValues("COD")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PaymentTransitions.WithLabelValues("pending", "paid", "gateway")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CheckoutSubmitted.WithLabelValues("accepted")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.PaymentCreated("COD")
		m.Transition("pending", "paid", "admin")
		m.Checkout("rejected")
		m.ObserveRequest("GET", "/health", "200", time.Millisecond)
	})
}
