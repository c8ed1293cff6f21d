package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Operation labels
const (
	OperationBook       = "book"
	OperationCancel     = "cancel"
	OperationReschedule = "reschedule"
)

// BookingMetrics counts booking engine outcomes.
type BookingMetrics struct {
	appointmentsTotal *prometheus.CounterVec
}

func NewBookingMetrics(reg prometheus.Registerer) *BookingMetrics {
	m := &BookingMetrics{
		appointmentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "booking",
			Name:      "appointments_total",
			Help:      "Booking, cancel and reschedule attempts by outcome",
		}, []string{"operation", "outcome"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.appointmentsTotal)
	return m
}

// Observe records one attempt. outcome is "ok" or a short error kind.
func (m *BookingMetrics) Observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.appointmentsTotal.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
