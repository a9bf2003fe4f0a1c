package metrics

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	InFlightGauge   prometheus.Gauge

	BookingsTotal      *prometheus.CounterVec
	SlotConflictsTotal prometheus.Counter
	CancellationsTotal *prometheus.CounterVec

	DBConnections prometheus.Gauge

	AuditEntriesTotal  prometheus.Counter
	AuditBufferDropped prometheus.Counter
}

func NewCollector(serviceName string) *Collector {
	// Service names like "docpoint-api" are not valid metric namespaces.
	serviceName = strings.ReplaceAll(serviceName, "-", "_")

	return &Collector{
		RequestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency distribution.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		}, []string{"method", "path", "status"}),

		InFlightGauge: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "http",
			Name:      "in_flight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		}),

		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "reservations_total",
			Help:      "Reservation attempts by outcome (booked, conflict, rejected, error).",
		}, []string{"outcome"}),

		SlotConflictsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "slot_conflicts_total",
			Help:      "Reservations rejected because the slot was already taken.",
		}),

		CancellationsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "booking",
			Name:      "cancellations_total",
			Help:      "Cancellations by initiating role.",
		}, []string{"role"}),

		DBConnections: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: serviceName,
			Subsystem: "db",
			Name:      "open_connections",
			Help:      "Current number of open database connections.",
		}),

		AuditEntriesTotal: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "entries_total",
			Help:      "Total audit log entries written.",
		}),

		AuditBufferDropped: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: serviceName,
			Subsystem: "audit",
			Name:      "buffer_dropped_total",
			Help:      "Audit entries dropped due to full buffer. Alert if non-zero.",
		}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
