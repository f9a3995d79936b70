// Package metrics exposes Prometheus instrumentation for the daemon.
// Collectors are registered on the default registry and served by the
// status HTTP server at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/beenjammin/parking-sensor/internal/logic"
)

var (
	// SensorFailures counts poll cycles skipped because all sensor read
	// attempts failed.
	SensorFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_sensor_read_failures_total",
		Help: "Poll cycles skipped because the distance sensor could not be read.",
	})

	// Events counts confirmed occupancy transitions by type.
	Events = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "parking_events_total",
		Help: "Confirmed occupancy transitions by type.",
	}, []string{"type"})

	// ReportFailures counts failed event deliveries to the remote service.
	ReportFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_report_failures_total",
		Help: "Failed event deliveries to the parking service.",
	})

	// ReportSuccesses counts acknowledged event deliveries.
	ReportSuccesses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_report_successes_total",
		Help: "Acknowledged event deliveries to the parking service.",
	})

	// IndicatorFailures counts failed LED updates.
	IndicatorFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "parking_indicator_failures_total",
		Help: "Failed LED indicator updates.",
	})

	// Occupancy reports the current occupancy state
	// (0 = unknown, 1 = empty, 2 = occupied).
	Occupancy = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parking_occupancy_state",
		Help: "Current occupancy state: 0 unknown, 1 empty, 2 occupied.",
	})

	// OutboxPending reports the number of unacknowledged events.
	OutboxPending = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "parking_outbox_pending",
		Help: "Events queued for delivery to the parking service.",
	})
)

func init() {
	prometheus.MustRegister(
		SensorFailures,
		Events,
		ReportFailures,
		ReportSuccesses,
		IndicatorFailures,
		Occupancy,
		OutboxPending,
	)
}

// SetOccupancy maps a logic state onto the occupancy gauge.
func SetOccupancy(s logic.State) {
	switch s {
	case logic.StateEmpty:
		Occupancy.Set(1)
	case logic.StateOccupied:
		Occupancy.Set(2)
	default:
		Occupancy.Set(0)
	}
}
