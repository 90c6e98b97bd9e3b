// Package metrics exposes Prometheus instrumentation for the tracking engine.
// Collectors are package-level and unlabeled.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RecordsOpened counts response-tracking records created.
	RecordsOpened = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_records_opened_total",
		Help: "Total number of response tracking records opened.",
	})

	// RecordsResolved counts records that transitioned to resolved.
	RecordsResolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_records_resolved_total",
		Help: "Total number of response tracking records resolved.",
	})

	// ResponseLatency observes curator response latency in seconds.
	ResponseLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracking_response_latency_seconds",
		Help:    "Curator response latency in seconds.",
		Buckets: []float64{30, 60, 120, 300, 600, 1800, 3600, 14400, 86400},
	})

	// RemindersSent counts reminder deliveries, including repeats.
	RemindersSent = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_sent_total",
		Help: "Total number of reminder notifications delivered.",
	})

	// RemindersCancelled counts reminders cancelled before firing.
	RemindersCancelled = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminders_cancelled_total",
		Help: "Total number of pending reminders cancelled by a response.",
	})

	// ReminderDeliveryErrors counts failed reminder deliveries.
	ReminderDeliveryErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "reminder_delivery_errors_total",
		Help: "Total number of reminder deliveries that failed.",
	})

	// ReportsSubmitted counts task reports accepted into PENDING.
	ReportsSubmitted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "task_reports_submitted_total",
		Help: "Total number of task reports submitted.",
	})

	// ReportsVerified counts task reports that reached VERIFIED.
	ReportsVerified = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "task_reports_verified_total",
		Help: "Total number of task reports verified.",
	})
)

func init() {
	prometheus.MustRegister(
		RecordsOpened,
		RecordsResolved,
		ResponseLatency,
		RemindersSent,
		RemindersCancelled,
		ReminderDeliveryErrors,
		ReportsSubmitted,
		ReportsVerified,
	)
}
