package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	receivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "its_client_received_total",
			Help: "Total number of exchanges received from the broker, by message type.",
		},
		[]string{"message_type"},
	)

	sentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "its_client_sent_total",
			Help: "Total number of exchanges published to the broker, by message type.",
		},
		[]string{"message_type"},
	)

	filteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "its_client_filtered_total",
			Help: "Total number of outbound exchanges dropped by the region-of-responsibility filter.",
		},
		[]string{"message_type"},
	)

	analyzeDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "its_client_analyze_duration_seconds",
			Help:    "Time spent in a single Analyzer.Analyze call.",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
		[]string{"message_type"},
	)

	reconnectsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "its_client_reconnects_total",
			Help: "Total number of broker reconnect attempts.",
		},
	)
)

// RecordReceived increments the received counter for messageType.
func RecordReceived(messageType string) { receivedTotal.WithLabelValues(messageType).Inc() }

// RecordSent increments the sent counter for messageType.
func RecordSent(messageType string) { sentTotal.WithLabelValues(messageType).Inc() }

// RecordFiltered increments the filtered counter for messageType.
func RecordFiltered(messageType string) { filteredTotal.WithLabelValues(messageType).Inc() }

// ObserveAnalyzeDuration records how long an Analyze call for messageType took, in seconds.
func ObserveAnalyzeDuration(messageType string, seconds float64) {
	analyzeDurationSeconds.WithLabelValues(messageType).Observe(seconds)
}

// RecordReconnect increments the reconnect counter.
func RecordReconnect() { reconnectsTotal.Inc() }
