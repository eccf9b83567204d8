package observer

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsEnabled = true

	// Labels for message processing metrics
	messageLabels = []string{"intent", "direction"}
	// Labels for tracking processing outcomes
	messageActionLabels = []string{"intent", "action", "error_type"}

	// MessagesReceivedTotal counts inbound messages accepted by the webhook.
	MessagesReceivedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_messages_received_total",
			Help: "Total number of WhatsApp messages received on the webhook.",
		},
		messageLabels,
	)
	// MessagesProcessedTotal counts messages fully processed with a reply sent.
	MessagesProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_messages_processed_total",
			Help: "Total number of messages successfully processed end to end.",
		},
		messageLabels,
	)
	// MessagesFailedTotal counts messages that failed processing.
	MessagesFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_messages_failed_total",
			Help: "Total number of messages that failed processing.",
		},
		messageLabels,
	)

	// MessageProcessingDurationSeconds tracks end-to-end processing time.
	MessageProcessingDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jengatrack_message_processing_duration_seconds",
			Help:    "Histogram of message processing durations.",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
		},
		messageLabels,
	)

	// MessageProcessingActionsTotal counts specific post-processing outcomes.
	MessageProcessingActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_message_processing_actions_total",
			Help: "Total count of processing outcomes, labeled by error type.",
		},
		messageActionLabels,
	)
)

// Database operation metrics
var (
	dbOperationLabels = []string{"operation", "entity", "status"}

	// DatabaseOperationDurationSeconds tracks repository operation time.
	DatabaseOperationDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jengatrack_db_operation_duration_seconds",
			Help:    "Histogram of database operation durations.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 15), // 1ms to ~16s
		},
		dbOperationLabels,
	)
)

// Gateway metrics
var (
	gatewayLabels = []string{"status"}

	gatewaySendsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_gateway_sends_total",
			Help: "Total number of outbound WhatsApp gateway send attempts.",
		},
		gatewayLabels,
	)
	gatewaySendDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jengatrack_gateway_send_duration_seconds",
			Help:    "Histogram of WhatsApp gateway send durations.",
			Buckets: prometheus.DefBuckets,
		},
		gatewayLabels,
	)
)

// Worker pool metrics
var (
	workerTasksSubmittedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "jengatrack_worker_tasks_submitted_total",
		Help: "Total number of inbound-message tasks submitted to the worker pool.",
	})
	workerTasksProcessedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_worker_tasks_processed_total",
			Help: "Total number of worker pool tasks processed, labeled by final status.",
		},
		[]string{"status"},
	)
	workerQueueLength = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "jengatrack_worker_queue_length",
		Help: "Approximate number of tasks waiting in the worker pool queue.",
	})
)

// Event publisher metrics
var (
	eventsPublishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jengatrack_events_published_total",
			Help: "Total number of processed-message events published to JetStream.",
		},
		[]string{"subject", "status"},
	)
)

// InitMetrics initializes metric collection. Metrics are registered via
// promauto at package load; this toggles whether helpers record anything.
func InitMetrics(enabled bool) {
	metricsEnabled = enabled
}

// IncMessagesReceived increments the messages received counter.
func IncMessagesReceived(intent, direction string) {
	if !metricsEnabled {
		return
	}
	MessagesReceivedTotal.WithLabelValues(sanitizeIntent(intent), direction).Inc()
}

// IncMessagesProcessed increments the messages processed counter.
func IncMessagesProcessed(intent, direction string) {
	if !metricsEnabled {
		return
	}
	MessagesProcessedTotal.WithLabelValues(sanitizeIntent(intent), direction).Inc()
}

// IncMessagesFailed increments the messages failed counter.
func IncMessagesFailed(intent, direction string) {
	if !metricsEnabled {
		return
	}
	MessagesFailedTotal.WithLabelValues(sanitizeIntent(intent), direction).Inc()
}

// ObserveMessageProcessingDuration records end-to-end processing time.
func ObserveMessageProcessingDuration(intent, direction string, duration time.Duration) {
	if !metricsEnabled {
		return
	}
	MessageProcessingDurationSeconds.WithLabelValues(sanitizeIntent(intent), direction).Observe(duration.Seconds())
}

// IncMessageProcessingAction increments the counter for a processing outcome.
func IncMessageProcessingAction(intent, action, errorType string) {
	if !metricsEnabled {
		return
	}
	MessageProcessingActionsTotal.WithLabelValues(sanitizeIntent(intent), action, SanitizeErrorType(errorType)).Inc()
}

// ObserveDbOperationDuration records the duration for a database operation.
func ObserveDbOperationDuration(operation, entity string, duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseOperationDurationSeconds.WithLabelValues(operation, entity, status).Observe(duration.Seconds())
}

// ObserveGatewaySend records a gateway send attempt and its duration.
func ObserveGatewaySend(duration time.Duration, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	gatewaySendsTotal.WithLabelValues(status).Inc()
	gatewaySendDurationSeconds.WithLabelValues(status).Observe(duration.Seconds())
}

// IncWorkerTasksSubmitted increments the counter for submitted worker tasks.
func IncWorkerTasksSubmitted() {
	if !metricsEnabled {
		return
	}
	workerTasksSubmittedTotal.Inc()
}

// IncWorkerTasksProcessed increments the counter for processed worker tasks.
func IncWorkerTasksProcessed(status string) {
	if !metricsEnabled {
		return
	}
	workerTasksProcessedTotal.WithLabelValues(status).Inc()
}

// SetWorkerQueueLength sets the current worker pool queue length.
func SetWorkerQueueLength(length int) {
	if !metricsEnabled {
		return
	}
	workerQueueLength.Set(float64(length))
}

// IncEventsPublished increments the processed-event publish counter.
func IncEventsPublished(subject string, err error) {
	if !metricsEnabled {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	eventsPublishedTotal.WithLabelValues(subject, status).Inc()
}

// sanitizeIntent ensures the intent label is valid or returns a default value.
func sanitizeIntent(intent string) string {
	if intent == "" {
		return "unknown"
	}
	return intent
}

// SanitizeErrorType maps specific errors to a small set of categories.
// Keep this simple to avoid high cardinality.
func SanitizeErrorType(errStr string) string {
	if errStr == "" || errStr == "none" {
		return "none"
	}

	switch {
	case strings.Contains(errStr, "database"), strings.Contains(errStr, "SQL"), strings.Contains(errStr, "duplicate key"), strings.Contains(errStr, "constraint"), strings.Contains(errStr, "connection"):
		return "database"
	case strings.Contains(errStr, "validation failed"), strings.Contains(errStr, "bad request"), strings.Contains(errStr, "invalid"), strings.Contains(errStr, "missing field"):
		return "validation"
	case strings.Contains(errStr, "not found"), strings.Contains(errStr, "no rows"):
		return "not_found"
	case strings.Contains(errStr, "gateway"), strings.Contains(errStr, "whatsapp"):
		return "gateway"
	case strings.Contains(errStr, "timeout"), strings.Contains(errStr, "deadline exceeded"):
		return "timeout"
	case strings.Contains(errStr, "unmarshal"), strings.Contains(errStr, "json"):
		return "unmarshal"
	case strings.Contains(errStr, "panic"):
		return "panic"
	default:
		return "unknown"
	}
}
