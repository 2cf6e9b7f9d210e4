package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/xavierca1/ligue-leadbot/internal/usecase"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	inboundProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_inbound_messages_total",
			Help: "Inbound messages by result (processed, duplicate, rejected)",
		},
		[]string{"result"},
	)

	messagesSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_messages_sent_total",
			Help: "Accepted outbound messages by message type",
		},
		[]string{"message_type"},
	)

	// PolicyDenials counts blocked sends by policy reason.
	PolicyDenials = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_policy_denials_total",
			Help: "Sends blocked by the send policy, by reason",
		},
		[]string{"reason"},
	)

	schedulerTasks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leadbot_scheduler_tasks_total",
			Help: "Scheduled tasks consumed by the scheduler, by outcome",
		},
		[]string{"outcome"},
	)

	integrationErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "integration_errors_total",
			Help: "Total number of integration errors",
		},
		[]string{"service"},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Metrics labels requests with the matched chi route pattern, or "unmatched".
func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern()
		}

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

func RecordInbound(result string) {
	inboundProcessed.WithLabelValues(result).Inc()
}

func RecordMessageSent(messageType string) {
	messagesSent.WithLabelValues(messageType).Inc()
}

func RecordPolicyDenial(reason string) {
	PolicyDenials.WithLabelValues(reason).Inc()
}

func RecordSchedulerOutcome(outcome string) {
	schedulerTasks.WithLabelValues(outcome).Inc()
}

func RecordIntegrationError(service string) {
	integrationErrors.WithLabelValues(service).Inc()
}

// RecordSchedulerResults counts every task outcome of one scheduler run, plus
// sends and policy denials.
func RecordSchedulerResults(results []usecase.TaskResult) {
	for _, r := range results {
		RecordSchedulerOutcome(string(r.Outcome))
		if r.PolicyDenied {
			RecordPolicyDenial(r.Reason)
		}
		if r.Outcome == usecase.TaskSent && r.Message != nil {
			RecordMessageSent(string(r.Message.MessageType))
		}
	}
}
