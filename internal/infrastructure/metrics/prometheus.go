// Package metrics exposes lifecycle, webhook and tracker counters to
// Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ticketsync/ticketsync/internal/application/common"
	"github.com/ticketsync/ticketsync/internal/infrastructure/tracker"
)

const namespace = "ticketsync"

// Recorder owns a private registry so tests can build as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	ticketOperations *prometheus.CounterVec
	webhookEvents    *prometheus.CounterVec
	notifications    *prometheus.CounterVec
	recipients       *prometheus.CounterVec
	trackerRequests  *prometheus.CounterVec
	trackerDuration  *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		ticketOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_operations_total",
			Help:      "Ticket lifecycle operations by origin and outcome",
		}, []string{"operation", "origin", "outcome"}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Inbound tracker webhook deliveries by outcome",
		}, []string{"event", "outcome"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications fanned out per flow",
		}, []string{"flow"}),
		recipients: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_recipients_total",
			Help:      "Inbox rows created per flow",
		}, []string{"flow"}),
		trackerRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tracker_requests_total",
			Help:      "Outbound work tracker calls by outcome",
		}, []string{"operation", "outcome"}),
		trackerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tracker_request_duration_seconds",
			Help:      "Outbound work tracker call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}

	r.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.ticketOperations,
		r.webhookEvents,
		r.notifications,
		r.recipients,
		r.trackerRequests,
		r.trackerDuration,
	)
	return r
}

func (r *Recorder) RecordTicketOperation(operation, origin, outcome string) {
	r.ticketOperations.WithLabelValues(operation, origin, outcome).Inc()
}

func (r *Recorder) RecordWebhookEvent(event, outcome string) {
	r.webhookEvents.WithLabelValues(event, outcome).Inc()
}

func (r *Recorder) RecordNotification(flow string, recipients int) {
	r.notifications.WithLabelValues(flow).Inc()
	r.recipients.WithLabelValues(flow).Add(float64(recipients))
}

func (r *Recorder) ObserveTrackerRequest(operation, outcome string, elapsed time.Duration) {
	r.trackerRequests.WithLabelValues(operation, outcome).Inc()
	r.trackerDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

var (
	_ common.MetricsRecorder  = (*Recorder)(nil)
	_ tracker.RequestObserver = (*Recorder)(nil)
)
