package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/coastwatch/broadcast-engine/internal/alert"
)

// Collector manages Prometheus metrics for the broadcast engine
type Collector struct {
	alertsCreated     *prometheus.CounterVec
	statusTransitions *prometheus.CounterVec
	broadcastsTotal   prometheus.Counter
	broadcastDuration prometheus.Histogram
	sendsTotal        *prometheus.CounterVec
	recipientsReached prometheus.Counter
	recipientsFailed  prometheus.Counter
}

// NewCollector registers the engine's metrics with the given registerer
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)

	return &Collector{
		alertsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadcast_engine_alerts_created_total",
			Help: "Alerts created, by hazard type and severity",
		}, []string{"type", "severity"}),

		statusTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadcast_engine_status_transitions_total",
			Help: "Alert status transitions applied",
		}, []string{"from", "to"}),

		broadcastsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_engine_broadcasts_total",
			Help: "Completed broadcast operations",
		}),

		broadcastDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "broadcast_engine_broadcast_duration_seconds",
			Help:    "Wall-clock duration of broadcast operations",
			Buckets: prometheus.DefBuckets,
		}),

		sendsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "broadcast_engine_sends_total",
			Help: "Simulated sends, by channel and outcome",
		}, []string{"channel", "status"}),

		recipientsReached: factory.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_engine_recipients_delivered_total",
			Help: "Recipients reported delivered by completed broadcasts",
		}),

		recipientsFailed: factory.NewCounter(prometheus.CounterOpts{
			Name: "broadcast_engine_recipients_failed_total",
			Help: "Recipients reported failed by completed broadcasts",
		}),
	}
}

// AlertCreated records a created alert
func (c *Collector) AlertCreated(t alert.Type, s alert.Severity) {
	c.alertsCreated.WithLabelValues(string(t), string(s)).Inc()
}

// StatusChanged records a status transition
func (c *Collector) StatusChanged(from, to alert.Status) {
	c.statusTransitions.WithLabelValues(string(from), string(to)).Inc()
}

// SendRecorded records one simulated send outcome
func (c *Collector) SendRecorded(ch alert.Channel, status alert.LogStatus) {
	c.sendsTotal.WithLabelValues(string(ch), string(status)).Inc()
}

// BroadcastCompleted records a finished broadcast and its delivery split
func (c *Collector) BroadcastCompleted(durationSeconds float64, delivered, failed int) {
	c.broadcastsTotal.Inc()
	c.broadcastDuration.Observe(durationSeconds)
	c.recipientsReached.Add(float64(delivered))
	c.recipientsFailed.Add(float64(failed))
}
