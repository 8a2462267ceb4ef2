// Package events publishes alert lifecycle events to Kafka for downstream
// dashboards and archival consumers. Publishing is best-effort: a broker
// outage must never abort an in-flight broadcast.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/coastwatch/broadcast-engine/internal/alert"
	"github.com/coastwatch/broadcast-engine/internal/config"
)

// Publisher writes lifecycle events to the configured topics
type Publisher struct {
	cfg    config.KafkaConfig
	logger *slog.Logger
	writer *kafka.Writer
}

// NewPublisher creates a Kafka publisher for alert lifecycle events
func NewPublisher(cfg config.KafkaConfig, logger *slog.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Brokers...),
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}
	return &Publisher{cfg: cfg, logger: logger, writer: writer}
}

// Close flushes and closes the underlying writer
func (p *Publisher) Close() error {
	return p.writer.Close()
}

// AlertCreated publishes an alert-created event
func (p *Publisher) AlertCreated(ctx context.Context, a *alert.Alert) {
	p.publish(ctx, p.cfg.Topics.AlertCreated, a.ID, map[string]interface{}{
		"event":           "alert_created",
		"alert_id":        a.ID,
		"type":            a.Type,
		"severity":        a.Severity,
		"status":          a.Status,
		"estimated_reach": a.EstimatedReach,
		"created_at":      a.CreatedAt,
	})
}

// StatusChanged publishes a status-transition event
func (p *Publisher) StatusChanged(ctx context.Context, a *alert.Alert, from alert.Status) {
	p.publish(ctx, p.cfg.Topics.AlertStatusChanged, a.ID, map[string]interface{}{
		"event":    "alert_status_changed",
		"alert_id": a.ID,
		"from":     from,
		"to":       a.Status,
		"at":       a.UpdatedAt,
	})
}

// BroadcastCompleted publishes the final delivery aggregate for an alert
func (p *Publisher) BroadcastCompleted(ctx context.Context, a *alert.Alert) {
	p.publish(ctx, p.cfg.Topics.BroadcastCompleted, a.ID, map[string]interface{}{
		"event":           "broadcast_completed",
		"alert_id":        a.ID,
		"delivery_status": a.DeliveryStatus,
		"at":              a.UpdatedAt,
	})
}

// LogAppended publishes one broadcast log entry
func (p *Publisher) LogAppended(ctx context.Context, e *alert.LogEntry) {
	p.publish(ctx, p.cfg.Topics.BroadcastLog, e.AlertID, e)
}

func (p *Publisher) publish(ctx context.Context, topic, key string, payload interface{}) {
	value, err := json.Marshal(payload)
	if err != nil {
		p.logger.Error("Failed to marshal event payload", "topic", topic, "error", err)
		return
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
		Time:  time.Now().UTC(),
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("Failed to publish event",
			"topic", topic,
			"key", key,
			"error", fmt.Errorf("kafka write: %w", err))
	}
}
