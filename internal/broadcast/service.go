// Package broadcast orchestrates alert creation, multilingual message
// generation, zone-targeted simulated broadcast, and delivery-status
// aggregation.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/coastwatch/broadcast-engine/internal/alert"
	"github.com/coastwatch/broadcast-engine/internal/cap"
	"github.com/coastwatch/broadcast-engine/internal/config"
	"github.com/coastwatch/broadcast-engine/internal/events"
	"github.com/coastwatch/broadcast-engine/internal/metrics"
	"github.com/coastwatch/broadcast-engine/internal/realtime"
	"github.com/coastwatch/broadcast-engine/internal/store"
	"github.com/coastwatch/broadcast-engine/internal/template"
)

var (
	// ErrAlertNotFound is returned for operations on unknown alert IDs
	ErrAlertNotFound = errors.New("alert not found")

	// ErrInvalidAlertRequest is returned when a create request is missing
	// required fields or carries unknown enumeration values
	ErrInvalidAlertRequest = errors.New("invalid alert request")

	// ErrInvalidTransition is returned when a status change would violate
	// the alert state machine
	ErrInvalidTransition = errors.New("invalid status transition")
)

// CreateRequest is the Composer's input to CreateAlert. Zones are supplied
// by value and snapshotted; later catalog changes do not affect the alert.
type CreateRequest struct {
	Title             string
	Description       string
	Type              alert.Type
	Severity          alert.Severity
	UrgencyLevel      alert.Urgency
	AffectedZones     []alert.Zone
	Languages         []alert.Language
	BroadcastChannels []alert.Channel
	ScheduledTime     *time.Time
	ExpiryTime        *time.Time
	CreatedBy         string
}

// Service is the alert management orchestrator. It owns all alert and log
// mutation; construct one instance in the composition root and inject it.
type Service struct {
	cfg       *config.Config
	logger    *slog.Logger
	alerts    *store.AlertStore
	logs      *store.LogStore
	templates *template.Engine
	metrics   *metrics.Collector
	events    *events.Publisher
	hub       *realtime.Hub

	limiters map[alert.Channel]*rate.Limiter

	// Per-alert locks serialize concurrent broadcasts of the same ID so
	// duplicate log entries and torn delivery counters cannot occur.
	locksMu    sync.Mutex
	alertLocks map[string]*sync.Mutex
}

// NewService creates the alert management service. events and hub may be
// nil when the corresponding integrations are disabled.
func NewService(
	cfg *config.Config,
	logger *slog.Logger,
	alerts *store.AlertStore,
	logs *store.LogStore,
	templates *template.Engine,
	collector *metrics.Collector,
	publisher *events.Publisher,
	hub *realtime.Hub,
) *Service {
	limiters := make(map[alert.Channel]*rate.Limiter, len(alert.Channels))
	for _, ch := range alert.Channels {
		if cfg.Broadcast.RateLimitPerSecond > 0 {
			limiters[ch] = rate.NewLimiter(
				rate.Limit(cfg.Broadcast.RateLimitPerSecond),
				cfg.Broadcast.RateLimitBurst,
			)
		} else {
			limiters[ch] = rate.NewLimiter(rate.Inf, 1)
		}
	}

	return &Service{
		cfg:        cfg,
		logger:     logger,
		alerts:     alerts,
		logs:       logs,
		templates:  templates,
		metrics:    collector,
		events:     publisher,
		hub:        hub,
		limiters:   limiters,
		alertLocks: make(map[string]*sync.Mutex),
	}
}

// CreateAlert validates the request, applies defaults, resolves message
// templates for every target language, computes estimated reach, and
// stores the alert. It never broadcasts.
func (s *Service) CreateAlert(ctx context.Context, req CreateRequest) (*alert.Alert, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", ErrInvalidAlertRequest)
	}
	if strings.TrimSpace(req.Description) == "" {
		return nil, fmt.Errorf("%w: missing description", ErrInvalidAlertRequest)
	}

	hazard := req.Type
	if hazard == "" {
		hazard = alert.TypeCyclone
	}
	if !hazard.Valid() {
		return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidAlertRequest, req.Type)
	}

	severity := req.Severity
	if severity == "" {
		severity = alert.SeverityWarning
	}
	if !severity.Valid() {
		return nil, fmt.Errorf("%w: unknown severity %q", ErrInvalidAlertRequest, req.Severity)
	}

	urgency := req.UrgencyLevel
	if urgency == "" {
		urgency = alert.UrgencyMedium
	}

	languages := req.Languages
	if len(languages) == 0 {
		languages = append([]alert.Language(nil), alert.DefaultLanguages...)
	}

	channels := req.BroadcastChannels
	if len(channels) == 0 {
		channels = []alert.Channel{alert.ChannelSMS, alert.ChannelCellBroadcast}
	}
	for _, ch := range channels {
		if !ch.Valid() {
			return nil, fmt.Errorf("%w: unknown channel %q", ErrInvalidAlertRequest, ch)
		}
	}

	now := time.Now().UTC()

	status := alert.StatusDraft
	if req.ScheduledTime != nil && req.ScheduledTime.After(now) {
		status = alert.StatusScheduled
	}

	messageTemplates := make(map[alert.Language]string, len(languages))
	for _, lang := range languages {
		messageTemplates[lang] = s.templates.Resolve(hazard, severity, lang)
	}

	zones := append([]alert.Zone(nil), req.AffectedZones...)

	channelDelivery := make(map[alert.Channel]alert.ChannelDelivery, len(channels))
	for _, ch := range channels {
		channelDelivery[ch] = alert.ChannelDelivery{}
	}

	a := &alert.Alert{
		ID:                uuid.NewString(),
		Title:             req.Title,
		Description:       req.Description,
		Type:              hazard,
		Severity:          severity,
		UrgencyLevel:      urgency,
		AffectedZones:     zones,
		Languages:         languages,
		MessageTemplates:  messageTemplates,
		BroadcastChannels: channels,
		ScheduledTime:     req.ScheduledTime,
		ExpiryTime:        req.ExpiryTime,
		Status:            status,
		DeliveryStatus:    alert.DeliveryStatus{Channels: channelDelivery},
		EstimatedReach:    alert.EstimateReach(zones),
		CreatedAt:         now,
		UpdatedAt:         now,
		CreatedBy:         req.CreatedBy,
	}

	if err := s.alerts.Create(a); err != nil {
		return nil, fmt.Errorf("failed to store alert: %w", err)
	}

	s.logger.Info("Alert created",
		"alert_id", a.ID,
		"type", a.Type,
		"severity", a.Severity,
		"zones", len(a.AffectedZones),
		"estimated_reach", a.EstimatedReach,
		"status", a.Status)

	if s.metrics != nil {
		s.metrics.AlertCreated(a.Type, a.Severity)
	}
	if s.events != nil {
		s.events.AlertCreated(ctx, a)
	}
	if s.hub != nil {
		s.hub.Publish(realtime.MessageTypeAlert, a)
	}

	return a, nil
}

// BroadcastAlert runs the simulated broadcast for an alert: for every
// affected zone and target language it substitutes variables into the
// stored template, validates the SMS length budget, and performs one
// simulated send per channel, appending a log entry for each attempt.
// Over-length messages are recorded as failed sends, never silently
// dropped. Sends iterate zones, then languages, then channels, strictly
// sequentially, so partial progress is deterministic.
func (s *Service) BroadcastAlert(ctx context.Context, id string, vars map[string]string) error {
	unlock := s.lockAlert(id)
	defer unlock()

	a, ok := s.alerts.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrAlertNotFound, id)
	}
	if !a.Status.CanTransitionTo(alert.StatusBroadcasting) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, a.Status, alert.StatusBroadcasting)
	}

	if err := s.applyStatus(ctx, id, alert.StatusBroadcasting); err != nil {
		return err
	}

	variables := make(map[string]string, len(vars)+1)
	for k, v := range vars {
		variables[k] = v
	}
	if variables["contact"] == "" {
		variables["contact"] = s.cfg.Broadcast.DefaultContact
	}

	start := time.Now()
	failedReach := 0

	for _, z := range a.AffectedZones {
		recipients := z.Reach()
		zoneReached := false

		for _, lang := range a.Languages {
			if err := ctx.Err(); err != nil {
				return err
			}
			if s.isCancelled(id) {
				s.logger.Info("Broadcast halted by cancellation", "alert_id", id, "zone", z.Name)
				return nil
			}

			tpl := a.MessageTemplates[lang]
			if tpl == "" {
				tpl = s.templates.Resolve(a.Type, a.Severity, lang)
			}
			message := template.Substitute(tpl, variables)

			if !template.ValidateLength(message) {
				s.logger.Warn("Message exceeds length budget, recording failed sends",
					"alert_id", id,
					"zone", z.Name,
					"language", lang,
					"length", len([]rune(message)))
				for _, ch := range a.BroadcastChannels {
					s.appendLog(ctx, &alert.LogEntry{
						ID:             uuid.NewString(),
						AlertID:        id,
						Timestamp:      time.Now().UTC(),
						Channel:        ch,
						ZoneName:       z.Name,
						Language:       lang,
						Message:        message,
						RecipientCount: recipients,
						DeliveryRate:   0,
						Status:         alert.LogStatusFailed,
					})
				}
				continue
			}

			for _, ch := range a.BroadcastChannels {
				if err := s.limiters[ch].Wait(ctx); err != nil {
					return err
				}
				if s.isCancelled(id) {
					s.logger.Info("Broadcast halted by cancellation", "alert_id", id, "zone", z.Name)
					return nil
				}
				if err := s.simulateLatency(ctx); err != nil {
					return err
				}

				s.appendLog(ctx, &alert.LogEntry{
					ID:             uuid.NewString(),
					AlertID:        id,
					Timestamp:      time.Now().UTC(),
					Channel:        ch,
					ZoneName:       z.Name,
					Language:       lang,
					Message:        message,
					RecipientCount: recipients,
					DeliveryRate:   s.cfg.Broadcast.SimulatedDeliveryRate,
					Status:         alert.LogStatusSuccess,
				})
			}
			zoneReached = true
		}

		if !zoneReached && len(a.Languages) > 0 {
			failedReach += recipients
		}
	}

	delivery := s.aggregateDelivery(a, failedReach)

	completed := false
	err := s.alerts.Update(id, func(cur *alert.Alert) error {
		if cur.Status != alert.StatusBroadcasting {
			// Cancelled or expired while sends were in flight; leave the
			// operator's status in place.
			return nil
		}
		cur.Status = alert.StatusSent
		cur.DeliveryStatus = delivery
		cur.UpdatedAt = time.Now().UTC()
		completed = true
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to finalize broadcast: %w", err)
	}
	if !completed {
		return nil
	}

	s.logger.Info("Broadcast completed",
		"alert_id", id,
		"total", delivery.Total,
		"delivered", delivery.Delivered,
		"failed", delivery.Failed,
		"duration", time.Since(start))

	if s.metrics != nil {
		s.metrics.StatusChanged(alert.StatusBroadcasting, alert.StatusSent)
		s.metrics.BroadcastCompleted(time.Since(start).Seconds(), delivery.Delivered, delivery.Failed)
	}
	if updated, ok := s.alerts.Get(id); ok {
		if s.events != nil {
			s.events.BroadcastCompleted(ctx, updated)
		}
		if s.hub != nil {
			s.hub.Publish(realtime.MessageTypeStatusChange, updated)
		}
	}

	return nil
}

// aggregateDelivery computes the final counters. The delivery rate is an
// explicitly simulated constant applied to the recipients that received a
// valid message; recipients of zones where every translation failed the
// length budget count as failed outright.
func (s *Service) aggregateDelivery(a *alert.Alert, failedReach int) alert.DeliveryStatus {
	total := a.EstimatedReach
	okReach := total - failedReach
	if okReach < 0 {
		okReach = 0
	}

	deliveryRate := s.cfg.Broadcast.SimulatedDeliveryRate
	delivered := int(math.Floor(float64(okReach) * deliveryRate))
	failed := total - delivered

	channels := make(map[alert.Channel]alert.ChannelDelivery, len(a.BroadcastChannels))
	for _, ch := range a.BroadcastChannels {
		channels[ch] = alert.ChannelDelivery{
			Sent:      okReach,
			Delivered: delivered,
			Failed:    okReach - delivered,
		}
	}

	return alert.DeliveryStatus{
		Total:     total,
		Sent:      total,
		Delivered: delivered,
		Failed:    failed,
		Pending:   0,
		Channels:  channels,
	}
}

// GetAlerts returns all alerts ordered by creation time, newest first
func (s *Service) GetAlerts() []*alert.Alert {
	return s.alerts.List()
}

// GetAlert returns the alert with the given ID
func (s *Service) GetAlert(id string) (*alert.Alert, error) {
	a, ok := s.alerts.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
	}
	return a, nil
}

// GetBroadcastLogs returns broadcast log entries newest first, optionally
// filtered by alert ID (empty string returns everything)
func (s *Service) GetBroadcastLogs(alertID string) []*alert.LogEntry {
	return s.logs.List(alertID)
}

// UpdateAlertStatus applies a status transition after validating it
// against the state machine. Cancelling a broadcasting alert halts its
// remaining sends; the broadcast loop checks status between sends.
func (s *Service) UpdateAlertStatus(ctx context.Context, id string, next alert.Status) error {
	if !next.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, next)
	}
	if _, ok := s.alerts.Get(id); !ok {
		return fmt.Errorf("%w: %s", ErrAlertNotFound, id)
	}
	return s.applyStatus(ctx, id, next)
}

// ExportCAP returns the CAP 1.2 document for an alert
func (s *Service) ExportCAP(id string) (*cap.Alert, error) {
	a, ok := s.alerts.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrAlertNotFound, id)
	}
	return cap.Generate(a), nil
}

func (s *Service) applyStatus(ctx context.Context, id string, next alert.Status) error {
	var from alert.Status
	err := s.alerts.Update(id, func(cur *alert.Alert) error {
		if !cur.Status.CanTransitionTo(next) {
			return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, cur.Status, next)
		}
		from = cur.Status
		cur.Status = next
		cur.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("Alert status changed", "alert_id", id, "from", from, "to", next)

	if s.metrics != nil {
		s.metrics.StatusChanged(from, next)
	}
	if updated, ok := s.alerts.Get(id); ok {
		if s.events != nil {
			s.events.StatusChanged(ctx, updated, from)
		}
		if s.hub != nil {
			s.hub.Publish(realtime.MessageTypeStatusChange, updated)
		}
	}
	return nil
}

func (s *Service) appendLog(ctx context.Context, e *alert.LogEntry) {
	s.logs.Append(e)
	if s.metrics != nil {
		s.metrics.SendRecorded(e.Channel, e.Status)
	}
	if s.events != nil {
		s.events.LogAppended(ctx, e)
	}
	if s.hub != nil {
		s.hub.Publish(realtime.MessageTypeBroadcastLog, e)
	}
}

func (s *Service) isCancelled(id string) bool {
	cur, ok := s.alerts.Get(id)
	return ok && cur.Status == alert.StatusCancelled
}

// simulateLatency models per-send network latency with a bounded random
// delay, interruptible by context cancellation
func (s *Service) simulateLatency(ctx context.Context) error {
	min := s.cfg.Broadcast.MinSendDelay
	max := s.cfg.Broadcast.MaxSendDelay
	if max <= 0 || max < min {
		return nil
	}

	delay := min
	if span := max - min; span > 0 {
		delay += time.Duration(rand.Int63n(int64(span)))
	}

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func (s *Service) lockAlert(id string) func() {
	s.locksMu.Lock()
	l, ok := s.alertLocks[id]
	if !ok {
		l = &sync.Mutex{}
		s.alertLocks[id] = l
	}
	s.locksMu.Unlock()

	l.Lock()
	return l.Unlock
}
