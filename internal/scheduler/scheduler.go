// Package scheduler triggers deferred broadcasts when their scheduled time
// arrives and expires alerts whose expiry time has passed.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/coastwatch/broadcast-engine/internal/alert"
	"github.com/coastwatch/broadcast-engine/internal/broadcast"
	"github.com/coastwatch/broadcast-engine/internal/config"
)

// Scheduler runs the due-broadcast and expiry sweeps on cron schedules
type Scheduler struct {
	cfg    *config.Config
	logger *slog.Logger
	svc    *broadcast.Service
	cron   *cron.Cron
}

// NewScheduler creates a scheduler over the given service
func NewScheduler(cfg *config.Config, logger *slog.Logger, svc *broadcast.Service) *Scheduler {
	return &Scheduler{
		cfg:    cfg,
		logger: logger,
		svc:    svc,
		cron:   cron.New(cron.WithSeconds(), cron.WithLocation(time.UTC)),
	}
}

// Start registers the sweeps and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.cfg.Scheduler.DueCheckSchedule, func() {
		s.RunDueSweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule due-broadcast sweep: %w", err)
	}

	if _, err := s.cron.AddFunc(s.cfg.Scheduler.ExpirySweepSchedule, func() {
		s.RunExpirySweep(ctx)
	}); err != nil {
		return fmt.Errorf("failed to schedule expiry sweep: %w", err)
	}

	s.cron.Start()
	s.logger.Info("Scheduler started",
		"due_check", s.cfg.Scheduler.DueCheckSchedule,
		"expiry_sweep", s.cfg.Scheduler.ExpirySweepSchedule)
	return nil
}

// Stop stops the cron runner and waits for running sweeps to finish
func (s *Scheduler) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
	s.logger.Info("Scheduler stopped")
}

// RunDueSweep broadcasts every scheduled alert whose scheduled time has
// arrived. Scheduled broadcasts run with operator-free default variables.
func (s *Scheduler) RunDueSweep(ctx context.Context) {
	now := time.Now().UTC()
	for _, a := range s.svc.GetAlerts() {
		if a.Status != alert.StatusScheduled || a.ScheduledTime == nil {
			continue
		}
		if a.ScheduledTime.After(now) {
			continue
		}

		s.logger.Info("Scheduled broadcast due", "alert_id", a.ID, "scheduled_time", a.ScheduledTime)
		if err := s.svc.BroadcastAlert(ctx, a.ID, DefaultVariables(a)); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error("Scheduled broadcast failed", "alert_id", a.ID, "error", err)
		}
	}
}

// RunExpirySweep moves alerts past their expiry time into the expired
// state wherever the state machine permits it.
func (s *Scheduler) RunExpirySweep(ctx context.Context) {
	now := time.Now().UTC()
	for _, a := range s.svc.GetAlerts() {
		if a.ExpiryTime == nil || a.ExpiryTime.After(now) {
			continue
		}
		if !a.Status.CanTransitionTo(alert.StatusExpired) {
			continue
		}

		if err := s.svc.UpdateAlertStatus(ctx, a.ID, alert.StatusExpired); err != nil {
			s.logger.Error("Failed to expire alert", "alert_id", a.ID, "error", err)
			continue
		}
		s.logger.Info("Alert expired", "alert_id", a.ID, "expiry_time", a.ExpiryTime)
	}
}

// DefaultVariables builds substitution variables for an unattended
// scheduled broadcast from the alert's own zone data.
func DefaultVariables(a *alert.Alert) map[string]string {
	location := "the coastal area"
	shelter := "the nearest relief shelter"

	if len(a.AffectedZones) > 0 {
		names := make([]string, 0, len(a.AffectedZones))
		for _, z := range a.AffectedZones {
			names = append(names, z.Name)
		}
		location = strings.Join(names, ", ")

		if len(a.AffectedZones[0].Shelters) > 0 {
			shelter = a.AffectedZones[0].Shelters[0]
		}
	}

	vars := map[string]string{
		"location": location,
		"shelter":  shelter,
		"time":     "",
	}
	if a.ScheduledTime != nil {
		vars["time"] = a.ScheduledTime.Format("3:04 PM")
	}
	return vars
}
