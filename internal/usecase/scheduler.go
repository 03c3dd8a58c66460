package usecase

import (
	"context"
	"log/slog"
	"time"

	"linkpress/internal/ports"
)

// Scheduler wires the cron driver with the gateway for schedule mode.
// Each trigger is one ordinary reconciliation run; a failing run is logged
// and the next trigger retries from the same point.
type Scheduler struct {
	driver  ports.Scheduler
	gateway *Gateway
	logger  *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, gateway *Gateway, logger *slog.Logger) *Scheduler {
	return &Scheduler{driver: driver, gateway: gateway, logger: logger}
}

// Start registers the gateway with the provided scheduler driver.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.gateway == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if _, err := s.gateway.Run(ctx); err != nil {
			if s.logger != nil {
				s.logger.Error("scheduled run failed", "trigger", trigger, "error", err)
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop tears down the underlying scheduler driver.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
