package scheduler

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"linkpress/internal/ports"
)

// CronScheduler drives gateway runs from a cron expression, used when the
// job is kept resident instead of being re-invoked by an external cron.
type CronScheduler struct {
	spec    string
	cron    *cron.Cron
	entryID cron.EntryID
	logger  *slog.Logger
	running bool
}

var _ ports.Scheduler = (*CronScheduler)(nil)

// NewCronScheduler builds a scheduler for the given cron expression,
// evaluated in the provided timezone.
func NewCronScheduler(spec string, loc *time.Location, logger *slog.Logger) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}

	return &CronScheduler{
		spec:   spec,
		cron:   cron.New(cron.WithLocation(loc)),
		logger: logger,
	}
}

// Start registers the job and begins the cron loop.
func (c *CronScheduler) Start(ctx context.Context, job func(time.Time)) error {
	if job == nil || c.running {
		return nil
	}

	entryID, err := c.cron.AddFunc(c.spec, func() {
		job(time.Now())
	})
	if err != nil {
		return err
	}

	c.entryID = entryID
	c.cron.Start()
	c.running = true

	if c.logger != nil {
		c.logger.Info("schedule mode started",
			"spec", c.spec,
			"next_run", c.cron.Entry(c.entryID).Next,
		)
	}

	return nil
}

// Stop halts the cron loop and waits for an in-flight run to finish.
func (c *CronScheduler) Stop(ctx context.Context) error {
	if !c.running {
		return nil
	}
	c.running = false

	done := c.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		return ctx.Err()
	}

	return nil
}
