package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"linkpress/internal/config"
	"linkpress/internal/infrastructure/feed"
	"linkpress/internal/infrastructure/scheduler"
	"linkpress/internal/infrastructure/storage"
	"linkpress/internal/infrastructure/wordpress"
	"linkpress/internal/logging"
	"linkpress/internal/ports"
	"linkpress/internal/usecase"
)

const stopTimeout = 30 * time.Second

// Application wires config to the gateway and lifecycle orchestration.
type Application struct {
	cfg     config.Config
	logger  *slog.Logger
	gateway *usecase.Gateway
	verify  func(context.Context) error
	store   *storage.SQLiteStore
}

// New builds a runnable application instance. In dry-run mode nothing is
// persisted and no post is created: posts render into the log and the
// published-item record lives in memory.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	source := feed.NewSource(
		cfg.Feed.URL,
		cfg.Feed.RecencyWindow(),
		nil,
		baseLogger.With("component", "feed"),
	)

	app := &Application{cfg: cfg, logger: baseLogger}

	var (
		store     ports.PublishedStore
		publisher ports.PostPublisher
	)
	if cfg.DryRun {
		store = storage.NewMemory()
		publisher = wordpress.NewPreview(cfg.WordPress.TagPrefix, baseLogger.With("component", "preview"))
	} else {
		sqliteStore, err := storage.Open(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("open published-item store: %w", err)
		}
		app.store = sqliteStore
		store = sqliteStore

		client := wordpress.NewClient(
			cfg.WordPress.URL,
			cfg.WordPress.Username,
			cfg.WordPress.AppPassword,
			cfg.WordPress.PostStatus,
			cfg.WordPress.TagPrefix,
			nil,
		)
		app.verify = client.VerifyAuth
		publisher = client
	}

	app.gateway = usecase.NewGateway(usecase.GatewayDeps{
		Source:    source,
		Store:     store,
		Publisher: publisher,
		Logger:    baseLogger.With("component", "gateway"),
	})

	return app, nil
}

// Run verifies credentials and then executes either a single reconciliation
// run (the default) or, when a cron expression is configured, keeps the
// process resident and runs on that schedule until ctx is cancelled.
func (a *Application) Run(ctx context.Context) error {
	if a.verify != nil {
		if err := a.verify(ctx); err != nil {
			return fmt.Errorf("verify wordpress auth: %w", err)
		}
	}

	if spec := a.cfg.Scheduler.CronExpression; spec != "" {
		return a.runScheduled(ctx, spec)
	}

	_, err := a.gateway.Run(ctx)
	return err
}

func (a *Application) runScheduled(ctx context.Context, spec string) error {
	driver := scheduler.NewCronScheduler(
		spec,
		a.cfg.Scheduler.Location(),
		a.logger.With("component", "scheduler"),
	)
	sched := usecase.NewScheduler(driver, a.gateway, a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()

	stopCtx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	return sched.Stop(stopCtx)
}

// Close releases the store handle.
func (a *Application) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}
