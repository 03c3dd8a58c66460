package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"linkpress/internal/app"
	"linkpress/internal/config"
	"linkpress/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("linkpress: %v", err)
	}
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	runErr := application.Run(ctx)
	if closeErr := application.Close(); closeErr != nil {
		logger.Error("store close failed", "error", closeErr)
	}

	if runErr != nil {
		logger.Error("application stopped", "error", runErr)
		os.Exit(1)
	}
}
