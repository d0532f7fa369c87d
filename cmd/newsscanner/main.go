package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"CompanyNewsScanner/internal/app"
	"CompanyNewsScanner/internal/config"
	"CompanyNewsScanner/internal/logging"
)

func main() {
	watch := flag.Bool("watch", false, "keep running on the configured interval instead of a single pass")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level)

	application, err := app.New(cfg, logger)
	if err != nil {
		logger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	run := application.Run
	if *watch {
		run = application.Watch
	}

	if err := run(ctx); err != nil {
		logger.Error("application stopped", "error", err)
		os.Exit(1)
	}
}
