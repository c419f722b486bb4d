package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/meetlog/meetlog-capture/internal/app"
	"github.com/meetlog/meetlog-capture/internal/cli"
	"github.com/meetlog/meetlog-capture/internal/config"
	"github.com/meetlog/meetlog-capture/internal/logging"
	"github.com/meetlog/meetlog-capture/internal/progress"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logging.Init(cfg.LogLevel)
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		logging.Shutdown(ctx)
	}()

	sink := progress.NewChannelSink(64)
	deps := &cli.Dependencies{
		App:    app.New(cfg, sink),
		Config: cfg,
		Sink:   sink,
	}

	return cli.NewRootCmd(deps).Execute()
}
