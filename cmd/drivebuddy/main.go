package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dmitrijs2005/drivebuddy/internal/client/cli"
	"github.com/dmitrijs2005/drivebuddy/internal/client/config"
	"github.com/dmitrijs2005/drivebuddy/internal/logging"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx := context.Background()

	app, err := cli.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		log.Error(ctx, "shutdown failed", "error", err)
		os.Exit(1)
	}
}
