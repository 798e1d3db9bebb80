package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"newsroom/internal/app"
	"newsroom/internal/config"
	"newsroom/internal/logging"
)

const usage = `usage: newsroom <command>

commands:
  run       execute one content-generation pipeline pass
  watch     run the pipeline on the configured interval until stopped
  dispatch  send the newsletter for recent posts
  serve     run the public HTTP API
  migrate   apply database schema migrations
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "configuration error:", err)
		os.Exit(1)
	}
	logger := logging.New(cfg.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("startup failed", "error", err)
		os.Exit(1)
	}
	defer application.Close()

	switch command {
	case "run":
		err = application.RunPipeline(ctx)
	case "watch":
		err = application.RunScheduled(ctx)
	case "dispatch":
		err = application.Dispatch(ctx)
	case "serve":
		err = application.Serve(ctx)
	case "migrate":
		err = application.Migrate()
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		logger.Error("command failed", "command", command, "error", err)
		os.Exit(1)
	}
}
