package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/Oussama2008x/kuru-nexus-swap/internal/cli"
	"github.com/Oussama2008x/kuru-nexus-swap/internal/telemetry"
)

func main() {
	// .env is optional; real env vars win either way.
	_ = godotenv.Load()

	telemetry.Start()
	defer telemetry.Stop()

	// Ctrl-C / SIGTERM handling
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := cli.Execute(ctx); err != nil {
		stop()
		telemetry.Stop()
		os.Exit(1)
	}
}
