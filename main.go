package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/xkilldash9x/sonarlens/cmd"
	"github.com/xkilldash9x/sonarlens/internal/observability"
)

func main() {
	// Cancel the root context on SIGINT/SIGTERM so in-flight page fetches
	// are abandoned and the command unwinds cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := cmd.Execute(ctx)
	observability.Sync()
	if err != nil {
		os.Exit(1)
	}
}
