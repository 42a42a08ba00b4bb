// Package main provides the entry point for netspeedbar.
// netspeedbar prints a network throughput indicator for status bars, one line
// per frame, with an icon that animates faster as traffic grows.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shini4i/netspeedbar/internal/logging"
)

func main() {
	// Initialize structured logging
	logging.SetupFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("netspeedbar failed", "error", err)
		stop()
		os.Exit(1)
	}
}
