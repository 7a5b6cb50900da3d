package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gachadex/catalogsync/internal/adapters/driving/cli"
)

// version is set via ldflags at build time.
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cli.SetVersion(version)
	if err := cli.Execute(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
