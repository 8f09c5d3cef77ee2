package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/neilberkman/espressolog/internal/interface/cli"
)

// Version information (injected via ldflags at release time)
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	// Interrupts cancel in-flight saves instead of killing mid-write
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cli.SetVersion(Version, Commit, Date)
	code := cli.Execute(ctx)
	stop()
	os.Exit(code)
}
