package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ozaka001/shopfront/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	sessionPath := flag.String("session", "", "override session path (optional)")
	refreshSeconds := flag.Int("refresh", 0, "background refresh interval in seconds (optional, defaults to 30s)")
	logPath := flag.String("log", "", "write debug logging to this file (optional)")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{
		ConfigPath:  *configPath,
		SessionPath: *sessionPath,
		LogPath:     *logPath,
	}
	if refresh := *refreshSeconds; refresh > 0 {
		opts.RefreshEvery = refresh
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shopfront: %v\n", err)
		return 1
	}
	return 0
}
