package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ClipSync/internal/cli/bootstrap"
	"ClipSync/internal/cli/commands"
	"ClipSync/internal/config"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func main() {
	// Load unified config (env + flags)
	cfg := config.NewConfig()

	if cfg.Version {
		printVersion()
		return
	}

	logger := bootstrap.NewLogger(cfg.Verbose)
	commands.SetLogger(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	// dispatcher
	exitCode := commands.Dispatch(ctx, cfg, flag.Args())
	cancel()
	_ = logger.Sync()
	if exitCode == 0 {
		return
	}
	os.Exit(exitCode)
}

func printVersion() {
	fmt.Printf("ClipSync CLI\nVersion: %s\nBuild date: %s\n", version, buildDate)
}
