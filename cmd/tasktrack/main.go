// Package main is the entry point for the tasktrack CLI.
package main

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"tasktrack/internal/backend/restapi"
	"tasktrack/internal/cli"
	"tasktrack/internal/commands"
	"tasktrack/internal/config"
	"tasktrack/internal/service"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Run and exit with code
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	os.Exit(code)
}

// run dispatches args against the HTTP backend named in the config.
func run(ctx context.Context, args []string, out, errOut io.Writer) int {
	factory := func(ctx context.Context, cfg *config.Config) (service.Service, error) {
		return restapi.FromConfig(cfg)
	}
	return cli.NewDispatcher(commands.DefaultRegistry, factory).Run(ctx, args, out, errOut)
}
