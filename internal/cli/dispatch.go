// Package cli parses the command line, prepares the session and dispatches
// to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasktrack/internal/commands"
	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/log"
	"tasktrack/internal/service"
	"tasktrack/internal/session"
	"tasktrack/internal/tracker"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service factory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args -> dispatch to "list" command with no args
	if len(args) == 0 {
		return d.dispatch(ctx, "list", nil, out, errOut)
	}

	cmdName := args[0]

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatch(ctx, cmdName, args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagErrorMessage(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Load config: defaults, then config.yaml, then TASKTRACK_* env
	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: config: %s\n", err)
		return exitcode.BackendError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug

	if !cmd.NeedsTracker() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	closeLog, err := setupLogging(cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: log file: %s\n", err)
		return exitcode.BackendError
	}
	defer closeLog()

	t, err := d.openTracker(ctx, cfg)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.BackendError
	}
	defer func() {
		if err := t.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close cache")
		}
	}()

	// Commands that need a session see the tasks loaded (cache, then server);
	// the rest only see the persisted session.
	if cmd.NeedsAuth() {
		if t.Start(ctx) != session.Authenticated {
			fmt.Fprintf(errOut, "error: %s\n", commands.NotLoggedInMessage)
			return exitcode.AuthError
		}
	} else {
		t.Restore()
	}

	return cmd.Run(ctx, cfg, t, positionalArgs, out, errOut)
}

func (d *Dispatcher) openTracker(ctx context.Context, cfg *config.Config) (*tracker.Tracker, error) {
	if d.factory == nil {
		return nil, errors.New("no backend configured")
	}
	svc, err := d.factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	store, err := tracker.OpenCache(cfg)
	if err != nil {
		return nil, fmt.Errorf("cache: %w", err)
	}
	return tracker.New(svc, store), nil
}

// setupLogging sends logs to stderr in debug mode and to the log file
// otherwise. The returned func restores the disabled logger.
func setupLogging(cfg *config.Config, errOut io.Writer) (func(), error) {
	if cfg.Debug {
		log.Setup(errOut, true)
		return log.Disable, nil
	}

	if err := cfg.EnsureDir(); err != nil {
		return nil, err
	}
	f, err := log.OpenFile(cfg.LogPath())
	if err != nil {
		return nil, err
	}
	log.Setup(f, false)
	log.SetLevel(cfg.LogLevel)
	return func() {
		log.Disable()
		f.Close()
	}, nil
}

// flagErrorMessage rewrites flag package errors into CLI messages.
func flagErrorMessage(err error) string {
	errStr := err.Error()

	// Missing flag value
	if strings.Contains(errStr, "needs a value") || strings.Contains(errStr, "flag needs an argument") {
		parts := strings.Split(errStr, ":")
		flagPart := strings.TrimSpace(parts[len(parts)-1])
		return "flag needs an argument: " + flagPart
	}

	// Unknown flag
	if strings.HasPrefix(errStr, "flag provided but not defined:") {
		return "unknown flag: " + strings.TrimPrefix(errStr, "flag provided but not defined: ")
	}

	return errStr
}
