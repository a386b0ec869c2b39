package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/tracker"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "tasktrack add [common flags] <text...>" }
func (c *AddCmd) NeedsTracker() bool { return true }
func (c *AddCmd) NeedsAuth() bool    { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		fmt.Fprintln(errOut, "error: task text required")
		return exitcode.UserError
	}

	task, synced, ok := t.Tasks.Add(ctx, text)
	if !ok {
		fmt.Fprintf(errOut, "error: %s\n", NotLoggedInMessage)
		return exitcode.AuthError
	}

	if !synced {
		fmt.Fprintln(errOut, "warning: server unavailable, task saved locally")
	}
	if !cfg.Quiet {
		output.FormatTask(out, len(t.Tasks.Tasks()), task)
	}
	return exitcode.Success
}
