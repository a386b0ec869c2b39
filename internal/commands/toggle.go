package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
	"tasktrack/internal/tracker"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct {
	id string
}

// SetID selects the task by id (for testing).
func (c *ToggleCmd) SetID(id string) {
	c.id = id
}

func (c *ToggleCmd) Name() string       { return "toggle" }
func (c *ToggleCmd) Aliases() []string  { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string   { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string      { return "tasktrack toggle [common flags] <n> | --id <id>" }
func (c *ToggleCmd) NeedsTracker() bool { return true }
func (c *ToggleCmd) NeedsAuth() bool    { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.id, "id", "", "")
}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	list := t.Tasks.Tasks()

	var target service.Task
	num := 0
	if c.id != "" {
		if len(args) > 0 {
			fmt.Fprintln(errOut, "error: cannot use both --id and a task number")
			return exitcode.UserError
		}
		for i, task := range list {
			if task.ID == c.id {
				target, num = task, i+1
				break
			}
		}
		if num == 0 {
			fmt.Fprintf(errOut, "error: task not found: %s\n", c.id)
			return exitcode.UserError
		}
	} else {
		n, err := ParseTaskRef(args)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if target, err = taskByNumber(list, n); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		num = n
	}

	task, synced, ok := t.Tasks.Toggle(ctx, target.ID)
	if !ok {
		fmt.Fprintf(errOut, "error: task not found: %s\n", target.ID)
		return exitcode.UserError
	}

	if !synced {
		fmt.Fprintln(errOut, "warning: server unavailable, change saved locally")
	}
	if !cfg.Quiet {
		output.FormatTask(out, num, task)
	}
	return exitcode.Success
}
