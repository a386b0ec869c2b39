package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/tracker"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasktrack` (no args) and `tasktrack list`.
// The dispatcher has already loaded the tasks (cache, then server).
type ListCmd struct {
	html bool
	ids  bool
}

// SetHTML selects HTML output (for testing).
func (c *ListCmd) SetHTML(html bool) {
	c.html = html
}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List tasks" }
func (c *ListCmd) Usage() string      { return "tasktrack list [common flags] [--html | --ids]" }
func (c *ListCmd) NeedsTracker() bool { return true }
func (c *ListCmd) NeedsAuth() bool    { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.html, "html", false, "")
	fs.BoolVar(&c.ids, "ids", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.html && c.ids {
		fmt.Fprintln(errOut, "error: cannot use both --html and --ids")
		return exitcode.UserError
	}

	list := t.Tasks.Tasks()

	switch {
	case c.html:
		if err := output.RenderHTML(out, list); err != nil {
			fmt.Fprintf(errOut, "error: render: %v\n", err)
			return exitcode.BackendError
		}
	case c.ids:
		for i, task := range list {
			output.FormatTaskID(out, i+1, task)
		}
	default:
		output.FormatTasks(out, list, cfg.Quiet)
	}
	return exitcode.Success
}
