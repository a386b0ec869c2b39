package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/tracker"
)

func init() {
	Register(&ConfigCmd{})
}

// ConfigCmd implements `config init` and `config show`.
type ConfigCmd struct {
	force bool
}

func (c *ConfigCmd) Name() string       { return "config" }
func (c *ConfigCmd) Aliases() []string  { return nil }
func (c *ConfigCmd) Synopsis() string   { return "Write or print the settings file" }
func (c *ConfigCmd) Usage() string      { return "tasktrack config [common flags] [--force] init|show" }
func (c *ConfigCmd) NeedsTracker() bool { return false }
func (c *ConfigCmd) NeedsAuth() bool    { return false }

func (c *ConfigCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.force, "force", false, "")
}

func (c *ConfigCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintln(errOut, "error: expected one of: init, show")
		return exitcode.UserError
	}

	switch args[0] {
	case "init":
		if err := cfg.WriteFile(c.force); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		if !cfg.Quiet {
			fmt.Fprintln(out, cfg.ConfigPath())
		}
		return exitcode.Success
	case "show":
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.BackendError
		}
		fmt.Fprintf(out, "# %s\n", cfg.ConfigPath())
		out.Write(data)
		return exitcode.Success
	default:
		fmt.Fprintf(errOut, "error: unknown config action: %s\n", args[0])
		return exitcode.UserError
	}
}
