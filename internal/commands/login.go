package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/session"
	"tasktrack/internal/tracker"
)

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	creds credentials
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Log in to the task server" }
func (c *LoginCmd) Usage() string      { return "tasktrack login [common flags] [-u <user>] [-p <password>]" }
func (c *LoginCmd) NeedsTracker() bool { return true }
func (c *LoginCmd) NeedsAuth() bool    { return false }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.creds.username, "u", "", "")
	fs.StringVar(&c.creds.username, "username", "", "")
	fs.StringVar(&c.creds.password, "p", "", "")
	fs.StringVar(&c.creds.password, "password", "", "")
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if sess, err := requireSession(t); err == nil {
		if !cfg.Quiet {
			fmt.Fprintf(out, "already logged in as %s\n", sess.Username)
		}
		return exitcode.Success
	}

	creds, err := c.creds.resolve(args, true)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := t.Session.Login(ctx, creds.username, creds.password); err != nil {
		return reportAuthError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, session.WelcomeMessage(creds.username))
	}
	return exitcode.Success
}
