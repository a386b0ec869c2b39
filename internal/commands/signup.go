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
	Register(&SignupCmd{})
}

// SignupCmd implements the signup command.
type SignupCmd struct {
	creds   credentials
	confirm string
}

func (c *SignupCmd) Name() string       { return "signup" }
func (c *SignupCmd) Aliases() []string  { return []string{"register"} }
func (c *SignupCmd) Synopsis() string   { return "Create an account and log in" }
func (c *SignupCmd) NeedsTracker() bool { return true }
func (c *SignupCmd) NeedsAuth() bool    { return false }

func (c *SignupCmd) Usage() string {
	return "tasktrack signup [common flags] [-u <user>] [-p <password>] --confirm <password>"
}

func (c *SignupCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.creds.username, "u", "", "")
	fs.StringVar(&c.creds.username, "username", "", "")
	fs.StringVar(&c.creds.password, "p", "", "")
	fs.StringVar(&c.creds.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

func (c *SignupCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	if sess, err := requireSession(t); err == nil {
		fmt.Fprintf(errOut, "error: logged in as %s (run: tasktrack logout)\n", sess.Username)
		return exitcode.UserError
	}
	t.Session.ShowSignup()

	creds, err := c.creds.resolve(args, false)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := t.Session.Signup(ctx, creds.username, creds.password, c.confirm); err != nil {
		return reportAuthError(errOut, err)
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, session.WelcomeMessage(creds.username))
	}
	return exitcode.Success
}
