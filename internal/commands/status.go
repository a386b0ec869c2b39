package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/tokeninfo"
	"tasktrack/internal/tracker"
)

func init() {
	Register(&StatusCmd{now: time.Now})
}

// StatusCmd implements the status command. It makes no network calls.
type StatusCmd struct {
	now func() time.Time
}

// SetClock overrides the clock used for token expiry (for testing).
func (c *StatusCmd) SetClock(now func() time.Time) {
	c.now = now
}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return []string{"whoami"} }
func (c *StatusCmd) Synopsis() string   { return "Show session state" }
func (c *StatusCmd) Usage() string      { return "tasktrack status [common flags]" }
func (c *StatusCmd) NeedsTracker() bool { return true }
func (c *StatusCmd) NeedsAuth() bool    { return false }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, t *tracker.Tracker, args []string, out, errOut io.Writer) int {
	fmt.Fprintf(out, "server: %s\n", cfg.APIURL)
	fmt.Fprintf(out, "cache:  %s\n", cfg.Cache)
	fmt.Fprintf(out, "view:   %s\n", t.Session.View())

	sess, err := requireSession(t)
	if err != nil {
		fmt.Fprintln(out, "user:   (none)")
		return exitcode.Success
	}
	fmt.Fprintf(out, "user:   %s\n", sess.Username)

	info, err := tokeninfo.Parse(sess.Token)
	if err != nil {
		fmt.Fprintln(out, "token:  opaque")
		return exitcode.Success
	}
	if !info.IssuedAt.IsZero() {
		fmt.Fprintf(out, "issued: %s\n", info.IssuedAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintf(out, "token:  %s\n", c.describeExpiry(info))
	return exitcode.Success
}

func (c *StatusCmd) describeExpiry(info tokeninfo.Info) string {
	now := time.Now
	if c.now != nil {
		now = c.now
	}
	switch {
	case info.ExpiresAt.IsZero():
		return "no expiry"
	case info.Expired(now()):
		return "expired " + info.ExpiresAt.UTC().Format(time.RFC3339)
	default:
		return "expires " + info.ExpiresAt.UTC().Format(time.RFC3339)
	}
}
