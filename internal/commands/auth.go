package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
	"tasktrack/internal/session"
	"tasktrack/internal/tracker"
)

// Credential environment variables.
const (
	EnvUsername = "TASKTRACK_USERNAME"
	EnvPassword = "TASKTRACK_PASSWORD"
)

// NotLoggedInMessage is printed when a command needs a session.
const NotLoggedInMessage = "not logged in (run: tasktrack login)"

// credentials holds the shared -u/-p flags of login and signup.
type credentials struct {
	username string
	password string
}

// resolve fills missing values from a positional username and the
// environment. An empty password is only rejected when needPassword is set;
// signup leaves that check to its own validation.
func (c credentials) resolve(args []string, needPassword bool) (credentials, error) {
	if c.username == "" && len(args) > 0 {
		c.username = args[0]
	}
	if c.username == "" {
		c.username = os.Getenv(EnvUsername)
	}
	if c.password == "" {
		c.password = os.Getenv(EnvPassword)
	}
	if c.username == "" {
		return c, fmt.Errorf("username required (use -u or %s)", EnvUsername)
	}
	if needPassword && c.password == "" {
		return c, fmt.Errorf("password required (use -p or %s)", EnvPassword)
	}
	return c, nil
}

// requireSession returns the active session or session.ErrNotAuthenticated.
func requireSession(t *tracker.Tracker) (service.Session, error) {
	sess, ok := t.Session.Current()
	if !ok {
		return service.Session{}, session.ErrNotAuthenticated
	}
	return sess, nil
}

// reportAuthError prints err and maps it to an exit code.
func reportAuthError(errOut io.Writer, err error) int {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		fmt.Fprintf(errOut, "error: %s\n", verr.Message)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: %s\n", err)
	return exitcode.AuthError
}
