// Package session implements the session and navigation state machine.
package session

import (
	"context"
	"errors"

	"tasktrack/internal/cache"
	"tasktrack/internal/log"
	"tasktrack/internal/service"
)

// MinPasswordLength is the shortest password signup accepts.
const MinPasswordLength = 6

// Validation messages returned by Signup.
const (
	MsgPasswordMismatch = "Passwords do not match"
	MsgPasswordTooShort = "Password must be at least 6 characters long"
)

// ErrNotAuthenticated is returned by callers that require a session.
var ErrNotAuthenticated = errors.New("not logged in")

// Listener observes view transitions. username is empty outside ViewHome.
type Listener interface {
	ViewChanged(view View, username string)
}

// ListenerFunc adapts a function to Listener.
type ListenerFunc func(view View, username string)

func (f ListenerFunc) ViewChanged(view View, username string) { f(view, username) }

// TaskLoader is the part of the task store the controller drives.
type TaskLoader interface {
	Load(ctx context.Context)
	Reset()
}

// Controller owns the current session and view.
// It is not safe for concurrent use.
type Controller struct {
	authority service.Service
	cache     cache.Store
	tasks     TaskLoader
	listener  Listener

	session service.Session
	state   State
	view    View
}

// NewController creates a controller in the Unauthenticated state.
// Call Restore or Start to pick up a persisted session.
func NewController(authority service.Service, c cache.Store, listener Listener) *Controller {
	return &Controller{
		authority: authority,
		cache:     c,
		listener:  listener,
		state:     Unauthenticated,
		view:      ViewLogin,
	}
}

// SetTaskLoader attaches the task store loaded after authentication and
// cleared on logout.
func (c *Controller) SetTaskLoader(t TaskLoader) {
	c.tasks = t
}

// State returns the authentication state.
func (c *Controller) State() State { return c.state }

// View returns the current view.
func (c *Controller) View() View { return c.view }

// Current returns the active session, if any.
func (c *Controller) Current() (service.Session, bool) {
	if c.state != Authenticated {
		return service.Session{}, false
	}
	return c.session, true
}

// Restore picks up the persisted session without any network call.
// A record that cannot be decoded is removed; a record that cannot be read
// is kept. Either way the controller stays Unauthenticated; this never fails.
func (c *Controller) Restore() State {
	sess, err := cache.LoadSession(c.cache)
	switch {
	case err == nil:
		c.authenticate(sess)
	case errors.Is(err, cache.ErrNotFound):
		c.unauthenticate(ViewLogin)
	case errors.Is(err, cache.ErrCorrupt):
		log.Warn().Err(err).Msg("discarding unreadable user session")
		if err := cache.ClearSession(c.cache); err != nil {
			log.Error().Err(err).Msg("failed to clear session record")
		}
		c.unauthenticate(ViewLogin)
	default:
		// The record may be fine; a later start can still pick it up.
		log.Warn().Err(err).Msg("failed to read user session")
		c.unauthenticate(ViewLogin)
	}
	return c.state
}

// Start restores the persisted session and, when one exists, loads tasks.
func (c *Controller) Start(ctx context.Context) State {
	if c.Restore() == Authenticated && c.tasks != nil {
		c.tasks.Load(ctx)
	}
	return c.state
}

// Login authenticates with the authority. On failure the state is
// unchanged and the authority's error is returned.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	token, err := c.authority.Login(ctx, username, password)
	if err != nil {
		log.Info().Err(err).Str("username", username).Msg("login failed")
		return err
	}

	sess := service.Session{Username: username, Token: token}
	if err := cache.SaveSession(c.cache, sess); err != nil {
		log.Error().Err(err).Str("username", username).Msg("failed to persist session")
	}
	c.authenticate(sess)
	log.Info().Str("username", username).Msg("logged in")

	if c.tasks != nil {
		c.tasks.Load(ctx)
	}
	return nil
}

// Signup validates the passwords locally, creates the account and logs in
// with the same credentials. Validation failures are *service.ValidationError
// and make no network call.
func (c *Controller) Signup(ctx context.Context, username, password, confirmPassword string) error {
	if err := ValidateSignup(password, confirmPassword); err != nil {
		return err
	}

	if err := c.authority.Signup(ctx, username, password); err != nil {
		log.Info().Err(err).Str("username", username).Msg("signup failed")
		return err
	}
	log.Info().Str("username", username).Msg("account created")

	return c.Login(ctx, username, password)
}

// ValidateSignup checks the password pair. Mismatch is reported first.
func ValidateSignup(password, confirmPassword string) error {
	if password != confirmPassword {
		return &service.ValidationError{Message: MsgPasswordMismatch}
	}
	if len(password) < MinPasswordLength {
		return &service.ValidationError{Message: MsgPasswordTooShort}
	}
	return nil
}

// Logout forgets the session and the user's cached tasks. It cannot fail;
// cache errors are logged.
func (c *Controller) Logout() {
	if c.state == Authenticated {
		if err := cache.ClearTasks(c.cache, c.session.Username); err != nil {
			log.Error().Err(err).Str("username", c.session.Username).Msg("failed to clear task cache")
		}
		log.Info().Str("username", c.session.Username).Msg("logged out")
	}
	if err := cache.ClearSession(c.cache); err != nil {
		log.Error().Err(err).Msg("failed to clear session record")
	}
	if c.tasks != nil {
		c.tasks.Reset()
	}
	c.unauthenticate(ViewLogin)
}

// ShowSignup switches to the signup view. Ignored when authenticated.
func (c *Controller) ShowSignup() {
	if c.state == Unauthenticated {
		c.setView(ViewSignup)
	}
}

// ShowLogin switches to the login view. Ignored when authenticated.
func (c *Controller) ShowLogin() {
	if c.state == Unauthenticated {
		c.setView(ViewLogin)
	}
}

func (c *Controller) authenticate(sess service.Session) {
	c.session = sess
	c.state = Authenticated
	c.setView(ViewHome)
}

func (c *Controller) unauthenticate(view View) {
	c.session = service.Session{}
	c.state = Unauthenticated
	c.setView(view)
}

func (c *Controller) setView(v View) {
	c.view = v
	if c.listener == nil {
		return
	}
	username := ""
	if v == ViewHome {
		username = c.session.Username
	}
	c.listener.ViewChanged(v, username)
}
