// Package exitcode defines exit codes for the CLI.
package exitcode

// Exit codes returned by every command.
const (
	// Success indicates successful completion, including offline fallbacks.
	Success = 0

	// UserError indicates a user error (bad args, not found, signup validation).
	UserError = 1

	// AuthError indicates a missing session or a rejected login/signup.
	AuthError = 2

	// BackendError indicates a config, cache or local I/O failure.
	BackendError = 3
)
