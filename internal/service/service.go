package service

import "context"

// Service is the remote authority that owns accounts and tasks.
// Every failure is returned as a *RemoteError.
// Commands and the sync store never talk HTTP directly.
type Service interface {
	// Signup creates an account. The success body is ignored.
	Signup(ctx context.Context, username, password string) error

	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, username, password string) (string, error)

	// ListTasks returns the full task list of the token's owner.
	ListTasks(ctx context.Context, token string) ([]Task, error)

	// CreateTask creates a task and returns it as stored by the authority.
	CreateTask(ctx context.Context, token, text string) (Task, error)

	// ToggleTask flips a task's completion and returns the authority's new value.
	ToggleTask(ctx context.Context, token, id string) (bool, error)
}
