// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"tasktrack/internal/service"
)

// FakeAuthority is an in-memory implementation of service.Service for testing.
type FakeAuthority struct {
	mu        sync.Mutex
	passwords map[string]string         // username -> password
	tokens    map[string]string         // token -> username
	tasks     map[string][]service.Task // username -> tasks
	nextID    int
	nextToken int
	calls     map[string]int

	// Error injection for testing. Non-nil values are returned as-is.
	SignupErr error
	LoginErr  error
	ListErr   error
	CreateErr error
	ToggleErr error

	// ToggleResult, when set, is returned by ToggleTask instead of the
	// negated stored value (the stored value is set to it as well).
	ToggleResult *bool
}

// NewFakeAuthority creates an empty FakeAuthority.
func NewFakeAuthority() *FakeAuthority {
	return &FakeAuthority{
		passwords: make(map[string]string),
		tokens:    make(map[string]string),
		tasks:     make(map[string][]service.Task),
		calls:     make(map[string]int),
	}
}

// Unreachable returns an error shaped like a transport failure.
func Unreachable(op string) error {
	return &service.RemoteError{Op: op, Err: fmt.Errorf("dial tcp 127.0.0.1:3000: connect: connection refused")}
}

// AddUser registers an account.
func (f *FakeAuthority) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.passwords[username] = password
}

// AddTask stores a task for username.
func (f *FakeAuthority) AddTask(username string, task service.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks[username] = append(f.tasks[username], task)
}

// TasksOf returns a copy of username's stored tasks.
func (f *FakeAuthority) TasksOf(username string) []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]service.Task(nil), f.tasks[username]...)
}

// IssueToken creates a valid token for username without a login call.
func (f *FakeAuthority) IssueToken(username string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.issueLocked(username)
}

func (f *FakeAuthority) issueLocked(username string) string {
	f.nextToken++
	token := fmt.Sprintf("token-%s-%d", username, f.nextToken)
	f.tokens[token] = username
	return token
}

// Calls returns how many times method was invoked.
func (f *FakeAuthority) Calls(method string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeAuthority) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeAuthority) user(op, token string) (string, error) {
	username, ok := f.tokens[token]
	if !ok {
		return "", &service.RemoteError{Op: op, Status: http.StatusUnauthorized, Message: "Unauthorized"}
	}
	return username, nil
}

// Signup implements service.Service.
func (f *FakeAuthority) Signup(ctx context.Context, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Signup"]++

	if f.SignupErr != nil {
		return f.SignupErr
	}
	if _, exists := f.passwords[username]; exists {
		return &service.RemoteError{Op: "signup", Status: http.StatusConflict, Message: "Username already exists"}
	}
	f.passwords[username] = password
	return nil
}

// Login implements service.Service.
func (f *FakeAuthority) Login(ctx context.Context, username, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Login"]++

	if f.LoginErr != nil {
		return "", f.LoginErr
	}
	if pw, ok := f.passwords[username]; !ok || pw != password {
		return "", &service.RemoteError{Op: "login", Status: http.StatusUnauthorized, Message: "Invalid credentials"}
	}
	return f.issueLocked(username), nil
}

// ListTasks implements service.Service.
func (f *FakeAuthority) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ListTasks"]++

	if f.ListErr != nil {
		return nil, f.ListErr
	}
	username, err := f.user("list tasks", token)
	if err != nil {
		return nil, err
	}
	return append([]service.Task{}, f.tasks[username]...), nil
}

// CreateTask implements service.Service.
func (f *FakeAuthority) CreateTask(ctx context.Context, token, text string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["CreateTask"]++

	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	username, err := f.user("create task", token)
	if err != nil {
		return service.Task{}, err
	}

	f.nextID++
	task := service.Task{ID: fmt.Sprintf("srv-%d", f.nextID), Text: text}
	f.tasks[username] = append(f.tasks[username], task)
	return task, nil
}

// ToggleTask implements service.Service.
func (f *FakeAuthority) ToggleTask(ctx context.Context, token, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["ToggleTask"]++

	if f.ToggleErr != nil {
		return false, f.ToggleErr
	}
	username, err := f.user("toggle task", token)
	if err != nil {
		return false, err
	}

	for i, t := range f.tasks[username] {
		if t.ID != id {
			continue
		}
		next := !t.Completed
		if f.ToggleResult != nil {
			next = *f.ToggleResult
		}
		f.tasks[username][i].Completed = next
		return next, nil
	}
	return false, &service.RemoteError{Op: "toggle task", Status: http.StatusNotFound, Message: "Task not found"}
}
