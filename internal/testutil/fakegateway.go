// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"taskclient/internal/service"
)

// FakeGateway is an in-memory implementation of service.Gateway for testing.
type FakeGateway struct {
	mu    sync.Mutex
	users map[string]string // username -> password
	tasks []service.Task

	// Error injection for testing
	SignupErr     error
	LoginErr      error
	ListTasksErr  error
	CreateTaskErr error

	// OmitToken makes Login succeed at the transport level but return no token.
	OmitToken bool

	// Hooks run before the operation touches state. Tests use them to
	// hold a call in flight.
	BeforeLogin      func(username string)
	BeforeListTasks  func(token string)
	BeforeCreateTask func(title string)

	calls map[string]int
}

// NewFakeGateway creates an empty FakeGateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		users: make(map[string]string),
		calls: make(map[string]int),
	}
}

// TokenFor returns the token Login issues for username.
func TokenFor(username string) string {
	return "token-" + username
}

// AddUser registers an account directly.
func (f *FakeGateway) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// AddTask appends a task as if the backend already stored it.
func (f *FakeGateway) AddTask(title, description string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{Title: title, Description: description})
}

// Tasks returns the stored tasks.
func (f *FakeGateway) Tasks() []service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result
}

// Calls returns how many requests an operation sent ("signup", "login", "list", "create").
// Calls rejected before dispatch are not counted.
func (f *FakeGateway) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// Signup implements service.Gateway.
func (f *FakeGateway) Signup(ctx context.Context, username, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["signup"]++

	if f.SignupErr != nil {
		return fmt.Errorf("%w: %w", service.ErrSignupFailed, f.SignupErr)
	}
	if _, exists := f.users[username]; exists {
		return fmt.Errorf("%w: username already registered", service.ErrSignupFailed)
	}
	f.users[username] = password
	return nil
}

// Login implements service.Gateway.
func (f *FakeGateway) Login(ctx context.Context, username, password string) (string, error) {
	if f.BeforeLogin != nil {
		f.BeforeLogin(username)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["login"]++

	if f.LoginErr != nil {
		return "", fmt.Errorf("%w: %w", service.ErrLoginFailed, f.LoginErr)
	}
	if pw, ok := f.users[username]; !ok || pw != password {
		return "", fmt.Errorf("%w: incorrect username or password", service.ErrLoginFailed)
	}
	if f.OmitToken {
		return "", fmt.Errorf("%w: response missing access_token", service.ErrLoginFailed)
	}
	return TokenFor(username), nil
}

// ListTasks implements service.Gateway.
func (f *FakeGateway) ListTasks(ctx context.Context, token string) ([]service.Task, error) {
	if token == "" {
		return nil, fmt.Errorf("%w: %w", service.ErrTaskFetchFailed, service.ErrNotLoggedIn)
	}
	if f.BeforeListTasks != nil {
		f.BeforeListTasks(token)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["list"]++

	if f.ListTasksErr != nil {
		return nil, fmt.Errorf("%w: %w", service.ErrTaskFetchFailed, f.ListTasksErr)
	}
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Gateway.
func (f *FakeGateway) CreateTask(ctx context.Context, token, title, description string) error {
	if title == "" {
		return service.ErrValidation
	}
	if token == "" {
		return fmt.Errorf("%w: %w", service.ErrTaskCreateFailed, service.ErrNotLoggedIn)
	}
	if f.BeforeCreateTask != nil {
		f.BeforeCreateTask(title)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["create"]++

	if f.CreateTaskErr != nil {
		return fmt.Errorf("%w: %w", service.ErrTaskCreateFailed, f.CreateTaskErr)
	}
	f.tasks = append(f.tasks, service.Task{Title: title, Description: description})
	return nil
}
