// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Gateway defines the interface for task backend operations.
// All task API calls go through this interface.
// The session controller never builds HTTP requests itself.
type Gateway interface {
	// Signup registers a new account.
	// Any 2xx response with a JSON body counts as success.
	Signup(ctx context.Context, username, password string) error

	// Login exchanges credentials for an access token.
	// Returns an error if the response carries no token.
	Login(ctx context.Context, username, password string) (string, error)

	// ListTasks returns the tasks visible to the token's owner.
	// Results are in API order (no client-side sorting).
	// An empty token is rejected before any request is sent.
	ListTasks(ctx context.Context, token string) ([]Task, error)

	// CreateTask creates a new task.
	// An empty title is rejected before any request is sent.
	// The created task echoed by the backend is discarded.
	CreateTask(ctx context.Context, token, title, description string) error
}
