// Package service defines the backend-agnostic interface for task operations.
package service

import "encoding/json"

// Task represents a single task item as returned by the backend.
type Task struct {
	ID          json.RawMessage `json:"id,omitempty"` // opaque, server-assigned
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Completed   bool            `json:"completed"`
}

// NewTask is the request body for task creation.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}
