// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for remote store operations.
// All REST calls go through this interface.
// Managers never import the HTTP transport directly.
type Service interface {
	// Register creates an account and returns its session.
	Register(ctx context.Context, r Registration) (Session, error)

	// Login exchanges credentials for a session.
	Login(ctx context.Context, c Credentials) (Session, error)

	// ListTasks returns every task of the signed-in user in store order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its assigned ID and
	// creation time.
	CreateTask(ctx context.Context, t NewTask) (Task, error)

	// UpdateTask applies a partial update and returns the stored task.
	UpdateTask(ctx context.Context, id string, u TaskUpdate) (Task, error)

	// ToggleTask flips the completed flag and returns the stored task.
	ToggleTask(ctx context.Context, id string) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id string) error
}
