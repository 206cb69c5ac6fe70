// Package service defines the backend-agnostic interface for task operations.
package service

import "time"

// Task represents a single task item.
// ID is assigned by the remote store and never changes afterwards.
type Task struct {
	ID          string    `json:"_id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool      `json:"completed" yaml:"completed"`
	CreatedAt   time.Time `json:"createdAt" yaml:"createdAt"`
}

// User is the identity returned alongside a session token.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Session is an authenticated session: an opaque bearer token plus the user
// it belongs to. Token and User are always set and cleared together.
type Session struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Credentials is the login request body.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request body.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// NewTask is the create request body.
type NewTask struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// TaskUpdate is a partial update. Nil fields are left untouched by the store.
type TaskUpdate struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Completed   *bool   `json:"completed,omitempty"`
}

// IsEmpty reports whether the update carries no fields.
func (u TaskUpdate) IsEmpty() bool {
	return u.Title == nil && u.Description == nil && u.Completed == nil
}
