// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"

	"taskmaster/internal/service"
)

// Rejection builds the error the REST client returns for a non-2xx response.
func Rejection(code int, message string) error {
	return &googleapi.Error{Code: code, Message: message}
}

// ErrNetwork is a transport failure.
var ErrNetwork = fmt.Errorf("%w: connection refused", service.ErrUnavailable)

type fakeUser struct {
	user     service.User
	password string
}

// FakeService is an in-memory implementation of service.Service for testing.
// Tasks are kept newest first, the way the store lists them.
type FakeService struct {
	mu     sync.Mutex
	users  map[string]fakeUser // email -> user
	tasks  []service.Task
	nextID int
	calls  []string

	// Tokens, if set, is read on every task call and the token recorded,
	// the way the REST transport reads it.
	Tokens     oauth2.TokenSource
	SeenTokens []string

	// Now stamps created tasks. Defaults to a fixed clock.
	Now func() time.Time

	// Error injection for testing
	RegisterErr   error
	LoginErr      error
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	ToggleTaskErr error
	DeleteTaskErr error

	// BeforeReturn, if set, runs after an operation has been applied and
	// before it returns. Tests use it to interleave operations.
	BeforeReturn func(op string)
}

// NewFakeService creates a new empty FakeService.
func NewFakeService() *FakeService {
	base := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	n := 0
	return &FakeService{
		users: make(map[string]fakeUser),
		Now: func() time.Time {
			n++
			return base.Add(time.Duration(n) * time.Minute)
		},
	}
}

// AddUser adds an account that can log in.
func (f *FakeService) AddUser(username, email, password string) service.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := service.User{ID: "user-" + username, Username: username, Email: email}
	f.users[email] = fakeUser{user: u, password: password}
	return u
}

// AddTask adds a task behind the client's back. The new task is listed first.
func (f *FakeService) AddTask(id, title string, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{ID: id, Title: title, Completed: completed, CreatedAt: f.Now()}
	f.tasks = append([]service.Task{t}, f.tasks...)
	return t
}

// Task returns the stored task with id.
func (f *FakeService) Task(id string) (service.Task, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.indexLocked(id)
	if i < 0 {
		return service.Task{}, false
	}
	return f.tasks[i], true
}

// Calls returns the operations invoked so far, e.g. "ToggleTask t1".
func (f *FakeService) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// CallCount returns how many times op was invoked.
func (f *FakeService) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == op || strings.HasPrefix(c, op+" ") {
			n++
		}
	}
	return n
}

func (f *FakeService) record(call string, withToken bool) {
	if withToken && f.Tokens != nil {
		tok := ""
		if t, err := f.Tokens.Token(); err == nil {
			tok = t.AccessToken
		}
		f.SeenTokens = append(f.SeenTokens, tok)
	}
	f.calls = append(f.calls, call)
}

func (f *FakeService) done(op string) {
	if f.BeforeReturn != nil {
		f.BeforeReturn(op)
	}
}

func (f *FakeService) indexLocked(id string) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Register implements service.Service.
func (f *FakeService) Register(ctx context.Context, r service.Registration) (service.Session, error) {
	f.mu.Lock()
	f.record("Register "+r.Email, false)
	if f.RegisterErr != nil {
		f.mu.Unlock()
		return service.Session{}, f.RegisterErr
	}
	if _, exists := f.users[r.Email]; exists {
		f.mu.Unlock()
		return service.Session{}, Rejection(http.StatusBadRequest, "User already exists")
	}
	u := service.User{ID: "user-" + r.Username, Username: r.Username, Email: r.Email}
	f.users[r.Email] = fakeUser{user: u, password: r.Password}
	f.mu.Unlock()

	return service.Session{Token: "token-" + u.ID, User: u}, nil
}

// Login implements service.Service.
func (f *FakeService) Login(ctx context.Context, c service.Credentials) (service.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login "+c.Email, false)
	if f.LoginErr != nil {
		return service.Session{}, f.LoginErr
	}
	u, ok := f.users[c.Email]
	if !ok || u.password != c.Password {
		return service.Session{}, Rejection(http.StatusUnauthorized, "Invalid credentials")
	}
	return service.Session{Token: "token-" + u.user.ID, User: u.user}, nil
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.record("ListTasks", true)
	if f.ListTasksErr != nil {
		f.mu.Unlock()
		return nil, f.ListTasksErr
	}
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	f.mu.Unlock()

	f.done("ListTasks")
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.NewTask) (service.Task, error) {
	f.mu.Lock()
	f.record("CreateTask "+in.Title, true)
	if f.CreateTaskErr != nil {
		f.mu.Unlock()
		return service.Task{}, f.CreateTaskErr
	}
	f.nextID++
	t := service.Task{
		ID:          fmt.Sprintf("task-%d", f.nextID),
		Title:       in.Title,
		Description: in.Description,
		CreatedAt:   f.Now(),
	}
	f.tasks = append([]service.Task{t}, f.tasks...)
	f.mu.Unlock()

	f.done("CreateTask")
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id string, u service.TaskUpdate) (service.Task, error) {
	f.mu.Lock()
	f.record("UpdateTask "+id, true)
	if f.UpdateTaskErr != nil {
		f.mu.Unlock()
		return service.Task{}, f.UpdateTaskErr
	}
	i := f.indexLocked(id)
	if i < 0 {
		f.mu.Unlock()
		return service.Task{}, Rejection(http.StatusNotFound, "Task not found")
	}
	if u.Title != nil {
		f.tasks[i].Title = *u.Title
	}
	if u.Description != nil {
		f.tasks[i].Description = *u.Description
	}
	if u.Completed != nil {
		f.tasks[i].Completed = *u.Completed
	}
	t := f.tasks[i]
	f.mu.Unlock()

	f.done("UpdateTask")
	return t, nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id string) (service.Task, error) {
	f.mu.Lock()
	f.record("ToggleTask "+id, true)
	if f.ToggleTaskErr != nil {
		f.mu.Unlock()
		return service.Task{}, f.ToggleTaskErr
	}
	i := f.indexLocked(id)
	if i < 0 {
		f.mu.Unlock()
		return service.Task{}, Rejection(http.StatusNotFound, "Task not found")
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	t := f.tasks[i]
	f.mu.Unlock()

	f.done("ToggleTask")
	return t, nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	f.mu.Lock()
	f.record("DeleteTask "+id, true)
	if f.DeleteTaskErr != nil {
		f.mu.Unlock()
		return f.DeleteTaskErr
	}
	i := f.indexLocked(id)
	if i < 0 {
		f.mu.Unlock()
		return Rejection(http.StatusNotFound, "Task not found")
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	f.mu.Unlock()

	f.done("DeleteTask")
	return nil
}
