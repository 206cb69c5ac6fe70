// Package tasks owns the local task list and keeps it in step with the
// remote store.
package tasks

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/oauth2"

	"taskmaster/internal/service"
	"taskmaster/internal/ui"
	"taskmaster/internal/view"
)

var (
	// ErrUnknownTask is returned when an id is not in the local list.
	ErrUnknownTask = errors.New("task not in local list")

	// ErrCancelled is returned when the user declines a prompt.
	ErrCancelled = errors.New("cancelled")
)

// User-visible messages.
const (
	msgLoadFailed    = "Failed to load tasks"
	msgTitleRequired = "Task title is required"
	msgAddSuccess    = "Task added successfully!"
	msgAddFailed     = "Failed to add task"
	msgUpdateSuccess = "Task updated successfully!"
	msgUpdateFailed  = "Failed to update task"
	msgToggleFailed  = "Failed to toggle task"
	msgDeleteSuccess = "Task deleted successfully!"
	msgDeleteFailed  = "Failed to delete task"
	msgTitleEmpty    = "Task title cannot be empty"

	// ConfirmDelete is asked before a task is deleted.
	ConfirmDelete = "Are you sure you want to delete this task?"

	promptEditTitle       = "Edit task title"
	promptEditDescription = "Edit task description"
)

// State is the load state of the list.
type State int

const (
	Unloaded State = iota
	Loading
	Loaded
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	}
	return "unloaded"
}

// Deps are the collaborators of a Manager. Service and Tokens are required.
type Deps struct {
	Service service.Service

	// Tokens is read to decide whether a session is active.
	Tokens oauth2.TokenSource

	Notifier ui.Notifier
	Loading  *ui.Indicator
	Prompter ui.Prompter
	Logger   *slog.Logger

	// OnRender, if set, receives every rendered model.
	OnRender func(view.Model)
}

// Manager holds the authoritative local task list. The lock is never held
// across a remote call, so concurrent operations finish independently and
// the last response wins.
type Manager struct {
	svc      service.Service
	tokens   oauth2.TokenSource
	notify   ui.Notifier
	loading  *ui.Indicator
	prompt   ui.Prompter
	log      *slog.Logger
	onRender func(view.Model)

	mu       sync.Mutex
	tasks    []service.Task
	state    State
	formOpen bool
}

// New creates a Manager with an empty, unloaded list.
func New(d Deps) *Manager {
	m := &Manager{
		svc:      d.Service,
		tokens:   d.Tokens,
		notify:   d.Notifier,
		loading:  d.Loading,
		prompt:   d.Prompter,
		log:      d.Logger,
		onRender: d.OnRender,
	}
	if m.notify == nil {
		m.notify = ui.NewToast(0)
	}
	if m.loading == nil {
		m.loading = &ui.Indicator{}
	}
	if m.prompt == nil {
		m.prompt = &ui.StaticPrompter{}
	}
	if m.log == nil {
		m.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

func (m *Manager) authenticated() bool {
	if m.tokens == nil {
		return false
	}
	tok, err := m.tokens.Token()
	return err == nil && tok.AccessToken != ""
}

// LoadTasks replaces the local list with the store's. It does nothing while
// signed out. A failed load keeps the previous list.
func (m *Manager) LoadTasks(ctx context.Context) error {
	if !m.authenticated() {
		return nil
	}

	m.mu.Lock()
	prev := m.state
	m.state = Loading
	m.mu.Unlock()

	release := m.loading.Acquire()
	defer release()

	list, err := m.svc.ListTasks(ctx)
	if err != nil {
		m.mu.Lock()
		if m.state == Loading {
			m.state = prev
		}
		m.mu.Unlock()
		return m.fail("load tasks", err, msgLoadFailed)
	}

	m.mu.Lock()
	m.tasks = append([]service.Task(nil), list...)
	m.state = Loaded
	m.mu.Unlock()

	m.log.Debug("tasks loaded", "count", len(list))
	m.Render()
	return nil
}

// AddTask creates a task and puts it first in the local list. Both fields
// are trimmed; the title must not be empty. The add form is closed only on
// success.
func (m *Manager) AddTask(ctx context.Context, title, description string) error {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)
	if title == "" {
		m.notify.Notify(ui.KindError, msgTitleRequired)
		return service.Invalid(msgTitleRequired)
	}

	release := m.loading.Acquire()
	defer release()

	task, err := m.svc.CreateTask(ctx, service.NewTask{Title: title, Description: description})
	if err != nil {
		return m.fail("create task", err, msgAddFailed)
	}

	m.mu.Lock()
	m.tasks = append([]service.Task{task}, m.tasks...)
	m.formOpen = false
	m.mu.Unlock()

	m.Render()
	m.notify.Notify(ui.KindSuccess, msgAddSuccess)
	return nil
}

// UpdateTask sends a partial update and replaces the matching local entry
// with the result. When no local entry matches, the list is left as is even
// though the store was changed.
func (m *Manager) UpdateTask(ctx context.Context, id string, u service.TaskUpdate) error {
	release := m.loading.Acquire()
	defer release()

	task, err := m.svc.UpdateTask(ctx, id, u)
	if err != nil {
		return m.fail("update task", err, msgUpdateFailed)
	}

	if !m.replace(task) {
		m.log.Debug("updated task not in local list", "id", id)
	}
	m.Render()
	m.notify.Notify(ui.KindSuccess, msgUpdateSuccess)
	return nil
}

// ToggleTask flips a task's completion. Ids not in the local list are
// rejected before any request. The store's result replaces the entry.
func (m *Manager) ToggleTask(ctx context.Context, id string) error {
	if _, ok := m.Find(id); !ok {
		m.log.Debug("toggle of unknown task ignored", "id", id)
		return ErrUnknownTask
	}

	release := m.loading.Acquire()
	defer release()

	task, err := m.svc.ToggleTask(ctx, id)
	if err != nil {
		return m.fail("toggle task", err, msgToggleFailed)
	}

	m.replace(task)
	m.Render()
	return nil
}

// DeleteTask asks for confirmation, then deletes the task and filters it out
// of the local list. The order of the remaining entries is kept.
func (m *Manager) DeleteTask(ctx context.Context, id string) error {
	if !m.prompt.Confirm(ctx, ConfirmDelete) {
		return ErrCancelled
	}

	release := m.loading.Acquire()
	defer release()

	if err := m.svc.DeleteTask(ctx, id); err != nil {
		return m.fail("delete task", err, msgDeleteFailed)
	}

	m.mu.Lock()
	kept := make([]service.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	m.tasks = kept
	m.mu.Unlock()

	m.Render()
	m.notify.Notify(ui.KindSuccess, msgDeleteSuccess)
	return nil
}

// EditTask prompts for a new title and description, pre-filled with the
// current values, and applies them with UpdateTask. Cancelling either
// prompt sends nothing.
func (m *Manager) EditTask(ctx context.Context, id string) error {
	task, ok := m.Find(id)
	if !ok {
		return ErrUnknownTask
	}

	title := m.prompt.Input(ctx, promptEditTitle, task.Title)
	if !title.OK {
		return ErrCancelled
	}
	newTitle := strings.TrimSpace(title.Text)
	if newTitle == "" {
		m.notify.Notify(ui.KindError, msgTitleEmpty)
		return service.Invalid(msgTitleEmpty)
	}

	desc := m.prompt.Input(ctx, promptEditDescription, task.Description)
	if !desc.OK {
		return ErrCancelled
	}
	newDesc := strings.TrimSpace(desc.Text)

	return m.UpdateTask(ctx, id, service.TaskUpdate{Title: &newTitle, Description: &newDesc})
}

// Dispatch routes an item interaction to ToggleTask, EditTask or DeleteTask.
func (m *Manager) Dispatch(ctx context.Context, e view.Event) error {
	return view.Dispatch(ctx, m, e)
}

// Render projects the current list and hands the model to the render hook.
func (m *Manager) Render() view.Model {
	model := m.Model()
	if m.onRender != nil {
		m.onRender(model)
	}
	return model
}

// Model returns the current projection without rendering it.
func (m *Manager) Model() view.Model {
	m.mu.Lock()
	defer m.mu.Unlock()
	return view.Render(m.tasks, m.formOpen)
}

// Tasks returns a copy of the local list.
func (m *Manager) Tasks() []service.Task {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]service.Task(nil), m.tasks...)
}

// Find returns the first local task with id.
func (m *Manager) Find(id string) (service.Task, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, t := range m.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// State returns the load state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// ShowAddForm opens the add-task form.
func (m *Manager) ShowAddForm() {
	m.setForm(true)
}

// HideAddForm closes the add-task form.
func (m *Manager) HideAddForm() {
	m.setForm(false)
}

func (m *Manager) setForm(open bool) {
	m.mu.Lock()
	m.formOpen = open
	m.mu.Unlock()
	m.Render()
}

// replace swaps the first entry with task's id for task.
func (m *Manager) replace(task service.Task) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.tasks {
		if m.tasks[i].ID == task.ID {
			m.tasks[i] = task
			return true
		}
	}
	return false
}

func (m *Manager) fail(op string, err error, fallback string) error {
	m.log.Debug(op+" failed", "err", err)
	m.notify.Notify(ui.KindError, ui.FailureText(err, fallback))
	return err
}
