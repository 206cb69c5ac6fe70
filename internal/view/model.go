// Package view projects the local task list into a render model and maps
// item actions back to commands.
package view

import (
	"time"

	"taskmaster/internal/service"
)

// DateLayout formats the creation date shown on each item.
const DateLayout = "2006-01-02"

// Model is everything a UI adapter needs to draw the task view.
type Model struct {
	// EmptyVisible shows the empty-state placeholder.
	EmptyVisible bool `json:"emptyVisible" yaml:"emptyVisible"`

	// ListVisible shows the list container.
	ListVisible bool `json:"listVisible" yaml:"listVisible"`

	// FormVisible shows the add-task form.
	FormVisible bool `json:"formVisible" yaml:"formVisible"`

	// Items holds one entry per task in local order.
	Items []Item `json:"items" yaml:"items"`
}

// Item is the view entry for a single task. Text fields are raw;
// adapters escape them for their target markup.
type Item struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	Completed   bool   `json:"completed" yaml:"completed"`
	Created     string `json:"created" yaml:"created"`
	Class       string `json:"class" yaml:"class"`
}

// Render builds a fresh Model from tasks. Nothing from a previous render
// is reused.
func Render(tasks []service.Task, formOpen bool) Model {
	m := Model{FormVisible: formOpen}
	if len(tasks) == 0 {
		m.EmptyVisible = true
		return m
	}

	m.ListVisible = true
	m.Items = make([]Item, 0, len(tasks))
	for _, t := range tasks {
		m.Items = append(m.Items, newItem(t))
	}
	return m
}

func newItem(t service.Task) Item {
	class := "task-item"
	if t.Completed {
		class += " completed"
	}
	return Item{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
		Created:     formatDate(t.CreatedAt),
		Class:       class,
	}
}

func formatDate(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Local().Format(DateLayout)
}
