package view

import (
	"context"
	"fmt"
)

// Action is a command available on every task item.
type Action int

const (
	Toggle Action = iota + 1
	Edit
	Delete
)

// Tag returns the action tag carried by the item sub-element.
func (a Action) Tag() string {
	switch a {
	case Toggle:
		return "toggle"
	case Edit:
		return "edit"
	case Delete:
		return "delete"
	}
	return ""
}

func (a Action) String() string { return a.Tag() }

// ParseAction maps an action tag to an Action. ok is false for unknown tags.
func ParseAction(tag string) (Action, bool) {
	switch tag {
	case "toggle":
		return Toggle, true
	case "edit":
		return Edit, true
	case "delete":
		return Delete, true
	}
	return 0, false
}

// Event is an interaction on the list container: the action tag of the
// element that was hit and the ID of the task item it belongs to.
// Either may be empty when the hit was outside an action or an item.
type Event struct {
	Tag    string
	TaskID string
}

// Command is a resolved item action.
type Command struct {
	Action Action
	TaskID string
}

// Resolve turns an event into a command. ok is false when the event has no
// action tag, no task item, or an unknown tag.
func (e Event) Resolve() (Command, bool) {
	if e.Tag == "" || e.TaskID == "" {
		return Command{}, false
	}
	a, ok := ParseAction(e.Tag)
	if !ok {
		return Command{}, false
	}
	return Command{Action: a, TaskID: e.TaskID}, true
}

// Handler executes item commands.
type Handler interface {
	ToggleTask(ctx context.Context, id string) error
	EditTask(ctx context.Context, id string) error
	DeleteTask(ctx context.Context, id string) error
}

// Dispatch routes an event to h. Events that do not resolve are ignored.
func Dispatch(ctx context.Context, h Handler, e Event) error {
	cmd, ok := e.Resolve()
	if !ok {
		return nil
	}
	switch cmd.Action {
	case Toggle:
		return h.ToggleTask(ctx, cmd.TaskID)
	case Edit:
		return h.EditTask(ctx, cmd.TaskID)
	case Delete:
		return h.DeleteTask(ctx, cmd.TaskID)
	}
	return fmt.Errorf("unhandled action: %v", cmd.Action)
}
