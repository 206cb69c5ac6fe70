package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/output"
	"taskmaster/internal/tasks"
	"taskmaster/internal/ui"
	"taskmaster/internal/view"
)

// ShellPrompt is printed before each shell line.
const ShellPrompt = "taskmaster> "

const shellHelp = `commands:
  list                 show the tasks
  reload               fetch the tasks again
  add [title...]       add a task (asks for the fields when no title is given)
  toggle <ref>         flip completed
  edit <ref>           edit title and description
  rm <ref>             delete a task
  whoami               show the logged in user
  logout               log out and leave the shell
  help                 show this help
  exit                 leave the shell
`

// itemActions maps shell verbs to item action tags.
var itemActions = map[string]string{
	"toggle": view.Toggle.Tag(),
	"done":   view.Toggle.Tag(),
	"edit":   view.Edit.Tag(),
	"rm":     view.Delete.Tag(),
	"delete": view.Delete.Tag(),
}

func init() {
	Register(&ShellCmd{})
}

// ShellCmd runs an interactive session against one loaded task list.
type ShellCmd struct{}

func (c *ShellCmd) Name() string      { return "shell" }
func (c *ShellCmd) Aliases() []string { return nil }
func (c *ShellCmd) Synopsis() string  { return "Work with the task list interactively" }
func (c *ShellCmd) Usage() string     { return "taskmaster shell" }
func (c *ShellCmd) NeedsAuth() bool   { return true }

func (c *ShellCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ShellCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	lines, ok := a.Prompter.(ui.LineReader)
	if !ok {
		fmt.Fprintln(errOut, "error: shell needs an interactive terminal")
		return exitcode.UserError
	}

	if u, ok := a.Auth.User(); ok && !a.Config.Quiet {
		fmt.Fprintf(out, "logged in as %s; type help for commands\n", u.Username)
	}
	if err := a.Tasks.LoadTasks(ctx); err == nil {
		output.WriteText(out, a.Tasks.Model())
	}

	for {
		line, ok := lines.ReadLine(ctx, ShellPrompt)
		if !ok {
			fmt.Fprintln(out)
			return exitcode.Success
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if done := c.exec(ctx, a, fields[0], fields[1:], out, errOut); done {
			return exitcode.Success
		}
	}
}

// exec runs one shell line. It reports whether the shell should end.
func (c *ShellCmd) exec(ctx context.Context, a *app.App, verb string, args []string, out, errOut io.Writer) bool {
	show := func(err error) {
		if err == nil {
			output.WriteText(out, a.Tasks.Model())
		}
	}

	switch verb {
	case "exit", "quit":
		return true
	case "help", "?":
		fmt.Fprint(out, shellHelp)
	case "list", "ls":
		output.WriteText(out, a.Tasks.Model())
	case "reload":
		show(a.Tasks.LoadTasks(ctx))
	case "add":
		show(c.add(ctx, a, args))
	case "whoami":
		if u, ok := a.Auth.User(); ok {
			fmt.Fprintf(out, "%s <%s>\n", u.Username, u.Email)
		}
	case "logout":
		a.Auth.Logout()
		return true
	default:
		tag, ok := itemActions[verb]
		if !ok {
			fmt.Fprintf(errOut, "error: unknown command: %s (type help)\n", verb)
			return false
		}
		id, err := ResolveTaskRef(a.Tasks.Tasks(), args)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return false
		}
		err = a.Tasks.Dispatch(ctx, view.Event{Tag: tag, TaskID: id})
		switch {
		case errors.Is(err, tasks.ErrUnknownTask):
			fmt.Fprintf(errOut, "error: task not found: %s\n", args[0])
		case errors.Is(err, tasks.ErrCancelled):
			fmt.Fprintln(out, "cancelled")
		}
		show(err)
	}
	return false
}

// add creates a task from args, or opens the add form and asks for the
// fields when no title was given.
func (c *ShellCmd) add(ctx context.Context, a *app.App, args []string) error {
	if len(args) > 0 {
		return a.Tasks.AddTask(ctx, strings.Join(args, " "), "")
	}

	a.Tasks.ShowAddForm()
	title := a.Prompter.Input(ctx, "Title", "")
	if !title.OK {
		a.Tasks.HideAddForm()
		return tasks.ErrCancelled
	}
	desc := a.Prompter.Input(ctx, "Description", "")
	if !desc.OK {
		a.Tasks.HideAddForm()
		return tasks.ErrCancelled
	}
	return a.Tasks.AddTask(ctx, title.Text, desc.Text)
}
