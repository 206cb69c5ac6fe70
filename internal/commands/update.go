package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
)

func init() {
	Register(&UpdateCmd{})
}

// UpdateCmd implements the update command. Only the flags given are sent.
type UpdateCmd struct {
	fs          *pflag.FlagSet
	title       string
	description string
	completed   bool
}

func (c *UpdateCmd) Name() string      { return "update" }
func (c *UpdateCmd) Aliases() []string { return nil }
func (c *UpdateCmd) Synopsis() string  { return "Change fields of a task" }
func (c *UpdateCmd) Usage() string {
	return "taskmaster update [--title <text>] [--description <text>] [--completed[=false]] <ref>"
}
func (c *UpdateCmd) NeedsAuth() bool { return true }

func (c *UpdateCmd) RegisterFlags(fs *pflag.FlagSet) {
	c.fs = fs
	fs.StringVarP(&c.title, "title", "t", "", "new title")
	fs.StringVarP(&c.description, "description", "d", "", "new description")
	fs.BoolVar(&c.completed, "completed", false, "completion state")
}

func (c *UpdateCmd) changed(name string) bool {
	return c.fs != nil && c.fs.Changed(name)
}

func (c *UpdateCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	var u service.TaskUpdate
	if c.changed("title") {
		u.Title = &c.title
	}
	if c.changed("description") {
		u.Description = &c.description
	}
	if c.changed("completed") {
		u.Completed = &c.completed
	}
	if u.IsEmpty() {
		fmt.Fprintln(errOut, "error: nothing to update (use --title, --description or --completed)")
		return exitcode.UserError
	}

	id, code, ok := loadAndResolve(ctx, a, args, errOut)
	if !ok {
		return code
	}
	return finish(a, a.Tasks.UpdateTask(ctx, id, u), args[0], out, errOut)
}
