package commands

import (
	"context"
	"io"
	"strings"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct {
	description string
}

func (c *AddCmd) Name() string      { return "add" }
func (c *AddCmd) Aliases() []string { return []string{"create"} }
func (c *AddCmd) Synopsis() string  { return "Create a task" }
func (c *AddCmd) Usage() string     { return "taskmaster add [--description <text>] <title...>" }
func (c *AddCmd) NeedsAuth() bool   { return true }

func (c *AddCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.description, "description", "d", "", "task description")
}

func (c *AddCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	// Join all args as title; the manager trims and validates it.
	title := strings.Join(args, " ")
	return exitFor(a.Tasks.AddTask(ctx, title, c.description))
}
