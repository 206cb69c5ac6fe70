package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	yes bool
}

func (c *RmCmd) Name() string      { return "rm" }
func (c *RmCmd) Aliases() []string { return []string{"delete"} }
func (c *RmCmd) Synopsis() string  { return "Delete a task" }
func (c *RmCmd) Usage() string     { return "taskmaster rm [--yes] <ref>" }
func (c *RmCmd) NeedsAuth() bool   { return true }

func (c *RmCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.BoolVarP(&c.yes, "yes", "y", false, "delete without asking")
}

func (c *RmCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	id, code, ok := loadAndResolve(ctx, a, args, errOut)
	if !ok {
		return code
	}

	a.AssumeYes(c.yes)
	defer a.AssumeYes(false)
	return finish(a, a.Tasks.DeleteTask(ctx, id), args[0], out, errOut)
}
