package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
)

func init() {
	Register(&EditCmd{})
}

// EditCmd implements the edit command. The new title and description are
// prompted for, pre-filled with the current values.
type EditCmd struct{}

func (c *EditCmd) Name() string      { return "edit" }
func (c *EditCmd) Aliases() []string { return nil }
func (c *EditCmd) Synopsis() string  { return "Edit a task interactively" }
func (c *EditCmd) Usage() string     { return "taskmaster edit <ref>" }
func (c *EditCmd) NeedsAuth() bool   { return true }

func (c *EditCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *EditCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	id, code, ok := loadAndResolve(ctx, a, args, errOut)
	if !ok {
		return code
	}
	return finish(a, a.Tasks.EditTask(ctx, id), args[0], out, errOut)
}
