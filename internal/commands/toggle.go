package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/exitcode"
)

func init() {
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string      { return "toggle" }
func (c *ToggleCmd) Aliases() []string { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string  { return "Flip a task between open and completed" }
func (c *ToggleCmd) Usage() string     { return "taskmaster toggle <ref>" }
func (c *ToggleCmd) NeedsAuth() bool   { return true }

func (c *ToggleCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	id, code, ok := loadAndResolve(ctx, a, args, errOut)
	if !ok {
		return code
	}

	if err := a.Tasks.ToggleTask(ctx, id); err != nil {
		return finish(a, err, args[0], out, errOut)
	}

	if !a.Config.Quiet {
		if t, found := a.Tasks.Find(id); found && t.Completed {
			fmt.Fprintln(out, "completed")
		} else {
			fmt.Fprintln(out, "reopened")
		}
	}
	return exitcode.Success
}
