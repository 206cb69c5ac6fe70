package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/output"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `taskmaster` (no args) and `taskmaster list`.
type ListCmd struct {
	format string
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string     { return "taskmaster list [--format text|json|yaml|html]" }
func (c *ListCmd) NeedsAuth() bool   { return true }

func (c *ListCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.format, "format", "f", string(output.FormatText), "output format: text, json, yaml or html")
}

func (c *ListCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	format, err := output.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	if err := a.Tasks.LoadTasks(ctx); err != nil {
		return exitFor(err)
	}

	if err := output.Write(out, format, a.Tasks.Model()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return exitcode.Success
}
