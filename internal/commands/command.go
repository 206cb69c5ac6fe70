// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"io"

	"github.com/spf13/pflag"

	"taskmaster/internal/app"
)

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsAuth returns true if the command requires a stored session.
	// The dispatcher restores it and refuses to run the command without one.
	NeedsAuth() bool

	// RegisterFlags registers command-specific flags. Registering resets
	// the command's flag fields to their defaults.
	RegisterFlags(fs *pflag.FlagSet)

	// Run executes the command.
	// a is the wired application context; a.Config carries the settings.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int
}
