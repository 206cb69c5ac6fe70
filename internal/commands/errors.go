package commands

import (
	"errors"
	"fmt"
	"io"

	"taskmaster/internal/app"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
	"taskmaster/internal/tasks"
)

// exitFor maps an operation error to an exit code. The managers have
// already shown the user-visible message.
func exitFor(err error) int {
	switch {
	case err == nil, errors.Is(err, tasks.ErrCancelled):
		return exitcode.Success
	case errors.Is(err, service.ErrValidation), errors.Is(err, tasks.ErrUnknownTask):
		return exitcode.UserError
	case errors.Is(err, service.ErrNoSession), service.IsUnauthorized(err):
		return exitcode.AuthError
	}
	return exitcode.BackendError
}

// finish reports the outcome of a task operation on ref.
func finish(a *app.App, err error, ref string, out, errOut io.Writer) int {
	switch {
	case errors.Is(err, tasks.ErrUnknownTask):
		fmt.Fprintf(errOut, "error: task not found: %s\n", ref)
	case errors.Is(err, tasks.ErrCancelled):
		if !a.Config.Quiet {
			fmt.Fprintln(out, "cancelled")
		}
	}
	return exitFor(err)
}
