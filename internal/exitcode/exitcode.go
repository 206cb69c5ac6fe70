// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, validation, unknown task).
	UserError = 1

	// AuthError indicates a missing session or a rejected token.
	AuthError = 2

	// BackendError indicates a remote rejection or a network error.
	BackendError = 3
)
