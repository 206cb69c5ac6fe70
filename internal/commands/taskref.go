package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"taskmaster/internal/app"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
)

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ResolveTaskRef turns the first argument into a task id.
//
// Parsing rules:
// 1. If the arg is all digits → 1-based position in list
// 2. Otherwise → the arg is taken as a task id, as is
//
// A position outside list is an error. An id is not checked against list;
// operations that require a local entry reject it themselves.
func ResolveTaskRef(list []service.Task, args []string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", ErrTaskRefRequired
	}
	ref := strings.TrimSpace(args[0])

	if isAllDigits(ref) {
		num, err := strconv.Atoi(ref)
		if err != nil {
			return "", fmt.Errorf("invalid task reference: %s", ref)
		}
		if num < 1 || num > len(list) {
			return "", fmt.Errorf("task number out of range: %d", num)
		}
		return list[num-1].ID, nil
	}
	return ref, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// loadAndResolve refreshes the local list and resolves the task ref in args.
// On failure it reports the problem and returns the exit code with ok false.
func loadAndResolve(ctx context.Context, a *app.App, args []string, errOut io.Writer) (id string, code int, ok bool) {
	if err := a.Tasks.LoadTasks(ctx); err != nil {
		return "", exitFor(err), false
	}
	id, err := ResolveTaskRef(a.Tasks.Tasks(), args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return "", exitcode.UserError, false
	}
	return id, exitcode.Success, true
}
