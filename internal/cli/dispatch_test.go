package cli_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"golang.org/x/oauth2"

	"taskmaster/internal/app"
	"taskmaster/internal/cli"
	"taskmaster/internal/commands"
	"taskmaster/internal/config"
	"taskmaster/internal/devserver"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/service"
	"taskmaster/internal/testutil"
)

// testFactory creates a service factory that returns the given FakeService.
func testFactory(svc *testutil.FakeService) app.ServiceFactory {
	return func(cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
		svc.Tokens = tokens
		return svc, nil
	}
}

func run(t *testing.T, d *cli.Dispatcher, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var outBuf, errBuf bytes.Buffer
	code = d.Run(context.Background(), args, &outBuf, &errBuf)
	return outBuf.String(), errBuf.String(), code
}

func TestDispatcher_UnknownCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, d, "unknowncmd")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.HasPrefix(stderr, "error: unknown command") || !strings.Contains(stderr, "unknowncmd") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_UnknownFlag(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	_, stderr, code := run(t, d, "list", "--bogus")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr != "error: unknown flag: --bogus\n" {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_HelpCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, d, "help")
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stderr != "" {
		t.Errorf("expected no stderr, got %q", stderr)
	}
	for _, want := range []string{"Usage:", "toggle", "serve"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected help output to contain %q", want)
		}
	}
}

func TestDispatcher_VersionCommand(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(testutil.NewFakeService()))

	stdout, stderr, code := run(t, d, "version", "--config", t.TempDir())
	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	if stdout != "taskmaster 0.1.0\n" || stderr != "" {
		t.Errorf("unexpected output %q %q", stdout, stderr)
	}
}

func TestDispatcher_NotLoggedIn(t *testing.T) {
	svc := testutil.NewFakeService()
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))

	for _, args := range [][]string{nil, {"list"}, {"toggle", "1"}} {
		args = append(args, "--config", t.TempDir())
		_, stderr, code := run(t, d, args...)
		if code != exitcode.AuthError {
			t.Errorf("%v: expected exit code %d, got %d", args, exitcode.AuthError, code)
		}
		if stderr != "error: not logged in (run: taskmaster login)\n" {
			t.Errorf("%v: unexpected stderr %q", args, stderr)
		}
	}
	if len(svc.Calls()) != 0 {
		t.Errorf("no requests expected, got %v", svc.Calls())
	}
}

func TestDispatcher_SessionPersistsAcrossRuns(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "a@example.com", "secret1")
	d := cli.NewDispatcher(commands.DefaultRegistry, testFactory(svc))
	dir := t.TempDir()

	stdout, _, code := run(t, d, "--config", dir, "login", "-e", "a@example.com", "-p", "secret1")
	if code != exitcode.Success || stdout != "Login successful!\n" {
		t.Fatalf("login: %d %q", code, stdout)
	}

	if _, _, code := run(t, d, "--config", dir, "-q", "add", "Buy", "milk"); code != exitcode.Success {
		t.Fatalf("add: exit %d", code)
	}

	// No command lists.
	stdout, _, code = run(t, d, "--config", dir)
	if code != exitcode.Success || !strings.Contains(stdout, "   1  [ ] Buy milk") {
		t.Errorf("list: %d %q", code, stdout)
	}

	stdout, _, code = run(t, d, "--config", dir, "logout")
	if code != exitcode.Success || stdout != "Logged out successfully\n" {
		t.Errorf("logout: %d %q", code, stdout)
	}
	if _, _, code := run(t, d, "--config", dir, "list"); code != exitcode.AuthError {
		t.Errorf("list after logout: exit %d", code)
	}
}

func TestDispatcher_InvalidAPIURL(t *testing.T) {
	d := cli.NewDispatcher(commands.DefaultRegistry, nil)

	_, stderr, code := run(t, d, "--config", t.TempDir(), "--api-url", "not a url", "list")
	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if !strings.Contains(stderr, "invalid api url") {
		t.Errorf("unexpected stderr %q", stderr)
	}
}

func TestDispatcher_AgainstDevServer(t *testing.T) {
	srv := httptest.NewServer(devserver.New("test-secret", nil).Handler())
	defer srv.Close()

	d := cli.NewDispatcher(commands.DefaultRegistry, app.RESTFactory)
	d.SetInput(strings.NewReader("y\n"))
	common := []string{"--config", t.TempDir(), "--api-url", srv.URL + "/api"}
	runWith := func(args ...string) (string, string, int) {
		return run(t, d, append(append([]string(nil), common...), args...)...)
	}

	if out, errOut, code := runWith("register", "-u", "alice", "-e", "a@example.com", "-p", "secret1"); code != exitcode.Success {
		t.Fatalf("register: %d %q %q", code, out, errOut)
	}
	if out, errOut, code := runWith("add", "-d", "2%", "Buy milk"); code != exitcode.Success {
		t.Fatalf("add: %d %q %q", code, out, errOut)
	}
	if out, _, code := runWith("toggle", "1"); code != exitcode.Success || out != "completed\n" {
		t.Fatalf("toggle: %d %q", code, out)
	}

	out, _, code := runWith("list", "--format", "yaml")
	if code != exitcode.Success {
		t.Fatalf("list: exit %d", code)
	}
	for _, want := range []string{"title: Buy milk", "description: 2%", "completed: true"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}

	// The confirmation is answered from input.
	if out, errOut, code := runWith("rm", "1"); code != exitcode.Success || out != "Task deleted successfully!\n" {
		t.Fatalf("rm: %d %q %q", code, out, errOut)
	}
	if out, _, _ := runWith("list"); out != "no tasks found\n" {
		t.Errorf("expected empty list, got %q", out)
	}

	if _, errOut, code := runWith("login", "-e", "a@example.com", "-p", "wrong!"); code != exitcode.AuthError || errOut != "error: Invalid credentials\n" {
		t.Errorf("bad login: %d %q", code, errOut)
	}
}
