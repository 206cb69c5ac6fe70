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
	Register(&RegisterCmd{})
	Register(&LoginCmd{})
	Register(&LogoutCmd{})
	Register(&WhoamiCmd{})
}

// ask fills *v from the prompter when the flag was not given.
// Returns false if the prompt was cancelled.
func ask(ctx context.Context, a *app.App, label string, v *string) bool {
	if *v != "" {
		return true
	}
	ans := a.Prompter.Input(ctx, label, "")
	if !ans.OK {
		return false
	}
	*v = ans.Text
	return true
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	username string
	email    string
	password string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account and log in" }
func (c *RegisterCmd) Usage() string {
	return "taskmaster register [--username <name>] [--email <email>] [--password <password>]"
}
func (c *RegisterCmd) NeedsAuth() bool { return false }

func (c *RegisterCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.username, "username", "u", "", "account name")
	fs.StringVarP(&c.email, "email", "e", "", "account email")
	fs.StringVarP(&c.password, "password", "p", "", "account password (prompted when omitted)")
}

func (c *RegisterCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if !ask(ctx, a, "Username", &c.username) || !ask(ctx, a, "Email", &c.email) || !ask(ctx, a, "Password", &c.password) {
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.UserError
	}
	return exitFor(a.Auth.Register(ctx, c.username, c.email, c.password))
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string      { return "login" }
func (c *LoginCmd) Aliases() []string { return nil }
func (c *LoginCmd) Synopsis() string  { return "Log in and store the session" }
func (c *LoginCmd) Usage() string {
	return "taskmaster login [--email <email>] [--password <password>]"
}
func (c *LoginCmd) NeedsAuth() bool { return false }

func (c *LoginCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&c.email, "email", "e", "", "account email")
	fs.StringVarP(&c.password, "password", "p", "", "account password (prompted when omitted)")
}

func (c *LoginCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	if !ask(ctx, a, "Email", &c.email) || !ask(ctx, a, "Password", &c.password) {
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.UserError
	}
	return exitFor(a.Auth.Login(ctx, c.email, c.password))
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string      { return "logout" }
func (c *LogoutCmd) Aliases() []string { return nil }
func (c *LogoutCmd) Synopsis() string  { return "Remove the stored session" }
func (c *LogoutCmd) Usage() string     { return "taskmaster logout [common flags]" }
func (c *LogoutCmd) NeedsAuth() bool   { return false }

func (c *LogoutCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	a.Auth.Restore()
	if err := a.Auth.Logout(); err != nil {
		fmt.Fprintf(errOut, "error: failed to remove session: %v\n", err)
		return exitcode.AuthError
	}
	return exitcode.Success
}

// WhoamiCmd implements the whoami command.
type WhoamiCmd struct{}

func (c *WhoamiCmd) Name() string      { return "whoami" }
func (c *WhoamiCmd) Aliases() []string { return nil }
func (c *WhoamiCmd) Synopsis() string  { return "Show the logged in user" }
func (c *WhoamiCmd) Usage() string     { return "taskmaster whoami" }
func (c *WhoamiCmd) NeedsAuth() bool   { return true }

func (c *WhoamiCmd) RegisterFlags(fs *pflag.FlagSet) {}

func (c *WhoamiCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	u, ok := a.Auth.User()
	if !ok {
		fmt.Fprintln(errOut, "error: not logged in (run: taskmaster login)")
		return exitcode.AuthError
	}
	fmt.Fprintf(out, "%s <%s>\n", u.Username, u.Email)
	return exitcode.Success
}
