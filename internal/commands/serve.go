package commands

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/devserver"
	"taskmaster/internal/exitcode"
)

// DefaultServeAddr matches the port of the default api_url.
const DefaultServeAddr = ":5002"

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory development store until interrupted.
type ServeCmd struct {
	addr   string
	secret string
}

func (c *ServeCmd) Name() string      { return "serve" }
func (c *ServeCmd) Aliases() []string { return nil }
func (c *ServeCmd) Synopsis() string  { return "Run an in-memory development API server" }
func (c *ServeCmd) Usage() string     { return "taskmaster serve [--addr <host:port>] [--secret <jwt-secret>]" }
func (c *ServeCmd) NeedsAuth() bool   { return false }

func (c *ServeCmd) RegisterFlags(fs *pflag.FlagSet) {
	fs.StringVar(&c.addr, "addr", DefaultServeAddr, "listen address")
	fs.StringVar(&c.secret, "secret", "", "token signing secret (random when omitted)")
}

func (c *ServeCmd) Run(ctx context.Context, a *app.App, args []string, out, errOut io.Writer) int {
	level := slog.LevelInfo
	if a.Config.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	secret := c.secret
	if secret == "" {
		secret = uuid.NewString()
		logger.Warn("no --secret given; issued tokens end with this process")
	}

	srv := devserver.New(secret, logger)
	if err := srv.ListenAndServe(ctx, c.addr); err != nil {
		fmt.Fprintf(errOut, "error: serve: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
