// Package cli turns the command registry into a cobra command tree and
// runs it.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"taskmaster/internal/app"
	"taskmaster/internal/commands"
	"taskmaster/internal/config"
	"taskmaster/internal/exitcode"
	"taskmaster/internal/output"
	"taskmaster/internal/storage"
	"taskmaster/internal/ui"
)

// DefaultCommand runs when no command is given.
const DefaultCommand = "list"

// globalFlags are accepted by every command.
type globalFlags struct {
	configDir string
	apiURL    string
	quiet     bool
	debug     bool
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  app.ServiceFactory
	in       io.Reader
	store    storage.Store
}

// NewDispatcher creates a new dispatcher with the given registry and service
// factory. A nil factory selects the REST client.
func NewDispatcher(registry *commands.Registry, factory app.ServiceFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
		in:       os.Stdin,
	}
}

// SetInput sets where prompts read answers from. Defaults to os.Stdin.
func (d *Dispatcher) SetInput(r io.Reader) {
	d.in = r
}

// SetStorage overrides the session store. Defaults to files in the config
// directory.
func (d *Dispatcher) SetStorage(s storage.Store) {
	d.store = s
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	var flags globalFlags
	code := exitcode.Success

	root := &cobra.Command{
		Use:           "taskmaster",
		Short:         "Track tasks against a TaskMaster server",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := d.registry.Find(DefaultCommand)
			if !ok {
				return fmt.Errorf("unknown command: %s", DefaultCommand)
			}
			// Reset the default command's flags to their defaults.
			c.RegisterFlags(pflag.NewFlagSet(c.Name(), pflag.ContinueOnError))
			code = d.dispatch(cmd.Context(), c, nil, flags, out, errOut)
			return nil
		},
	}
	root.CompletionOptions.DisableDefaultCmd = true
	root.SetOut(out)
	root.SetErr(errOut)
	root.SetArgs(args)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configDir, "config", "", "configuration directory")
	pf.StringVar(&flags.apiURL, "api-url", "", "base URL of the TaskMaster API")
	pf.BoolVarP(&flags.quiet, "quiet", "q", false, "suppress informational output")
	pf.BoolVar(&flags.debug, "debug", false, "log diagnostics to stderr")

	for _, c := range d.registry.All() {
		c := c // per-iteration copy: go.mod targets go1.21 loop semantics
		sub := &cobra.Command{
			Use:     c.Name() + usageArgs(c),
			Aliases: c.Aliases(),
			Short:   c.Synopsis(),
			RunE: func(cmd *cobra.Command, args []string) error {
				code = d.dispatch(cmd.Context(), c, args, flags, out, errOut)
				return nil
			},
		}
		c.RegisterFlags(sub.Flags())
		root.AddCommand(sub)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	return code
}

// usageArgs returns the part of a usage line after the command name.
func usageArgs(c commands.Command) string {
	rest, ok := strings.CutPrefix(c.Usage(), "taskmaster "+c.Name())
	if !ok {
		return ""
	}
	return rest
}

func (d *Dispatcher) dispatch(ctx context.Context, cmd commands.Command, args []string, flags globalFlags, out, errOut io.Writer) int {
	level := slog.LevelWarn
	if flags.debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))

	cfg, err := config.Load(flags.configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	if flags.apiURL != "" {
		cfg.APIURL = flags.apiURL
	}
	cfg.Quiet = flags.quiet
	cfg.Debug = flags.debug
	logger.Debug("config loaded", "dir", cfg.Dir, "api_url", cfg.APIURL)

	a, err := app.New(cfg, app.Options{
		Storage:  d.store,
		Prompter: ui.NewTerminalPrompter(d.in, errOut),
		Logger:   logger,
		Factory:  d.factory,
		Sink:     output.ToastSink(out, errOut, cfg.Quiet),
	})
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	if cmd.NeedsAuth() {
		a.Auth.Restore()
		if !a.Auth.IsAuthenticated() {
			fmt.Fprintln(errOut, "error: not logged in (run: taskmaster login)")
			return exitcode.AuthError
		}
	}

	return cmd.Run(ctx, a, args, out, errOut)
}
