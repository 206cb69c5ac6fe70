// Package app wires the session, the remote store and the two managers
// into one explicitly constructed application context.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync/atomic"

	"golang.org/x/oauth2"

	"taskmaster/internal/auth"
	"taskmaster/internal/backend/rest"
	"taskmaster/internal/config"
	"taskmaster/internal/service"
	"taskmaster/internal/storage"
	"taskmaster/internal/tasks"
	"taskmaster/internal/ui"
	"taskmaster/internal/view"
)

// ServiceFactory creates the remote store client. tokens supplies the bearer
// token at request time.
// Used to inject the backend in tests.
type ServiceFactory func(cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error)

// RESTFactory is the default ServiceFactory.
func RESTFactory(cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
	return rest.New(cfg, tokens)
}

// Options customize New. Zero values select the production defaults.
type Options struct {
	// Storage persists the session. Defaults to a FileStore in cfg.Dir.
	Storage storage.Store

	// Prompter answers confirmations and edits. Defaults to the terminal.
	Prompter ui.Prompter

	Logger  *slog.Logger
	Factory ServiceFactory

	// Sink receives every notification as it is shown.
	Sink func(ui.Notification)

	// OnRender receives every rendered task model.
	OnRender func(view.Model)
}

// App is the application context.
type App struct {
	Config   *config.Config
	Storage  storage.Store
	Service  service.Service
	Session  *auth.Session
	Auth     *auth.Manager
	Tasks    *tasks.Manager
	Toast    *ui.Toast
	Loading  *ui.Indicator
	Screen   *ui.Screen
	Prompter ui.Prompter
	Log      *slog.Logger

	assumeYes atomic.Bool
}

// New constructs and wires an App.
func New(cfg *config.Config, opts Options) (*App, error) {
	a := &App{
		Config:   cfg,
		Storage:  opts.Storage,
		Prompter: opts.Prompter,
		Log:      opts.Logger,
		Loading:  &ui.Indicator{},
		Screen:   &ui.Screen{},
	}
	if a.Storage == nil {
		a.Storage = storage.NewFileStore(cfg.Dir)
	}
	if a.Prompter == nil {
		a.Prompter = ui.NewTerminalPrompter(os.Stdin, os.Stderr)
	}
	if a.Log == nil {
		a.Log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	factory := opts.Factory
	if factory == nil {
		factory = RESTFactory
	}

	a.Toast = ui.NewToast(cfg.NotifyTTL)
	a.Toast.Sink = opts.Sink

	// The session is the token source, so it exists before the client.
	a.Session = auth.NewSession(a.Storage)

	svc, err := factory(cfg, a.Session)
	if err != nil {
		return nil, fmt.Errorf("create service: %w", err)
	}
	a.Service = svc

	a.Auth = auth.New(auth.Deps{
		Service:  svc,
		Session:  a.Session,
		Notifier: a.Toast,
		Loading:  a.Loading,
		Screen:   a.Screen,
		Logger:   a.Log.With("component", "auth"),
	})
	a.Tasks = tasks.New(tasks.Deps{
		Service:  svc,
		Tokens:   a.Session,
		Notifier: a.Toast,
		Loading:  a.Loading,
		Prompter: confirmer{Prompter: a.Prompter, yes: &a.assumeYes},
		Logger:   a.Log.With("component", "tasks"),
		OnRender: opts.OnRender,
	})
	a.Auth.OnAuthenticated(a.Tasks.LoadTasks)

	a.Loading.OnChange = func(visible bool) {
		a.Log.Debug("loading", "visible", visible)
	}
	return a, nil
}

// Start restores a stored session and loads its tasks.
func (a *App) Start(ctx context.Context) {
	a.Auth.Start(ctx)
}

// AssumeYes makes task confirmations succeed without asking.
func (a *App) AssumeYes(yes bool) {
	a.assumeYes.Store(yes)
}

// confirmer answers confirmations itself while yes is set.
type confirmer struct {
	ui.Prompter
	yes *atomic.Bool
}

func (c confirmer) Confirm(ctx context.Context, message string) bool {
	if c.yes.Load() {
		return true
	}
	return c.Prompter.Confirm(ctx, message)
}
