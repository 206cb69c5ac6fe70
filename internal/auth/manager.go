package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"taskmaster/internal/service"
	"taskmaster/internal/ui"
)

// MinPasswordLength is checked locally before a register request is sent.
const MinPasswordLength = 6

// User-visible messages.
const (
	msgFillAllFields      = "Please fill in all fields"
	msgPasswordTooShort   = "Password must be at least 6 characters"
	msgLoginSuccess       = "Login successful!"
	msgLoginFailed        = "Login failed"
	msgRegisterSuccess    = "Registration successful!"
	msgRegisterFailed     = "Registration failed"
	msgLogoutSuccess      = "Logged out successfully"
	msgSessionSaveFailure = "Could not save session"
)

// Deps are the collaborators of a Manager. Service and Session are required.
type Deps struct {
	Service  service.Service
	Session  *Session
	Notifier ui.Notifier
	Loading  *ui.Indicator
	Screen   *ui.Screen
	Logger   *slog.Logger
}

// Manager runs the login, register and logout flows and switches the
// screen between the auth forms and the task view.
type Manager struct {
	svc     service.Service
	session *Session
	notify  ui.Notifier
	loading *ui.Indicator
	screen  *ui.Screen
	log     *slog.Logger

	mu     sync.Mutex
	onAuth func(ctx context.Context) error
}

// New creates a Manager. Missing optional collaborators get inert defaults.
func New(d Deps) *Manager {
	m := &Manager{
		svc:     d.Service,
		session: d.Session,
		notify:  d.Notifier,
		loading: d.Loading,
		screen:  d.Screen,
		log:     d.Logger,
	}
	if m.notify == nil {
		m.notify = ui.NewToast(0)
	}
	if m.loading == nil {
		m.loading = &ui.Indicator{}
	}
	if m.screen == nil {
		m.screen = &ui.Screen{}
	}
	if m.log == nil {
		m.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

// OnAuthenticated registers the hook run whenever the task view is shown,
// typically the task list load.
func (m *Manager) OnAuthenticated(fn func(ctx context.Context) error) {
	m.mu.Lock()
	m.onAuth = fn
	m.mu.Unlock()
}

// Restore reads a persisted session without switching views.
func (m *Manager) Restore() bool {
	ok, err := m.session.Restore()
	if err != nil {
		m.log.Warn("stored session ignored", "err", err)
	}
	return ok
}

// Start restores a persisted session and shows the matching view. A restored
// session is trusted as is; showing the task view runs the
// OnAuthenticated hook.
func (m *Manager) Start(ctx context.Context) {
	if m.Restore() {
		m.showTasks(ctx)
		return
	}
	m.screen.ShowAuth()
}

// Login validates the fields locally, then exchanges them for a session.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return m.invalid(msgFillAllFields)
	}

	release := m.loading.Acquire()
	defer release()

	sess, err := m.svc.Login(ctx, service.Credentials{Email: email, Password: password})
	if err != nil {
		m.log.Debug("login failed", "err", err)
		m.notify.Notify(ui.KindError, ui.FailureText(err, msgLoginFailed))
		return err
	}
	return m.establish(ctx, sess, msgLoginSuccess)
}

// Register validates the fields locally, then creates an account and
// signs in with the returned session.
func (m *Manager) Register(ctx context.Context, username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return m.invalid(msgFillAllFields)
	}
	if len(password) < MinPasswordLength {
		return m.invalid(msgPasswordTooShort)
	}

	release := m.loading.Acquire()
	defer release()

	sess, err := m.svc.Register(ctx, service.Registration{Username: username, Email: email, Password: password})
	if err != nil {
		m.log.Debug("register failed", "err", err)
		m.notify.Notify(ui.KindError, ui.FailureText(err, msgRegisterFailed))
		return err
	}
	return m.establish(ctx, sess, msgRegisterSuccess)
}

// Logout clears the session locally. No request is sent.
func (m *Manager) Logout() error {
	err := m.session.Clear()
	if err != nil {
		m.log.Warn("clear stored session", "err", err)
	}
	m.notify.Notify(ui.KindSuccess, msgLogoutSuccess)
	m.screen.ShowAuth()
	return err
}

// IsAuthenticated reports whether a session token is held.
func (m *Manager) IsAuthenticated() bool {
	return m.session.IsAuthenticated()
}

// User returns the signed-in user.
func (m *Manager) User() (service.User, bool) {
	return m.session.User()
}

func (m *Manager) establish(ctx context.Context, sess service.Session, msg string) error {
	if err := m.session.Set(sess); err != nil {
		m.log.Error("persist session", "err", err)
		m.screen.ShowAuth()
		m.notify.Notify(ui.KindError, msgSessionSaveFailure)
		return err
	}
	m.notify.Notify(ui.KindSuccess, msg)
	m.showTasks(ctx)
	return nil
}

func (m *Manager) showTasks(ctx context.Context) {
	user, _ := m.session.User()
	m.screen.ShowTasks(user.Username)

	m.mu.Lock()
	fn := m.onAuth
	m.mu.Unlock()
	if fn == nil {
		return
	}
	if err := fn(ctx); err != nil {
		m.log.Debug("initial task load failed", "err", err)
	}
}

func (m *Manager) invalid(msg string) error {
	m.notify.Notify(ui.KindError, msg)
	return service.Invalid(msg)
}
