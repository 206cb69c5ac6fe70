package auth_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"taskmaster/internal/auth"
	"taskmaster/internal/service"
	"taskmaster/internal/storage"
	"taskmaster/internal/testutil"
	"taskmaster/internal/ui"
)

type fixture struct {
	svc     *testutil.FakeService
	store   *storage.MemoryStore
	session *auth.Session
	toast   *ui.Toast
	loading *ui.Indicator
	screen  *ui.Screen
	mgr     *auth.Manager

	// loadingChanges records every indicator transition.
	loadingChanges []bool
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		svc:     testutil.NewFakeService(),
		store:   storage.NewMemoryStore(),
		toast:   ui.NewToast(0),
		loading: &ui.Indicator{},
		screen:  &ui.Screen{},
	}
	f.loading.OnChange = func(v bool) { f.loadingChanges = append(f.loadingChanges, v) }
	f.session = auth.NewSession(f.store)
	f.mgr = auth.New(auth.Deps{
		Service:  f.svc,
		Session:  f.session,
		Notifier: f.toast,
		Loading:  f.loading,
		Screen:   f.screen,
	})
	return f
}

func (f *fixture) notice(t *testing.T) ui.Notification {
	t.Helper()
	n, ok := f.toast.Current()
	if !ok {
		t.Fatal("expected a notification")
	}
	return n
}

func (f *fixture) expectNotice(t *testing.T, kind ui.Kind, text string) {
	t.Helper()
	n := f.notice(t)
	if n.Kind != kind || n.Text != text {
		t.Errorf("notification = %s %q, want %s %q", n.Kind, n.Text, kind, text)
	}
}

func TestLogin_EmptyFieldsNoRequest(t *testing.T) {
	tests := []struct {
		name            string
		email, password string
	}{
		{"empty email", "", "secret1"},
		{"empty password", "a@example.com", ""},
		{"both empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.mgr.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			f.expectNotice(t, ui.KindError, "Please fill in all fields")
			if n := len(f.svc.Calls()); n != 0 {
				t.Errorf("expected no remote calls, got %d", n)
			}
			if len(f.loadingChanges) != 0 {
				t.Error("loading indicator must not be shown for local validation")
			}
		})
	}
}

func TestLogin_WhitespaceIsNotEmpty(t *testing.T) {
	f := newFixture(t)
	f.mgr.Login(context.Background(), " ", " ")
	if f.svc.CallCount("Login") != 1 {
		t.Error("whitespace-only fields are sent as is")
	}
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t)
	f.svc.AddUser("alice", "a@example.com", "secret1")

	var hookCalls int
	f.mgr.OnAuthenticated(func(ctx context.Context) error {
		hookCalls++
		return nil
	})

	if err := f.mgr.Login(context.Background(), "a@example.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	f.expectNotice(t, ui.KindSuccess, "Login successful!")
	if f.screen.Mode() != ui.Authenticated || f.screen.Username() != "alice" {
		t.Errorf("screen = %s %q, want tasks alice", f.screen.Mode(), f.screen.Username())
	}
	if hookCalls != 1 {
		t.Errorf("expected task load once, got %d", hookCalls)
	}
	if !f.mgr.IsAuthenticated() {
		t.Error("expected authenticated")
	}

	token, ok, _ := f.store.Get(storage.KeyToken)
	if !ok || token != "token-user-alice" {
		t.Errorf("stored token = %q %v", token, ok)
	}
	raw, ok, _ := f.store.Get(storage.KeyUser)
	if !ok {
		t.Fatal("user not stored")
	}
	var u service.User
	if err := json.Unmarshal([]byte(raw), &u); err != nil || u.Username != "alice" {
		t.Errorf("stored user = %s (%v)", raw, err)
	}
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"remote message", testutil.Rejection(http.StatusUnauthorized, "Invalid credentials"), "Invalid credentials"},
		{"remote without message", testutil.Rejection(http.StatusInternalServerError, ""), "Login failed"},
		{"network", testutil.ErrNetwork, "Network error. Please try again."},
		{"other", errors.New("boom"), "Login failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.svc.LoginErr = tt.err

			err := f.mgr.Login(context.Background(), "a@example.com", "secret1")
			if err == nil {
				t.Fatal("expected error")
			}
			f.expectNotice(t, ui.KindError, tt.want)
			if f.mgr.IsAuthenticated() {
				t.Error("must stay unauthenticated")
			}
			if f.store.Len() != 0 {
				t.Error("nothing must be persisted")
			}
			if f.loading.Visible() {
				t.Error("loading indicator left visible")
			}
			if want := []bool{true, false}; !equalBools(f.loadingChanges, want) {
				t.Errorf("loading transitions = %v, want %v", f.loadingChanges, want)
			}
		})
	}
}

func TestRegister_Validation(t *testing.T) {
	tests := []struct {
		name                      string
		username, email, password string
		want                      string
	}{
		{"missing username", "", "a@example.com", "secret1", "Please fill in all fields"},
		{"missing email", "alice", "", "secret1", "Please fill in all fields"},
		{"missing password", "alice", "a@example.com", "", "Please fill in all fields"},
		{"short password", "alice", "a@example.com", "12345", "Password must be at least 6 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			err := f.mgr.Register(context.Background(), tt.username, tt.email, tt.password)
			if !errors.Is(err, service.ErrValidation) {
				t.Fatalf("expected validation error, got %v", err)
			}
			f.expectNotice(t, ui.KindError, tt.want)
			if n := len(f.svc.Calls()); n != 0 {
				t.Errorf("expected no remote calls, got %d", n)
			}
		})
	}
}

func TestRegister_SixCharactersAccepted(t *testing.T) {
	f := newFixture(t)
	if err := f.mgr.Register(context.Background(), "alice", "a@example.com", "123456"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	f.expectNotice(t, ui.KindSuccess, "Registration successful!")
	if f.screen.Mode() != ui.Authenticated {
		t.Error("expected task view after registration")
	}
	if u, ok := f.mgr.User(); !ok || u.Username != "alice" {
		t.Errorf("User() = %+v %v", u, ok)
	}
}

func TestRegister_RemoteRejection(t *testing.T) {
	f := newFixture(t)
	f.svc.AddUser("alice", "a@example.com", "secret1")

	err := f.mgr.Register(context.Background(), "alice", "a@example.com", "secret1")
	if err == nil {
		t.Fatal("expected error")
	}
	f.expectNotice(t, ui.KindError, "User already exists")
	if f.loading.Visible() {
		t.Error("loading indicator left visible")
	}
}

func TestLogin_PersistFailure(t *testing.T) {
	f := newFixture(t)
	f.svc.AddUser("alice", "a@example.com", "secret1")
	f.store.SetErr = map[string]error{storage.KeyUser: errors.New("disk full")}

	var hookCalls int
	f.mgr.OnAuthenticated(func(ctx context.Context) error {
		hookCalls++
		return nil
	})

	if err := f.mgr.Login(context.Background(), "a@example.com", "secret1"); err == nil {
		t.Fatal("expected error")
	}
	f.expectNotice(t, ui.KindError, "Could not save session")
	if f.mgr.IsAuthenticated() {
		t.Error("session must not be kept")
	}
	if f.store.Len() != 0 {
		t.Error("partial session left in storage")
	}
	if hookCalls != 0 {
		t.Error("tasks must not load")
	}
}

func TestLogin_PersistFailureDropsPreviousSession(t *testing.T) {
	f := newFixture(t)
	f.svc.AddUser("bob", "b@example.com", "secret1")
	old := service.Session{Token: "old", User: service.User{ID: "1", Username: "old"}}
	if err := f.session.Set(old); err != nil {
		t.Fatalf("Set: %v", err)
	}
	f.screen.ShowTasks("old")
	f.store.SetErr = map[string]error{storage.KeyUser: errors.New("disk full")}

	if err := f.mgr.Login(context.Background(), "b@example.com", "secret1"); err == nil {
		t.Fatal("expected error")
	}

	_, hasToken, _ := f.store.Get(storage.KeyToken)
	_, hasUser, _ := f.store.Get(storage.KeyUser)
	if hasToken || hasUser {
		t.Errorf("stored pair split: token=%v user=%v", hasToken, hasUser)
	}
	if f.mgr.IsAuthenticated() {
		t.Error("previous session still held in memory")
	}
	if _, err := f.session.Token(); !errors.Is(err, service.ErrNoSession) {
		t.Errorf("Token err = %v, want ErrNoSession", err)
	}
	if f.screen.Mode() != ui.Unauthenticated {
		t.Errorf("screen = %v, want auth forms", f.screen.Mode())
	}
}

func TestSession_SetReportsCleanupFailure(t *testing.T) {
	store := storage.NewMemoryStore()
	store.SetErr = map[string]error{storage.KeyUser: errors.New("disk full")}
	cleanup := errors.New("read-only")
	store.RemoveErr = map[string]error{storage.KeyToken: cleanup}
	s := auth.NewSession(store)

	err := s.Set(service.Session{Token: "t", User: service.User{ID: "1"}})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, cleanup) {
		t.Errorf("expected cleanup error to be reported, got %v", err)
	}
	if s.IsAuthenticated() {
		t.Error("session must not be kept")
	}
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	f.svc.AddUser("alice", "a@example.com", "secret1")
	if err := f.mgr.Login(context.Background(), "a@example.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	calls := len(f.svc.Calls())

	if err := f.mgr.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	f.expectNotice(t, ui.KindSuccess, "Logged out successfully")
	if f.mgr.IsAuthenticated() {
		t.Error("expected unauthenticated")
	}
	if f.store.Len() != 0 {
		t.Error("storage not cleared")
	}
	if f.screen.Mode() != ui.Unauthenticated {
		t.Error("expected auth view")
	}
	if len(f.svc.Calls()) != calls {
		t.Error("logout must not contact the store")
	}
	if _, err := f.session.Token(); !errors.Is(err, service.ErrNoSession) {
		t.Errorf("Token() after logout = %v, want ErrNoSession", err)
	}
}

func TestLogout_WhenSignedOut(t *testing.T) {
	f := newFixture(t)
	if err := f.mgr.Logout(); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}
	f.expectNotice(t, ui.KindSuccess, "Logged out successfully")
}

func TestStart_RestoresWithoutVerification(t *testing.T) {
	f := newFixture(t)
	f.store.Set(storage.KeyToken, "stale-token")
	f.store.Set(storage.KeyUser, `{"id":"u1","username":"bob","email":"b@example.com"}`)

	var hookCalls int
	f.mgr.OnAuthenticated(func(ctx context.Context) error {
		hookCalls++
		return nil
	})

	f.mgr.Start(context.Background())

	if f.screen.Mode() != ui.Authenticated || f.screen.Username() != "bob" {
		t.Errorf("screen = %s %q, want tasks bob", f.screen.Mode(), f.screen.Username())
	}
	if hookCalls != 1 {
		t.Errorf("expected task load once, got %d", hookCalls)
	}
	if n := f.svc.CallCount("Login"); n != 0 {
		t.Error("restore must not contact the store")
	}
	tok, err := f.session.Token()
	if err != nil || tok.AccessToken != "stale-token" {
		t.Errorf("Token() = %v %v", tok, err)
	}
}

func TestStart_NoSession(t *testing.T) {
	f := newFixture(t)
	f.mgr.OnAuthenticated(func(ctx context.Context) error {
		t.Error("hook must not run without a session")
		return nil
	})

	f.mgr.Start(context.Background())
	if f.screen.Mode() != ui.Unauthenticated {
		t.Error("expected auth view")
	}
}

func TestStart_PartialSessionCleared(t *testing.T) {
	tests := []struct {
		name  string
		token string
		user  string
	}{
		{"token only", "tok", ""},
		{"user only", "", `{"id":"u1","username":"bob"}`},
		{"corrupt user", "tok", "{not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.token != "" {
				f.store.Set(storage.KeyToken, tt.token)
			}
			if tt.user != "" {
				f.store.Set(storage.KeyUser, tt.user)
			}

			f.mgr.Start(context.Background())

			if f.screen.Mode() != ui.Unauthenticated {
				t.Error("expected auth view")
			}
			if f.mgr.IsAuthenticated() {
				t.Error("expected unauthenticated")
			}
			if f.store.Len() != 0 {
				t.Error("partial session must be cleared")
			}
		})
	}
}

func TestHookErrorDoesNotFailLogin(t *testing.T) {
	f := newFixture(t)
	f.svc.AddUser("alice", "a@example.com", "secret1")
	f.mgr.OnAuthenticated(func(ctx context.Context) error {
		return errors.New("load failed")
	})

	if err := f.mgr.Login(context.Background(), "a@example.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if !f.mgr.IsAuthenticated() {
		t.Error("expected authenticated")
	}
}

func TestSession_SetRejectsEmptyToken(t *testing.T) {
	s := auth.NewSession(storage.NewMemoryStore())
	if err := s.Set(service.Session{User: service.User{ID: "u1"}}); err == nil {
		t.Error("expected error for empty token")
	}
	if s.IsAuthenticated() {
		t.Error("expected unauthenticated")
	}
}

func equalBools(a, b []bool) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
