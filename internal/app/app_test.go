package app_test

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/oauth2"

	"taskmaster/internal/app"
	"taskmaster/internal/config"
	"taskmaster/internal/service"
	"taskmaster/internal/storage"
	"taskmaster/internal/testutil"
	"taskmaster/internal/ui"
	"taskmaster/internal/view"
)

func newApp(t *testing.T, svc *testutil.FakeService, store storage.Store, prompt ui.Prompter) (*app.App, *[]view.Model) {
	t.Helper()
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("config.New failed: %v", err)
	}
	var renders []view.Model
	a, err := app.New(cfg, app.Options{
		Storage:  store,
		Prompter: prompt,
		Factory: func(cfg *config.Config, tokens oauth2.TokenSource) (service.Service, error) {
			svc.Tokens = tokens
			return svc, nil
		},
		OnRender: func(m view.Model) { renders = append(renders, m) },
	})
	if err != nil {
		t.Fatalf("app.New failed: %v", err)
	}
	return a, &renders
}

func TestLoginLoadsTasksWithSessionToken(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "a@example.com", "secret1")
	svc.AddTask("t1", "Buy milk", false)

	a, renders := newApp(t, svc, storage.NewMemoryStore(), &ui.StaticPrompter{})
	if err := a.Auth.Login(context.Background(), "a@example.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if svc.CallCount("ListTasks") != 1 {
		t.Fatalf("expected tasks to load after login, calls = %v", svc.Calls())
	}
	if len(svc.SeenTokens) != 1 || svc.SeenTokens[0] != "token-user-alice" {
		t.Errorf("tokens seen = %v", svc.SeenTokens)
	}
	if len(*renders) != 1 || len((*renders)[0].Items) != 1 {
		t.Errorf("unexpected renders %+v", *renders)
	}
	if a.Screen.Mode() != ui.Authenticated {
		t.Error("expected task view")
	}
}

func TestLogoutStopsTaskCalls(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "a@example.com", "secret1")
	a, _ := newApp(t, svc, storage.NewMemoryStore(), &ui.StaticPrompter{})
	ctx := context.Background()

	if err := a.Auth.Login(ctx, "a@example.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	a.Auth.Logout()

	if err := a.Tasks.LoadTasks(ctx); err != nil {
		t.Fatalf("LoadTasks failed: %v", err)
	}
	if svc.CallCount("ListTasks") != 1 {
		t.Errorf("no load expected after logout, calls = %v", svc.Calls())
	}
}

func TestStartRestoresSession(t *testing.T) {
	store := storage.NewMemoryStore()
	store.Set(storage.KeyToken, "stored")
	store.Set(storage.KeyUser, `{"id":"u1","username":"bob","email":"b@example.com"}`)

	svc := testutil.NewFakeService()
	a, _ := newApp(t, svc, store, &ui.StaticPrompter{})
	a.Start(context.Background())

	if a.Screen.Username() != "bob" {
		t.Errorf("username = %q", a.Screen.Username())
	}
	if len(svc.SeenTokens) != 1 || svc.SeenTokens[0] != "stored" {
		t.Errorf("tokens seen = %v", svc.SeenTokens)
	}
}

func TestAssumeYes(t *testing.T) {
	svc := testutil.NewFakeService()
	svc.AddUser("alice", "a@example.com", "secret1")
	svc.AddTask("t1", "Buy milk", false)
	prompt := &ui.StaticPrompter{ConfirmAnswer: false}

	a, _ := newApp(t, svc, storage.NewMemoryStore(), prompt)
	ctx := context.Background()
	if err := a.Auth.Login(ctx, "a@example.com", "secret1"); err != nil {
		t.Fatalf("Login failed: %v", err)
	}

	if err := a.Tasks.DeleteTask(ctx, "t1"); err == nil {
		t.Fatal("expected the prompt to decline")
	}
	a.AssumeYes(true)
	if err := a.Tasks.DeleteTask(ctx, "t1"); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	if len(prompt.Asked) != 1 {
		t.Errorf("prompt asked %d times, want 1", len(prompt.Asked))
	}
}

func TestFactoryError(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	_, err := app.New(cfg, app.Options{
		Storage: storage.NewMemoryStore(),
		Factory: func(*config.Config, oauth2.TokenSource) (service.Service, error) {
			return nil, errors.New("bad url")
		},
	})
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestDefaultFactoryRejectsBadURL(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	cfg.APIURL = "::"
	if _, err := app.New(cfg, app.Options{Storage: storage.NewMemoryStore()}); err == nil {
		t.Fatal("expected invalid api url error")
	}
}
