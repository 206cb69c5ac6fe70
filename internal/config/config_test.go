package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected Dir %q, got %q", dir, cfg.Dir)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Errorf("expected APIURL %q, got %q", DefaultAPIURL, cfg.APIURL)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected Timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.NotifyTTL != DefaultNotifyTTL {
		t.Errorf("expected NotifyTTL %v, got %v", DefaultNotifyTTL, cfg.NotifyTTL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	data := "api_url: http://example.test/api\ntimeout: 10s\nnotify_ttl: 1s\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(data), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://example.test/api" {
		t.Errorf("expected api_url from file, got %q", cfg.APIURL)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
	if cfg.NotifyTTL != time.Second {
		t.Errorf("expected notify_ttl 1s, got %v", cfg.NotifyTTL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKMASTER_API_URL", "http://env.test/api")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.APIURL != "http://env.test/api" {
		t.Errorf("expected env override, got %q", cfg.APIURL)
	}
}

func TestLoad_InvalidFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte("api_url: [unclosed"), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := Load(dir); err == nil {
		t.Fatal("expected error for malformed config.yaml")
	}
}

func TestDefaultConfigDir_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")

	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir %q", got)
	}
}
