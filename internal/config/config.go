// Package config handles XDG configuration directory, file paths and settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application directory name.
	AppName = "taskmaster"

	// ConfigFile is the optional settings filename inside the config directory.
	ConfigFile = "config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. TASKMASTER_API_URL.
	EnvPrefix = "TASKMASTER"

	// DefaultAPIURL is the base URL of the remote store.
	DefaultAPIURL = "http://localhost:5002/api"

	// DefaultTimeout bounds every remote call.
	DefaultTimeout = 5 * time.Second

	// DefaultNotifyTTL is how long a notification stays visible.
	DefaultNotifyTTL = 3 * time.Second
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path. Session entries live here.
	Dir string

	// APIURL is the base URL of the remote store.
	APIURL string

	// Timeout bounds each remote call.
	Timeout time.Duration

	// NotifyTTL is how long a notification stays current.
	NotifyTTL time.Duration

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// New creates a new Config with the default or specified config directory
// and default settings. It does not read config.yaml; see Load.
// If configDir is empty, uses XDG_CONFIG_HOME/taskmaster or $HOME/.config/taskmaster.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{
		Dir:       dir,
		APIURL:    DefaultAPIURL,
		Timeout:   DefaultTimeout,
		NotifyTTL: DefaultNotifyTTL,
	}, nil
}

// Load creates a Config for configDir and applies config.yaml and
// TASKMASTER_* environment overrides on top of the defaults.
// A missing config.yaml is not an error.
func Load(configDir string) (*Config, error) {
	cfg, err := New(configDir)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(cfg.ConfigPath())
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("api_url", cfg.APIURL)
	v.SetDefault("timeout", cfg.Timeout)
	v.SetDefault("notify_ttl", cfg.NotifyTTL)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read %s: %w", ConfigFile, err)
		}
	}

	cfg.APIURL = v.GetString("api_url")
	cfg.Timeout = v.GetDuration("timeout")
	cfg.NotifyTTL = v.GetDuration("notify_ttl")

	if cfg.APIURL == "" {
		return nil, fmt.Errorf("api_url must not be empty")
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.NotifyTTL <= 0 {
		cfg.NotifyTTL = DefaultNotifyTTL
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

// ConfigPath returns the path to config.yaml.
func (c *Config) ConfigPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}
