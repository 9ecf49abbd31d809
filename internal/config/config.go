// ABOUTME: carelog configuration with backend selection and environment overrides.
// ABOUTME: Handles settings, preferences, and the document store factory function.

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/charmbracelet/log"

	"github.com/harperreed/carelog/internal/docstore"
	"github.com/harperreed/carelog/internal/reminder"
)

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendCharm  = "charm"
)

// Config stores carelog configuration.
type Config struct {
	// Backend selects the document store: "sqlite" (default), "badger", or "charm".
	Backend string `json:"backend,omitempty" env:"CARELOG_BACKEND"`

	// DataDir is the root directory for local data.
	// SQLite puts carelog.db here, Badger puts badger/ here, and the session file lives here.
	// Supports ~ expansion for home directory. Defaults to ~/.local/share/carelog.
	DataDir string `json:"data_dir,omitempty" env:"CARELOG_DATA_DIR"`

	// ReminderPolicy is "every-tick" (default) or "daily".
	ReminderPolicy string `json:"reminder_policy,omitempty" env:"CARELOG_REMINDER_POLICY"`

	// TickSeconds is the reminder check interval. Defaults to 60.
	TickSeconds int `json:"tick_seconds,omitempty" env:"CARELOG_TICK_SECONDS"`

	// PollSeconds is how often the charm backend pulls remote changes. Defaults to 30.
	PollSeconds int `json:"poll_seconds,omitempty" env:"CARELOG_POLL_SECONDS"`

	// CharmHost overrides the Charm server.
	CharmHost string `json:"charm_host,omitempty" env:"CARELOG_CHARM_HOST"`

	// LogLevel is debug, info, warn, or error. Defaults to warn.
	LogLevel string `json:"log_level,omitempty" env:"CARELOG_LOG_LEVEL"`
}

// GetBackend returns the configured backend, defaulting to "sqlite".
func (c *Config) GetBackend() string {
	if c.Backend == "" {
		return BackendSQLite
	}
	return strings.ToLower(c.Backend)
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return DataDir()
	}
	return ExpandPath(c.DataDir)
}

// SessionPath returns the file holding the signed-in identity.
func (c *Config) SessionPath() string {
	return filepath.Join(c.GetDataDir(), "session.json")
}

// TickInterval returns the reminder check interval.
func (c *Config) TickInterval() time.Duration {
	if c.TickSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.TickSeconds) * time.Second
}

// PollInterval returns the charm sync poll interval.
func (c *Config) PollInterval() time.Duration {
	if c.PollSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.PollSeconds) * time.Second
}

// Policy returns the parsed reminder policy.
func (c *Config) Policy() (reminder.Policy, error) {
	return reminder.ParsePolicy(c.ReminderPolicy)
}

// Level returns the parsed log level, defaulting to warn.
func (c *Config) Level() log.Level {
	if c.LogLevel == "" {
		return log.WarnLevel
	}
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return lvl
}

// DataDir returns the default data directory following XDG spec.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "carelog")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" {
		home, _ := os.UserHomeDir()
		return home
	}
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// OpenStore creates a docstore.Store based on the configured backend.
func (c *Config) OpenStore(logger *log.Logger) (docstore.Store, error) {
	dataDir := c.GetDataDir()

	var (
		store docstore.Store
		err   error
	)
	switch c.GetBackend() {
	case BackendSQLite:
		store, err = docstore.OpenSQLite(filepath.Join(dataDir, "carelog.db"))
	case BackendBadger:
		store, err = docstore.OpenBadger(filepath.Join(dataDir, "badger"))
	case BackendCharm:
		store, err = docstore.OpenCharm(docstore.CharmOptions{
			Host:         c.CharmHost,
			PollInterval: c.PollInterval(),
			AutoSync:     true,
			Logger:       logger,
		})
	default:
		return nil, fmt.Errorf("unknown backend: %q", c.Backend)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "carelog", "config.json")
}

// Load reads config from disk, then applies CARELOG_* environment overrides.
func Load() (*Config, error) {
	cfg, err := loadFile(GetConfigPath())
	if err != nil {
		return nil, err
	}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

func loadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	path := GetConfigPath()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
