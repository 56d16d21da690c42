// ABOUTME: macrolog configuration management with env overrides.
// ABOUTME: JSON config on disk, MACROLOG_* environment variables win.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/google/uuid"

	"github.com/abhinavk/macrolog/internal/storage"
)

// Config stores macrolog configuration. Environment variables override
// the file on every load.
type Config struct {
	// ServerURL is the base URL of the sync backend. Empty means the
	// tool runs purely offline.
	ServerURL string `json:"server_url,omitempty" env:"MACROLOG_SERVER_URL"`

	// Token authenticates requests against the sync backend.
	Token string `json:"token,omitempty" env:"MACROLOG_TOKEN"`

	// DeviceID identifies this install to the backend. Generated on
	// first load and persisted.
	DeviceID string `json:"device_id,omitempty" env:"MACROLOG_DEVICE_ID"`

	// DataDir is the root directory for data storage; macrolog.db lives
	// here. Supports ~ expansion. Defaults to the XDG data directory.
	DataDir string `json:"data_dir,omitempty" env:"MACROLOG_DATA_DIR"`
}

// GetDataDir returns the configured data directory with ~ expanded,
// defaulting to the standard XDG data directory.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return storage.DataDir()
	}
	return ExpandPath(c.DataDir)
}

// DBPath returns the SQLite database path under the data directory.
func (c *Config) DBPath() string {
	return filepath.Join(c.GetDataDir(), "macrolog.db")
}

// SyncEnabled reports whether a sync backend is configured.
func (c *Config) SyncEnabled() bool {
	return strings.TrimSpace(c.ServerURL) != ""
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

// GetConfigPath returns the config file path.
func GetConfigPath() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, _ := os.UserHomeDir()
		configDir = filepath.Join(homeDir, ".config")
	}
	return filepath.Join(configDir, "macrolog", "config.json")
}

// Load reads config from disk, applies environment overrides, and makes
// sure a device id exists. A brand-new device id is persisted immediately.
func Load() (*Config, error) {
	path := GetConfigPath()
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if err == nil {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, err
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	if cfg.DeviceID == "" {
		cfg.DeviceID = uuid.NewString()
		if err := cfg.Save(); err != nil {
			return nil, err
		}
	}
	return cfg, nil
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
