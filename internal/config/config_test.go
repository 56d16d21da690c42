// ABOUTME: Tests for config load/save and environment overrides.
// ABOUTME: Uses a throwaway XDG_CONFIG_HOME so nothing touches the real config.
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGeneratesDeviceID(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MACROLOG_SERVER_URL", "")
	t.Setenv("MACROLOG_TOKEN", "")
	t.Setenv("MACROLOG_DEVICE_ID", "")
	t.Setenv("MACROLOG_DATA_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DeviceID == "" {
		t.Fatal("expected generated device id")
	}

	// The generated id must survive a reload.
	again, err := Load()
	if err != nil {
		t.Fatalf("second Load failed: %v", err)
	}
	if again.DeviceID != cfg.DeviceID {
		t.Errorf("device id changed across loads: %s vs %s", cfg.DeviceID, again.DeviceID)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MACROLOG_SERVER_URL", "")
	t.Setenv("MACROLOG_TOKEN", "")
	t.Setenv("MACROLOG_DEVICE_ID", "")
	t.Setenv("MACROLOG_DATA_DIR", "")

	cfg := &Config{
		ServerURL: "https://sync.example.com",
		Token:     "tok",
		DeviceID:  "dev-1",
		DataDir:   "/tmp/macrolog-test",
	}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ServerURL != "https://sync.example.com" || got.DeviceID != "dev-1" {
		t.Errorf("round trip mismatch: %+v", got)
	}
	if got.DBPath() != filepath.Join("/tmp/macrolog-test", "macrolog.db") {
		t.Errorf("DBPath = %s", got.DBPath())
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("MACROLOG_TOKEN", "")
	t.Setenv("MACROLOG_DEVICE_ID", "")
	t.Setenv("MACROLOG_DATA_DIR", "")

	cfg := &Config{ServerURL: "https://file.example.com", DeviceID: "dev-1"}
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	t.Setenv("MACROLOG_SERVER_URL", "https://env.example.com")

	got, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got.ServerURL != "https://env.example.com" {
		t.Errorf("ServerURL = %s, want env value", got.ServerURL)
	}
}

func TestSyncEnabled(t *testing.T) {
	if (&Config{}).SyncEnabled() {
		t.Error("empty server url should disable sync")
	}
	if !(&Config{ServerURL: "https://sync.example.com"}).SyncEnabled() {
		t.Error("server url should enable sync")
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	if got := ExpandPath("~/data"); got != filepath.Join(home, "data") {
		t.Errorf("ExpandPath(~/data) = %s", got)
	}
	if got := ExpandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("ExpandPath(/abs/path) = %s", got)
	}
	if got := ExpandPath(""); got != "" {
		t.Errorf("ExpandPath(empty) = %s", got)
	}
}
