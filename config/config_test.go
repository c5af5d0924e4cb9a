package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func withConfigDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	SetConfigDir(dir)
	t.Cleanup(func() { SetConfigDir("") })
	return dir
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	withConfigDir(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.MirrorURL != "ws://localhost:8000/ws" {
		t.Fatalf("MirrorURL = %q", cfg.Server.MirrorURL)
	}
	if cfg.Server.SubmitURL != "http://localhost:8000/submit_note" {
		t.Fatalf("SubmitURL = %q", cfg.Server.SubmitURL)
	}
	if cfg.Editor.TokenLimit != 1024 {
		t.Fatalf("TokenLimit = %d, want 1024", cfg.Editor.TokenLimit)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := withConfigDir(t)

	cfg := DefaultConfig()
	cfg.Server.MirrorURL = "wss://notes.example.com/ws"
	cfg.Logging.Level = "debug"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("config.yaml should exist: %v", err)
	}

	got, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.Server.MirrorURL != "wss://notes.example.com/ws" {
		t.Fatalf("MirrorURL = %q", got.Server.MirrorURL)
	}
	if got.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q, want debug", got.Logging.Level)
	}
}

func TestLoadFillsPartialFile(t *testing.T) {
	dir := withConfigDir(t)
	raw := "server:\n  submitURL: http://127.0.0.1:9000/submit_note\nlogging:\n  level: warn\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.SubmitURL != "http://127.0.0.1:9000/submit_note" {
		t.Fatalf("SubmitURL = %q", cfg.Server.SubmitURL)
	}
	if cfg.Server.MirrorURL != defaultMirrorURL || cfg.Server.NotesURL != defaultNotesURL {
		t.Fatalf("missing endpoints should default, got %+v", cfg.Server)
	}
	lc := cfg.BuildLoggerConfig()
	if !lc.Enabled || lc.Level != "warn" {
		t.Fatalf("BuildLoggerConfig() = %+v, want enabled warn", lc)
	}
}

func TestLoadRejectsWrongScheme(t *testing.T) {
	dir := withConfigDir(t)
	raw := "server:\n  mirrorURL: http://localhost:8000/ws\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "server.mirrorURL") {
		t.Fatalf("Load() error = %v, want mirrorURL scheme error", err)
	}
}

func TestDisabledLoggingSurvivesDefaults(t *testing.T) {
	off := false
	cfg := &Config{Logging: LoggingConfig{Enabled: &off, Level: "error"}}
	cfg.applyDefaults()
	if cfg.BuildLoggerConfig().Enabled {
		t.Fatalf("explicitly disabled logging should stay disabled")
	}
}

func TestConfigDirFailsWithoutHome(t *testing.T) {
	SetConfigDir("")
	t.Setenv("HOME", "")

	if _, err := ConfigDir(); err == nil {
		t.Fatal("ConfigDir() should fail when the home directory is unknown")
	}
	if _, err := ConfigPath(); err == nil {
		t.Fatal("ConfigPath() should fail when the home directory is unknown")
	}

	SetConfigDir("/tmp/notakers")
	t.Cleanup(func() { SetConfigDir("") })
	if dir, err := ConfigDir(); err != nil || dir != "/tmp/notakers" {
		t.Fatalf("ConfigDir() with override = %q, %v", dir, err)
	}
}
