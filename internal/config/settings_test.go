package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadSettingsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	s, err := LoadSettings(NewViper())
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.FPS != 60 {
		t.Errorf("FPS = %d, expected 60", s.FPS)
	}
	if s.LogLevel != "info" {
		t.Errorf("LogLevel = %q, expected info", s.LogLevel)
	}
	if s.Server.SSHAddr != ":23234" {
		t.Errorf("Server.SSHAddr = %q, expected :23234", s.Server.SSHAddr)
	}
	if s.Server.IdleTimeout != 30*time.Minute {
		t.Errorf("Server.IdleTimeout = %v, expected 30m", s.Server.IdleTimeout)
	}
	if filepath.Base(s.Store) != "scores.db" {
		t.Errorf("Store = %q, expected a scores.db path", s.Store)
	}
}

func TestLoadSettingsEnvOverride(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLAPPY_STORE", "redis://localhost:6379/0")
	t.Setenv("FLAPPY_LOG_LEVEL", "debug")
	t.Setenv("FLAPPY_SERVER_HTTP", ":9090")

	s, err := LoadSettings(NewViper())
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.Store != "redis://localhost:6379/0" {
		t.Errorf("Store = %q, expected the env value", s.Store)
	}
	if s.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, expected debug", s.LogLevel)
	}
	if s.Server.HTTPAddr != ":9090" {
		t.Errorf("Server.HTTPAddr = %q, expected :9090", s.Server.HTTPAddr)
	}
}

func TestLoadSettingsFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	dir := filepath.Join(home, ".flappy")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	data := "fps: 30\nserver:\n  idle_timeout: 5m\n"
	if err := os.WriteFile(filepath.Join(dir, "settings.yaml"), []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := LoadSettings(NewViper())
	if err != nil {
		t.Fatalf("LoadSettings() failed: %v", err)
	}
	if s.FPS != 30 {
		t.Errorf("FPS = %d, expected 30", s.FPS)
	}
	if s.Server.IdleTimeout != 5*time.Minute {
		t.Errorf("Server.IdleTimeout = %v, expected 5m", s.Server.IdleTimeout)
	}
}

func TestLoadSettingsRejectsZeroFPS(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("FLAPPY_FPS", "0")

	if _, err := LoadSettings(NewViper()); err == nil {
		t.Error("LoadSettings() should reject fps=0")
	}
}
