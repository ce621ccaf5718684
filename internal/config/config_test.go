package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.BaseURL != "http://localhost:5000" {
		t.Errorf("base url = %q", cfg.Server.BaseURL)
	}
	if cfg.Notify.Interval != 10*time.Second {
		t.Errorf("poll interval = %v, want 10s", cfg.Notify.Interval)
	}
	if cfg.Notify.SoundCooldown != 2*time.Second {
		t.Errorf("sound cooldown = %v, want 2s", cfg.Notify.SoundCooldown)
	}
	if cfg.Notify.ToastTTL != 8*time.Second {
		t.Errorf("toast ttl = %v, want 8s", cfg.Notify.ToastTTL)
	}
	if cfg.Chat.TypingIdle != time.Second {
		t.Errorf("typing idle = %v, want 1s", cfg.Chat.TypingIdle)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "barbearia.yaml")
	content := []byte("server:\n  baseurl: https://barbearia.example.com\nnotify:\n  interval: 30s\nlog:\n  level: debug\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Server.BaseURL != "https://barbearia.example.com" {
		t.Errorf("base url = %q", cfg.Server.BaseURL)
	}
	if cfg.Notify.Interval != 30*time.Second {
		t.Errorf("poll interval = %v, want 30s", cfg.Notify.Interval)
	}
	// Keys the file omits keep their defaults.
	if cfg.Notify.SoundCooldown != 2*time.Second {
		t.Errorf("sound cooldown = %v, want default 2s", cfg.Notify.SoundCooldown)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
}
