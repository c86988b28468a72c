package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	t.Setenv("OUTLINE_BASE_URL", "")
	t.Setenv("OUTLINE_CONFIG", "")
	t.Setenv("OUTLINE_DATA_DIR", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL() != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
	if cfg.RequestTimeout() != 10*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if !cfg.DarkBackground() || !cfg.MarkdownEnabled() {
		t.Fatalf("expected dark and markdown defaults on")
	}
	if cfg.LogLevel() != "info" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel())
	}
}

func TestLoadFromTOML(t *testing.T) {
	home := filepath.Join(t.TempDir(), "home")
	t.Setenv("HOME", home)
	t.Setenv("OUTLINE_BASE_URL", "")
	t.Setenv("OUTLINE_CONFIG", "")
	t.Setenv("OUTLINE_DATA_DIR", "")

	dataDir := filepath.Join(home, ".outline")
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	content := []byte("[server]\nbase_url = \"http://127.0.0.1:9000/\"\ntimeout_seconds = 3\n\n[ui]\nmarkdown = false\ndark = true\n\n[submit]\nmodel = \"gpt-4.1\"\n")
	if err := os.WriteFile(filepath.Join(dataDir, "config.toml"), content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL() != "http://127.0.0.1:9000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
	if cfg.RequestTimeout() != 3*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.RequestTimeout())
	}
	if cfg.MarkdownEnabled() {
		t.Fatalf("expected markdown disabled")
	}
	if cfg.SubmitModel() != "gpt-4.1" {
		t.Fatalf("unexpected submit model: %q", cfg.SubmitModel())
	}
}

func TestBaseURLEnvOverride(t *testing.T) {
	t.Setenv("HOME", filepath.Join(t.TempDir(), "home"))
	t.Setenv("OUTLINE_BASE_URL", "http://10.0.0.5:8000/")

	cfg := DefaultSettings()
	if cfg.BaseURL() != "http://10.0.0.5:8000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("OUTLINE_CONFIG", filepath.Join(t.TempDir(), "nope", "config.toml"))
	t.Setenv("OUTLINE_BASE_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BaseURL() != "http://127.0.0.1:8000" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL())
	}
}
