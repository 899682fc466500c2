package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Form.Endpoint != nil || cfg.Form.Mode != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigReadsFormSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[form]\nendpoint = \"http://localhost:8080/bfhl\"\nmode = \"multi\"\ntimeout = \"5s\"\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Form.Endpoint == nil || *cfg.Form.Endpoint != "http://localhost:8080/bfhl" {
		t.Fatalf("unexpected endpoint: %v", cfg.Form.Endpoint)
	}
	if cfg.Form.Mode == nil || *cfg.Form.Mode != "multi" {
		t.Fatalf("unexpected mode: %v", cfg.Form.Mode)
	}
	if cfg.Form.Timeout == nil || *cfg.Form.Timeout != "5s" {
		t.Fatalf("unexpected timeout: %v", cfg.Form.Timeout)
	}
	if cfg.Form.LogLevel != nil {
		t.Fatalf("expected unset log level")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[form]\nendpont = \"x\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestDefaultPathsHonorXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	if got := DefaultConfigPath(); got != filepath.Join("/tmp/cfg", "bfhl", "config.toml") {
		t.Fatalf("unexpected config path: %s", got)
	}
	if got := DefaultLogPath(); got != filepath.Join("/tmp/state", "bfhl", "bfhl.log") {
		t.Fatalf("unexpected log path: %s", got)
	}
}
