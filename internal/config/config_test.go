package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"TASKLY_PROJECT_ID", "TASKLY_API_KEY", "TASKLY_TIMEOUT"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestNew_Defaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Dir != dir {
		t.Errorf("expected dir %s, got %s", dir, cfg.Dir)
	}
	if cfg.ProjectID != "" || cfg.APIKey != "" || cfg.Timeout != 0 {
		t.Errorf("expected empty settings, got %+v", cfg)
	}
	if cfg.HasConfigFile() {
		t.Error("expected no config file in a fresh directory")
	}
}

func TestNew_ReadsFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "project_id: demo\napi_key: key-123\ntimeout: 10s\ndebug: true\n")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProjectID != "demo" || cfg.APIKey != "key-123" {
		t.Errorf("unexpected settings: %+v", cfg)
	}
	if cfg.Timeout != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Timeout)
	}
	if !cfg.Debug {
		t.Error("expected debug from file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestNew_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeConfig(t, dir, "project_id: demo\napi_key: key-123\n")
	t.Setenv("TASKLY_PROJECT_ID", "staging")
	t.Setenv("TASKLY_TIMEOUT", "30s")

	cfg, err := New(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ProjectID != "staging" {
		t.Errorf("expected env project, got %q", cfg.ProjectID)
	}
	if cfg.APIKey != "key-123" {
		t.Errorf("expected file api key, got %q", cfg.APIKey)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Timeout)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		prefix  string
	}{
		{"negative timeout", "timeout: -5s\n", "invalid timeout"},
		{"bad timeout", "timeout: soon\n", "invalid config.yaml"},
		{"malformed yaml", "project_id: [demo\n", "invalid config.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeConfig(t, dir, tt.content)

			_, err := New(dir)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.HasPrefix(err.Error(), tt.prefix) {
				t.Errorf("expected %q prefix, got %v", tt.prefix, err)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{Dir: "/tmp/taskly"}
	if err := cfg.Validate(); err == nil || err.Error() != "project_id not set in /tmp/taskly/config.yaml" {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.ProjectID = "demo"
	if err := cfg.Validate(); err == nil || err.Error() != "api_key not set in /tmp/taskly/config.yaml" {
		t.Errorf("unexpected error: %v", err)
	}
	cfg.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}
}

func TestDefaultConfigDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/xdg", AppName) {
		t.Errorf("unexpected dir: %s", got)
	}

	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", "/tmp/home")
	if got := DefaultConfigDir(); got != filepath.Join("/tmp/home", ".config", AppName) {
		t.Errorf("unexpected dir: %s", got)
	}
}

func TestSessionPath(t *testing.T) {
	cfg := &Config{Dir: "/tmp/taskly"}
	if cfg.SessionPath() != filepath.Join("/tmp/taskly", SessionFile) {
		t.Errorf("unexpected session path: %s", cfg.SessionPath())
	}
}
