package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	root := t.TempDir()
	cfg := Load(root)
	if cfg.LogDir != filepath.Join(root, ConfigDirName, "logs") {
		t.Errorf("log dir = %s", cfg.LogDir)
	}
	if cfg.RetentionDays != DefaultRetentionDays {
		t.Errorf("retention = %d", cfg.RetentionDays)
	}
	if cfg.DefaultPriority != "normal" {
		t.Errorf("default priority = %s", cfg.DefaultPriority)
	}
}

func TestLoadFromFile(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	content := "log-dir: /tmp/trellis-logs\nretention-days: 7\nworktree: wt-main\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := Load(root)
	if cfg.LogDir != "/tmp/trellis-logs" || cfg.RetentionDays != 7 || cfg.Worktree != "wt-main" {
		t.Fatalf("config not loaded: %+v", cfg)
	}
}

func TestLoadMalformedFallsBackToDefaults(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, ConfigDirName)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("{not yaml"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg := Load(root)
	if cfg.RetentionDays != DefaultRetentionDays {
		t.Fatalf("malformed config should fall back to defaults: %+v", cfg)
	}
}

func TestEnvOverrides(t *testing.T) {
	root := t.TempDir()
	t.Setenv("TRELLIS_LOG_DIR", "/var/log/trellis")
	t.Setenv("TRELLIS_RETENTION_DAYS", "3")
	t.Setenv("TRELLIS_WORKTREE", "wt-env")

	cfg := LoadWithEnv(root)
	if cfg.LogDir != "/var/log/trellis" || cfg.RetentionDays != 3 || cfg.Worktree != "wt-env" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}

	// Invalid numeric override is ignored.
	t.Setenv("TRELLIS_RETENTION_DAYS", "zero")
	cfg = LoadWithEnv(root)
	if cfg.RetentionDays != DefaultRetentionDays {
		t.Fatalf("bad env retention should be ignored: %d", cfg.RetentionDays)
	}
}
