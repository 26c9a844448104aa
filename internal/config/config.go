// Package config loads per-root trellis settings. The CLI layer wires these
// through viper; this package reads the file directly for callers that need
// settings before viper is initialized, or for a different root than the one
// viper was pointed at.
package config

import (
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ConfigDirName is the per-root settings directory.
const ConfigDirName = ".trellis"

// DefaultRetentionDays is how long daily audit logs are kept when the
// config does not say otherwise.
const DefaultRetentionDays = 30

// LocalConfig is the subset of settings stored in <root>/.trellis/config.yaml.
type LocalConfig struct {
	LogDir          string `yaml:"log-dir"`
	RetentionDays   int    `yaml:"retention-days"`
	DefaultPriority string `yaml:"default-priority"`
	Worktree        string `yaml:"worktree"`
}

// Load reads config.yaml from the root's settings directory. A missing or
// unparseable file yields an empty config (not nil), with defaults applied.
func Load(root string) *LocalConfig {
	cfg := &LocalConfig{}
	path := filepath.Join(root, ConfigDirName, "config.yaml")
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			cfg = &LocalConfig{}
		}
	}
	cfg.applyDefaults(root)
	return cfg
}

// LoadWithEnv reads config.yaml and applies environment overrides.
// Environment variables take precedence over file values:
//
//	TRELLIS_LOG_DIR         overrides log-dir
//	TRELLIS_RETENTION_DAYS  overrides retention-days
//	TRELLIS_WORKTREE        overrides worktree
func LoadWithEnv(root string) *LocalConfig {
	cfg := Load(root)
	if dir := os.Getenv("TRELLIS_LOG_DIR"); dir != "" {
		cfg.LogDir = dir
	}
	if days := os.Getenv("TRELLIS_RETENTION_DAYS"); days != "" {
		if n, err := strconv.Atoi(days); err == nil && n > 0 {
			cfg.RetentionDays = n
		}
	}
	if wt := os.Getenv("TRELLIS_WORKTREE"); wt != "" {
		cfg.Worktree = wt
	}
	return cfg
}

func (c *LocalConfig) applyDefaults(root string) {
	if c.LogDir == "" {
		c.LogDir = filepath.Join(root, ConfigDirName, "logs")
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = DefaultRetentionDays
	}
	if c.DefaultPriority == "" {
		c.DefaultPriority = "normal"
	}
}
