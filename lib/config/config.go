// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for bastionctl.
//
// Configuration is loaded from a single YAML file specified by:
//   - BASTIONCTL_CONFIG environment variable, or
//   - --config flag passed to the command
//
// When neither is set, built-in defaults apply. There is no discovery
// chain and environment variables do not override individual values;
// the file (or the defaults) is the single source of truth.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the master configuration for bastionctl.
type Config struct {
	// Profile is the provider CLI profile passed through to the oci
	// binary (--profile). Empty means the oci default.
	Profile string `yaml:"profile"`

	// Region is the provider region passed through to the oci binary
	// (--region). Empty means the profile's default region.
	Region string `yaml:"region"`

	// SSH configures the local SSH configuration state manager.
	SSH SSHConfig `yaml:"ssh"`

	// Session configures session creation defaults.
	Session SessionConfig `yaml:"session"`

	// Reaper configures the stale snippet reaper.
	Reaper ReaperConfig `yaml:"reaper"`
}

// SSHConfig configures where generated SSH configuration lives.
type SSHConfig struct {
	// Enabled controls whether local SSH configuration is managed at
	// all. When false the state manager is skipped entirely: no
	// directory creation, no writes.
	Enabled bool `yaml:"enabled"`

	// Dir is the SSH configuration root. Default: ~/.ssh
	Dir string `yaml:"dir"`

	// SnippetDir is where per-session snippet files are written.
	// Default: <dir>/bastion.d
	SnippetDir string `yaml:"snippet_dir"`

	// MainConfig is the shared top-level SSH configuration file.
	// Default: <dir>/config
	MainConfig string `yaml:"main_config"`

	// IdentityFile is the private key referenced by generated host
	// stanzas. Its ".pub" sibling is sent to the provider on session
	// creation. Default: ~/.ssh/id_rsa
	IdentityFile string `yaml:"identity_file"`

	// Prefix is the snippet file name prefix. Default: bastion
	Prefix string `yaml:"prefix"`
}

// SessionConfig configures session creation defaults.
type SessionConfig struct {
	// TTLSeconds is the requested session lifetime. Default: 10800 (3h).
	TTLSeconds int `yaml:"ttl_seconds"`

	// OSUser is the default target OS user. Default: opc
	OSUser string `yaml:"os_user"`

	// Port is the default target port. Default: 22
	Port int `yaml:"port"`

	// WaitInterval is the poll interval while waiting for a session
	// to become active. Default: 5s
	WaitInterval Duration `yaml:"wait_interval"`

	// WaitBudget bounds the activation wait. When exhausted the create
	// flow proceeds without the local artifact. Default: 2m
	WaitBudget Duration `yaml:"wait_budget"`
}

// ReaperConfig configures the stale snippet reaper.
type ReaperConfig struct {
	// MaxAge is the snippet age threshold. Snippet files whose
	// modification time is older than this are removed together with
	// their Include lines. Default: 3h (a multiple of the typical
	// session TTL).
	MaxAge Duration `yaml:"max_age"`
}

// Duration is a time.Duration that unmarshals from YAML strings in
// time.ParseDuration syntax ("5s", "3h"). Bare integers are rejected;
// a unit is always required.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the value as a standard time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// Default returns the built-in defaults. SnippetDir and MainConfig are
// left empty here and derived from Dir by Load/LoadFile, so that a
// config file overriding only the root directory moves them with it.
func Default() *Config {
	homeDir, _ := os.UserHomeDir()
	sshDir := filepath.Join(homeDir, ".ssh")

	return &Config{
		SSH: SSHConfig{
			Enabled:      true,
			Dir:          sshDir,
			IdentityFile: filepath.Join(sshDir, "id_rsa"),
			Prefix:       "bastion",
		},
		Session: SessionConfig{
			TTLSeconds:   10800,
			OSUser:       "opc",
			Port:         22,
			WaitInterval: Duration(5 * time.Second),
			WaitBudget:   Duration(2 * time.Minute),
		},
		Reaper: ReaperConfig{
			MaxAge: Duration(3 * time.Hour),
		},
	}
}

// Load loads configuration from the BASTIONCTL_CONFIG environment
// variable, falling back to the built-in defaults when it is unset.
func Load() (*Config, error) {
	configPath := os.Getenv("BASTIONCTL_CONFIG")
	if configPath == "" {
		cfg := Default()
		cfg.fillDerived()
		return cfg, nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path, merging the
// file's values over the defaults. Empty fields in the file keep their
// default values; a field present in the file wins.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandPaths()
	cfg.fillDerived()
	return cfg, nil
}

// expandPaths expands a leading "~/" and ${HOME} in path fields so
// config files are portable between users.
func (c *Config) expandPaths() {
	for _, field := range []*string{
		&c.SSH.Dir, &c.SSH.SnippetDir, &c.SSH.MainConfig, &c.SSH.IdentityFile,
	} {
		*field = expandHome(*field)
	}
}

// fillDerived fills path fields whose defaults derive from SSH.Dir.
// A config file that overrides only the root should not silently keep
// snippet and main-config paths pointing at the old default root.
func (c *Config) fillDerived() {
	if c.SSH.Dir == "" {
		return
	}
	if c.SSH.SnippetDir == "" {
		c.SSH.SnippetDir = filepath.Join(c.SSH.Dir, "bastion.d")
	}
	if c.SSH.MainConfig == "" {
		c.SSH.MainConfig = filepath.Join(c.SSH.Dir, "config")
	}
}

func expandHome(path string) string {
	if path == "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(home, path[2:])
	}
	return strings.ReplaceAll(path, "${HOME}", home)
}
