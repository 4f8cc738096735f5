// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"log/slog"
	"path/filepath"

	"github.com/bastion-tools/bastionctl/lib/clock"
)

// Options is the immutable configuration for the state manager,
// constructed once per invocation and threaded explicitly. There is no
// package-level state.
type Options struct {
	// Dir is the SSH configuration root (typically ~/.ssh).
	Dir string

	// SnippetDir is where per-session snippet files live
	// (typically <Dir>/bastion.d).
	SnippetDir string

	// MainConfig is the shared top-level ssh_config file
	// (typically <Dir>/config).
	MainConfig string

	// IdentityFile is the private key referenced by generated stanzas.
	IdentityFile string

	// Prefix names snippet files: <SnippetDir>/<Prefix>_<alias>.
	Prefix string

	// Enabled gates the whole subsystem. When false, every Manager
	// operation is a no-op: no directory creation, no writes.
	Enabled bool
}

// SnippetPath returns the snippet file path for an alias.
func (o Options) SnippetPath(alias string) string {
	return filepath.Join(o.SnippetDir, o.Prefix+"_"+alias)
}

// lockPath is the advisory lock file guarding main-config rewrites.
func (o Options) lockPath() string {
	return filepath.Join(o.Dir, ".bastionctl.lock")
}

// Manager applies session-derived state to the local SSH configuration.
type Manager struct {
	opts   Options
	logger *slog.Logger
	clock  clock.Clock
}

// NewManager returns a Manager for the given options. The logger is
// used for non-fatal warnings (loose validation, per-entry reaper
// failures); the clock drives age decisions and snippet timestamps.
func NewManager(opts Options, logger *slog.Logger, clk clock.Clock) *Manager {
	return &Manager{opts: opts, logger: logger, clock: clk}
}

// Options returns the manager's configuration.
func (m *Manager) Options() Options { return m.opts }
