// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"fmt"
	"os"
)

// EnsureSkeleton guarantees the configuration root, the snippet
// directory, and the main configuration file exist with owner-only
// permissions. Idempotent: repeated calls against an initialized root
// change nothing. Never deletes anything.
func (m *Manager) EnsureSkeleton() error {
	if !m.opts.Enabled {
		return nil
	}

	if err := os.MkdirAll(m.opts.Dir, 0o700); err != nil {
		return fmt.Errorf("creating ssh config root %s: %w", m.opts.Dir, err)
	}
	if err := os.MkdirAll(m.opts.SnippetDir, 0o700); err != nil {
		return fmt.Errorf("creating snippet directory %s: %w", m.opts.SnippetDir, err)
	}

	// Create the main config only if absent. An existing file belongs
	// to the user and is never truncated here.
	file, err := os.OpenFile(m.opts.MainConfig, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil
		}
		return fmt.Errorf("creating main config %s: %w", m.opts.MainConfig, err)
	}
	return file.Close()
}
