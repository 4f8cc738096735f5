// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// ReapResult reports what a reaper pass removed.
type ReapResult struct {
	// Removed holds the aliases whose snippet files were deleted.
	Removed []string `json:"removed"`

	// Failed counts per-entry failures (a snippet that could not be
	// deleted, or an Include line that could not be removed). The pass
	// continues past failures.
	Failed int `json:"failed"`
}

// Reap deletes snippet files whose modification time is older than
// maxAge and removes their Include lines from the main configuration
// file. Age is measured against file modification time, not the
// session's TTL clock, so this only approximates provider-side expiry.
//
// Individual entry failures are logged and counted, never fatal; a
// failure to scan the snippet directory is an error distinct from a
// pass that removed nothing.
func (m *Manager) Reap(maxAge time.Duration) (ReapResult, error) {
	var result ReapResult
	if !m.opts.Enabled {
		return result, nil
	}

	entries, err := os.ReadDir(m.opts.SnippetDir)
	if err != nil {
		if os.IsNotExist(err) {
			// Nothing generated yet; nothing to reap.
			return result, nil
		}
		return result, fmt.Errorf("scanning snippet directory %s: %w", m.opts.SnippetDir, err)
	}

	now := m.clock.Now()
	prefix := m.opts.Prefix + "_"

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), prefix) {
			continue
		}
		alias := strings.TrimPrefix(entry.Name(), prefix)

		info, err := entry.Info()
		if err != nil {
			m.logger.Warn("skipping unreadable snippet", "snippet", entry.Name(), "error", err)
			result.Failed++
			continue
		}
		if now.Sub(info.ModTime()) <= maxAge {
			continue
		}

		path := m.opts.SnippetPath(alias)
		if err := os.Remove(path); err != nil {
			m.logger.Warn("failed to remove stale snippet", "snippet", path, "error", err)
			result.Failed++
			continue
		}
		result.Removed = append(result.Removed, alias)

		if err := m.RemoveInclude(alias); err != nil {
			m.logger.Warn("failed to remove Include line for stale snippet",
				"alias", alias, "error", err)
			result.Failed++
		}
	}
	return result, nil
}
