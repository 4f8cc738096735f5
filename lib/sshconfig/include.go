// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"fmt"
	"os"
	"strings"
)

// managedHeader marks the top of the managed Include block in the
// shared main configuration file.
const managedHeader = "# Bastion sessions managed by bastionctl"

// includeLine returns the Include directive for an alias's snippet.
func (o Options) includeLine(alias string) string {
	return "Include " + o.SnippetPath(alias)
}

// SyncInclude ensures the main configuration file references the
// alias's snippet exactly once, at the top of the file. ssh honors the
// first matching Host stanza it reads, so generated stanzas must load
// ahead of any user content.
//
// The merge is deliberately narrow:
//
//   - No reference present: the managed header (unless already the
//     first line), the Include line, and a blank separator are
//     inserted ahead of all existing content. Nothing else changes.
//   - Reference present somewhere in the middle: the file is treated
//     as already synchronized and left untouched, even though load
//     order may be wrong for it there. Reordering a hand-edited file
//     is riskier than leaving it; see TestSyncInclude_MidFile* for the
//     pinned behavior.
//   - Reference present as the file's last line: it is removed from
//     that position and the insertion path runs, relocating it to the
//     top under a single header.
func (m *Manager) SyncInclude(alias string) error {
	if !m.opts.Enabled {
		return nil
	}
	return m.withLock(func() error {
		return m.syncIncludeLocked(alias)
	})
}

func (m *Manager) syncIncludeLocked(alias string) error {
	content, err := readMainConfig(m.opts.MainConfig)
	if err != nil {
		return err
	}

	include := m.opts.includeLine(alias)
	lines := configLines(content)

	position := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == include {
			position = i
			break
		}
	}

	switch {
	case position < 0:
		// Fall through to insertion.
	case position == len(lines)-1:
		// Last line: relocate to the top.
		lines = lines[:position]
		content = joinConfigLines(lines)
	default:
		// Mid-file reference: already synchronized.
		return nil
	}

	updated := insertInclude(content, include)
	if err := writeFileAtomic(m.opts.MainConfig, []byte(updated), 0o600); err != nil {
		return fmt.Errorf("updating main config: %w", err)
	}
	return nil
}

// RemoveInclude deletes the alias's Include line from the main
// configuration file, wherever it is. Removing a line that is not
// there is a no-op.
func (m *Manager) RemoveInclude(alias string) error {
	if !m.opts.Enabled {
		return nil
	}
	return m.withLock(func() error {
		content, err := readMainConfig(m.opts.MainConfig)
		if err != nil {
			return err
		}

		include := m.opts.includeLine(alias)
		lines := configLines(content)
		kept := lines[:0]
		removed := false
		for _, line := range lines {
			if !removed && strings.TrimSpace(line) == include {
				removed = true
				continue
			}
			kept = append(kept, line)
		}
		if !removed {
			return nil
		}

		if err := writeFileAtomic(m.opts.MainConfig, []byte(joinConfigLines(kept)), 0o600); err != nil {
			return fmt.Errorf("updating main config: %w", err)
		}
		return nil
	})
}

// insertInclude prepends the managed header and the Include line to
// content. When the header is already the first line it is not
// duplicated; the new Include slots in directly beneath it, keeping
// the managed block contiguous with most-recently-added first.
func insertInclude(content, include string) string {
	if first, rest, ok := strings.Cut(content, "\n"); ok && first == managedHeader {
		return managedHeader + "\n" + include + "\n" + rest
	}
	if content == managedHeader {
		return managedHeader + "\n" + include + "\n"
	}
	return managedHeader + "\n" + include + "\n\n" + content
}

// readMainConfig reads the shared file, treating a missing file as
// empty. The skeleton normally creates it first; synchronizing into a
// root the user deleted mid-run should still succeed.
func readMainConfig(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading main config %s: %w", path, err)
	}
	return string(data), nil
}

// configLines splits content into lines, dropping the empty artifact
// after a trailing newline so "the file's last line" means the last
// line a reader sees.
func configLines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// joinConfigLines is the inverse of configLines: non-empty content
// always ends with a newline.
func joinConfigLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}
