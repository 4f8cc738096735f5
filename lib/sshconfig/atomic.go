// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// withLock runs fn while holding an exclusive advisory lock on the
// lock file in the configuration root. Separate bastionctl invocations
// mutating the shared main config serialize here; the lock says
// nothing about other programs editing the file.
func (m *Manager) withLock(fn func() error) error {
	lockFile, err := os.OpenFile(m.opts.lockPath(), os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return fmt.Errorf("opening lock file %s: %w", m.opts.lockPath(), err)
	}
	defer lockFile.Close()

	if err := unix.Flock(int(lockFile.Fd()), unix.LOCK_EX); err != nil {
		return fmt.Errorf("locking %s: %w", m.opts.lockPath(), err)
	}
	defer unix.Flock(int(lockFile.Fd()), unix.LOCK_UN)

	return fn()
}

// writeFileAtomic replaces path with data via a temp file in the same
// directory and a rename, so readers never observe a partial write.
// The temp file is removed on any failure before the rename.
func writeFileAtomic(path string, data []byte, mode os.FileMode) error {
	directory := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(directory, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", directory, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("writing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Chmod(mode); err != nil {
		return fmt.Errorf("setting mode on %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}

	success = true
	return nil
}
