// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

// writeAgedSnippet creates a snippet file for alias whose modification
// time lies age before the fake clock's current time.
func writeAgedSnippet(t *testing.T, m *Manager, alias string, age time.Duration) {
	t.Helper()
	path := m.Options().SnippetPath(alias)
	if err := os.WriteFile(path, []byte("# snippet "+alias+"\n"), 0o600); err != nil {
		t.Fatalf("writing snippet %s: %v", path, err)
	}
	mtime := testStart.Add(-age)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("setting mtime on %s: %v", path, err)
	}
}

func TestReap_RemovesOldKeepsRecent(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.EnsureSkeleton(); err != nil {
		t.Fatalf("EnsureSkeleton() error: %v", err)
	}

	writeAgedSnippet(t, m, "oldsess1", 4*time.Hour)
	writeAgedSnippet(t, m, "newsess1", 2*time.Hour)
	if err := m.SyncInclude("oldsess1"); err != nil {
		t.Fatalf("SyncInclude(oldsess1) error: %v", err)
	}
	if err := m.SyncInclude("newsess1"); err != nil {
		t.Fatalf("SyncInclude(newsess1) error: %v", err)
	}

	result, err := m.Reap(3 * time.Hour)
	if err != nil {
		t.Fatalf("Reap() error: %v", err)
	}

	if !slices.Equal(result.Removed, []string{"oldsess1"}) {
		t.Errorf("Removed = %v, want [oldsess1]", result.Removed)
	}
	if result.Failed != 0 {
		t.Errorf("Failed = %d, want 0", result.Failed)
	}

	if _, err := os.Stat(m.Options().SnippetPath("oldsess1")); !os.IsNotExist(err) {
		t.Error("stale snippet still exists")
	}
	if _, err := os.Stat(m.Options().SnippetPath("newsess1")); err != nil {
		t.Errorf("recent snippet was removed: %v", err)
	}

	mainContent := readMain(t, m)
	if strings.Contains(mainContent, m.Options().SnippetPath("oldsess1")) {
		t.Errorf("stale Include line still present:\n%s", mainContent)
	}
	if !strings.Contains(mainContent, m.Options().SnippetPath("newsess1")) {
		t.Errorf("live Include line lost:\n%s", mainContent)
	}
}

func TestReap_ExactThresholdIsRetained(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.EnsureSkeleton(); err != nil {
		t.Fatalf("EnsureSkeleton() error: %v", err)
	}
	writeAgedSnippet(t, m, "boundary", 3*time.Hour)

	result, err := m.Reap(3 * time.Hour)
	if err != nil {
		t.Fatalf("Reap() error: %v", err)
	}
	if len(result.Removed) != 0 {
		t.Errorf("Removed = %v, want none at exact threshold", result.Removed)
	}
}

func TestReap_IgnoresForeignFiles(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.EnsureSkeleton(); err != nil {
		t.Fatalf("EnsureSkeleton() error: %v", err)
	}

	foreign := filepath.Join(m.Options().SnippetDir, "known_hosts")
	if err := os.WriteFile(foreign, []byte("x\n"), 0o600); err != nil {
		t.Fatalf("writing foreign file: %v", err)
	}
	old := testStart.Add(-10 * time.Hour)
	if err := os.Chtimes(foreign, old, old); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	result, err := m.Reap(3 * time.Hour)
	if err != nil {
		t.Fatalf("Reap() error: %v", err)
	}
	if len(result.Removed) != 0 {
		t.Errorf("Removed = %v, want none", result.Removed)
	}
	if _, err := os.Stat(foreign); err != nil {
		t.Errorf("foreign file was removed: %v", err)
	}
}

func TestReap_MissingSnippetDirIsZeroNotError(t *testing.T) {
	m, _ := newTestManager(t)

	result, err := m.Reap(3 * time.Hour)
	if err != nil {
		t.Fatalf("Reap() error: %v", err)
	}
	if len(result.Removed) != 0 || result.Failed != 0 {
		t.Errorf("Reap() = %+v, want zero result", result)
	}
}

func TestReap_CountMatchesDeletedFiles(t *testing.T) {
	m, _ := newTestManager(t)
	if err := m.EnsureSkeleton(); err != nil {
		t.Fatalf("EnsureSkeleton() error: %v", err)
	}

	stale := []string{"stale001", "stale002", "stale003"}
	for _, alias := range stale {
		writeAgedSnippet(t, m, alias, 5*time.Hour)
	}
	writeAgedSnippet(t, m, "fresh001", time.Hour)

	result, err := m.Reap(3 * time.Hour)
	if err != nil {
		t.Fatalf("Reap() error: %v", err)
	}

	if len(result.Removed) != len(stale) {
		t.Fatalf("removed %d aliases, want %d", len(result.Removed), len(stale))
	}
	for _, alias := range stale {
		if !slices.Contains(result.Removed, alias) {
			t.Errorf("Removed missing %s", alias)
		}
		if _, err := os.Stat(m.Options().SnippetPath(alias)); !os.IsNotExist(err) {
			t.Errorf("snippet %s still on disk", alias)
		}
	}
}
