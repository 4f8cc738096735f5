// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"
)

// aliasLength is the identifier suffix length used for local names.
const aliasLength = 8

// Alias derives the local short name for a session identifier: its
// last 8 characters. Pure; only the trailing characters matter.
func Alias(sessionID string) string {
	if len(sessionID) <= aliasLength {
		return sessionID
	}
	return sessionID[len(sessionID)-aliasLength:]
}

// SnippetParams carries the session metadata a snippet is generated
// from. BastionHost must be non-empty (see ExtractBastionHost); the
// other fields are best-effort.
type SnippetParams struct {
	// DisplayName is the session's human-readable name.
	DisplayName string

	// SessionID is the provider session identifier.
	SessionID string

	// TargetAddress is the private address of the target resource.
	TargetAddress string

	// TargetPort is the target's SSH port. Zero means 22.
	TargetPort int

	// TargetUser is the OS user on the target. Empty means the
	// provider default, opc.
	TargetUser string

	// BastionHost is the resolved jump-host name.
	BastionHost string
}

// Loose format checks. Mismatches warn but never block generation:
// a usable alias beats strict validation when the provider's formats
// drift.
var (
	ocidPattern       = regexp.MustCompile(`^ocid1(\.[A-Za-z0-9_-]*){4,}$`)
	dottedQuadPattern = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)
)

// WriteSnippet renders the two-stanza host block for a session and
// writes it to <SnippetDir>/<Prefix>_<alias> with owner-only
// permissions. Returns the alias and the snippet path.
func (m *Manager) WriteSnippet(params SnippetParams) (alias, path string, err error) {
	if !m.opts.Enabled {
		return "", "", nil
	}
	if params.BastionHost == "" {
		return "", "", fmt.Errorf("writing snippet for session %s: %w",
			params.SessionID, ErrMissingBastionHost)
	}

	if !ocidPattern.MatchString(params.SessionID) {
		m.logger.Warn("session identifier does not look like an OCID",
			"session_id", params.SessionID)
	}
	if !dottedQuadPattern.MatchString(params.TargetAddress) {
		m.logger.Warn("target address does not look like an IPv4 address",
			"target", params.TargetAddress)
	}

	alias = Alias(params.SessionID)
	path = m.opts.SnippetPath(alias)

	content := renderSnippet(m.opts.IdentityFile, alias, params, m.clock.Now())
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		return "", "", fmt.Errorf("writing snippet %s: %w", path, err)
	}
	// WriteFile only applies the mode on creation; re-running against
	// an existing snippet must still end owner-only.
	if err := os.Chmod(path, 0o600); err != nil {
		return "", "", fmt.Errorf("restricting snippet %s: %w", path, err)
	}
	return alias, path, nil
}

// renderSnippet produces the snippet text: a comment header followed by
// the jump stanza and the target stanza, in that order. Field order is
// fixed so regeneration is deterministic.
func renderSnippet(identityFile, alias string, params SnippetParams, now time.Time) string {
	port := params.TargetPort
	if port == 0 {
		port = 22
	}
	user := params.TargetUser
	if user == "" {
		user = "opc"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Generated by bastionctl for session %q\n", params.DisplayName)
	fmt.Fprintf(&b, "# Alias: %s\n", alias)
	fmt.Fprintf(&b, "# Created: %s\n", now.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "# Target: %s:%d\n", params.TargetAddress, port)

	fmt.Fprintf(&b, "Host bastion-%s\n", alias)
	fmt.Fprintf(&b, "    HostName %s\n", params.BastionHost)
	writeCommonOptions(&b, identityFile)

	b.WriteString("\n")
	fmt.Fprintf(&b, "Host target-%s\n", alias)
	fmt.Fprintf(&b, "    HostName %s\n", params.TargetAddress)
	fmt.Fprintf(&b, "    Port %d\n", port)
	fmt.Fprintf(&b, "    User %s\n", user)
	fmt.Fprintf(&b, "    ProxyJump bastion-%s\n", alias)
	writeCommonOptions(&b, identityFile)

	return b.String()
}

// writeCommonOptions appends the option set shared by both stanzas:
// session hosts are ephemeral, so host-key pinning is disabled and
// known-hosts pollution avoided; keep-alives hold the tunnel open for
// the session's lifetime.
func writeCommonOptions(b *strings.Builder, identityFile string) {
	fmt.Fprintf(b, "    IdentityFile %s\n", identityFile)
	b.WriteString("    StrictHostKeyChecking no\n")
	b.WriteString("    UserKnownHostsFile /dev/null\n")
	b.WriteString("    ServerAliveInterval 60\n")
	b.WriteString("    LogLevel ERROR\n")
}
