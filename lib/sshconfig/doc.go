// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package sshconfig manages the local SSH configuration state derived
// from bastion sessions: a per-session snippet file holding a two-hop
// host alias pair, and the Include block that wires snippets into the
// user's shared ssh_config.
//
// The package turns an ephemeral remote session into a durable,
// idempotent local artifact. For a session whose identifier ends in
// "a1b2c3d4" it produces a snippet with a "bastion-a1b2c3d4" jump
// stanza and a "target-a1b2c3d4" stanza proxied through it, then
// ensures the shared config file references the snippet ahead of all
// user content. ssh applies the first matching Host definition it
// encounters, so the Include block must stay at the very top of the
// file; later stanzas for the same pattern are ignored.
//
// The shared file is hand-edited by users. All mutations here are
// narrow pattern-matched merges: a single header line, one Include
// line per live snippet, a blank separator, and everything below
// preserved byte for byte. Rewrites go through a temp file and rename,
// guarded by an advisory lock file in the configuration root, so
// concurrent invocations cannot tear the file.
//
// Aliases are the last 8 characters of the session identifier. Two
// sessions whose identifiers share a trailing 8-character suffix
// collide and the newer snippet wins; with provider-issued random
// identifiers this is an accepted low-probability risk.
//
// Snippet lifetime is approximated locally: the reaper removes
// snippets whose file modification time exceeds an age threshold.
// The provider's authoritative session expiry is not consulted.
package sshconfig
