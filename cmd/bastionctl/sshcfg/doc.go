// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package sshcfg implements the "bastionctl sshcfg" subcommands for
// maintaining the local SSH configuration state directly: init creates
// the directory skeleton, reap removes entries for expired sessions.
package sshcfg
