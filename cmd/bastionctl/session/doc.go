// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package session implements the "bastionctl session" subcommands:
// create, list, and show. Commands talk to the bastion service through
// the [bastion.Provider] interface and maintain local SSH
// configuration through [sshconfig.Manager].
package session
