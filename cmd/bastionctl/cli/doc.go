// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the bastionctl command framework: a tree of
// [Command] values dispatched by positional arguments, pflag-backed
// flag parsing with struct-tag binding, structured help output, typo
// suggestions, categorized command errors, --json output support, and
// the confirmation policy injected into flows that need a yes/no
// answer before acting.
//
// Commands are assembled into a tree in cmd/bastionctl/commands and
// executed from main. Each subcommand package (session, sshcfg)
// exposes a Command() constructor returning its subtree.
package cli
