// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands assembles the bastionctl command tree.
package commands

import (
	"fmt"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/cli"
	"github.com/bastion-tools/bastionctl/cmd/bastionctl/session"
	"github.com/bastion-tools/bastionctl/cmd/bastionctl/sshcfg"
	"github.com/bastion-tools/bastionctl/lib/version"
)

// Root returns the root bastionctl command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "bastionctl",
		Summary: "Manage cloud bastion sessions and the local SSH config they need",
		Description: "bastionctl creates sessions on a cloud bastion service and keeps\n" +
			"the local SSH configuration in sync, so an active session's target\n" +
			"is reachable as 'ssh target-<alias>'.",
		Subcommands: []*cli.Command{
			session.Command(),
			sshcfg.Command(),
			versionCommand(),
		},
	}
}

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print version information",
		Run: func(args []string) error {
			fmt.Println(version.Full())
			return nil
		},
	}
}
