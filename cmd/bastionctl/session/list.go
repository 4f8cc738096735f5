// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/cli"
	"github.com/bastion-tools/bastionctl/lib/bastion"
	"github.com/bastion-tools/bastionctl/lib/sshconfig"
)

type listParams struct {
	cli.JSONOutput
	commonParams

	BastionID string `flag:"bastion-id" desc:"OCID of the bastion to list sessions for"`
	State     string `flag:"state" desc:"filter by lifecycle state (e.g. ACTIVE)"`
}

func listCommand() *cli.Command {
	var params listParams

	return &cli.Command{
		Name:    "list",
		Summary: "List sessions on a bastion",
		Usage:   "bastionctl session list --bastion-id <ocid> [--state STATE] [--json]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("list", &params)
		},
		Run: func(args []string) error {
			return runList(&params)
		},
	}
}

func runList(params *listParams) error {
	if params.BastionID == "" {
		return cli.Validation("--bastion-id is required")
	}

	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}

	sessions, err := params.provider(cfg).ListSessions(
		context.Background(), params.BastionID, bastion.State(params.State))
	if err != nil {
		return cli.Transient("listing sessions: %v", err)
	}

	if done, err := params.EmitJSON(sessions); done {
		return err
	}

	printSessionTable(sessions)
	return nil
}

func printSessionTable(sessions []bastion.Session) {
	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 3, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSTATE\tTTL\tTARGET")
	for i := range sessions {
		session := &sessions[i]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%ds\t%s:%d\n",
			sshconfig.Alias(session.ID),
			session.DisplayName,
			session.LifecycleState,
			session.TTLSeconds,
			session.TargetAddress(),
			session.TargetPort())
	}
	tw.Flush()
}
