// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/cli"
	"github.com/bastion-tools/bastionctl/lib/bastion"
	"github.com/bastion-tools/bastionctl/lib/sshconfig"
)

type showParams struct {
	cli.JSONOutput
	commonParams
}

func showCommand() *cli.Command {
	var params showParams

	return &cli.Command{
		Name:    "show",
		Summary: "Show details of a session",
		Usage:   "bastionctl session show <session-id> [--json]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("show", &params)
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return cli.Validation("expected exactly one session ID, got %d args", len(args))
			}
			return runShow(&params, args[0])
		},
	}
}

func runShow(params *showParams, sessionID string) error {
	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}

	session, err := params.provider(cfg).GetSession(context.Background(), sessionID)
	if err != nil {
		return cli.NotFound("fetching session %s: %v", sessionID, err)
	}

	if done, err := params.EmitJSON(session); done {
		return err
	}

	printSessionDetail(session)
	return nil
}

func printSessionDetail(session *bastion.Session) {
	tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "ID:\t%s\n", session.ID)
	fmt.Fprintf(tw, "Alias:\t%s\n", sshconfig.Alias(session.ID))
	fmt.Fprintf(tw, "Name:\t%s\n", session.DisplayName)
	fmt.Fprintf(tw, "State:\t%s\n", session.LifecycleState)
	fmt.Fprintf(tw, "Type:\t%s\n", session.Type())
	fmt.Fprintf(tw, "Target:\t%s@%s:%d\n",
		session.TargetUser(), session.TargetAddress(), session.TargetPort())
	fmt.Fprintf(tw, "TTL:\t%ds\n", session.TTLSeconds)
	if !session.TimeCreated.IsZero() {
		fmt.Fprintf(tw, "Created:\t%s\n", session.TimeCreated.UTC().Format(time.RFC3339))
	}
	tw.Flush()

	if command, ok := session.ConnectionCommand(); ok {
		fmt.Printf("\nConnection command:\n  %s\n", command)
	}
}
