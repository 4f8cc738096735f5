// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/pflag"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/cli"
	"github.com/bastion-tools/bastionctl/lib/bastion"
	"github.com/bastion-tools/bastionctl/lib/clock"
	"github.com/bastion-tools/bastionctl/lib/config"
	"github.com/bastion-tools/bastionctl/lib/sshconfig"
)

type createParams struct {
	cli.JSONOutput
	commonParams

	BastionID     string `flag:"bastion-id" desc:"OCID of the bastion to create the session on"`
	TargetIP      string `flag:"target-ip" desc:"private IP address of the target resource"`
	TargetPort    int    `flag:"target-port" desc:"target port (default from config)"`
	OSUser        string `flag:"os-user" desc:"operating system user on the target (default from config)"`
	TTL           int    `flag:"ttl" desc:"session lifetime in seconds (default from config)"`
	Name          string `flag:"name" desc:"display name for the session"`
	SessionType   string `flag:"type" desc:"session type: managed-ssh or port-forwarding" default:"managed-ssh"`
	PublicKeyFile string `flag:"public-key-file" desc:"path to the SSH public key to register"`
	AssumeYes     bool   `flag:"assume-yes,y" desc:"skip the confirmation prompt"`
	NoWait        bool   `flag:"no-wait" desc:"return immediately instead of waiting for the session to become active"`
}

func createCommand() *cli.Command {
	var params createParams

	return &cli.Command{
		Name:    "create",
		Summary: "Create a bastion session and wire up local SSH config",
		Description: "Create creates a session on the given bastion, waits for it to\n" +
			"become active, and writes a local SSH config snippet so the target\n" +
			"is reachable as 'ssh target-<alias>'. If the local config cannot be\n" +
			"written the session still exists; the raw connection command is\n" +
			"printed instead.",
		Usage: "bastionctl session create --bastion-id <ocid> --target-ip <ip> --public-key-file <path> [flags]",
		Examples: []cli.Example{
			{
				Description: "Create a managed SSH session and wait for it",
				Command:     "bastionctl session create --bastion-id ocid1.bastion.oc1..x --target-ip 10.0.1.5 --public-key-file ~/.ssh/id_ed25519.pub",
			},
		},
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("create", &params)
		},
		Run: func(args []string) error {
			return runCreate(&params)
		},
	}
}

func runCreate(params *createParams) error {
	if params.BastionID == "" {
		return cli.Validation("--bastion-id is required")
	}
	if params.TargetIP == "" {
		return cli.Validation("--target-ip is required")
	}
	if params.PublicKeyFile == "" {
		return cli.Validation("--public-key-file is required")
	}

	sessionType, err := parseSessionType(params.SessionType)
	if err != nil {
		return cli.Validation("%v", err)
	}

	cfg, err := params.loadConfig()
	if err != nil {
		return err
	}

	logger := cli.NewCommandLogger().With("command", "session create")
	deps := createDeps{
		provider:  params.provider(cfg),
		manager:   newSSHManager(cfg, logger),
		clock:     clock.Real(),
		confirmer: cli.DefaultConfirmer(params.AssumeYes),
	}
	return doCreate(params, sessionType, cfg, logger, deps)
}

// createDeps are the injectable collaborators of the create flow.
type createDeps struct {
	provider  bastion.Provider
	manager   *sshconfig.Manager
	clock     clock.Clock
	confirmer cli.Confirmer
}

func doCreate(params *createParams, sessionType bastion.Type, cfg *config.Config, logger *slog.Logger, deps createDeps) error {
	// Routine upkeep: clear out entries for expired sessions before
	// adding a new one. Failures here never block session creation.
	if result, err := deps.manager.Reap(cfg.Reaper.MaxAge.Std()); err != nil {
		logger.Warn("reaping stale ssh config entries failed", "error", err)
	} else if len(result.Removed) > 0 || result.Failed > 0 {
		logger.Info("reaped stale ssh config entries",
			"removed", len(result.Removed), "failed", result.Failed)
	}

	keyType, err := bastion.ValidatePublicKeyFile(params.PublicKeyFile)
	if err != nil {
		return cli.Validation("public key preflight: %v", err)
	}
	logger.Debug("validated public key", "path", params.PublicKeyFile, "type", keyType)

	input := bastion.CreateSessionInput{
		BastionID:     params.BastionID,
		DisplayName:   params.Name,
		Type:          sessionType,
		TargetIP:      params.TargetIP,
		TargetPort:    params.TargetPort,
		OSUser:        params.OSUser,
		TTLSeconds:    params.TTL,
		PublicKeyFile: params.PublicKeyFile,
	}
	if input.TargetPort == 0 {
		input.TargetPort = cfg.Session.Port
	}
	if input.OSUser == "" {
		input.OSUser = cfg.Session.OSUser
	}
	if input.TTLSeconds == 0 {
		input.TTLSeconds = cfg.Session.TTLSeconds
	}
	if input.DisplayName == "" {
		input.DisplayName = fmt.Sprintf("bastionctl-%s", params.TargetIP)
	}

	prompt := fmt.Sprintf("Create %s session to %s:%d (ttl %ds)?",
		params.SessionType, input.TargetIP, input.TargetPort, input.TTLSeconds)
	ok, err := deps.confirmer.Confirm(prompt)
	if err != nil {
		return cli.Internal("confirmation: %v", err)
	}
	if !ok {
		fmt.Println("Aborted.")
		return &cli.ExitError{Code: 1}
	}

	ctx := context.Background()

	session, err := deps.provider.CreateSession(ctx, input)
	if err != nil {
		return cli.Transient("creating session: %v", err)
	}
	logger.Info("session created", "session_id", session.ID, "state", session.LifecycleState)

	if !params.NoWait {
		sessionID := session.ID
		waited, err := bastion.WaitActive(ctx, deps.provider, deps.clock, sessionID,
			cfg.Session.WaitInterval.Std(), cfg.Session.WaitBudget.Std())
		switch {
		case err == nil:
			session = waited
		case errors.Is(err, bastion.ErrNotActive):
			// The session may still activate later. Give up on the
			// local artifacts and report the last observed state.
			logger.Warn("session not active within the wait budget",
				"session_id", sessionID, "budget", cfg.Session.WaitBudget.Std())
			if waited != nil {
				session = waited
			}
		default:
			return cli.Transient("waiting for session %s: %v", sessionID, err)
		}
	}

	// Local artifacts are written for any active managed SSH session,
	// independent of the output format.
	var alias string
	if session.Active() && session.Type() == bastion.TypeManagedSSH && cfg.SSH.Enabled {
		alias, err = writeLocalConfig(deps.manager, session)
		if err != nil {
			// The session exists and is usable; only the local
			// convenience config failed.
			logger.Warn("writing local ssh config failed", "error", err)
			alias = ""
		}
	}

	if done, err := params.EmitJSON(session); done {
		return err
	}

	if !session.Active() {
		fmt.Printf("Session %s is %s. Check on it with:\n  bastionctl session show %s\n",
			session.ID, session.LifecycleState, session.ID)
		return nil
	}

	if alias == "" {
		printConnectionFallback(session)
		return nil
	}

	fmt.Printf("Session %s is active. Connect with:\n  ssh target-%s\n", session.ID, alias)
	return nil
}

// writeLocalConfig materializes the local SSH artifacts for an active
// managed SSH session: the skeleton, the per-session snippet, and the
// Include line in the main config.
func writeLocalConfig(manager *sshconfig.Manager, session *bastion.Session) (string, error) {
	if err := manager.EnsureSkeleton(); err != nil {
		return "", fmt.Errorf("ensuring ssh config skeleton: %w", err)
	}

	command, ok := session.ConnectionCommand()
	if !ok {
		return "", fmt.Errorf("session %s has no connection command in its metadata", session.ID)
	}
	bastionHost, err := sshconfig.ExtractBastionHost(command)
	if err != nil {
		return "", fmt.Errorf("session %s: %w", session.ID, err)
	}

	alias, _, err := manager.WriteSnippet(sshconfig.SnippetParams{
		DisplayName:   session.DisplayName,
		SessionID:     session.ID,
		TargetAddress: session.TargetAddress(),
		TargetPort:    session.TargetPort(),
		TargetUser:    session.TargetUser(),
		BastionHost:   bastionHost,
	})
	if err != nil {
		return "", err
	}

	if err := manager.SyncInclude(alias); err != nil {
		return "", fmt.Errorf("updating main ssh config: %w", err)
	}
	return alias, nil
}

func printConnectionFallback(session *bastion.Session) {
	if command, ok := session.ConnectionCommand(); ok {
		fmt.Printf("Session %s is active. Connect with:\n  %s\n", session.ID, command)
	} else {
		fmt.Printf("Session %s is active.\n", session.ID)
	}
}

func parseSessionType(name string) (bastion.Type, error) {
	switch name {
	case "managed-ssh":
		return bastion.TypeManagedSSH, nil
	case "port-forwarding":
		return bastion.TypePortForwarding, nil
	}
	return "", fmt.Errorf("unknown session type %q (want managed-ssh or port-forwarding)", name)
}
