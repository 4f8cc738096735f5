// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package bastion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Client implements Provider by executing the provider CLI (the oci
// binary). Stdout is decoded from the CLI's {"data": …} JSON envelope;
// stderr is captured separately and folded into error messages.
type Client struct {
	binary  string
	profile string
	region  string
}

// NewClient returns a Client using the oci binary from PATH. Profile
// and region are passed through on every invocation when non-empty.
func NewClient(profile, region string) *Client {
	return &Client{binary: "oci", profile: profile, region: region}
}

// CreateSession implements Provider.
func (c *Client) CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error) {
	args, err := createSessionArgs(input)
	if err != nil {
		return nil, err
	}

	output, err := c.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	var envelope struct {
		Data Session `json:"data"`
	}
	if err := json.Unmarshal(output, &envelope); err != nil {
		return nil, fmt.Errorf("decoding create-session response: %w", err)
	}
	return &envelope.Data, nil
}

// GetSession implements Provider.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	output, err := c.run(ctx, "bastion", "session", "get", "--session-id", sessionID)
	if err != nil {
		return nil, fmt.Errorf("fetching session %s: %w", sessionID, err)
	}

	var envelope struct {
		Data Session `json:"data"`
	}
	if err := json.Unmarshal(output, &envelope); err != nil {
		return nil, fmt.Errorf("decoding session %s: %w", sessionID, err)
	}
	return &envelope.Data, nil
}

// ListSessions implements Provider.
func (c *Client) ListSessions(ctx context.Context, bastionID string, state State) ([]Session, error) {
	args := []string{"bastion", "session", "list", "--bastion-id", bastionID, "--all"}
	if state != "" {
		args = append(args, "--session-lifecycle-state", string(state))
	}

	output, err := c.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("listing sessions on %s: %w", bastionID, err)
	}

	// An empty result produces no output at all, not an empty array.
	if len(bytes.TrimSpace(output)) == 0 {
		return nil, nil
	}

	var envelope struct {
		Data []Session `json:"data"`
	}
	if err := json.Unmarshal(output, &envelope); err != nil {
		return nil, fmt.Errorf("decoding session list: %w", err)
	}
	return envelope.Data, nil
}

// createSessionArgs builds the CLI argument list for a create call.
// Managed SSH and port forwarding are distinct subcommands with
// overlapping but not identical flags.
func createSessionArgs(input CreateSessionInput) ([]string, error) {
	common := []string{
		"--bastion-id", input.BastionID,
		"--display-name", input.DisplayName,
		"--session-ttl", strconv.Itoa(input.TTLSeconds),
		"--ssh-public-key-file", input.PublicKeyFile,
		"--target-private-ip", input.TargetIP,
	}

	switch input.Type {
	case TypeManagedSSH:
		args := append([]string{"bastion", "session", "create-managed-ssh"}, common...)
		return append(args,
			"--target-os-username", input.OSUser,
			"--target-port", strconv.Itoa(input.TargetPort),
		), nil
	case TypePortForwarding:
		args := append([]string{"bastion", "session", "create-port-forwarding"}, common...)
		return append(args,
			"--target-port", strconv.Itoa(input.TargetPort),
		), nil
	default:
		return nil, fmt.Errorf("unsupported session type %q", input.Type)
	}
}

// run executes the provider CLI and returns stdout. Profile and
// region flags plus --output json are appended to every call.
func (c *Client) run(ctx context.Context, args ...string) ([]byte, error) {
	fullArgs := append([]string(nil), args...)
	if c.profile != "" {
		fullArgs = append(fullArgs, "--profile", c.profile)
	}
	if c.region != "" {
		fullArgs = append(fullArgs, "--region", c.region)
	}
	fullArgs = append(fullArgs, "--output", "json")

	var stdout, stderr bytes.Buffer
	command := exec.CommandContext(ctx, c.binary, fullArgs...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		return nil, fmt.Errorf("oci %s: %w (stderr: %s)",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
