// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

// Package bastion provides typed access to the cloud provider's
// bastion service. Session CRUD is delegated to the provider's own CLI
// (the oci binary); this package wraps it with typed inputs, decodes
// its JSON envelopes, and adds an activation wait loop.
package bastion

import "time"

// State is a session lifecycle state as reported by the provider.
type State string

// Session lifecycle states.
const (
	StateCreating State = "CREATING"
	StateActive   State = "ACTIVE"
	StateDeleting State = "DELETING"
	StateDeleted  State = "DELETED"
	StateFailed   State = "FAILED"
)

// Type is a session type.
type Type string

// Session types.
const (
	TypeManagedSSH     Type = "MANAGED_SSH"
	TypePortForwarding Type = "PORT_FORWARDING"
)

// Session is a provider-issued, time-bounded grant of connectivity
// through a bastion to a specific target. Field names follow the
// provider CLI's kebab-case JSON keys. The struct is read-only to the
// rest of the program.
type Session struct {
	// ID is the session OCID.
	ID string `json:"id"`

	// DisplayName is the session's human-readable name.
	DisplayName string `json:"display-name"`

	// BastionID is the owning bastion's OCID.
	BastionID string `json:"bastion-id"`

	// LifecycleState is the current lifecycle state.
	LifecycleState State `json:"lifecycle-state"`

	// TTLSeconds is the authorized session lifetime in seconds.
	TTLSeconds int `json:"session-ttl-in-seconds"`

	// TimeCreated is the provider-side creation timestamp.
	TimeCreated time.Time `json:"time-created"`

	// SSHMetadata carries connection hints for SSH sessions. The
	// "command" key, when present, holds an opaque connection-command
	// string meant for human consumption.
	SSHMetadata map[string]string `json:"ssh-metadata"`

	// TargetResourceDetails describes the target endpoint.
	TargetResourceDetails TargetResourceDetails `json:"target-resource-details"`
}

// TargetResourceDetails is the target endpoint of a session.
type TargetResourceDetails struct {
	// SessionType distinguishes managed SSH from port forwarding.
	SessionType Type `json:"session-type"`

	// PrivateIP is the target's private address.
	PrivateIP string `json:"target-resource-private-ip-address"`

	// Port is the target port. Zero means the provider default, 22.
	Port int `json:"target-resource-port"`

	// OSUser is the OS user on the target for managed SSH sessions.
	OSUser string `json:"target-resource-operating-system-user-name"`

	// DisplayName is the target resource's display name.
	DisplayName string `json:"target-resource-display-name"`
}

// Active reports whether the session is usable.
func (s *Session) Active() bool { return s.LifecycleState == StateActive }

// Terminal reports whether the lifecycle state can no longer progress
// to ACTIVE.
func (s *Session) Terminal() bool {
	switch s.LifecycleState {
	case StateDeleting, StateDeleted, StateFailed:
		return true
	}
	return false
}

// Type returns the session type.
func (s *Session) Type() Type { return s.TargetResourceDetails.SessionType }

// TargetAddress returns the target's private address.
func (s *Session) TargetAddress() string { return s.TargetResourceDetails.PrivateIP }

// TargetPort returns the target port, defaulting to 22 when the
// provider omitted it.
func (s *Session) TargetPort() int {
	if s.TargetResourceDetails.Port == 0 {
		return 22
	}
	return s.TargetResourceDetails.Port
}

// TargetUser returns the target OS user, defaulting to the provider's
// conventional default, opc.
func (s *Session) TargetUser() string {
	if s.TargetResourceDetails.OSUser == "" {
		return "opc"
	}
	return s.TargetResourceDetails.OSUser
}

// ConnectionCommand returns the opaque connection-command string for
// SSH sessions, and whether the provider supplied one.
func (s *Session) ConnectionCommand() (string, bool) {
	command, ok := s.SSHMetadata["command"]
	return command, ok && command != ""
}
