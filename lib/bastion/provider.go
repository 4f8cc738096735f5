// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package bastion

import "context"

// CreateSessionInput carries the parameters for session creation.
type CreateSessionInput struct {
	// BastionID is the OCID of the bastion to create the session on.
	BastionID string

	// DisplayName is the session's human-readable name.
	DisplayName string

	// Type selects managed SSH or port forwarding.
	Type Type

	// TargetIP is the target's private address.
	TargetIP string

	// TargetPort is the target port.
	TargetPort int

	// OSUser is the target OS user (managed SSH only).
	OSUser string

	// TTLSeconds is the requested session lifetime.
	TTLSeconds int

	// PublicKeyFile is the path of the SSH public key authorized for
	// the session.
	PublicKeyFile string
}

// Provider is the session CRUD surface this tool consumes. The
// production implementation shells out to the provider CLI; tests
// substitute fakes.
type Provider interface {
	// CreateSession requests a new session and returns it in its
	// initial (usually CREATING) state.
	CreateSession(ctx context.Context, input CreateSessionInput) (*Session, error)

	// GetSession fetches a session by OCID.
	GetSession(ctx context.Context, sessionID string) (*Session, error)

	// ListSessions lists sessions on a bastion, optionally filtered
	// by lifecycle state (empty state means all).
	ListSessions(ctx context.Context, bastionID string, state State) ([]Session, error)
}
