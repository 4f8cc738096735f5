// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package bastion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bastion-tools/bastionctl/lib/clock"
)

// ErrNotActive is returned by WaitActive when the wait budget runs out
// before the session reaches ACTIVE. The last-seen session accompanies
// the error so callers can proceed without the local artifact.
var ErrNotActive = errors.New("session did not become active within the wait budget")

// WaitActive polls the provider until the session is ACTIVE, the
// session reaches a terminal state, the budget is exhausted, or the
// context is cancelled. The first poll is immediate; subsequent polls
// are spaced by interval.
//
// On budget exhaustion the last-seen session is returned along with
// ErrNotActive — the session may still activate later, the caller just
// stops waiting for it.
func WaitActive(ctx context.Context, provider Provider, clk clock.Clock, sessionID string, interval, budget time.Duration) (*Session, error) {
	deadline := clk.Now().Add(budget)

	for {
		session, err := provider.GetSession(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if session.Active() {
			return session, nil
		}
		if session.Terminal() {
			return session, fmt.Errorf("session %s entered state %s before activating",
				sessionID, session.LifecycleState)
		}
		if !clk.Now().Add(interval).Before(deadline) {
			return session, ErrNotActive
		}
		if err := ctx.Err(); err != nil {
			return session, err
		}

		select {
		case <-ctx.Done():
			return session, ctx.Err()
		case <-clk.After(interval):
		}
	}
}
