// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package bastion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bastion-tools/bastionctl/lib/clock"
)

// scriptedProvider returns one state per GetSession call, sticking on
// the last when the script runs out.
type scriptedProvider struct {
	states []State
	calls  int
}

func (p *scriptedProvider) GetSession(_ context.Context, sessionID string) (*Session, error) {
	index := p.calls
	if index >= len(p.states) {
		index = len(p.states) - 1
	}
	p.calls++
	return &Session{ID: sessionID, LifecycleState: p.states[index]}, nil
}

func (p *scriptedProvider) CreateSession(context.Context, CreateSessionInput) (*Session, error) {
	return nil, errors.New("not implemented")
}

func (p *scriptedProvider) ListSessions(context.Context, string, State) ([]Session, error) {
	return nil, errors.New("not implemented")
}

func TestWaitActive_PollsUntilActive(t *testing.T) {
	provider := &scriptedProvider{states: []State{StateCreating, StateCreating, StateActive}}
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	session, err := WaitActive(context.Background(), provider, fake, "sess-1", 5*time.Second, 2*time.Minute)
	if err != nil {
		t.Fatalf("WaitActive() error: %v", err)
	}
	if !session.Active() {
		t.Errorf("session state = %s, want ACTIVE", session.LifecycleState)
	}
	if provider.calls != 3 {
		t.Errorf("GetSession calls = %d, want 3", provider.calls)
	}
}

func TestWaitActive_ImmediatelyActiveNeedsOnePoll(t *testing.T) {
	provider := &scriptedProvider{states: []State{StateActive}}
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	if _, err := WaitActive(context.Background(), provider, fake, "sess-1", 5*time.Second, 2*time.Minute); err != nil {
		t.Fatalf("WaitActive() error: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("GetSession calls = %d, want 1", provider.calls)
	}
}

func TestWaitActive_BudgetExhaustion(t *testing.T) {
	provider := &scriptedProvider{states: []State{StateCreating}}
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	session, err := WaitActive(context.Background(), provider, fake, "sess-1", 5*time.Second, 12*time.Second)
	if !errors.Is(err, ErrNotActive) {
		t.Fatalf("WaitActive() error = %v, want ErrNotActive", err)
	}
	if session == nil {
		t.Fatal("WaitActive() returned nil session with ErrNotActive")
	}
	if session.LifecycleState != StateCreating {
		t.Errorf("last-seen state = %s, want CREATING", session.LifecycleState)
	}
	// Polls at t=0s, 5s, 10s; the next poll would land past the 12s
	// budget, so the loop gives up after three.
	if provider.calls != 3 {
		t.Errorf("GetSession calls = %d, want 3", provider.calls)
	}
}

func TestWaitActive_TerminalStateStopsWaiting(t *testing.T) {
	provider := &scriptedProvider{states: []State{StateCreating, StateFailed}}
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	session, err := WaitActive(context.Background(), provider, fake, "sess-1", 5*time.Second, 2*time.Minute)
	if err == nil {
		t.Fatal("WaitActive() succeeded for a FAILED session")
	}
	if errors.Is(err, ErrNotActive) {
		t.Error("terminal state reported as budget exhaustion")
	}
	if session.LifecycleState != StateFailed {
		t.Errorf("session state = %s, want FAILED", session.LifecycleState)
	}
}

func TestWaitActive_ContextCancellation(t *testing.T) {
	provider := &scriptedProvider{states: []State{StateCreating}}
	fake := clock.Fake(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := WaitActive(ctx, provider, fake, "sess-1", 5*time.Second, 2*time.Minute)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitActive() error = %v, want context.Canceled", err)
	}
}
