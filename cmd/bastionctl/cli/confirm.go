// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Confirmer is the injected confirmation policy for flows that need a
// yes/no answer before acting (creating a session costs provider-side
// resources). Injecting the policy keeps those flows testable without
// a terminal.
type Confirmer interface {
	// Confirm asks the question and reports the answer. An error
	// means the answer could not be obtained, not "no".
	Confirm(prompt string) (bool, error)
}

// AcceptAll returns a Confirmer that answers yes to everything. Used
// for --assume-yes and non-interactive runs that opted in.
func AcceptAll() Confirmer { return autoConfirmer(true) }

// RejectAll returns a Confirmer that answers no to everything. Used
// for dry runs and as the safe default when no terminal is available.
func RejectAll() Confirmer { return autoConfirmer(false) }

type autoConfirmer bool

func (a autoConfirmer) Confirm(string) (bool, error) { return bool(a), nil }

// NewTerminalConfirmer returns a Confirmer that prompts on stderr and
// reads the answer from input. Only "y" and "yes" (case-insensitive)
// count as yes; anything else, including an empty line, is no.
func NewTerminalConfirmer(input io.Reader) Confirmer {
	return &terminalConfirmer{reader: bufio.NewReader(input)}
}

type terminalConfirmer struct {
	reader *bufio.Reader
}

func (t *terminalConfirmer) Confirm(prompt string) (bool, error) {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", prompt)
	line, err := t.reader.ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("reading confirmation: %w", err)
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// DefaultConfirmer picks the policy for a command invocation:
// AcceptAll when the caller passed --assume-yes, an interactive
// prompt when stdin is a terminal, and RejectAll otherwise. A
// non-interactive run that did not opt in must not create resources.
func DefaultConfirmer(assumeYes bool) Confirmer {
	if assumeYes {
		return AcceptAll()
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return NewTerminalConfirmer(os.Stdin)
	}
	return RejectAll()
}
