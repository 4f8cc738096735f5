// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"
)

func TestAutoConfirmers(t *testing.T) {
	if ok, err := AcceptAll().Confirm("delete everything?"); err != nil || !ok {
		t.Errorf("AcceptAll().Confirm() = %v, %v, want true, nil", ok, err)
	}
	if ok, err := RejectAll().Confirm("delete everything?"); err != nil || ok {
		t.Errorf("RejectAll().Confirm() = %v, %v, want false, nil", ok, err)
	}
}

func TestTerminalConfirmer_Answers(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"Y\n", true},
		{"yes\n", true},
		{"YES\n", true},
		{"  y  \n", true},
		{"n\n", false},
		{"no\n", false},
		{"\n", false},
		{"anything else\n", false},
	}

	for _, test := range tests {
		confirmer := NewTerminalConfirmer(strings.NewReader(test.input))
		got, err := confirmer.Confirm("proceed?")
		if err != nil {
			t.Errorf("Confirm() with input %q error: %v", test.input, err)
			continue
		}
		if got != test.want {
			t.Errorf("Confirm() with input %q = %v, want %v", test.input, got, test.want)
		}
	}
}

func TestTerminalConfirmer_EOFWithoutInput(t *testing.T) {
	confirmer := NewTerminalConfirmer(strings.NewReader(""))
	if _, err := confirmer.Confirm("proceed?"); err == nil {
		t.Fatal("Confirm() on immediate EOF succeeded, want error")
	}
}

func TestTerminalConfirmer_EOFAfterAnswer(t *testing.T) {
	// A final line without a trailing newline still counts as an
	// answer.
	confirmer := NewTerminalConfirmer(strings.NewReader("y"))
	got, err := confirmer.Confirm("proceed?")
	if err != nil {
		t.Fatalf("Confirm() error: %v", err)
	}
	if !got {
		t.Error("Confirm() = false, want true")
	}
}
