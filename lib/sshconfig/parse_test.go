// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"errors"
	"testing"
)

const exampleCommand = `ssh -i <privateKey> -o ProxyCommand="ssh -i <privateKey> -W %h:%p -p 22 ` +
	`ocid1.bastionsession.oc1.sa-bogota-1.aaaasessionid@host.bastion.sa-bogota-1.oci.oraclecloud.com" ` +
	`-p 22 opc@10.0.1.243`

func TestExtractBastionHost(t *testing.T) {
	tests := []struct {
		name    string
		command string
		want    string
	}{
		{
			name:    "proxy command target",
			command: exampleCommand,
			want:    "host.bastion.sa-bogota-1.oci.oraclecloud.com",
		},
		{
			name:    "proxy indirection wins over later tokens",
			command: `ProxyCommand="ssh -W %h:%p sess@jump.internal.example" opc@10.0.0.5`,
			want:    "jump.internal.example",
		},
		{
			name:    "bastion domain convention without proxy marker",
			command: "connect via host77.bastion.eu-frankfurt-1.oci.oraclecloud.com port 22",
			want:    "host77.bastion.eu-frankfurt-1.oci.oraclecloud.com",
		},
		{
			name:    "dotted hostname fallback",
			command: "ssh -p 22 jump.corp.example then continue",
			want:    "jump.corp.example",
		},
		{
			name:    "fallback takes host part of user@host",
			command: "ssh opc@192.168.7.10",
			want:    "192.168.7.10",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ExtractBastionHost(test.command)
			if err != nil {
				t.Fatalf("ExtractBastionHost(%q) error: %v", test.command, err)
			}
			if got != test.want {
				t.Errorf("ExtractBastionHost(%q) = %q, want %q", test.command, got, test.want)
			}
		})
	}
}

func TestExtractBastionHost_NoMatch(t *testing.T) {
	tests := []struct {
		name    string
		command string
	}{
		{"empty string", ""},
		{"no hostname at all", "ssh -p 22 localhost"},
		{"key algorithm is not a hostname", "offered ssh-ed25519 then ecdsa-sha2-nistp256"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ExtractBastionHost(test.command)
			if !errors.Is(err, ErrMissingBastionHost) {
				t.Fatalf("ExtractBastionHost(%q) = (%q, %v), want ErrMissingBastionHost",
					test.command, got, err)
			}
		})
	}
}

func TestExtractSessionUser(t *testing.T) {
	user, ok := ExtractSessionUser(`ProxyCommand="ssh -W %h:%p SESSIONID@host.example" opc@10.0.1.243`)
	if !ok {
		t.Fatal("ExtractSessionUser() reported no match")
	}
	if user != "SESSIONID" {
		t.Errorf("ExtractSessionUser() = %q, want SESSIONID", user)
	}
}

func TestExtractSessionUser_FullExample(t *testing.T) {
	user, ok := ExtractSessionUser(exampleCommand)
	if !ok {
		t.Fatal("ExtractSessionUser() reported no match")
	}
	if want := "ocid1.bastionsession.oc1.sa-bogota-1.aaaasessionid"; user != want {
		t.Errorf("ExtractSessionUser() = %q, want %q", user, want)
	}
}

func TestExtractSessionUser_NoAtSign(t *testing.T) {
	if user, ok := ExtractSessionUser("ssh host.example"); ok {
		t.Errorf("ExtractSessionUser() = (%q, true), want no match", user)
	}
}
