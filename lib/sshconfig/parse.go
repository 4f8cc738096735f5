// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshconfig

import (
	"errors"
	"regexp"
	"strings"
)

// ErrMissingBastionHost is returned when no heuristic recovers a
// bastion hostname from a connection command. Callers must not write a
// snippet file in this case.
var ErrMissingBastionHost = errors.New("no bastion host found in connection command")

// The provider's connection command is free-form text meant for humans,
// so extraction is an ordered chain of independent matchers, first
// match wins. The chain exists as a compatibility fallback; a
// structured jump-host field from the provider would bypass it.
var hostMatchers = []func(string) (string, bool){
	matchProxyCommandTarget,
	matchBastionDomain,
	matchDottedHostname,
}

// ExtractBastionHost recovers the jump-host name from an opaque
// connection-command string. Returns ErrMissingBastionHost when no
// matcher applies.
func ExtractBastionHost(command string) (string, error) {
	for _, match := range hostMatchers {
		if host, ok := match(command); ok {
			return host, nil
		}
	}
	return "", ErrMissingBastionHost
}

// ExtractSessionUser recovers the session-as-credential identity: the
// token immediately preceding the first "@" sign. Used only as a
// fallback identifier, so absence is not an error.
func ExtractSessionUser(command string) (string, bool) {
	at := strings.IndexByte(command, '@')
	if at <= 0 {
		return "", false
	}
	start := at
	for start > 0 && !isTokenBoundary(command[start-1]) {
		start--
	}
	if start == at {
		return "", false
	}
	return command[start:at], true
}

// matchProxyCommandTarget handles commands with a proxy indirection:
// the bastion is the host addressed inside the ProxyCommand option,
// written as <session>@<host>. The token after the "@" runs to the
// next whitespace or quote.
func matchProxyCommandTarget(command string) (string, bool) {
	marker := strings.Index(command, "ProxyCommand")
	if marker < 0 {
		return "", false
	}
	rest := command[marker:]
	at := strings.IndexByte(rest, '@')
	if at < 0 || at+1 >= len(rest) {
		return "", false
	}
	host := rest[at+1:]
	if end := strings.IndexAny(host, " \t\n\"'"); end >= 0 {
		host = host[:end]
	}
	if host == "" {
		return "", false
	}
	return host, true
}

// bastionDomainPattern matches the provider's jump-host naming
// convention: a multi-label hostname under a regional bastion domain.
var bastionDomainPattern = regexp.MustCompile(
	`[A-Za-z0-9][A-Za-z0-9.-]*\.bastion\.[a-z0-9-]+\.oci\.oraclecloud\.com`)

func matchBastionDomain(command string) (string, bool) {
	host := bastionDomainPattern.FindString(command)
	return host, host != ""
}

// dottedHostnamePattern matches anything shaped like a dotted hostname
// or IPv4 address.
var dottedHostnamePattern = regexp.MustCompile(
	`^[A-Za-z0-9][A-Za-z0-9_-]*(\.[A-Za-z0-9][A-Za-z0-9_-]*)+$`)

// keyAlgorithmPrefixes are token shapes that look dotted to the loose
// pattern in pathological commands but name key types, not hosts.
var keyAlgorithmPrefixes = []string{"ssh-", "ecdsa-", "sk-ssh-", "sk-ecdsa-"}

// matchDottedHostname is the last-resort matcher: the first
// whitespace-separated token that looks like any dotted hostname.
// A "user@host" token contributes only its host part.
func matchDottedHostname(command string) (string, bool) {
	for _, token := range strings.FieldsFunc(command, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '"' || r == '\''
	}) {
		if at := strings.LastIndexByte(token, '@'); at >= 0 {
			token = token[at+1:]
		}
		if token == "" || isKeyAlgorithm(token) {
			continue
		}
		if dottedHostnamePattern.MatchString(token) {
			return token, true
		}
	}
	return "", false
}

func isKeyAlgorithm(token string) bool {
	for _, prefix := range keyAlgorithmPrefixes {
		if strings.HasPrefix(token, prefix) {
			return true
		}
	}
	return false
}

func isTokenBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '"', '\'':
		return true
	}
	return false
}
