// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package bastion

import (
	"fmt"
	"os"

	"golang.org/x/crypto/ssh"
)

// ValidatePublicKeyFile checks that path holds a parseable SSH public
// key in authorized_keys format and returns its key type. The provider
// rejects malformed keys anyway, but only after the session object has
// been created; failing here keeps the failure local and the message
// useful.
func ValidatePublicKeyFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading public key %s: %w", path, err)
	}

	key, _, _, _, err := ssh.ParseAuthorizedKey(data)
	if err != nil {
		return "", fmt.Errorf("parsing public key %s: %w", path, err)
	}
	return key.Type(), nil
}
