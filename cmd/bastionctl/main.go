// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/commands"
)

func main() {
	if err := run(); err != nil {
		// Commands that handle their own output (like an aborted
		// confirmation) return an ExitError with the desired code.
		// Don't print a redundant "error:" line for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return commands.Root().Execute(os.Args[1:])
}
