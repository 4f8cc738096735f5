// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package sshcfg

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/cli"
	"github.com/bastion-tools/bastionctl/lib/clock"
	"github.com/bastion-tools/bastionctl/lib/config"
	"github.com/bastion-tools/bastionctl/lib/sshconfig"
)

// Command returns the "sshcfg" command subtree.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "sshcfg",
		Summary: "Maintain the local bastion SSH configuration",
		Subcommands: []*cli.Command{
			initCommand(),
			reapCommand(),
		},
	}
}

type initParams struct {
	ConfigPath string `flag:"config" desc:"path to the bastionctl config file"`
}

func initCommand() *cli.Command {
	var params initParams

	return &cli.Command{
		Name:    "init",
		Summary: "Create the SSH config directory skeleton",
		Usage:   "bastionctl sshcfg init",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("init", &params)
		},
		Run: func(args []string) error {
			manager, cfg, err := newManager(params.ConfigPath)
			if err != nil {
				return err
			}
			if !cfg.SSH.Enabled {
				fmt.Println("SSH config management is disabled in the configuration; nothing to do.")
				return nil
			}
			if err := manager.EnsureSkeleton(); err != nil {
				return cli.Internal("creating ssh config skeleton: %v", err)
			}
			opts := manager.Options()
			fmt.Printf("Initialized %s (snippets in %s).\n", opts.Dir, opts.SnippetDir)
			return nil
		},
	}
}

type reapParams struct {
	cli.JSONOutput
	ConfigPath string        `flag:"config" desc:"path to the bastionctl config file"`
	MaxAge     time.Duration `flag:"max-age" desc:"remove entries older than this (default from config)"`
}

func reapCommand() *cli.Command {
	var params reapParams

	return &cli.Command{
		Name:    "reap",
		Summary: "Remove SSH config entries for expired sessions",
		Description: "Reap removes per-session snippets whose files are older than the\n" +
			"maximum age, along with their Include lines in the main config.\n" +
			"File age approximates session lifetime; a refreshed session whose\n" +
			"snippet was rewritten counts as young.",
		Usage: "bastionctl sshcfg reap [--max-age 3h] [--json]",
		Flags: func() *pflag.FlagSet {
			return cli.FlagsFromParams("reap", &params)
		},
		Run: func(args []string) error {
			return runReap(&params)
		},
	}
}

func runReap(params *reapParams) error {
	manager, cfg, err := newManager(params.ConfigPath)
	if err != nil {
		return err
	}

	maxAge := params.MaxAge
	if maxAge == 0 {
		maxAge = cfg.Reaper.MaxAge.Std()
	}
	if maxAge < 0 {
		return cli.Validation("--max-age must not be negative, got %s", maxAge)
	}

	result, err := manager.Reap(maxAge)
	if err != nil {
		return cli.Internal("reaping ssh config entries: %v", err)
	}

	if done, err := params.EmitJSON(result); done {
		return err
	}

	if len(result.Removed) == 0 && result.Failed == 0 {
		fmt.Println("Nothing to reap.")
		return nil
	}
	for _, alias := range result.Removed {
		fmt.Printf("removed %s\n", alias)
	}
	if result.Failed > 0 {
		fmt.Printf("%d entries could not be removed (see log).\n", result.Failed)
	}
	return nil
}

func newManager(configPath string) (*sshconfig.Manager, *config.Config, error) {
	var cfg *config.Config
	var err error
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, cli.Validation("loading configuration: %v", err)
	}

	opts := sshconfig.Options{
		Enabled:      cfg.SSH.Enabled,
		Dir:          cfg.SSH.Dir,
		SnippetDir:   cfg.SSH.SnippetDir,
		MainConfig:   cfg.SSH.MainConfig,
		IdentityFile: cfg.SSH.IdentityFile,
		Prefix:       cfg.SSH.Prefix,
	}
	logger := cli.NewCommandLogger().With("command", "sshcfg")
	return sshconfig.NewManager(opts, logger, clock.Real()), cfg, nil
}
