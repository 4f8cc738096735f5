// Copyright 2026 The Bastionctl Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"

	"github.com/bastion-tools/bastionctl/cmd/bastionctl/cli"
	"github.com/bastion-tools/bastionctl/lib/bastion"
	"github.com/bastion-tools/bastionctl/lib/clock"
	"github.com/bastion-tools/bastionctl/lib/config"
	"github.com/bastion-tools/bastionctl/lib/sshconfig"
)

// Command returns the "session" command subtree.
func Command() *cli.Command {
	return &cli.Command{
		Name:    "session",
		Summary: "Create and inspect bastion sessions",
		Subcommands: []*cli.Command{
			createCommand(),
			listCommand(),
			showCommand(),
		},
	}
}

// commonParams holds the flags shared by every session subcommand.
type commonParams struct {
	ConfigPath string `flag:"config" desc:"path to the bastionctl config file"`
	Profile    string `flag:"profile" desc:"OCI CLI profile to use"`
	Region     string `flag:"region" desc:"OCI region override"`
}

// loadConfig loads the tool configuration, honoring --config first and
// the BASTIONCTL_CONFIG environment variable second, then applies the
// --profile and --region overrides on top.
func (p *commonParams) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if p.ConfigPath != "" {
		cfg, err = config.LoadFile(p.ConfigPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, cli.Validation("loading configuration: %v", err)
	}
	if p.Profile != "" {
		cfg.Profile = p.Profile
	}
	if p.Region != "" {
		cfg.Region = p.Region
	}
	return cfg, nil
}

func (p *commonParams) provider(cfg *config.Config) bastion.Provider {
	return bastion.NewClient(cfg.Profile, cfg.Region)
}

// sshOptions maps the configuration file's ssh section onto the state
// manager's options.
func sshOptions(cfg *config.Config) sshconfig.Options {
	return sshconfig.Options{
		Enabled:      cfg.SSH.Enabled,
		Dir:          cfg.SSH.Dir,
		SnippetDir:   cfg.SSH.SnippetDir,
		MainConfig:   cfg.SSH.MainConfig,
		IdentityFile: cfg.SSH.IdentityFile,
		Prefix:       cfg.SSH.Prefix,
	}
}

func newSSHManager(cfg *config.Config, logger *slog.Logger) *sshconfig.Manager {
	return sshconfig.NewManager(sshOptions(cfg), logger, clock.Real())
}
