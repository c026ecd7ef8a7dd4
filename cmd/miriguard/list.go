package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"miriguard/internal/toolchain"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the tests `miriguard test` would run",
		Args:  cobra.NoArgs,
		RunE:  listCommand,
	}
}

func listCommand(cmd *cobra.Command, args []string) error {
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	_, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	manifest, err := loadManifest(opts.configPath)
	if err != nil {
		return err
	}
	cfg := manifest.Config
	cargo := toolchain.New(cfg.Toolchain.Cargo, cfg.Toolchain.Channel)
	if err := cargo.CheckToolchain(cmd.Context()); err != nil {
		return err
	}
	names, err := cargo.ListTests(cmd.Context())
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, name := range names {
		fmt.Fprintln(out, name)
	}
	if len(names) == 0 && !opts.quiet {
		fmt.Fprintln(cmd.ErrOrStderr(), "no tests found; `miriguard test` will run the whole suite in one invocation")
	}
	return nil
}
