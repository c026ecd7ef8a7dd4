package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"miriguard/internal/miri"
	"miriguard/internal/pipeline"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [flags]",
		Short: "Run the crate's binary or an example under Miri",
		Long: `Run the crate's default binary, a named binary (--bin) or an example
(--example) under Miri and report the memory-safety violations it finds.`,
		Args: cobra.NoArgs,
		RunE: runCommand,
	}
	cmd.Flags().String("bin", "", "run the named binary")
	cmd.Flags().String("example", "", "run the named example")
	cmd.MarkFlagsMutuallyExclusive("bin", "example")
	addReportFlags(cmd)
	return cmd
}

func runCommand(cmd *cobra.Command, args []string) error {
	bin, err := cmd.Flags().GetString("bin")
	if err != nil {
		return fmt.Errorf("failed to get bin flag: %w", err)
	}
	example, err := cmd.Flags().GetString("example")
	if err != nil {
		return fmt.Errorf("failed to get example flag: %w", err)
	}
	target, err := miri.RunTarget(bin, example)
	if err != nil {
		return err
	}
	return executeRun(cmd, invocation{
		title: "miri " + target.String(),
		req:   pipeline.Request{Mode: target.Mode, Name: target.Name},
	})
}
