package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"miriguard/internal/miri"
	"miriguard/internal/pipeline"
)

func newTestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test [flags] [TESTNAME...]",
		Short: "Run the crate's tests under Miri",
		Long: `Run tests under Miri, one invocation per test. Without names the tests are
listed with the test harness first; --all runs the whole suite in a single
invocation instead.`,
		RunE: testCommand,
	}
	cmd.Flags().Bool("all", false, "run the whole suite in one invocation instead of one per test")
	cmd.Flags().Bool("exact", true, "match enumerated test names exactly (default: [test] exact)")
	addReportFlags(cmd)
	return cmd
}

func testCommand(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	if all && len(args) > 0 {
		return fmt.Errorf("--all does not take test names")
	}

	inv := invocation{
		title: "miri test",
		req:   pipeline.Request{Mode: miri.ModeTest, Tests: args},
	}
	if cmd.Flags().Changed("exact") {
		exact, err := cmd.Flags().GetBool("exact")
		if err != nil {
			return fmt.Errorf("failed to get exact flag: %w", err)
		}
		inv.exact = &exact
	}
	switch {
	case all:
		inv.req.Mode = miri.ModeTestAll
	case len(args) == 0:
		inv.multiTarget = true
	default:
		inv.multiTarget = len(args) > 1
	}
	return executeRun(cmd, inv)
}
