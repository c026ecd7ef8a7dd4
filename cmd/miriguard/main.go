package main

import (
	"errors"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"miriguard/internal/version"
)

var errNoSubcommand = errors.New("miriguard needs to be called with a subcommand (run, test)")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "miriguard",
		Short: "Run Rust code under Miri and report memory-safety violations",
		Long: `miriguard runs a crate's binary, examples or tests under the Miri interpreter,
classifies what Miri reports and writes a verdict report.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return errNoSubcommand
		},
	}
	root.Version = version.Version

	root.AddCommand(newRunCmd())
	root.AddCommand(newTestCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	root.AddCommand(newVersionCmd())

	// Global flags
	root.PersistentFlags().String("config", "", "path to miriguard.toml (default: search upwards from the working directory)")
	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	root.PersistentFlags().Bool("timings", false, "show timing information")
	root.PersistentFlags().String("ui", "auto", "progress UI (auto|on|off)")

	root.PersistentFlags().String("trace", "", "write a trace of the run to this file (- for stderr)")
	root.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	root.PersistentFlags().String("trace-format", "auto", "trace format (auto|text|ndjson)")
	root.PersistentFlags().Int("trace-ring-size", 1024, "events kept in memory for crash dumps")
	root.PersistentFlags().Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval (0 disables)")

	return root
}

// main executes the root command and exits with status 1 on any error.
// Violations found in the analysed code are not errors.
func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	_, _ = color.New(color.FgRed).Fprintln(w, err.Error())
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
