package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"miriguard/internal/diagfmt"
	"miriguard/internal/project"
)

type colorMode string

const (
	colorAuto colorMode = "auto"
	colorOn   colorMode = "on"
	colorOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorAuto, nil
	case "on", "always":
		return colorOn, nil
	case "off", "never":
		return colorOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

// enabled reports whether output written to path should be colored. Only
// the standard streams are ever colored in auto mode.
func (m colorMode) enabled(path string) bool {
	switch m {
	case colorOn:
		return true
	case colorOff:
		return false
	}
	if path != "" && path != "-" {
		return false
	}
	return isTerminal(os.Stderr)
}

type globalOptions struct {
	configPath string
	color      colorMode
	quiet      bool
	timings    bool
	ui         uiMode
}

func readGlobalOptions(cmd *cobra.Command) (globalOptions, error) {
	var opts globalOptions
	flags := cmd.Flags()

	var err error
	if opts.configPath, err = flags.GetString("config"); err != nil {
		return opts, fmt.Errorf("failed to get config flag: %w", err)
	}
	colorStr, err := flags.GetString("color")
	if err != nil {
		return opts, fmt.Errorf("failed to get color flag: %w", err)
	}
	if opts.color, err = readColorMode(colorStr); err != nil {
		return opts, err
	}
	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return opts, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if opts.ui, err = readUIMode(uiStr); err != nil {
		return opts, err
	}

	switch opts.color {
	case colorOn:
		color.NoColor = false
	case colorOff:
		color.NoColor = true
	}
	return opts, nil
}

// reportOptions are the flags shared by every command that writes a report.
type reportOptions struct {
	output      string
	format      diagfmt.Format
	maxDiags    int
	omitText    bool
	snapshot    string
	metricsFile string
}

func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "write the report to this file (default: stderr, or [report] output)")
	cmd.Flags().String("format", "", "report format (text|json|yaml|sarif|short; default: [report] format)")
	cmd.Flags().Int("max-diagnostics", 0, "maximum number of diagnostics in json/yaml reports (0 = all)")
	cmd.Flags().Bool("omit-text", false, "leave the verbatim diagnostic text out of json/yaml reports")
	cmd.Flags().String("snapshot", "", "also save the run as a binary snapshot at this path")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics for the run to this textfile")
}

// readReportOptions reads the report flags, falling back to the [report]
// table of cfg for anything not given on the command line.
func readReportOptions(cmd *cobra.Command, cfg project.Config) (reportOptions, error) {
	var opts reportOptions
	flags := cmd.Flags()

	var err error
	if opts.output, err = flags.GetString("output"); err != nil {
		return opts, fmt.Errorf("failed to get output flag: %w", err)
	}
	if !flags.Changed("output") {
		opts.output = cfg.Report.Output
	}
	formatStr, err := flags.GetString("format")
	if err != nil {
		return opts, fmt.Errorf("failed to get format flag: %w", err)
	}
	if !flags.Changed("format") {
		formatStr = cfg.Report.Format
	}
	if opts.format, err = diagfmt.ParseFormat(formatStr); err != nil {
		return opts, err
	}
	if opts.maxDiags, err = flags.GetInt("max-diagnostics"); err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if opts.maxDiags < 0 {
		return opts, fmt.Errorf("--max-diagnostics must not be negative")
	}
	if opts.omitText, err = flags.GetBool("omit-text"); err != nil {
		return opts, fmt.Errorf("failed to get omit-text flag: %w", err)
	}
	if opts.snapshot, err = flags.GetString("snapshot"); err != nil {
		return opts, fmt.Errorf("failed to get snapshot flag: %w", err)
	}
	if opts.metricsFile, err = flags.GetString("metrics-file"); err != nil {
		return opts, fmt.Errorf("failed to get metrics-file flag: %w", err)
	}
	return opts, nil
}

func (o reportOptions) render(cm colorMode, args []string) diagfmt.Options {
	return diagfmt.Options{
		Text: diagfmt.TextOpts{Color: cm.enabled(o.output)},
		JSON: diagfmt.JSONOpts{Max: o.maxDiags, OmitText: o.omitText},
		Sarif: diagfmt.SarifRunMeta{
			ToolName:       "miriguard",
			ToolVersion:    collectVersionInfo().Version,
			InvocationArgs: args,
		},
	}
}

// loadManifest honours --config, otherwise searches upwards from the
// working directory. A missing file yields the defaults.
func loadManifest(configPath string) (*project.Manifest, error) {
	if configPath != "" {
		return project.LoadManifestFile(configPath)
	}
	m, _, err := project.LoadManifest(".")
	return m, err
}
