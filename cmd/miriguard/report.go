package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"miriguard/internal/diagfmt"
	"miriguard/internal/metrics"
	"miriguard/internal/snapshot"
	"miriguard/internal/triage"
)

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [flags] SNAPSHOT",
		Short: "Render a saved snapshot without running Miri again",
		Long: `Render a snapshot written by --snapshot in any report format. The
snapshot can also be exported as Prometheus metrics with --metrics-file.`,
		Args: cobra.ExactArgs(1),
		RunE: reportCommand,
	}
	addReportFlags(cmd)
	return cmd
}

func reportCommand(cmd *cobra.Command, args []string) (err error) {
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	manifest, err := loadManifest(opts.configPath)
	if err != nil {
		return err
	}
	cfg := manifest.Config
	ropts, err := readReportOptions(cmd, cfg)
	if err != nil {
		return err
	}

	snap, err := snapshot.Load(args[0])
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	summary, err := snap.Summary()
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}
	if digest := cfg.Digest().String(); snap.ConfigDigest != "" && snap.ConfigDigest != digest && !opts.quiet {
		fmt.Fprintf(cmd.ErrOrStderr(), "note: %s was taken with different triage settings than %s\n", args[0], manifestNote(manifest))
	}

	sink := diagfmt.NewSink(ropts.format, ropts.render(opts.color, os.Args[1:]), diagfmt.FileOpener(ropts.output))
	if err := sink.Open(); err != nil {
		return triage.Wrap(triage.KindSink, err)
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = triage.Wrap(triage.KindSink, cerr)
		}
	}()
	if ropts.format.Streams() {
		for _, d := range summary.Verdict.Actionable {
			if err := sink.Report(d); err != nil {
				return triage.Wrap(triage.KindSink, err)
			}
		}
	}
	if err := sink.Finish(summary); err != nil {
		return triage.Wrap(triage.KindSink, err)
	}

	if ropts.snapshot != "" {
		if err := snapshot.Save(ropts.snapshot, snap); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	if ropts.metricsFile != "" {
		m := metrics.New()
		m.Observe(summary)
		if err := m.WriteTextfile(ropts.metricsFile); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}
	return nil
}
