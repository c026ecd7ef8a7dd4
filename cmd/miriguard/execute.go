package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"miriguard/internal/diagfmt"
	"miriguard/internal/metrics"
	"miriguard/internal/miri"
	"miriguard/internal/observ"
	"miriguard/internal/pipeline"
	"miriguard/internal/project"
	"miriguard/internal/snapshot"
	"miriguard/internal/toolchain"
	"miriguard/internal/trace"
	"miriguard/internal/triage"
)

// invocation is what a subcommand asks executeRun to do.
type invocation struct {
	title string
	req   pipeline.Request
	// exact overrides [test] exact when set.
	exact *bool
	// multiTarget marks runs that enumerate tests.
	multiTarget bool
}

// executeRun is shared by the run and test commands: load configuration,
// run the pipeline and write the report and its side outputs.
func executeRun(cmd *cobra.Command, inv invocation) (err error) {
	opts, err := readGlobalOptions(cmd)
	if err != nil {
		return err
	}
	session, cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()
	ctx := cmd.Context()
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	timer := observ.NewTimer()

	idx := timer.Begin("config")
	manifest, err := loadManifest(opts.configPath)
	if err != nil {
		timer.End(idx, "failed")
		return err
	}
	cfg := manifest.Config
	sigs, err := cfg.SignatureSet()
	if err != nil {
		timer.End(idx, "failed")
		return err
	}
	ropts, err := readReportOptions(cmd, cfg)
	if err != nil {
		timer.End(idx, "failed")
		return err
	}
	timer.End(idx, manifestNote(manifest))
	trace.Point(ctx, trace.ScopeRun, "config", manifestNote(manifest))

	sink := diagfmt.NewSink(ropts.format, ropts.render(opts.color, os.Args[1:]), diagfmt.FileOpener(ropts.output))
	defer func() {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = triage.Wrap(triage.KindSink, cerr)
		}
	}()

	useUI := shouldUseTUI(opts.ui, inv.multiTarget, ropts.output)
	var held bytes.Buffer
	var passthrough io.Writer = stdout
	switch {
	case opts.quiet:
		passthrough = io.Discard
	case useUI:
		passthrough = &held
	}

	cargo := toolchain.New(cfg.Toolchain.Cargo, cfg.Toolchain.Channel)
	runner := &miri.Runner{
		Cargo:       cargo.Bin,
		Channel:     cargo.Channel,
		Banners:     cfg.Launch.Banners,
		Signatures:  sigs,
		Passthrough: passthrough,
		Stdout:      passthrough,
	}

	req := inv.req
	req.Exact = cfg.Test.Exact
	if inv.exact != nil {
		req.Exact = *inv.exact
	}
	req.Invoker = runner
	req.Enumerator = cargo
	req.Preflight = cargo
	req.Sink = sink
	req.Noise = cfg.NoiseFilter()
	req.Marker = cfg.Signatures.HardFailureMarker

	idx = timer.Begin("pipeline")
	var res pipeline.Result
	if useUI {
		res, err = runWithUI(ctx, inv.title, &req)
	} else {
		res, err = pipeline.Run(ctx, &req)
	}
	timer.End(idx, fmt.Sprintf("%d targets", len(res.Targets)))
	recordStageTimings(timer, res.Timings)
	recordTargetTimings(timer, res.Targets)
	if held.Len() > 0 {
		_, _ = held.WriteTo(stdout)
	}
	if err != nil {
		dumpTrace(stderr, session)
		if opts.timings {
			printTimings(stderr, timer)
		}
		return err
	}

	summary := buildSummary(res, req.Mode, runner.Channel, sigs.Version())

	idx = timer.Begin("report")
	if err := sink.Finish(summary); err != nil {
		timer.End(idx, "failed")
		return triage.Wrap(triage.KindSink, err)
	}
	timer.End(idx, string(ropts.format))

	if ropts.snapshot != "" {
		idx = timer.Begin("snapshot")
		err := saveSnapshot(ropts.snapshot, summary, cfg)
		timer.End(idx, ropts.snapshot)
		if err != nil {
			return err
		}
	}
	if ropts.metricsFile != "" {
		idx = timer.Begin("metrics")
		m := metrics.New()
		m.Observe(summary)
		err := m.WriteTextfile(ropts.metricsFile)
		timer.End(idx, ropts.metricsFile)
		if err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if !opts.quiet && ropts.output != "" && ropts.output != "-" {
		printVerdictLine(stderr, summary, ropts.output, res.Timings.Sum(res.Timings.Stages()...))
	}
	if opts.timings {
		printTimings(stderr, timer)
	}
	return nil
}

// buildSummary turns a pipeline result into the renderer's view of it.
func buildSummary(res pipeline.Result, mode miri.Mode, channel string, sigVersion int) diagfmt.RunSummary {
	s := diagfmt.RunSummary{
		RunID:            res.RunID.String(),
		Mode:             mode.String(),
		Started:          res.Started,
		SignatureVersion: sigVersion,
		Verdict:          res.Verdict,
		Targets:          make([]diagfmt.TargetSummary, 0, len(res.Targets)),
	}
	for _, t := range res.Targets {
		s.Targets = append(s.Targets, diagfmt.TargetSummary{
			Name:       t.Target.Label(),
			Command:    fmt.Sprintf("cargo +%s miri %s", channel, t.Target.String()),
			ExitCode:   t.ExitCode,
			Duration:   t.Duration,
			Actionable: t.Actionable,
			Suppressed: t.Suppressed,
		})
	}
	return s
}

func saveSnapshot(path string, summary diagfmt.RunSummary, cfg project.Config) error {
	snap, err := snapshot.FromSummary(summary, cfg.Digest().String())
	if err != nil {
		return fmt.Errorf("failed to build snapshot: %w", err)
	}
	if err := snapshot.Save(path, snap); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func manifestNote(m *project.Manifest) string {
	if m == nil || m.Path == "" {
		return "defaults"
	}
	return m.Path
}

// printVerdictLine tells the operator where a report written to a file went.
func printVerdictLine(out io.Writer, s diagfmt.RunSummary, path string, elapsed time.Duration) {
	fmt.Fprintf(out, "miriguard: %s, %d actionable, %d suppressed across %d targets in %.1f ms; report written to %s\n",
		s.Verdict.Outcome, len(s.Verdict.Actionable), s.Verdict.Suppressed, len(s.Targets), toMillis(elapsed), path)
}
