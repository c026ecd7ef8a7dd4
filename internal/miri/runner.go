package miri

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"miriguard/internal/diag"
	"miriguard/internal/proc"
	"miriguard/internal/trace"
	"miriguard/internal/triage"
)

// DefaultBanners are startup lines the interpreter prints before any target
// output when it is still building its sysroot.
var DefaultBanners = []string{"Preparing a sysroot"}

// Result is what one invocation produced.
type Result struct {
	Target      Target
	Diagnostics *diag.Bag
	// Passthrough is operator-facing text that is not a diagnostic.
	Passthrough string
	ExitCode    int
	Duration    time.Duration
}

// Clean reports whether the invocation produced no diagnostics.
func (r Result) Clean() bool {
	return r.Diagnostics.Empty()
}

// Runner spawns `cargo +<channel> miri ...` and triages what it prints.
type Runner struct {
	Cargo   string
	Channel string
	// Prefix is inserted before "+<channel>".
	Prefix []string
	Dir    string
	Env    []string
	// Banners that mark a failed sysroot build when their first line
	// mentions "error".
	Banners    []string
	Signatures *triage.SignatureSet
	// Passthrough receives the child's stderr on success and non-error
	// banner lines. Nil discards.
	Passthrough io.Writer
	// Stdout receives the child's stdout as it arrives. Nil discards.
	Stdout io.Writer
}

// NewRunner returns a runner with the stock toolchain and signatures.
func NewRunner() *Runner {
	return &Runner{
		Cargo:      "cargo",
		Channel:    "nightly",
		Banners:    DefaultBanners,
		Signatures: triage.DefaultSignatures(),
	}
}

func (r *Runner) command(t Target) proc.Spec {
	cargo := r.Cargo
	if cargo == "" {
		cargo = "cargo"
	}
	channel := r.Channel
	if channel == "" {
		channel = "nightly"
	}
	args := make([]string, 0, len(r.Prefix)+6)
	args = append(args, r.Prefix...)
	args = append(args, "+"+channel, "miri")
	args = append(args, t.Args()...)
	return proc.Spec{Name: cargo, Args: args, Dir: r.Dir, Env: r.Env, Tee: r.Stdout}
}

// Invoke runs one target to completion. Violations come back as data in
// Result.Diagnostics; the error is reserved for launch failures.
func (r *Runner) Invoke(ctx context.Context, t Target) (Result, error) {
	res := Result{Target: t, Diagnostics: diag.NewBag(0)}
	if err := t.Validate(); err != nil {
		return res, triage.Wrap(triage.KindLaunch, err)
	}

	spec := r.command(t)
	ctx, span := trace.Start(ctx, trace.ScopeInvocation, spec.CommandLine())
	start := time.Now()
	out, err := proc.Run(spec)
	res.Duration = time.Since(start)
	res.ExitCode = out.ExitCode
	if err != nil {
		span.End("spawn failed")
		return res, triage.Wrap(triage.KindLaunch, err)
	}

	if out.Success() {
		res.Passthrough = out.Stderr
		if err := r.passthrough(out.Stderr); err != nil {
			span.End("passthrough failed")
			return res, err
		}
		span.WithExtra("exit", "0").End("clean")
		return res, nil
	}

	if line, ok := r.bannerLine(out.Stderr); ok {
		if strings.Contains(line, "error") {
			span.End("sysroot failed")
			return res, triage.Errorf(triage.KindLaunch, "%s", line)
		}
		res.Passthrough = line + "\n"
		if err := r.passthrough(res.Passthrough); err != nil {
			span.End("passthrough failed")
			return res, err
		}
	}

	sigs := r.Signatures
	if sigs == nil {
		sigs = triage.DefaultSignatures()
	}
	label := t.Label()
	for _, d := range sigs.Triage(out.Stderr).Items() {
		d = d.WithTarget(label)
		trace.Point(ctx, trace.ScopeInvocation, "classify", d.Category.String()+" "+d.Location.String())
		res.Diagnostics.Add(d)
	}
	span.WithExtra("exit", strconv.Itoa(out.ExitCode)).
		WithExtra("diagnostics", strconv.Itoa(res.Diagnostics.Len())).
		End("faulting")
	return res, nil
}

func (r *Runner) bannerLine(stderr string) (string, bool) {
	banners := r.Banners
	if banners == nil {
		banners = DefaultBanners
	}
	for _, b := range banners {
		if b != "" && strings.HasPrefix(stderr, b) {
			line, _, _ := strings.Cut(stderr, "\n")
			return strings.TrimSuffix(line, "\r"), true
		}
	}
	return "", false
}

func (r *Runner) passthrough(text string) error {
	if r.Passthrough == nil || text == "" {
		return nil
	}
	if _, err := io.WriteString(r.Passthrough, text); err != nil {
		return triage.Wrap(triage.KindSink, fmt.Errorf("passthrough: %w", err))
	}
	return nil
}
