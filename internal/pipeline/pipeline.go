// Package pipeline drives a whole miriguard run: preflight, target planning,
// one interpreter invocation per target, and aggregation into a verdict.
package pipeline

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"miriguard/internal/diag"
	"miriguard/internal/miri"
	"miriguard/internal/trace"
	"miriguard/internal/triage"
)

// Invoker runs one target. *miri.Runner implements it.
type Invoker interface {
	Invoke(ctx context.Context, t miri.Target) (miri.Result, error)
}

// Enumerator lists test names. *toolchain.Cargo implements it.
type Enumerator interface {
	ListTests(ctx context.Context) ([]string, error)
}

// Preflighter checks the environment before anything else happens.
type Preflighter interface {
	Preflight(ctx context.Context) error
}

// Sink receives actionable diagnostics. Open is called once, after
// preflight and before the first invocation. Flush is called after every
// target.
type Sink interface {
	Open() error
	Report(d diag.Diagnostic) error
	Flush() error
}

// Request configures a run.
type Request struct {
	Mode miri.Mode
	// Name is the --bin or --example name.
	Name string
	// Tests are user-supplied test filters for ModeTest. Empty means
	// enumerate.
	Tests []string
	// Exact passes --exact to enumerated tests.
	Exact bool

	Invoker    Invoker
	Enumerator Enumerator
	Preflight  Preflighter
	Sink       Sink
	Progress   ProgressSink

	Noise  triage.NoiseFilter
	Marker string
}

// TargetResult summarises one invocation.
type TargetResult struct {
	Target     miri.Target
	ExitCode   int
	Duration   time.Duration
	Found      int
	Actionable int
	Suppressed int
}

// Result is the outcome of a completed run.
type Result struct {
	RunID   uuid.UUID
	Started time.Time
	Verdict diag.Verdict
	Targets []TargetResult
	Timings Timings
}

var errMissingInvoker = errors.New("pipeline: missing invoker")

// Run executes req. Violations are part of Result.Verdict; a non-nil error
// means the run could not complete.
func Run(ctx context.Context, req *Request) (Result, error) {
	res := Result{RunID: uuid.New(), Started: time.Now()}
	if req == nil || req.Invoker == nil {
		return res, errMissingInvoker
	}
	ctx, span := trace.Start(ctx, trace.ScopeRun, "run "+res.RunID.String())
	defer span.End("")

	if req.Preflight != nil {
		start := time.Now()
		emit(req.Progress, Event{Stage: StagePreflight, Status: StatusWorking})
		err := req.Preflight.Preflight(ctx)
		res.Timings.Add(StagePreflight, time.Since(start))
		if err != nil {
			emit(req.Progress, Event{Stage: StagePreflight, Status: StatusError, Err: err})
			return res, err
		}
	}

	if req.Sink != nil {
		if err := req.Sink.Open(); err != nil {
			return res, triage.Wrap(triage.KindSink, err)
		}
	}

	start := time.Now()
	targets, err := Plan(ctx, req)
	if req.Mode == miri.ModeTest && len(req.Tests) == 0 {
		res.Timings.Add(StageEnumerate, time.Since(start))
	}
	if err != nil {
		emit(req.Progress, Event{Stage: StageEnumerate, Status: StatusError, Err: err})
		return res, err
	}
	for _, t := range targets {
		emit(req.Progress, Event{Target: t.Label(), Stage: StageInvoke, Status: StatusQueued})
	}

	var reporter diag.Reporter = diag.NopReporter{}
	if req.Sink != nil {
		reporter = req.Sink
	}
	acc := triage.NewAccumulator(req.Noise, req.Marker, reporter)

	for _, t := range targets {
		tr, err := runTarget(ctx, req, acc, t, &res.Timings)
		res.Targets = append(res.Targets, tr)
		if err != nil {
			return res, err
		}
	}

	start = time.Now()
	verdict, err := acc.Finish()
	if err == nil {
		err = flushSink(req.Sink)
	}
	res.Timings.Add(StageReport, time.Since(start))
	if err != nil {
		return res, err
	}
	res.Verdict = verdict
	span.WithExtra("outcome", verdict.Outcome.String())
	return res, nil
}

func runTarget(ctx context.Context, req *Request, acc *triage.Accumulator, t miri.Target, timings *Timings) (TargetResult, error) {
	label := t.Label()
	tr := TargetResult{Target: t}
	ctx, span := trace.Start(ctx, trace.ScopeTarget, t.String())

	emit(req.Progress, Event{Target: label, Stage: StageInvoke, Status: StatusWorking})
	out, err := req.Invoker.Invoke(ctx, t)
	tr.ExitCode = out.ExitCode
	tr.Duration = out.Duration
	timings.Add(StageInvoke, out.Duration)
	if err != nil {
		emit(req.Progress, Event{Target: label, Stage: StageInvoke, Status: StatusError, Err: err, Elapsed: out.Duration})
		span.End("error")
		return tr, err
	}

	start := time.Now()
	emit(req.Progress, Event{Target: label, Stage: StageTriage, Status: StatusWorking})
	before := acc.Suppressed()
	tr.Found = out.Diagnostics.Len()
	tr.Actionable, err = acc.Add(out.Diagnostics)
	tr.Suppressed = acc.Suppressed() - before
	if err == nil {
		err = flushSink(req.Sink)
	}
	timings.Add(StageTriage, time.Since(start))
	if err != nil {
		emit(req.Progress, Event{Target: label, Stage: StageTriage, Status: StatusError, Err: err})
		span.End("error")
		return tr, err
	}

	status := StatusClean
	if tr.Actionable > 0 {
		status = StatusFaulting
	}
	emit(req.Progress, Event{
		Target:      label,
		Stage:       StageTriage,
		Status:      status,
		Elapsed:     out.Duration,
		Diagnostics: tr.Actionable,
	})
	span.WithExtra("actionable", strconv.Itoa(tr.Actionable)).
		WithExtra("suppressed", strconv.Itoa(tr.Suppressed)).
		End(string(status))
	return tr, nil
}

func flushSink(s Sink) error {
	if s == nil {
		return nil
	}
	if err := s.Flush(); err != nil {
		return triage.Wrap(triage.KindSink, err)
	}
	return nil
}

// Plan turns a request into the ordered list of targets to invoke. Test mode
// without names asks the enumerator; when it finds nothing, or there is no
// enumerator, the whole suite runs as one invocation.
func Plan(ctx context.Context, req *Request) ([]miri.Target, error) {
	switch req.Mode {
	case miri.ModeRun, miri.ModeRunBin, miri.ModeRunExample:
		t := miri.Target{Mode: req.Mode, Name: req.Name}
		if err := t.Validate(); err != nil {
			return nil, triage.Wrap(triage.KindLaunch, err)
		}
		return []miri.Target{t}, nil
	case miri.ModeTestAll:
		return []miri.Target{{Mode: miri.ModeTestAll}}, nil
	case miri.ModeTest:
	default:
		return nil, triage.Errorf(triage.KindLaunch, "unknown mode %d", req.Mode)
	}

	if len(req.Tests) > 0 {
		targets := make([]miri.Target, 0, len(req.Tests))
		for _, name := range req.Tests {
			targets = append(targets, miri.TestTarget(name, false))
		}
		return targets, nil
	}
	if req.Enumerator == nil {
		return []miri.Target{{Mode: miri.ModeTestAll}}, nil
	}

	emit(req.Progress, Event{Stage: StageEnumerate, Status: StatusWorking})
	ctx, span := trace.Start(ctx, trace.ScopeRun, "enumerate")
	names, err := req.Enumerator.ListTests(ctx)
	if err != nil {
		span.End("error")
		return nil, err
	}
	span.End(strconv.Itoa(len(names)) + " tests")
	if len(names) == 0 {
		trace.Point(ctx, trace.ScopeRun, "enumerate", "no tests listed, running the whole suite")
		return []miri.Target{{Mode: miri.ModeTestAll}}, nil
	}
	targets := make([]miri.Target, 0, len(names))
	for _, name := range names {
		targets = append(targets, miri.TestTarget(name, req.Exact))
	}
	return targets, nil
}
