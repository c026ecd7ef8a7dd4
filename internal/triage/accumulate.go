package triage

import (
	"strings"

	"miriguard/internal/diag"
)

// Accumulator merges invocation results in order, suppresses noise and streams
// actionable diagnostics to a reporter.
//
// A lone unclassified diagnostic is held back: whether it is reportable or a
// hard failure depends on whether anything else turns up later in the run.
type Accumulator struct {
	noise      NoiseFilter
	marker     string
	out        diag.Reporter
	actionable []diag.Diagnostic
	emitted    int
	suppressed int
}

// NewAccumulator builds an accumulator. A nil reporter discards output; an
// empty marker uses DefaultHardFailureMarker.
func NewAccumulator(noise NoiseFilter, marker string, out diag.Reporter) *Accumulator {
	if out == nil {
		out = diag.NopReporter{}
	}
	if marker == "" {
		marker = DefaultHardFailureMarker
	}
	return &Accumulator{noise: noise, marker: marker, out: out}
}

// Add folds in the result of one invocation. It returns the number of
// actionable diagnostics the invocation contributed.
func (a *Accumulator) Add(bag *diag.Bag) (int, error) {
	kept, dropped := a.noise.Suppress(bag)
	a.suppressed += dropped
	a.actionable = append(a.actionable, kept.Items()...)
	if a.holding() {
		return kept.Len(), nil
	}
	return kept.Len(), a.flush()
}

// Finish applies the single-diagnostic rule and returns the verdict.
func (a *Accumulator) Finish() (diag.Verdict, error) {
	if a.holding() {
		lone := a.actionable[0]
		if !strings.Contains(lone.Text, a.marker) {
			return diag.Verdict{}, &Error{Kind: KindHardFailure, Cause: lone.Text}
		}
		if err := a.flush(); err != nil {
			return diag.Verdict{}, err
		}
	}
	return diag.NewVerdict(append([]diag.Diagnostic(nil), a.actionable...), a.suppressed), nil
}

// Suppressed returns how many diagnostics were dropped as noise so far.
func (a *Accumulator) Suppressed() int {
	return a.suppressed
}

func (a *Accumulator) holding() bool {
	return len(a.actionable) == 1 && a.actionable[0].Category == diag.Unclassified
}

func (a *Accumulator) flush() error {
	for a.emitted < len(a.actionable) {
		if err := a.out.Report(a.actionable[a.emitted]); err != nil {
			return Wrap(KindSink, err)
		}
		a.emitted++
	}
	return nil
}

// Decide is the non-streaming form: it suppresses noise across all bags, in
// order, and applies the single-diagnostic rule.
func Decide(noise NoiseFilter, marker string, bags ...*diag.Bag) (diag.Verdict, error) {
	acc := NewAccumulator(noise, marker, nil)
	for _, b := range bags {
		if _, err := acc.Add(b); err != nil {
			return diag.Verdict{}, err
		}
	}
	return acc.Finish()
}
