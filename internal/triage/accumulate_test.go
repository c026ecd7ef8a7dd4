package triage

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"miriguard/internal/diag"
)

func TestSuppressIsIdempotent(t *testing.T) {
	noise := DefaultNoiseFilter()
	bag := diag.BagOf(
		diag.New(diag.RawPointerUsage, nullDeref),
		diag.New(diag.Unclassified, "error: aborting due to previous error\n"),
		diag.New(diag.Unclassified, "error: test failed, to rerun pass `--lib`\n"),
		diag.New(diag.Unclassified, "error: unsupported operation: can't call foreign function `epoll_wait`\n"),
		diag.New(diag.Unclassified, joinedThreadUnit),
		// classified diagnostics are never noise, even when a phrase appears
		diag.New(diag.MemoryFree, "error: memory leaked: alloc1\nerror: aborting due to previous error"),
	)
	once, dropped := noise.Suppress(bag)
	if dropped != 3 {
		t.Fatalf("dropped = %d, want 3", dropped)
	}
	twice, droppedAgain := noise.Suppress(once)
	if droppedAgain != 0 {
		t.Fatalf("second pass dropped %d more", droppedAgain)
	}
	if diff := cmp.Diff(once.Items(), twice.Items()); diff != "" {
		t.Fatalf("suppression not idempotent (-once +twice):\n%s", diff)
	}
}

func TestDecidePreviousErrorOnlyIsClean(t *testing.T) {
	bag := DefaultSignatures().Triage("error: aborting due to previous error\n")
	v, err := Decide(DefaultNoiseFilter(), "", bag)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if v.Faulting() || v.Suppressed != 1 {
		t.Fatalf("verdict = %+v, want clean with one suppressed", v)
	}
}

func TestDecideTwoTargets(t *testing.T) {
	first := diag.BagOf(diag.New(diag.RawPointerUsage, nullDeref).WithTarget("tests::uninitialized_pointer"))
	second := diag.NewBag(0)
	v, err := Decide(DefaultNoiseFilter(), "", first, second)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	if !v.Faulting() || len(v.Actionable) != 1 {
		t.Fatalf("verdict = %+v, want one actionable diagnostic", v)
	}
	if v.Actionable[0].Target != "tests::uninitialized_pointer" {
		t.Fatalf("actionable target = %q", v.Actionable[0].Target)
	}
}

func TestDecidePreservesInvocationOrder(t *testing.T) {
	var bags []*diag.Bag
	var want []string
	for i, text := range []string{"error: a", "error: b", "error: c", "error: d"} {
		cat := diag.MemoryFree
		if i%2 == 1 {
			cat = diag.RawPointerUsage
		}
		bags = append(bags, diag.BagOf(diag.New(cat, text), diag.New(diag.Unclassified, "error: aborting due to previous error")))
		want = append(want, text)
	}
	v, err := Decide(DefaultNoiseFilter(), "", bags...)
	if err != nil {
		t.Fatalf("Decide: %v", err)
	}
	var got []string
	for _, d := range v.Actionable {
		got = append(got, d.Text)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if v.Suppressed != 4 {
		t.Fatalf("suppressed = %d, want 4", v.Suppressed)
	}
}

func TestDecideLoneUnclassified(t *testing.T) {
	t.Run("undefined behavior is reported", func(t *testing.T) {
		bag := DefaultSignatures().Triage(joinedThreadStream)
		v, err := Decide(DefaultNoiseFilter(), "", bag)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if len(v.Actionable) != 1 || v.Actionable[0].Category != diag.Unclassified {
			t.Fatalf("verdict = %+v, want the unclassified UB report", v)
		}
	})
	t.Run("tool error is a hard failure", func(t *testing.T) {
		raw := "error: could not compile `demo` (lib test) due to 1 previous error\n\nerror: no such command: `miri`\n"
		bag := DefaultSignatures().Triage(raw)
		_, err := Decide(DefaultNoiseFilter(), "", bag)
		if !errors.Is(err, ErrHardFailure) {
			t.Fatalf("err = %v, want ErrHardFailure", err)
		}
		if !strings.Contains(err.Error(), "no such command") || !strings.HasPrefix(err.Error(), "[Miri Error]: ") {
			t.Fatalf("unexpected message: %v", err)
		}
	})
	t.Run("two unclassified are reported", func(t *testing.T) {
		bag := diag.BagOf(diag.New(diag.Unclassified, "error: x"), diag.New(diag.Unclassified, "error: y"))
		v, err := Decide(DefaultNoiseFilter(), "", bag)
		if err != nil {
			t.Fatalf("Decide: %v", err)
		}
		if len(v.Actionable) != 2 {
			t.Fatalf("actionable = %d, want 2", len(v.Actionable))
		}
	})
	t.Run("custom marker", func(t *testing.T) {
		bag := diag.BagOf(diag.New(diag.Unclassified, "error: Data race detected between threads"))
		if _, err := Decide(DefaultNoiseFilter(), "Data race", bag); err != nil {
			t.Fatalf("Decide with custom marker: %v", err)
		}
	})
}

func TestAccumulatorStreamsWithHoldback(t *testing.T) {
	var out []string
	rep := diag.ReporterFunc(func(d diag.Diagnostic) error {
		out = append(out, d.Text)
		return nil
	})
	acc := NewAccumulator(DefaultNoiseFilter(), "", rep)

	if _, err := acc.Add(diag.BagOf(diag.New(diag.Unclassified, "error: lone"))); err != nil {
		t.Fatal(err)
	}
	if len(out) != 0 {
		t.Fatalf("lone unclassified diagnostic was emitted early: %q", out)
	}
	n, err := acc.Add(diag.BagOf(diag.New(diag.MemoryFree, "error: memory leaked: alloc2")))
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("Add contributed %d, want 1", n)
	}
	if diff := cmp.Diff([]string{"error: lone", "error: memory leaked: alloc2"}, out); diff != "" {
		t.Fatalf("stream mismatch (-want +got):\n%s", diff)
	}
	v, err := acc.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if len(v.Actionable) != 2 || len(out) != 2 {
		t.Fatalf("Finish re-emitted or lost diagnostics: verdict=%d out=%d", len(v.Actionable), len(out))
	}
}

func TestAccumulatorSinkErrorIsFatal(t *testing.T) {
	rep := diag.ReporterFunc(func(diag.Diagnostic) error { return errors.New("disk full") })
	acc := NewAccumulator(DefaultNoiseFilter(), "", rep)
	_, err := acc.Add(diag.BagOf(diag.New(diag.MemoryFree, "error: memory leaked")))
	if !errors.Is(err, ErrSink) {
		t.Fatalf("err = %v, want ErrSink", err)
	}
}

func TestErrorKinds(t *testing.T) {
	cases := []struct {
		err    *Error
		target error
		prefix string
	}{
		{Errorf(KindToolchain, "Nightly toolchain is needed."), ErrToolchain, "[Cargo Error]: "},
		{Errorf(KindAnalysisTool, "no such command"), ErrAnalysisTool, "[Miri Error]: "},
		{Errorf(KindLaunch, "Preparing a sysroot ... error"), ErrLaunch, "[Miri Error]: "},
		{Wrap(KindSink, errors.New("permission denied")), ErrSink, "[Path Error]: "},
	}
	for _, tc := range cases {
		if !errors.Is(tc.err, tc.target) {
			t.Fatalf("%v does not match %v", tc.err, tc.target)
		}
		if !strings.HasPrefix(tc.err.Error(), tc.prefix) {
			t.Fatalf("%q lacks prefix %q", tc.err.Error(), tc.prefix)
		}
		if !IsFatal(tc.err) {
			t.Fatalf("%v should be fatal", tc.err)
		}
	}
	if errors.Is(Errorf(KindLaunch, "x"), ErrSink) {
		t.Fatal("launch error must not match ErrSink")
	}
	if Wrap(KindSink, nil) != nil {
		t.Fatal("Wrap(nil) should be nil")
	}
}
