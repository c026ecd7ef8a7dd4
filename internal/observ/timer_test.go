package observ

import (
	"strings"
	"testing"
	"time"
)

func TestTimerReportExcludesNested(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("run")
	tm.End(idx, "2 targets")
	tm.phases[idx].Dur = 30 * time.Millisecond
	tm.Record("tests::a", 10*time.Millisecond, "faulting")
	tm.Record("tests::b", 15*time.Millisecond, "clean")

	r := tm.Report()
	if len(r.Phases) != 3 {
		t.Fatalf("phases = %d", len(r.Phases))
	}
	if r.TotalMS != 30 {
		t.Errorf("total = %v, want 30", r.TotalMS)
	}
	if !r.Phases[1].Nested || r.Phases[0].Note != "2 targets" {
		t.Errorf("phases = %+v", r.Phases)
	}

	s := tm.Summary()
	if !strings.Contains(s, "    tests::a") || !strings.Contains(s, "// faulting") {
		t.Errorf("summary:\n%s", s)
	}
}

func TestTimerEndOutOfRange(t *testing.T) {
	tm := NewTimer()
	tm.End(3, "ignored")
	if r := tm.Report(); len(r.Phases) != 0 || r.TotalMS != 0 {
		t.Errorf("report = %+v", r)
	}
}
