package ui

import (
	"strings"
	"testing"
	"time"

	"miriguard/internal/pipeline"
)

func apply(m *progressModel, evs ...pipeline.Event) {
	for _, ev := range evs {
		m.applyEvent(ev)
	}
}

func TestProgressModelTracksTargets(t *testing.T) {
	m := NewProgressModel("miriguard test", nil).(*progressModel)
	apply(m,
		pipeline.Event{Stage: pipeline.StageEnumerate, Status: pipeline.StatusWorking},
		pipeline.Event{Target: "tests::a", Stage: pipeline.StageInvoke, Status: pipeline.StatusQueued},
		pipeline.Event{Target: "tests::b", Stage: pipeline.StageInvoke, Status: pipeline.StatusQueued},
		pipeline.Event{Target: "tests::a", Stage: pipeline.StageInvoke, Status: pipeline.StatusWorking},
	)
	if m.stageLabel != "listing tests" {
		t.Errorf("stage label = %q", m.stageLabel)
	}
	if len(m.items) != 2 || m.items[0].status != "running" || m.items[1].status != "queued" {
		t.Fatalf("items = %+v", m.items)
	}
	if got := m.completion(); got != 0.05 {
		t.Errorf("completion = %v, want 0.05", got)
	}

	apply(m,
		pipeline.Event{Target: "tests::a", Stage: pipeline.StageTriage, Status: pipeline.StatusFaulting, Diagnostics: 2, Elapsed: 3 * time.Second},
		pipeline.Event{Target: "tests::b", Stage: pipeline.StageTriage, Status: pipeline.StatusClean, Elapsed: time.Second},
	)
	if got := m.completion(); got != 1 {
		t.Errorf("completion = %v, want 1", got)
	}
	view := m.View()
	for _, want := range []string{"faulting", "clean", "tests::a", "[2]", "3s"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestProgressModelDone(t *testing.T) {
	ch := make(chan pipeline.Event)
	close(ch)
	m := NewProgressModel("run", ch).(*progressModel)
	if _, ok := m.listenForEvent()().(doneMsg); !ok {
		t.Fatal("closed channel must produce doneMsg")
	}
	m.Update(doneMsg{})
	if !m.done || !strings.HasPrefix(stripANSI(m.View()), "done: run") {
		t.Errorf("view = %q", m.View())
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("tests::very_long_name", 10); got != "tests::..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}

func stripANSI(s string) string {
	var b strings.Builder
	inEsc := false
	for _, r := range s {
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc && (r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'):
			inEsc = false
		case !inEsc:
			b.WriteRune(r)
		}
	}
	return b.String()
}
