package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{
		"": LevelOff, "off": LevelOff, "error": LevelError,
		"phase": LevelPhase, "Detail": LevelDetail, " debug ": LevelDebug,
	} {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestLevelFiltersScopes(t *testing.T) {
	cases := []struct {
		level Level
		want  []bool // run, target, invocation
	}{
		{LevelError, []bool{false, false, false}},
		{LevelPhase, []bool{true, false, false}},
		{LevelDetail, []bool{true, true, false}},
		{LevelDebug, []bool{true, true, true}},
	}
	for _, tc := range cases {
		got := []bool{
			tc.level.ShouldEmit(ScopeRun),
			tc.level.ShouldEmit(ScopeTarget),
			tc.level.ShouldEmit(ScopeInvocation),
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("%s mismatch (-want +got):\n%s", tc.level, diff)
		}
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)
	ctx := WithTracer(context.Background(), tr)

	ctx, run := Start(ctx, ScopeRun, "run")
	_, target := Start(ctx, ScopeTarget, "test tests::leak")
	target.WithExtra("diagnostics", "1").End("faulting")
	Point(ctx, ScopeInvocation, "spawn", "cargo") // filtered at detail
	run.End("")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "→ run") {
		t.Errorf("line 0 = %q", lines[0])
	}
	if !strings.Contains(lines[1], "  → test tests::leak") {
		t.Errorf("line 1 = %q", lines[1])
	}
	if !strings.Contains(lines[2], "← test tests::leak (faulting)") || !strings.HasSuffix(lines[2], "{diagnostics=1}") {
		t.Errorf("line 2 = %q", lines[2])
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	s := Begin(tr, ScopeInvocation, "cargo +nightly miri test", 7)
	s.End("exit 1")

	dec := json.NewDecoder(&buf)
	var got []jsonEvent
	for dec.More() {
		var ev jsonEvent
		if err := dec.Decode(&ev); err != nil {
			t.Fatal(err)
		}
		got = append(got, ev)
	}
	if len(got) != 2 {
		t.Fatalf("got %d events", len(got))
	}
	if got[0].Kind != "begin" || got[1].Kind != "end" || got[1].Detail != "exit 1" {
		t.Errorf("unexpected events: %+v", got)
	}
	if got[0].ParentID != 7 || got[0].Scope != "invocation" {
		t.Errorf("begin = %+v", got[0])
	}
}

func TestRingTracerWraps(t *testing.T) {
	r := NewRingTracer(3, LevelError)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		r.Emit(&Event{Time: time.Now(), Kind: KindPoint, Scope: ScopeInvocation, Name: name})
	}
	var names []string
	for _, ev := range r.Snapshot() {
		names = append(names, ev.Name)
	}
	if diff := cmp.Diff([]string{"c", "d", "e"}, names); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	var buf bytes.Buffer
	if err := r.Dump(&buf, FormatText); err != nil {
		t.Fatal(err)
	}
	if strings.Count(buf.String(), "\n") != 3 {
		t.Errorf("dump = %q", buf.String())
	}
}

func TestOpenRingOnly(t *testing.T) {
	s, err := Open(Config{Level: LevelError})
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if s.Ring == nil || !s.Tracer.Enabled() {
		t.Fatal("expected ring tracer")
	}
	Begin(s.Tracer, ScopeTarget, "run", 0).End("")
	var buf bytes.Buffer
	if err := s.DumpRing(&buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "← run") {
		t.Errorf("ring dump missing span end: %q", buf.String())
	}
}

func TestOpenOff(t *testing.T) {
	s, err := Open(Config{Level: LevelOff, Heartbeat: time.Millisecond})
	if err != nil {
		t.Fatal(err)
	}
	if s.Tracer.Enabled() {
		t.Error("off session must be disabled")
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestHeartbeatStops(t *testing.T) {
	r := NewRingTracer(64, LevelPhase)
	h := StartHeartbeat(r, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for len(r.Snapshot()) == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	h.Stop()
	h.Stop()
	if len(r.Snapshot()) == 0 {
		t.Fatal("no heartbeat recorded")
	}
	if ev := r.Snapshot()[0]; ev.Kind != KindHeartbeat || ev.Detail != "#1" {
		t.Errorf("first event = %+v", ev)
	}
}

func TestFromContextDefaultsToNop(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Error("expected Nop")
	}
	ctx, s := Start(context.Background(), ScopeRun, "x")
	if s.ID() != 0 || SpanFrom(ctx) != 0 {
		t.Error("nop span must not carry an id")
	}
}
