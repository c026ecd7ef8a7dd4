package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/vmihailenco/msgpack/v5"

	"miriguard/internal/diag"
	"miriguard/internal/diagfmt"
)

func sampleSummary() diagfmt.RunSummary {
	return diagfmt.RunSummary{
		RunID:            "0b6c4f1e-3f59-4d8e-a1a2-2a5d1f0e9c77",
		Mode:             "test",
		Started:          time.Date(2026, 10, 19, 8, 30, 0, 0, time.UTC),
		SignatureVersion: 2,
		Verdict: diag.NewVerdict([]diag.Diagnostic{
			diag.New(diag.MemoryFree, "error: memory leaked: alloc9\n  --> src/lib.rs:3:9").
				WithTarget("tests::leak").
				WithLocation(diag.Location{Path: "src/lib.rs", Line: 3, Column: 9}),
			diag.New(diag.Unclassified, "error: Undefined Behavior: data race").WithTarget("tests::race"),
		}, 3),
		Targets: []diagfmt.TargetSummary{
			{Name: "tests::leak", Command: "test tests::leak -- --exact", ExitCode: 1, Duration: 2 * time.Second, Actionable: 1, Suppressed: 2},
			{Name: "tests::race", Command: "test tests::race -- --exact", ExitCode: 1, Duration: time.Second, Actionable: 1, Suppressed: 1},
		},
	}
}

func TestSaveLoadSummary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "run.msgpack")
	snap, err := FromSummary(sampleSummary(), "abc123")
	if err != nil {
		t.Fatal(err)
	}
	if err := Save(path, snap); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ConfigDigest != "abc123" {
		t.Errorf("digest = %q", loaded.ConfigDigest)
	}
	got, err := loaded.Summary()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(sampleSummary(), got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}

	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("temporary files left behind: %v", entries)
	}
}

func TestSaveReplaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.msgpack")
	first, _ := FromSummary(sampleSummary(), "one")
	second, _ := FromSummary(diagfmt.RunSummary{RunID: "two"}, "two")
	if err := Save(path, first); err != nil {
		t.Fatal(err)
	}
	if err := Save(path, second); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.RunID != "two" || len(loaded.Diagnostics) != 0 || loaded.Outcome != "clean" {
		t.Errorf("loaded = %+v", loaded)
	}
}

func TestLoadSchemaMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.msgpack")
	data, err := msgpack.Marshal(&Snapshot{Schema: SchemaVersion + 1, Outcome: "clean"})
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); !errors.Is(err, ErrSchema) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "garbage")
	if err := os.WriteFile(path, []byte("not msgpack"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSummaryRejectsInconsistentOutcome(t *testing.T) {
	snap, _ := FromSummary(sampleSummary(), "")
	snap.Outcome = "clean"
	if _, err := snap.Summary(); err == nil {
		t.Fatal("expected error")
	}
}

func TestFromSummaryRejectsNegativeCounts(t *testing.T) {
	s := sampleSummary()
	s.Targets[0].Actionable = -1
	if _, err := FromSummary(s, ""); err == nil {
		t.Fatal("expected conversion error")
	}
}
