// Package snapshot persists a finished run so that it can be re-rendered
// later in any report format.
package snapshot

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"miriguard/internal/diag"
	"miriguard/internal/diagfmt"
)

// SchemaVersion is bumped whenever the encoded layout changes.
const SchemaVersion uint16 = 1

// ErrSchema is returned for snapshots written by another schema version.
var ErrSchema = errors.New("snapshot schema mismatch")

// Diagnostic is the stored form of diag.Diagnostic.
type Diagnostic struct {
	Category string `msgpack:"category"`
	Text     string `msgpack:"text"`
	Target   string `msgpack:"target,omitempty"`
	Path     string `msgpack:"path,omitempty"`
	Line     uint32 `msgpack:"line,omitempty"`
	Column   uint32 `msgpack:"column,omitempty"`
}

// Target is the stored form of one invocation.
type Target struct {
	Name       string `msgpack:"name"`
	Command    string `msgpack:"command"`
	ExitCode   int32  `msgpack:"exit_code"`
	DurationNS int64  `msgpack:"duration_ns"`
	Actionable uint32 `msgpack:"actionable"`
	Suppressed uint32 `msgpack:"suppressed"`
}

// Snapshot is the on-disk record of a run.
type Snapshot struct {
	Schema           uint16       `msgpack:"schema"`
	RunID            string       `msgpack:"run_id"`
	Mode             string       `msgpack:"mode"`
	StartedUnixNano  int64        `msgpack:"started"`
	SignatureVersion uint32       `msgpack:"signature_version"`
	ConfigDigest     string       `msgpack:"config_digest,omitempty"`
	Outcome          string       `msgpack:"outcome"`
	Suppressed       uint32       `msgpack:"suppressed"`
	Diagnostics      []Diagnostic `msgpack:"diagnostics"`
	Targets          []Target     `msgpack:"targets"`
}

// FromSummary captures s. configDigest identifies the triage settings in
// effect.
func FromSummary(s diagfmt.RunSummary, configDigest string) (*Snapshot, error) {
	sigVersion, err := safecast.Conv[uint32](s.SignatureVersion)
	if err != nil {
		return nil, fmt.Errorf("signature version: %w", err)
	}
	suppressed, err := safecast.Conv[uint32](s.Verdict.Suppressed)
	if err != nil {
		return nil, fmt.Errorf("suppressed count: %w", err)
	}
	snap := &Snapshot{
		Schema:           SchemaVersion,
		RunID:            s.RunID,
		Mode:             s.Mode,
		SignatureVersion: sigVersion,
		ConfigDigest:     configDigest,
		Outcome:          s.Verdict.Outcome.String(),
		Suppressed:       suppressed,
		Diagnostics:      make([]Diagnostic, 0, len(s.Verdict.Actionable)),
		Targets:          make([]Target, 0, len(s.Targets)),
	}
	if !s.Started.IsZero() {
		snap.StartedUnixNano = s.Started.UnixNano()
	}
	for _, d := range s.Verdict.Actionable {
		snap.Diagnostics = append(snap.Diagnostics, Diagnostic{
			Category: d.Category.String(),
			Text:     d.Text,
			Target:   d.Target,
			Path:     d.Location.Path,
			Line:     d.Location.Line,
			Column:   d.Location.Column,
		})
	}
	for _, t := range s.Targets {
		exit, err := safecast.Conv[int32](t.ExitCode)
		if err != nil {
			return nil, fmt.Errorf("target %s exit code: %w", t.Name, err)
		}
		actionable, err := safecast.Conv[uint32](t.Actionable)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		tsupp, err := safecast.Conv[uint32](t.Suppressed)
		if err != nil {
			return nil, fmt.Errorf("target %s: %w", t.Name, err)
		}
		snap.Targets = append(snap.Targets, Target{
			Name:       t.Name,
			Command:    t.Command,
			ExitCode:   exit,
			DurationNS: int64(t.Duration),
			Actionable: actionable,
			Suppressed: tsupp,
		})
	}
	return snap, nil
}

// Summary converts the snapshot back into a renderable summary. The
// outcome is re-derived from the stored diagnostics.
func (s *Snapshot) Summary() (diagfmt.RunSummary, error) {
	actionable := make([]diag.Diagnostic, 0, len(s.Diagnostics))
	for i, d := range s.Diagnostics {
		cat, err := diag.ParseCategory(d.Category)
		if err != nil {
			return diagfmt.RunSummary{}, fmt.Errorf("diagnostic #%d: %w", i+1, err)
		}
		actionable = append(actionable, diag.New(cat, d.Text).
			WithTarget(d.Target).
			WithLocation(diag.Location{Path: d.Path, Line: d.Line, Column: d.Column}))
	}
	out := diagfmt.RunSummary{
		RunID:            s.RunID,
		Mode:             s.Mode,
		SignatureVersion: int(s.SignatureVersion),
		Verdict:          diag.NewVerdict(actionable, int(s.Suppressed)),
	}
	if s.StartedUnixNano != 0 {
		out.Started = time.Unix(0, s.StartedUnixNano).UTC()
	}
	for _, t := range s.Targets {
		out.Targets = append(out.Targets, diagfmt.TargetSummary{
			Name:       t.Name,
			Command:    t.Command,
			ExitCode:   int(t.ExitCode),
			Duration:   time.Duration(t.DurationNS),
			Actionable: int(t.Actionable),
			Suppressed: int(t.Suppressed),
		})
	}
	if out.Verdict.Outcome.String() != s.Outcome {
		return out, fmt.Errorf("snapshot outcome %q disagrees with its diagnostics", s.Outcome)
	}
	return out, nil
}

// Save writes snap to path, replacing any previous file atomically.
func Save(path string, snap *Snapshot) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = os.Remove(f.Name())
		}
	}()

	if err = msgpack.NewEncoder(f).Encode(snap); err != nil {
		_ = f.Close()
		return err
	}
	if err = f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), path)
}

// Load reads a snapshot and checks its schema version.
func Load(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var snap Snapshot
	if err := msgpack.NewDecoder(f).Decode(&snap); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if snap.Schema != SchemaVersion {
		return nil, fmt.Errorf("%s: %w: got %d, want %d", path, ErrSchema, snap.Schema, SchemaVersion)
	}
	return &snap, nil
}
