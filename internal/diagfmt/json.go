package diagfmt

import (
	"encoding/json"
	"io"
	"time"

	"miriguard/internal/diag"
)

// LocationJSON is the source reference of a diagnostic.
type LocationJSON struct {
	File   string `json:"file" yaml:"file"`
	Line   uint32 `json:"line" yaml:"line"`
	Column uint32 `json:"column" yaml:"column"`
}

// DiagnosticJSON is one actionable diagnostic.
type DiagnosticJSON struct {
	Category string        `json:"category" yaml:"category"`
	Banner   string        `json:"banner" yaml:"banner"`
	Target   string        `json:"target,omitempty" yaml:"target,omitempty"`
	Headline string        `json:"headline" yaml:"headline"`
	Text     string        `json:"text,omitempty" yaml:"text,omitempty"`
	Location *LocationJSON `json:"location,omitempty" yaml:"location,omitempty"`
}

// TargetJSON is one invocation of the run.
type TargetJSON struct {
	Name       string  `json:"name" yaml:"name"`
	Command    string  `json:"command,omitempty" yaml:"command,omitempty"`
	ExitCode   int     `json:"exit_code" yaml:"exit_code"`
	DurationMS float64 `json:"duration_ms" yaml:"duration_ms"`
	Actionable int     `json:"actionable" yaml:"actionable"`
	Suppressed int     `json:"suppressed" yaml:"suppressed"`
}

// ReportOutput is the root document of the JSON and YAML reports.
type ReportOutput struct {
	RunID            string           `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Mode             string           `json:"mode,omitempty" yaml:"mode,omitempty"`
	Started          string           `json:"started,omitempty" yaml:"started,omitempty"`
	Outcome          string           `json:"outcome" yaml:"outcome"`
	SignatureVersion int              `json:"signature_version,omitempty" yaml:"signature_version,omitempty"`
	Diagnostics      []DiagnosticJSON `json:"diagnostics" yaml:"diagnostics"`
	Count            int              `json:"count" yaml:"count"`
	Suppressed       int              `json:"suppressed" yaml:"suppressed"`
	Counts           map[string]int   `json:"counts" yaml:"counts"`
	Targets          []TargetJSON     `json:"targets,omitempty" yaml:"targets,omitempty"`
}

func makeLocation(loc diag.Location) *LocationJSON {
	if loc.IsZero() {
		return nil
	}
	return &LocationJSON{File: loc.Path, Line: loc.Line, Column: loc.Column}
}

// BuildReportOutput shapes a summary into the JSON/YAML document.
func BuildReportOutput(s RunSummary, opts JSONOpts) ReportOutput {
	items := s.Verdict.Actionable
	if opts.Max > 0 && opts.Max < len(items) {
		items = items[:opts.Max]
	}

	out := ReportOutput{
		RunID:            s.RunID,
		Mode:             s.Mode,
		Outcome:          s.Verdict.Outcome.String(),
		SignatureVersion: s.SignatureVersion,
		Diagnostics:      make([]DiagnosticJSON, 0, len(items)),
		Count:            len(s.Verdict.Actionable),
		Suppressed:       s.Verdict.Suppressed,
		Counts:           make(map[string]int, 3),
	}
	if !s.Started.IsZero() {
		out.Started = s.Started.UTC().Format(time.RFC3339)
	}
	for cat, n := range diag.BagOf(s.Verdict.Actionable...).CountByCategory() {
		out.Counts[cat.String()] = n
	}
	for _, d := range items {
		dj := DiagnosticJSON{
			Category: d.Category.String(),
			Banner:   d.Category.Banner(),
			Target:   d.Target,
			Headline: d.Headline(),
			Location: makeLocation(d.Location),
		}
		if !opts.OmitText {
			dj.Text = d.Text
		}
		out.Diagnostics = append(out.Diagnostics, dj)
	}
	for _, t := range s.Targets {
		out.Targets = append(out.Targets, TargetJSON{
			Name:       t.Name,
			Command:    t.Command,
			ExitCode:   t.ExitCode,
			DurationMS: float64(t.Duration) / float64(time.Millisecond),
			Actionable: t.Actionable,
			Suppressed: t.Suppressed,
		})
	}
	return out
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, s RunSummary, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildReportOutput(s, opts))
}
