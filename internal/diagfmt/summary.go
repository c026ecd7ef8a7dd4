package diagfmt

import (
	"time"

	"miriguard/internal/diag"
)

// TargetSummary describes one invocation of a run.
type TargetSummary struct {
	Name       string
	Command    string
	ExitCode   int
	Duration   time.Duration
	Actionable int
	Suppressed int
}

// RunSummary is everything a renderer needs to describe a finished run.
type RunSummary struct {
	RunID            string
	Mode             string
	Started          time.Time
	SignatureVersion int
	Verdict          diag.Verdict
	Targets          []TargetSummary
}
