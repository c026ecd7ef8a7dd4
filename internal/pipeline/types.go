package pipeline

import (
	"slices"
	"time"
)

// Stage describes a high-level pipeline phase.
type Stage string

const (
	// StagePreflight checks the toolchain and the interpreter.
	StagePreflight Stage = "preflight"
	// StageEnumerate lists the crate's tests.
	StageEnumerate Stage = "enumerate"
	// StageInvoke runs one target under the interpreter.
	StageInvoke Stage = "invoke"
	// StageTriage classifies and aggregates what a target printed.
	StageTriage Stage = "triage"
	// StageReport writes the verdict.
	StageReport Stage = "report"
)

// Status captures progress state within a stage.
type Status string

const (
	StatusQueued   Status = "queued"
	StatusWorking  Status = "working"
	StatusClean    Status = "clean"
	StatusFaulting Status = "faulting"
	StatusError    Status = "error"
)

// Event reports progress for a target, or for the whole run when Target is
// empty.
type Event struct {
	Target      string
	Stage       Stage
	Status      Status
	Err         error
	Elapsed     time.Duration
	Diagnostics int
}

// ProgressSink consumes progress events.
type ProgressSink interface {
	OnEvent(Event)
}

// ChannelSink forwards events into a channel.
type ChannelSink struct {
	Ch chan<- Event
}

func (s ChannelSink) OnEvent(evt Event) {
	if s.Ch == nil {
		return
	}
	s.Ch <- evt
}

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event)

func (f SinkFunc) OnEvent(evt Event) { f(evt) }

func emit(sink ProgressSink, evt Event) {
	if sink != nil {
		sink.OnEvent(evt)
	}
}

// Timings holds accumulated stage durations.
type Timings struct {
	stages map[Stage]time.Duration
}

func (t *Timings) ensure() {
	if t.stages == nil {
		t.stages = make(map[Stage]time.Duration)
	}
}

// Add accumulates dur into stage. Invoke and triage run once per target.
func (t *Timings) Add(stage Stage, dur time.Duration) {
	if t == nil {
		return
	}
	t.ensure()
	t.stages[stage] += dur
}

// Has reports whether a duration for stage is recorded.
func (t Timings) Has(stage Stage) bool {
	_, ok := t.stages[stage]
	return ok
}

// Duration returns the recorded duration for stage.
func (t Timings) Duration(stage Stage) time.Duration {
	return t.stages[stage]
}

// Sum returns the sum of durations across the provided stages.
func (t Timings) Sum(stages ...Stage) time.Duration {
	var total time.Duration
	for _, stage := range stages {
		total += t.stages[stage]
	}
	return total
}

// Stages returns the recorded stages in pipeline order.
func (t Timings) Stages() []Stage {
	order := []Stage{StagePreflight, StageEnumerate, StageInvoke, StageTriage, StageReport}
	return slices.DeleteFunc(order, func(s Stage) bool { return !t.Has(s) })
}
