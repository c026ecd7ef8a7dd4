package main

import (
	"fmt"
	"io"
	"time"

	"miriguard/internal/observ"
	"miriguard/internal/pipeline"
)

// recordStageTimings copies the per-stage totals of a run into timer as
// nested phases of the enclosing "pipeline" phase.
func recordStageTimings(timer *observ.Timer, timings pipeline.Timings) {
	for _, stage := range timings.Stages() {
		timer.Record(string(stage), timings.Duration(stage), "")
	}
}

// recordTargetTimings adds one nested phase per invoked target.
func recordTargetTimings(timer *observ.Timer, targets []pipeline.TargetResult) {
	for _, t := range targets {
		note := fmt.Sprintf("exit %d, %d actionable", t.ExitCode, t.Actionable)
		if t.Suppressed > 0 {
			note += fmt.Sprintf(", %d suppressed", t.Suppressed)
		}
		timer.Record(t.Target.Label(), t.Duration, note)
	}
}

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil {
		return
	}
	if _, err := io.WriteString(out, timer.Summary()); err != nil {
		panic(err)
	}
}

func toMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
