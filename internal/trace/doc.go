// Package trace records what miriguard is doing while it drives the
// interpreter.
//
// # Usage
//
//	miriguard test --trace=- --trace-level=detail
//
// # Tracers
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes each event immediately (file or stderr)
//   - RingTracer: keeps the last N events for a dump after a fatal error
//   - MultiTracer: fans out to several tracers
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: nothing is streamed; the ring is dumped on failure
//   - LevelPhase: run-level phases (preflight, enumerate, render)
//   - LevelDetail: one span per target
//   - LevelDebug: every child process and classification decision
//
// # Scopes
//
//   - ScopeRun: the top-level command
//   - ScopeTarget: one target of the run
//   - ScopeInvocation: one child process and its triage
//
// A hung child process shows up as heartbeats without a matching span end.
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopeTarget, "test tests::double_free", 0)
//	defer span.End("")
package trace
