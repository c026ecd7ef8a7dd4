package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"miriguard/internal/trace"
)

// setupTracing reads the trace flags, opens a trace session and attaches its
// tracer to the command context. The returned cleanup flushes and closes it.
func setupTracing(cmd *cobra.Command) (*trace.Session, func(), error) {
	flags := cmd.Flags()

	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeat, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// A destination without a level means "trace the phases".
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid trace format: %w", err)
	}

	session, err := trace.Open(trace.Config{
		Level:     level,
		Path:      traceOutput,
		Format:    format,
		Stderr:    cmd.ErrOrStderr(),
		RingSize:  ringSize,
		Heartbeat: heartbeat,
	})
	if err != nil {
		return nil, nil, err
	}

	ctx := trace.WithTracer(cmd.Context(), session.Tracer)
	cmd.SetContext(ctx)

	errOut := cmd.ErrOrStderr()
	cleanup := func() {
		if err := session.Tracer.Flush(); err != nil {
			fmt.Fprintf(errOut, "trace: flush error: %v\n", err)
		}
		if err := session.Close(); err != nil {
			fmt.Fprintf(errOut, "trace: close error: %v\n", err)
		}
	}
	return session, cleanup, nil
}

// dumpTrace writes the in-memory ring after a fatal error, when the trace
// was not already streamed somewhere.
func dumpTrace(w io.Writer, session *trace.Session) {
	if session == nil || session.Ring == nil {
		return
	}
	if session.Tracer != trace.Tracer(session.Ring) {
		return
	}
	fmt.Fprintln(w, "trace: last events before the failure:")
	if err := session.DumpRing(w); err != nil {
		fmt.Fprintf(w, "trace: dump error: %v\n", err)
	}
}
