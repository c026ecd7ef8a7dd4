package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives trace events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Config selects a tracer from command-line flags.
type Config struct {
	Level Level
	// Path is the stream destination: "" keeps events in the ring only,
	// "-" writes to Stderr, anything else is created as a file.
	Path      string
	Format    Format
	Stderr    io.Writer
	RingSize  int
	Heartbeat time.Duration
}

// Session owns a configured tracer and everything started alongside it.
type Session struct {
	Tracer Tracer
	Ring   *RingTracer

	heartbeat *Heartbeat
	format    Format
}

// Open builds the tracer described by cfg. A LevelOff config yields a
// session whose tracer is Nop.
func Open(cfg Config) (*Session, error) {
	if cfg.Level == LevelOff {
		return &Session{Tracer: Nop}, nil
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = 1024
	}
	if cfg.Stderr == nil {
		cfg.Stderr = os.Stderr
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if strings.HasSuffix(cfg.Path, ".ndjson") || strings.HasSuffix(cfg.Path, ".jsonl") {
			format = FormatNDJSON
		}
	}

	ring := NewRingTracer(cfg.RingSize, cfg.Level)
	s := &Session{Tracer: ring, Ring: ring, format: format}

	if cfg.Path != "" {
		var w io.Writer = cfg.Stderr
		if cfg.Path != "-" {
			f, err := os.Create(cfg.Path)
			if err != nil {
				return nil, fmt.Errorf("failed to open trace output: %w", err)
			}
			w = f
		}
		s.Tracer = NewMultiTracer(cfg.Level, NewStreamTracer(w, cfg.Level, format), ring)
	}
	s.heartbeat = StartHeartbeat(s.Tracer, cfg.Heartbeat)
	return s, nil
}

// DumpRing writes the recorded ring to w. Used after a fatal error.
func (s *Session) DumpRing(w io.Writer) error {
	if s == nil || s.Ring == nil {
		return nil
	}
	return s.Ring.Dump(w, s.format)
}

// Close stops the heartbeat and closes the tracer.
func (s *Session) Close() error {
	if s == nil {
		return nil
	}
	s.heartbeat.Stop()
	return s.Tracer.Close()
}
