// Package miri drives single interpreter invocations and triages their output.
package miri

import (
	"fmt"
	"strings"
)

// Mode selects the cargo-miri subcommand of an invocation.
type Mode uint8

const (
	// ModeRun runs the crate's default entry point.
	ModeRun Mode = iota + 1
	ModeRunBin
	ModeRunExample
	// ModeTestAll runs every test in one invocation.
	ModeTestAll
	// ModeTest runs the tests matching one name.
	ModeTest
)

func (m Mode) String() string {
	switch m {
	case ModeRun:
		return "run"
	case ModeRunBin:
		return "run-bin"
	case ModeRunExample:
		return "run-example"
	case ModeTestAll:
		return "test-all"
	case ModeTest:
		return "test"
	default:
		return "unknown"
	}
}

// IsTest reports whether the mode drives the test harness.
func (m Mode) IsTest() bool {
	return m == ModeTestAll || m == ModeTest
}

// Target is one unit of work for the runner.
type Target struct {
	Mode Mode
	Name string
	// Exact passes "-- --exact" so a test filter matches one test only.
	Exact bool
}

// RunTarget returns the target for `run`, `run --bin` or `run --example`.
// At most one of bin and example may be set.
func RunTarget(bin, example string) (Target, error) {
	switch {
	case bin != "" && example != "":
		return Target{}, fmt.Errorf("--bin and --example are mutually exclusive")
	case bin != "":
		return Target{Mode: ModeRunBin, Name: bin}, nil
	case example != "":
		return Target{Mode: ModeRunExample, Name: example}, nil
	}
	return Target{Mode: ModeRun}, nil
}

// TestTarget returns the target for one named test.
func TestTarget(name string, exact bool) Target {
	return Target{Mode: ModeTest, Name: name, Exact: exact}
}

// Validate rejects targets that cannot be turned into a command line.
func (t Target) Validate() error {
	switch t.Mode {
	case ModeRun, ModeTestAll:
		if t.Name != "" {
			return fmt.Errorf("%s target takes no name, got %q", t.Mode, t.Name)
		}
	case ModeRunBin, ModeRunExample, ModeTest:
		if strings.TrimSpace(t.Name) == "" {
			return fmt.Errorf("%s target needs a name", t.Mode)
		}
	default:
		return fmt.Errorf("unknown target mode %d", t.Mode)
	}
	return nil
}

// Args returns the arguments that follow `cargo +<channel> miri`.
func (t Target) Args() []string {
	switch t.Mode {
	case ModeRun:
		return []string{"run"}
	case ModeRunBin:
		return []string{"run", "--bin", t.Name}
	case ModeRunExample:
		return []string{"run", "--example", t.Name}
	case ModeTestAll:
		return []string{"test"}
	case ModeTest:
		if t.Exact {
			return []string{"test", t.Name, "--", "--exact"}
		}
		return []string{"test", t.Name}
	}
	return nil
}

// String renders the target as it would be typed after `cargo miri`.
func (t Target) String() string {
	return strings.Join(t.Args(), " ")
}

// Label is the short name shown in progress output and attached to
// diagnostics.
func (t Target) Label() string {
	switch t.Mode {
	case ModeRun:
		return "run"
	case ModeTestAll:
		return "test"
	}
	return t.Name
}
