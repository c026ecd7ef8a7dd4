// Package toolchain checks that the Rust toolchain can host the interpreter
// and enumerates the test targets of a crate.
package toolchain

import (
	"context"
	"strconv"
	"strings"

	"miriguard/internal/proc"
	"miriguard/internal/trace"
	"miriguard/internal/triage"
)

// Cargo runs cargo for preflight checks and test enumeration.
type Cargo struct {
	Bin     string
	Channel string
	// Prefix is inserted before every argument list.
	Prefix []string
	Dir    string
	Env    []string
}

// New returns a Cargo for bin and channel, defaulting to "cargo" and
// "nightly".
func New(bin, channel string) *Cargo {
	if bin == "" {
		bin = "cargo"
	}
	if channel == "" {
		channel = "nightly"
	}
	return &Cargo{Bin: bin, Channel: channel}
}

func (c *Cargo) run(ctx context.Context, args ...string) (proc.Output, error) {
	spec := proc.Spec{
		Name: c.Bin,
		Args: append(append([]string(nil), c.Prefix...), args...),
		Dir:  c.Dir,
		Env:  c.Env,
	}
	_, span := trace.Start(ctx, trace.ScopeInvocation, spec.CommandLine())
	out, err := proc.Run(spec)
	if err != nil {
		span.End("spawn failed")
		return out, err
	}
	span.End("exit " + strconv.Itoa(out.ExitCode))
	return out, nil
}

func (c *Cargo) channelArg() string {
	return "+" + c.Channel
}

// NightlyHint is the guidance printed when the active toolchain is not the
// nightly channel.
const NightlyHint = "Nightly toolchain is needed.\n" +
	"Note: You can install the nightly toolchain with the command:\n" +
	"  `rustup toolchain install nightly`\n" +
	"Note: If the nightly toolchain is installed, you can override it for current project:\n" +
	"  `rustup override set nightly`"

// CheckToolchain verifies that `cargo --version` reports the configured
// channel.
func (c *Cargo) CheckToolchain(ctx context.Context) error {
	out, err := c.run(ctx, "--version")
	if err != nil {
		return triage.Wrap(triage.KindToolchain, err)
	}
	if !out.Success() {
		return triage.Errorf(triage.KindToolchain, "%s", out.Stderr)
	}
	if !strings.Contains(out.Stdout, c.Channel) {
		if c.Channel == "nightly" {
			return triage.Errorf(triage.KindToolchain, "%s", NightlyHint)
		}
		return triage.Errorf(triage.KindToolchain, "%s toolchain is needed, cargo reports %q",
			c.Channel, strings.TrimSpace(out.Stdout))
	}
	return nil
}

// CheckMiri verifies that the interpreter is installed for the channel.
func (c *Cargo) CheckMiri(ctx context.Context) error {
	out, err := c.run(ctx, c.channelArg(), "miri", "--version")
	if err != nil {
		return triage.Wrap(triage.KindAnalysisTool, err)
	}
	if !out.Success() {
		return triage.Errorf(triage.KindAnalysisTool, "%s", out.Stderr)
	}
	return nil
}

// Preflight runs CheckToolchain then CheckMiri.
func (c *Cargo) Preflight(ctx context.Context) error {
	if err := c.CheckToolchain(ctx); err != nil {
		return err
	}
	return c.CheckMiri(ctx)
}
