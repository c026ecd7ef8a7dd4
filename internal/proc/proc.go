// Package proc runs external commands and captures their output.
package proc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/unicode"
)

// Output is what a finished child process left behind.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Success reports whether the child exited with status zero.
func (o Output) Success() bool {
	return o.ExitCode == 0
}

// Spec describes a command to run.
type Spec struct {
	Name string
	Args []string
	Dir  string
	// Env is appended to the current environment.
	Env []string
	// Tee, if set, also receives the child's stdout as it is produced.
	Tee io.Writer
}

// CommandLine renders the spec as a shell-like string for logs.
func (s Spec) CommandLine() string {
	return strings.TrimSpace(s.Name + " " + strings.Join(s.Args, " "))
}

// Run starts the command, drains both pipes until EOF and waits for it to
// exit. A non-zero exit status is reported through Output.ExitCode, not as an
// error; err is set only when the process could not be started or waited on.
func Run(spec Spec) (Output, error) {
	cmd := exec.Command(spec.Name, spec.Args...)
	cmd.Dir = spec.Dir
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		return Output{}, fmt.Errorf("%s: %w", spec.Name, err)
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		return Output{}, fmt.Errorf("%s: %w", spec.Name, err)
	}
	if err := cmd.Start(); err != nil {
		return Output{}, err
	}

	var stdout, stderr bytes.Buffer
	var g errgroup.Group
	g.Go(func() error {
		var w io.Writer = &stdout
		if spec.Tee != nil {
			w = io.MultiWriter(&stdout, spec.Tee)
		}
		_, err := io.Copy(w, stdoutPipe)
		return err
	})
	g.Go(func() error {
		_, err := io.Copy(&stderr, stderrPipe)
		return err
	})
	drainErr := g.Wait()

	out := Output{
		Stdout: DecodeLossy(stdout.Bytes()),
		Stderr: DecodeLossy(stderr.Bytes()),
	}
	waitErr := cmd.Wait()
	var exitErr *exec.ExitError
	switch {
	case waitErr == nil:
	case errors.As(waitErr, &exitErr):
		out.ExitCode = exitErr.ExitCode()
		if out.ExitCode < 0 {
			// killed by a signal
			return out, fmt.Errorf("%s: %w", spec.Name, waitErr)
		}
	default:
		return out, fmt.Errorf("%s: %w", spec.Name, waitErr)
	}
	if drainErr != nil {
		return out, fmt.Errorf("%s: reading output: %w", spec.Name, drainErr)
	}
	return out, nil
}

// DecodeLossy converts child output to a valid UTF-8 string, replacing
// malformed sequences with U+FFFD.
func DecodeLossy(b []byte) string {
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), "\uFFFD")
	}
	return string(decoded)
}
