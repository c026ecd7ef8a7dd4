package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/goleak"
)

// fakeCargoEnv turns the test binary into a stand-in for cargo. The value
// is the channel `cargo --version` reports.
const fakeCargoEnv = "MIRIGUARD_FAKE_CARGO"

func TestMain(m *testing.M) {
	if channel := os.Getenv(fakeCargoEnv); channel != "" {
		os.Exit(fakeCargo(channel, os.Args[1:]))
	}
	goleak.VerifyTestMain(m)
}

const fakeLeak = `   Compiling demo v0.1.0
    Finished test [unoptimized + debuginfo] target(s) in 0.10s

error: memory leaked: alloc1234 (Rust heap, size: 4, align: 4), allocated here:
  --> src/lib.rs:5:13
   |
5  |     let b = Box::new(1);
   |             ^^^^^^^^^^^

error: aborting due to previous error
`

func fakeCargo(channel string, args []string) int {
	switch strings.Join(args, " ") {
	case "--version":
		fmt.Fprintf(os.Stdout, "cargo 1.83.0-%s (5ffbef321 2024-10-29)\n", channel)
		return 0
	case "+nightly miri --version":
		fmt.Fprintln(os.Stdout, "miri 0.1.0 (1e4f10ba64 2024-10-30)")
		return 0
	case "+nightly test -- --list --format=terse":
		fmt.Fprint(os.Stdout, "tests::leaks: test\ntests::clean: test\n")
		return 0
	case "+nightly miri test tests::leaks -- --exact":
		fmt.Fprint(os.Stderr, fakeLeak)
		return 1
	case "+nightly miri test tests::clean -- --exact":
		fmt.Fprint(os.Stdout, "running 1 test\ntest tests::clean ... ok\n")
		fmt.Fprint(os.Stderr, "warning: unused variable: `x`\n")
		return 0
	}
	fmt.Fprintf(os.Stderr, "fake cargo: unexpected arguments %q\n", args)
	return 2
}

// writeConfig writes a miriguard.toml that points at the fake cargo.
func writeConfig(t *testing.T, dir, cargo string) string {
	t.Helper()
	path := filepath.Join(dir, "miriguard.toml")
	body := fmt.Sprintf("[toolchain]\ncargo = %q\nchannel = \"nightly\"\n", cargo)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err = root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootNeedsSubcommand(t *testing.T) {
	_, _, err := execute(t)
	if !errors.Is(err, errNoSubcommand) {
		t.Fatalf("err = %v, want %v", err, errNoSubcommand)
	}
	if got := err.Error(); got != "miriguard needs to be called with a subcommand (run, test)" {
		t.Errorf("message = %q", got)
	}
}

func TestPrintError(t *testing.T) {
	var buf bytes.Buffer
	printError(&buf, errors.New("[Cargo Error]: boom"))
	if !strings.Contains(buf.String(), "[Cargo Error]: boom") {
		t.Errorf("printed %q", buf.String())
	}
}

func TestReadColorMode(t *testing.T) {
	cases := map[string]colorMode{"": colorAuto, "auto": colorAuto, "ON": colorOn, "always": colorOn, "off": colorOff, "never": colorOff}
	for in, want := range cases {
		got, err := readColorMode(in)
		if err != nil {
			t.Fatalf("%q: %v", in, err)
		}
		if got != want {
			t.Errorf("%q = %q, want %q", in, got, want)
		}
	}
	if _, err := readColorMode("sometimes"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if colorAuto.enabled("report.txt") {
		t.Error("auto colored a file report")
	}
	if !colorOn.enabled("report.txt") || colorOff.enabled("") {
		t.Error("explicit modes ignored")
	}
}

func TestUIMode(t *testing.T) {
	if _, err := readUIMode("maybe"); err == nil {
		t.Error("expected error for unknown mode")
	}
	if !shouldUseTUI(uiModeOn, false, "") {
		t.Error("on must force the UI")
	}
	if shouldUseTUI(uiModeOff, true, "report.txt") {
		t.Error("off must disable the UI")
	}
	if shouldUseTUI(uiModeAuto, true, "") {
		t.Error("auto must not draw over a report streamed to stderr")
	}
	if shouldUseTUI(uiModeAuto, false, "report.txt") {
		t.Error("auto must not draw for a single target")
	}
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "version", "--format", "json", "--full")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"tool": "miriguard"`, `"signature_version"`, `"git_commit"`} {
		if !strings.Contains(stdout, want) {
			t.Errorf("missing %s in %s", want, stdout)
		}
	}
	if _, _, err := execute(t, "version", "--format", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}
