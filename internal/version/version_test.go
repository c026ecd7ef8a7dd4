package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestGetUsesOverrides(t *testing.T) {
	origVersion, origCommit, origMessage, origDate := Version, GitCommit, GitMessage, BuildDate
	t.Cleanup(func() {
		Version, GitCommit, GitMessage, BuildDate = origVersion, origCommit, origMessage, origDate
	})

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	GitMessage = "fix banner"
	BuildDate = "2026-01-15T10:30:00Z"

	want := Info{Version: "1.2.3", GitCommit: "abc123def456", GitMessage: "fix banner", BuildDate: "2026-01-15T10:30:00Z"}
	if got := Get(); got != want {
		t.Errorf("Get() = %+v, want %+v", got, want)
	}
}

func TestGetDefaultsVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = ""
	if got := Get().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestColored(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	color.NoColor = true

	if got := Colored("0.1.0-dev"); got != "0.1.0-dev" {
		t.Errorf("Colored = %q", got)
	}
	if got := Colored("nightly"); got != "nightly" {
		t.Errorf("Colored = %q", got)
	}

	color.NoColor = false
	if got := Colored("1.2.3"); got == "1.2.3" {
		t.Error("expected escape sequences with color enabled")
	}
}
