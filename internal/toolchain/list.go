package toolchain

import (
	"bufio"
	"context"
	"strings"

	"miriguard/internal/triage"
)

// ListTests enumerates the crate's tests with the libtest terse lister.
// Names are returned in first-seen order without duplicates.
func (c *Cargo) ListTests(ctx context.Context) ([]string, error) {
	out, err := c.run(ctx, c.channelArg(), "test", "--", "--list", "--format=terse")
	if err != nil {
		return nil, triage.Wrap(triage.KindLaunch, err)
	}
	if !out.Success() {
		return nil, triage.Errorf(triage.KindLaunch, "listing tests failed: %s", strings.TrimSpace(out.Stderr))
	}
	return ParseTestList(out.Stdout), nil
}

// ParseTestList extracts test names from `--list --format=terse` output.
// Benchmarks, summaries and doc-test headers are skipped.
func ParseTestList(out string) []string {
	seen := make(map[string]struct{})
	var names []string
	sc := bufio.NewScanner(strings.NewReader(out))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		name, ok := strings.CutSuffix(strings.TrimRight(sc.Text(), " \r"), ": test")
		if !ok || name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
