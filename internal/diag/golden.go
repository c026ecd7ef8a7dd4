package diag

import (
	"fmt"
	"strings"
)

// FormatShortDiagnostics renders diagnostics into a stable,
// single-line-per-entry representation:
//
//	<category> <target> <path:line:col> <first line of text>
//
// Order is preserved. An empty target prints as "-".
func FormatShortDiagnostics(diags []Diagnostic) string {
	var b strings.Builder
	for i, d := range diags {
		target := d.Target
		if target == "" {
			target = "-"
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Category, target, d.Location, d.Headline())
		if i < len(diags)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
