package diagfmt

import (
	"fmt"
	"io"

	"miriguard/internal/diag"
)

// Short writes one line per actionable diagnostic and a closing verdict line.
func Short(w io.Writer, s RunSummary) error {
	if body := diag.FormatShortDiagnostics(s.Verdict.Actionable); body != "" {
		if _, err := fmt.Fprintln(w, body); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%s: %d actionable, %d suppressed, %d target(s)\n",
		s.Verdict.Outcome, len(s.Verdict.Actionable), s.Verdict.Suppressed, len(s.Targets))
	return err
}
