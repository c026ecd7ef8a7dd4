// Package diagfmt renders triage results as text, JSON, YAML, SARIF or a
// one-line-per-diagnostic summary.
package diagfmt

import (
	"fmt"
	"strings"
)

// Format selects a report renderer.
type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatSARIF Format = "sarif"
	FormatShort Format = "short"
)

// Formats lists the accepted --format values.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatYAML, FormatSARIF, FormatShort}
}

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "" {
		return FormatText, nil
	}
	for _, known := range Formats() {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unsupported report format %q (expected text|json|yaml|sarif|short)", s)
}

// Streams reports whether the format is written incrementally per target.
func (f Format) Streams() bool {
	return f == FormatText || f == ""
}

// TextOpts configures the banner report.
type TextOpts struct {
	Color bool
}

// JSONOpts configures JSON and YAML output.
type JSONOpts struct {
	// Max truncates the diagnostic list, 0 keeps everything. Counts still
	// describe the full verdict.
	Max int
	// OmitText drops the verbatim diagnostic text, keeping the headline.
	OmitText bool
}

// SarifRunMeta provides metadata for SARIF output.
type SarifRunMeta struct {
	ToolName       string
	ToolVersion    string
	InvocationArgs []string
}
