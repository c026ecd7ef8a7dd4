package diag

import (
	"fmt"
	"strings"
)

// Location is a source reference parsed from the "--> path:line:col" line of a
// diagnostic unit.
type Location struct {
	Path   string `json:"path" yaml:"path" msgpack:"path"`
	Line   uint32 `json:"line" yaml:"line" msgpack:"line"`
	Column uint32 `json:"column" yaml:"column" msgpack:"column"`
}

// IsZero reports whether no location was recorded.
func (l Location) IsZero() bool {
	return l.Path == ""
}

func (l Location) String() string {
	if l.IsZero() {
		return "-"
	}
	return fmt.Sprintf("%s:%d:%d", l.Path, l.Line, l.Column)
}

// Diagnostic pairs a category with the verbatim text it was derived from.
type Diagnostic struct {
	Category Category
	Text     string
	Target   string
	Location Location
}

// New builds a diagnostic without target or location.
func New(cat Category, text string) Diagnostic {
	return Diagnostic{Category: cat, Text: text}
}

// WithTarget returns a copy attributed to target.
func (d Diagnostic) WithTarget(target string) Diagnostic {
	d.Target = target
	return d
}

// WithLocation returns a copy carrying loc.
func (d Diagnostic) WithLocation(loc Location) Diagnostic {
	d.Location = loc
	return d
}

// String renders the banner block used by the text report, without the
// trailing separator line.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s\n>>>>>\n%s\n<<<<<", d.Category.Banner(), d.Text)
}

// Headline returns the first line of the text, trimmed.
func (d Diagnostic) Headline() string {
	text, _, _ := strings.Cut(d.Text, "\n")
	return strings.TrimSpace(text)
}
