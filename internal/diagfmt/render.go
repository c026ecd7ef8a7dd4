package diagfmt

import (
	"fmt"
	"io"
)

// Options bundles the per-format settings.
type Options struct {
	Text  TextOpts
	JSON  JSONOpts
	Sarif SarifRunMeta
}

// Render writes the whole report for s in format f.
func Render(w io.Writer, f Format, s RunSummary, opts Options) error {
	switch f {
	case FormatText, "":
		return Text(w, s.Verdict, opts.Text)
	case FormatJSON:
		return JSON(w, s, opts.JSON)
	case FormatYAML:
		return YAML(w, s, opts.JSON)
	case FormatSARIF:
		return Sarif(w, s, opts.Sarif)
	case FormatShort:
		return Short(w, s)
	default:
		return fmt.Errorf("unsupported report format %q", f)
	}
}
