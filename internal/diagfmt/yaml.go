package diagfmt

import (
	"io"

	"gopkg.in/yaml.v3"
)

// YAML writes the same document as JSON, in YAML.
func YAML(w io.Writer, s RunSummary, opts JSONOpts) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(BuildReportOutput(s, opts)); err != nil {
		return err
	}
	return enc.Close()
}
