package diagfmt

import (
	"io"

	"github.com/fatih/color"

	"miriguard/internal/diag"
)

func bannerColor(c diag.Category) *color.Color {
	switch c {
	case diag.RawPointerUsage:
		return color.New(color.FgRed, color.Bold)
	case diag.MemoryFree:
		return color.New(color.FgMagenta, color.Bold)
	}
	return color.New(color.FgYellow, color.Bold)
}

// WriteText writes one diagnostic block followed by a blank separator line:
//
//	ERROR: <banner>
//	>>>>>
//	<text>
//	<<<<<
func WriteText(w io.Writer, d diag.Diagnostic, opts TextOpts) error {
	banner := d.Category.Banner()
	if opts.Color {
		c := bannerColor(d.Category)
		c.EnableColor()
		banner = c.Sprint(banner)
	}
	_, err := io.WriteString(w, "ERROR: "+banner+"\n>>>>>\n"+d.Text+"\n<<<<<\n\n")
	return err
}

// Text writes every actionable diagnostic of the verdict in order.
func Text(w io.Writer, v diag.Verdict, opts TextOpts) error {
	for _, d := range v.Actionable {
		if err := WriteText(w, d, opts); err != nil {
			return err
		}
	}
	return nil
}
