package diagfmt

import (
	"bufio"
	"errors"
	"io"
	"os"

	"miriguard/internal/diag"
)

// Opener produces the destination of a report. It is called at most once.
type Opener func() (io.Writer, error)

// FileOpener creates path, or returns stderr when path is empty.
func FileOpener(path string) Opener {
	return func() (io.Writer, error) {
		if path == "" || path == "-" {
			return os.Stderr, nil
		}
		return os.Create(path)
	}
}

// Sink is the report destination of a run. Text reports are streamed as
// diagnostics arrive; other formats are rendered once by Finish.
type Sink struct {
	format Format
	opts   Options
	open   Opener

	raw io.Writer
	buf *bufio.Writer
}

// NewSink returns a sink that opens its destination lazily.
func NewSink(format Format, opts Options, open Opener) *Sink {
	return &Sink{format: format, opts: opts, open: open}
}

var errSinkNotOpen = errors.New("report sink is not open")

// Open opens the destination.
func (s *Sink) Open() error {
	if s.raw != nil {
		return nil
	}
	w, err := s.open()
	if err != nil {
		return err
	}
	s.raw = w
	s.buf = bufio.NewWriter(w)
	return nil
}

// Report writes d when the format streams.
func (s *Sink) Report(d diag.Diagnostic) error {
	if !s.format.Streams() {
		return nil
	}
	if s.buf == nil {
		return errSinkNotOpen
	}
	return WriteText(s.buf, d, s.opts.Text)
}

// Flush pushes buffered output to the destination.
func (s *Sink) Flush() error {
	if s.buf == nil {
		return nil
	}
	return s.buf.Flush()
}

// Finish renders non-streaming formats for the completed run.
func (s *Sink) Finish(summary RunSummary) error {
	if s.format.Streams() {
		return s.Flush()
	}
	if s.buf == nil {
		return errSinkNotOpen
	}
	if err := Render(s.buf, s.format, summary, s.opts); err != nil {
		return err
	}
	return s.buf.Flush()
}

// Close flushes and closes destinations that are files.
func (s *Sink) Close() error {
	if s.raw == nil {
		return nil
	}
	err := s.Flush()
	if c, ok := s.raw.(io.Closer); ok && s.raw != io.Writer(os.Stderr) && s.raw != io.Writer(os.Stdout) {
		err = errors.Join(err, c.Close())
	}
	s.raw, s.buf = nil, nil
	return err
}
