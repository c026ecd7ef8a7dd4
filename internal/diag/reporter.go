package diag

// Reporter receives actionable diagnostics as the run produces them.
// Implementations: BagReporter (collects into a Bag), NopReporter,
// MultiReporter (fan-out). Renderers in diagfmt provide streaming ones.
type Reporter interface {
	Report(d Diagnostic) error
}

// BagReporter appends every reported diagnostic to Bag.
type BagReporter struct{ Bag *Bag }

func (r BagReporter) Report(d Diagnostic) error {
	if r.Bag == nil {
		return nil
	}
	r.Bag.Add(d)
	return nil
}

// NopReporter drops everything.
type NopReporter struct{}

func (NopReporter) Report(Diagnostic) error { return nil }

// MultiReporter forwards each diagnostic to every reporter in order and stops
// at the first error.
type MultiReporter []Reporter

func (m MultiReporter) Report(d Diagnostic) error {
	for _, r := range m {
		if r == nil {
			continue
		}
		if err := r.Report(d); err != nil {
			return err
		}
	}
	return nil
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(Diagnostic) error

func (f ReporterFunc) Report(d Diagnostic) error { return f(d) }
