package diag

// Outcome is the run-level classification.
type Outcome uint8

const (
	// Clean means no actionable diagnostic survived suppression.
	Clean Outcome = iota
	// Faulting means at least one actionable diagnostic remains.
	Faulting
)

func (o Outcome) String() string {
	switch o {
	case Clean:
		return "clean"
	case Faulting:
		return "faulting"
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Verdict is the aggregate result of one top-level invocation.
type Verdict struct {
	Outcome    Outcome
	Actionable []Diagnostic
	Suppressed int
}

// NewVerdict derives the outcome from the actionable list.
func NewVerdict(actionable []Diagnostic, suppressed int) Verdict {
	v := Verdict{Actionable: actionable, Suppressed: suppressed}
	if len(actionable) > 0 {
		v.Outcome = Faulting
	}
	return v
}

// Faulting reports whether the verdict carries violations.
func (v Verdict) Faulting() bool {
	return v.Outcome == Faulting
}
