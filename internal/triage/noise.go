package triage

import (
	"strings"

	"miriguard/internal/diag"
)

// DefaultNoisePhrases are trailer lines the interpreter appends after a real
// diagnostic. They carry no signal of their own.
var DefaultNoisePhrases = []string{
	"previous error",
	"test failed, to rerun pass",
	"unsupported operation: ",
}

// DefaultHardFailureMarker marks an unrecognised diagnostic as a genuine
// undefined-behaviour report rather than a tool error.
const DefaultHardFailureMarker = "Undefined Behavior: "

// NoiseFilter drops unclassified trailer diagnostics.
type NoiseFilter struct {
	phrases []string
}

// NewNoiseFilter copies phrases. Empty phrases are ignored.
func NewNoiseFilter(phrases ...string) NoiseFilter {
	kept := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return NoiseFilter{phrases: kept}
}

// DefaultNoiseFilter uses DefaultNoisePhrases.
func DefaultNoiseFilter() NoiseFilter {
	return NewNoiseFilter(DefaultNoisePhrases...)
}

// Phrases returns a copy of the configured phrases.
func (f NoiseFilter) Phrases() []string {
	return append([]string(nil), f.phrases...)
}

// IsNoise reports whether d should be dropped. Only unclassified diagnostics
// are ever noise.
func (f NoiseFilter) IsNoise(d diag.Diagnostic) bool {
	if d.Category != diag.Unclassified {
		return false
	}
	for _, p := range f.phrases {
		if strings.Contains(d.Text, p) {
			return true
		}
	}
	return false
}

// Suppress returns the actionable diagnostics of bag and how many were dropped.
func (f NoiseFilter) Suppress(bag *diag.Bag) (*diag.Bag, int) {
	kept := bag.Filter(func(d diag.Diagnostic) bool { return !f.IsNoise(d) })
	return kept, bag.Len() - kept.Len()
}
