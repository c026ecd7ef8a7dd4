package triage

import (
	"fmt"
	"regexp"
	"strings"

	"miriguard/internal/diag"
)

// DefaultSignatureVersion identifies the built-in signature vocabulary.
// Bump it whenever a default pattern or its order changes.
const DefaultSignatureVersion = 2

// Refinement re-targets a matched signature when the unit also contains a
// literal substring.
type Refinement struct {
	Contains string
	Category diag.Category
}

// Signature is one known diagnostic shape.
type Signature struct {
	Name     string
	Pattern  *regexp.Regexp
	Category diag.Category
	Refine   *Refinement
}

// CompileSignature builds a signature from its textual pattern.
func CompileSignature(name, pattern string, cat diag.Category, refine *Refinement) (Signature, error) {
	if strings.TrimSpace(name) == "" {
		return Signature{}, fmt.Errorf("signature has no name")
	}
	if pattern == "" {
		return Signature{}, fmt.Errorf("signature %q has an empty pattern", name)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Signature{}, fmt.Errorf("signature %q: %w", name, err)
	}
	if refine != nil && refine.Contains == "" {
		return Signature{}, fmt.Errorf("signature %q: refinement needs a substring", name)
	}
	return Signature{Name: name, Pattern: re, Category: cat, Refine: refine}, nil
}

// categorize applies the signature to text. ok is false when it does not match.
func (s Signature) categorize(text string) (diag.Category, bool) {
	if !s.Pattern.MatchString(text) {
		return diag.Unclassified, false
	}
	if s.Refine != nil && strings.Contains(text, s.Refine.Contains) {
		return s.Refine.Category, true
	}
	return s.Category, true
}

// SignatureSet is an ordered, immutable list of signatures.
type SignatureSet struct {
	version int
	sigs    []Signature
}

// NewSignatureSet copies sigs into a new set. Names must be unique.
func NewSignatureSet(version int, sigs ...Signature) (*SignatureSet, error) {
	seen := make(map[string]struct{}, len(sigs))
	for _, s := range sigs {
		if s.Pattern == nil {
			return nil, fmt.Errorf("signature %q has no compiled pattern", s.Name)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("duplicate signature %q", s.Name)
		}
		seen[s.Name] = struct{}{}
	}
	return &SignatureSet{version: version, sigs: append([]Signature(nil), sigs...)}, nil
}

// DefaultSignatures returns the built-in vocabulary. Order matters: the leak
// check runs first, and the use-after-free rule is disambiguated by the
// presence of the libc deallocation call.
func DefaultSignatures() *SignatureSet {
	return &SignatureSet{
		version: DefaultSignatureVersion,
		sigs: []Signature{
			{
				Name:     "memory-leak",
				Pattern:  regexp.MustCompile(`error: memory leaked|leaked memory`),
				Category: diag.MemoryFree,
			},
			{
				Name:     "null-pointer-deref",
				Pattern:  regexp.MustCompile(`error: Undefined Behavior: dereferencing pointer failed: null pointer is a dangling pointer`),
				Category: diag.RawPointerUsage,
			},
			{
				Name:     "use-after-free",
				Pattern:  regexp.MustCompile(`error: Undefined Behavior: pointer to alloc\d+ was dereferenced after this allocation got free`),
				Category: diag.RawPointerUsage,
				Refine:   &Refinement{Contains: "libc::free(", Category: diag.MemoryFree},
			},
		},
	}
}

// Version returns the vocabulary version.
func (s *SignatureSet) Version() int {
	return s.version
}

// Len returns the number of signatures.
func (s *SignatureSet) Len() int {
	return len(s.sigs)
}

// Names lists signature names in evaluation order.
func (s *SignatureSet) Names() []string {
	names := make([]string, len(s.sigs))
	for i, sig := range s.sigs {
		names[i] = sig.Name
	}
	return names
}

// Match returns the category and the name of the first matching signature.
// name is empty when the unit is unclassified.
func (s *SignatureSet) Match(u Unit) (cat diag.Category, name string) {
	for _, sig := range s.sigs {
		if c, ok := sig.categorize(u.Text); ok {
			return c, sig.Name
		}
	}
	return diag.Unclassified, ""
}

// Classify maps u to a category. It is total and deterministic.
func (s *SignatureSet) Classify(u Unit) diag.Category {
	cat, _ := s.Match(u)
	return cat
}

// Triage segments raw and classifies every unit, attaching parsed locations.
func (s *SignatureSet) Triage(raw string) *diag.Bag {
	bag := diag.NewBag(0)
	for u := range SegmentSeq(raw) {
		d := diag.New(s.Classify(u), u.Text)
		if loc, ok := ParseLocation(u.Text); ok {
			d = d.WithLocation(loc)
		}
		bag.Add(d)
	}
	return bag
}
