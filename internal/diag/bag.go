package diag

// Bag is an ordered collection of diagnostics. The zero value is ready to use.
type Bag struct {
	items []Diagnostic
}

// NewBag returns an empty bag with room for capHint diagnostics.
func NewBag(capHint int) *Bag {
	if capHint < 0 {
		capHint = 0
	}
	return &Bag{items: make([]Diagnostic, 0, capHint)}
}

// BagOf builds a bag holding ds in order.
func BagOf(ds ...Diagnostic) *Bag {
	b := NewBag(len(ds))
	b.items = append(b.items, ds...)
	return b
}

// Add appends d.
func (b *Bag) Add(d Diagnostic) {
	b.items = append(b.items, d)
}

// Len returns the number of diagnostics.
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.items)
}

// Empty reports whether the bag holds nothing.
func (b *Bag) Empty() bool {
	return b.Len() == 0
}

// Items returns the backing slice. Callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	if b == nil {
		return nil
	}
	return b.items
}

// Merge appends every diagnostic of other after the current ones.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.items = append(b.items, other.items...)
}

// Filter returns a new bag with the diagnostics for which keep returns true,
// in their original order.
func (b *Bag) Filter(keep func(Diagnostic) bool) *Bag {
	out := NewBag(b.Len())
	for _, d := range b.Items() {
		if keep(d) {
			out.items = append(out.items, d)
		}
	}
	return out
}

// Count returns how many diagnostics carry cat.
func (b *Bag) Count(cat Category) int {
	n := 0
	for _, d := range b.Items() {
		if d.Category == cat {
			n++
		}
	}
	return n
}

// CountByCategory tallies every category, including those with zero entries.
func (b *Bag) CountByCategory() map[Category]int {
	counts := make(map[Category]int, 3)
	for _, c := range Categories() {
		counts[c] = 0
	}
	for _, d := range b.Items() {
		counts[d.Category]++
	}
	return counts
}
