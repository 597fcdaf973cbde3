package diag

// Bag is an append-only collection of diagnostics. It implements Reporter so
// pipeline stages can report straight into it. Items keep their emission
// order, which follows catalog order and is therefore deterministic.
type Bag struct {
	items []Diagnostic
}

// NewBag creates an empty bag.
func NewBag() *Bag {
	return &Bag{}
}

// Report implements Reporter.
func (b *Bag) Report(d Diagnostic) {
	b.items = append(b.items, d)
}

// Len returns the number of collected diagnostics.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasWarnings reports whether the bag holds at least one diagnostic with
// severity Warning or higher.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

// Items returns the collected diagnostics. The returned slice shares the
// bag's backing array; callers must not modify it.
func (b *Bag) Items() []Diagnostic {
	return b.items
}
