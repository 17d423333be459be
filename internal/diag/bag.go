package diag

import (
	"cmp"
	"slices"
)

// Bag holds diagnostics up to a limit. It is not safe for concurrent use;
// the driver fills one per document and merges them in input order.
type Bag struct {
	items []Diagnostic
	limit int
}

func NewBag(limit int) *Bag {
	limit = max(limit, 0)
	return &Bag{items: make([]Diagnostic, 0, min(limit, 64)), limit: limit}
}

// Add stores d and reports whether there was room for it.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= b.limit {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// AddAll adds ds in order until the bag is full and returns how many fit.
func (b *Bag) AddAll(ds []Diagnostic) int {
	room := max(b.limit-len(b.items), 0)
	n := min(room, len(ds))
	b.items = append(b.items, ds[:n]...)
	return n
}

// Limit returns the current capacity limit.
func (b *Bag) Limit() int { return b.limit }

func (b *Bag) Len() int { return len(b.items) }

// Items returns the stored diagnostics. The slice aliases the bag.
func (b *Bag) Items() []Diagnostic { return b.items }

// HasErrors reports whether any stored diagnostic is an error.
func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, func(d Diagnostic) bool { return d.Severity >= SevError })
}

// Merge appends everything in other. The limit grows when it would
// otherwise drop diagnostics that were already accepted elsewhere.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	b.limit = max(b.limit, len(b.items)+len(other.items))
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by position, then by descending severity, then by
// code. Equal diagnostics keep their relative order.
func (b *Bag) Sort() {
	slices.SortStableFunc(b.items, func(x, y Diagnostic) int {
		return cmp.Or(
			cmp.Compare(x.Primary.File, y.Primary.File),
			cmp.Compare(x.Primary.Start, y.Primary.Start),
			cmp.Compare(x.Primary.End, y.Primary.End),
			cmp.Compare(y.Severity, x.Severity),
			cmp.Compare(x.Code, y.Code),
		)
	})
}
