package diag

import (
	"fmt"
	"sort"
)

// Bag accumulates diagnostics up to a configurable maximum, the mechanism
// behind the typechecker's "continue after a diagnostic up to a configurable
// maximum, then rethrow" recovery policy.
type Bag struct {
	items []Diagnostic
	max   uint16
}

func NewBag(max int) *Bag {
	return &Bag{
		items: make([]Diagnostic, 0, max),
		max:   uint16(max),
	}
}

// Add appends a diagnostic, honoring the bag's capacity.
// Returns false if the diagnostic was dropped because the limit was reached.
func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

// AtLimit reports whether the bag has reached its configured maximum, the
// signal the typechecker uses to rethrow instead of continuing.
func (b *Bag) AtLimit() bool {
	return len(b.items) >= int(b.max)
}

// HasErrors reports whether any diagnostic has Severity >= SevError.
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any diagnostic has Severity >= SevWarning.
func (b *Bag) HasWarnings() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevWarning {
			return true
		}
	}
	return false
}

func (b *Bag) Len() int {
	return len(b.items)
}

// Items returns a read-only view of the diagnostics. Do not mutate the
// returned slice: it aliases the Bag's backing array.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Merge appends another bag's diagnostics, growing max to fit if needed.
func (b *Bag) Merge(other *Bag) {
	newTotal := len(b.items) + len(other.items)
	if uint16(newTotal) > b.max {
		b.max = uint16(newTotal)
	}
	b.items = append(b.items, other.items...)
}

// Sort orders diagnostics by file, start, end, severity (descending), then
// code (ascending) for stable, deterministic output.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		if di.Severity != dj.Severity {
			return di.Severity > dj.Severity
		}
		return di.Code.String() < dj.Code.String()
	})
}

// Dedup removes diagnostics that repeat an earlier (Code, Primary) pair.
func (b *Bag) Dedup() {
	seen := make(map[string]bool)
	newitems := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		key := fmt.Sprintf("%s:%s", d.Code.String(), d.Primary.String())
		if seen[key] {
			continue
		}
		seen[key] = true
		newitems = append(newitems, d)
	}
	b.items = newitems
}
