package source

import (
	"slices"
)

// StringID is a handle into an Interner; NoStringID is the empty string.
type StringID uint32

const NoStringID StringID = 0

// Interner deduplicates strings (identifier names, string literals) into small
// comparable IDs. It backs the identifier service: two identifiers with
// the same spelling intern to the same StringID.
type Interner struct {
	byID  []string
	index map[string]StringID
}

func NewInterner() *Interner {
	return &Interner{
		byID:  []string{""},
		index: map[string]StringID{"": 0},
	}
}

// Intern inserts s if not already present and returns its ID.
func (i *Interner) Intern(s string) StringID {
	if id, ok := i.index[s]; ok {
		return id
	}

	// Copy so the interner does not keep the caller's buffer alive.
	cpy := string([]byte(s))
	id := StringID(len(i.byID))
	i.byID = append(i.byID, cpy)
	i.index[cpy] = id
	return id
}

// InternBytes interns the string formed by b without requiring the caller to allocate first.
func (i *Interner) InternBytes(b []byte) StringID {
	return i.Intern(string(b))
}

// Lookup returns the string for id, or false if id is not valid.
func (i *Interner) Lookup(id StringID) (string, bool) {
	if !i.Has(id) {
		return "", false
	}
	return i.byID[id], true
}

// MustLookup returns the string for id, panicking if id is not valid.
func (i *Interner) MustLookup(id StringID) string {
	s, ok := i.Lookup(id)
	if !ok {
		panic("invalid string ID")
	}
	return s
}

func (i *Interner) Has(id StringID) bool {
	return int(id) >= 0 && int(id) < len(i.byID)
}

// Len returns the number of interned strings, including NoStringID; never less than 1.
func (i *Interner) Len() int {
	return len(i.byID)
}

// Snapshot returns a defensive copy of every interned string, indexed by StringID.
func (i *Interner) Snapshot() []string {
	return slices.Clone(i.byID)
}
