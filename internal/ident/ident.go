// Package ident provides the identifier and source-location services:
// interned, tag-disambiguated identifiers and a name supply for minting fresh
// ones during typechecking and monomorphization.
package ident

import "asli/internal/source"

// Tag disambiguates identifiers that share a spelling. A zero Tag denotes the
// user-written name; the typechecker assigns nonzero tags to resolved
// function overloads, and later passes must preserve a cloned declaration's
// tag rather than reusing an existing one.
type Tag uint32

// Ident is an interned name plus a disambiguation tag. Two Idents are equal
// only if both the name and the tag match.
type Ident struct {
	Name source.StringID
	Tag  Tag
}

// New constructs an untagged identifier (Tag == 0) from an already-interned name.
func New(name source.StringID) Ident {
	return Ident{Name: name}
}

// WithTag returns a copy of id carrying tag.
func (id Ident) WithTag(tag Tag) Ident {
	return Ident{Name: id.Name, Tag: tag}
}

// Equal reports whether id and other share both name and tag.
func (id Ident) Equal(other Ident) bool {
	return id.Name == other.Name && id.Tag == other.Tag
}

// SameRoot reports whether id and other share a name, ignoring disambiguation tags.
// Used when comparing a use site against a pre-resolution declaration.
func (id Ident) SameRoot(other Ident) bool {
	return id.Name == other.Name
}

// IsTagged reports whether id carries a typechecker-assigned disambiguation tag.
func (id Ident) IsTagged() bool {
	return id.Tag != 0
}

// Derive builds a new identifier by interning name+suffix and copying id's tag.
// Used for getter/setter markers (e.g. turning "Mem" into "Mem_read"/"Mem_write").
func Derive(in *source.Interner, id Ident, suffix string) Ident {
	base, _ := in.Lookup(id.Name)
	return Ident{Name: in.Intern(base + suffix), Tag: id.Tag}
}

// String renders id for diagnostics and debug printing, e.g. "F" or "F#3".
func (id Ident) String(in *source.Interner) string {
	name, _ := in.Lookup(id.Name)
	if id.Tag == 0 {
		return name
	}
	return name + "#" + tagString(id.Tag)
}

func tagString(t Tag) string {
	if t == 0 {
		return "0"
	}
	digits := [10]byte{}
	n := len(digits)
	for t > 0 {
		n--
		digits[n] = byte('0' + t%10)
		t /= 10
	}
	return string(digits[n:])
}
