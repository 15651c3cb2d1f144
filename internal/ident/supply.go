package ident

import "asli/internal/source"

// Supply mints fresh, mutually-distinct tagged identifiers sharing a
// caller-supplied name prefix. Monomorphization and runtime-check insertion
// use a Supply to avoid colliding with user-written names or with each
// other's clones.
//
// A Supply is owned by a single compilation scope (typically one function
// body); callers create a fresh Supply per scope and must not share one
// across concurrently-typechecked functions.
type Supply struct {
	interner *source.Interner
	prefix   string
	next     Tag
}

// NewSupply creates a Supply that mints identifiers named "<prefix><n>" for
// increasing n, each carrying a fresh nonzero Tag.
func NewSupply(in *source.Interner, prefix string) *Supply {
	return &Supply{interner: in, prefix: prefix, next: 1}
}

// Fresh returns a new identifier distinct from every other identifier this
// Supply has produced.
func (s *Supply) Fresh() Ident {
	tag := s.next
	s.next++
	name := s.interner.Intern(s.prefix + tagString(tag))
	return Ident{Name: name, Tag: tag}
}

// FreshNamed mints a fresh identifier using hint as the printable stem instead
// of the Supply's default prefix, keeping generated names recognizable (e.g.
// "let t_1 = ..." hoisted from a call to "t").
func (s *Supply) FreshNamed(hint string) Ident {
	tag := s.next
	s.next++
	name := s.interner.Intern(hint + "_" + tagString(tag))
	return Ident{Name: name, Tag: tag}
}

// Reset restarts the counter, used when a Supply is reused for a new function body.
func (s *Supply) Reset() {
	s.next = 1
}

// TagFor allocates a fresh disambiguation Tag without minting a full identifier,
// for callers that already have the base name (e.g. the overload resolver
// tagging a chosen candidate).
func (s *Supply) TagFor(base Ident) Ident {
	tag := s.next
	s.next++
	return base.WithTag(tag)
}
