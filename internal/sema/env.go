package sema

import "asli/internal/source"

// localBinding is one name bound inside a function body: a parameter, a
// let/var/constant/config local, a for-loop index, or a catch binder.
type localBinding struct {
	ty      Ty
	mutable bool
}

// localScope is one block's worth of bindings, chained to its parent so
// inner blocks shadow outer ones without mutating them. Kept separate from
// internal/symbols' global-environment Scopes: those model the one
// translation-unit-wide global namespace; function bodies
// layer a much shorter-lived stack on top that has no reason to share the
// global resolver's bookkeeping.
type localScope struct {
	parent *localScope
	vars   map[source.StringID]localBinding
}

func newLocalScope(parent *localScope) *localScope {
	return &localScope{parent: parent, vars: map[source.StringID]localBinding{}}
}

func (s *localScope) bind(name source.StringID, ty Ty, mutable bool) {
	s.vars[name] = localBinding{ty: ty, mutable: mutable}
}

func (s *localScope) lookup(name source.StringID) (localBinding, bool) {
	for sc := s; sc != nil; sc = sc.parent {
		if b, ok := sc.vars[name]; ok {
			return b, true
		}
	}
	return localBinding{}, false
}
