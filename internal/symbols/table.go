package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"asli/internal/ast"
	"asli/internal/source"
)

// Hints provide optional capacity suggestions for the symbol table arenas.
type Hints struct{ Scopes, Symbols uint }

// Table is the global environment: a namespace of types,
// a name-to-candidate-list namespace of functions (overloads share a name),
// a separate namespace for setters, unary/binary operator candidate lists,
// globals, and enum members. Everything lives in the single Global scope;
// internal/sema layers function/block scopes under it as it walks bodies.
type Table struct {
	Scopes  *Scopes
	Symbols *Symbols
	Strings *source.Interner
	Global  ScopeID

	Types       map[source.StringID]SymbolID
	Functions   map[source.StringID][]SymbolID
	Getters     map[source.StringID][]SymbolID
	Setters     map[source.StringID][]SymbolID
	UnaryOps    map[ast.UnaryOp][]SymbolID
	BinaryOps   map[ast.BinaryOp][]SymbolID
	Globals     map[source.StringID]SymbolID
	EnumMembers map[source.StringID]SymbolID
}

// NewTable builds a fresh table with optional capacity hints. If strings is
// nil, a fresh interner is allocated.
func NewTable(h Hints, strings *source.Interner, globalSpan source.Span) *Table {
	scopeCap, err := safecast.Conv[uint32](h.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	symCap, err := safecast.Conv[uint32](h.Symbols)
	if err != nil {
		panic(fmt.Errorf("symbol capacity overflow: %w", err))
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	scopes := NewScopes(scopeCap)
	global := scopes.New(ScopeGlobal, NoScopeID, ScopeOwner{Kind: ScopeOwnerUnknown}, globalSpan)
	return &Table{
		Scopes:      scopes,
		Symbols:     NewSymbols(symCap),
		Strings:     strings,
		Global:      global,
		Types:       make(map[source.StringID]SymbolID),
		Functions:   make(map[source.StringID][]SymbolID),
		Getters:     make(map[source.StringID][]SymbolID),
		Setters:     make(map[source.StringID][]SymbolID),
		UnaryOps:    make(map[ast.UnaryOp][]SymbolID),
		BinaryOps:   make(map[ast.BinaryOp][]SymbolID),
		Globals:     make(map[source.StringID]SymbolID),
		EnumMembers: make(map[source.StringID]SymbolID),
	}
}

// declare allocates sym and registers it under name in scope's NameIndex,
// returning the new SymbolID.
func (t *Table) declare(scope ScopeID, name source.StringID, sym Symbol) SymbolID {
	id := t.Symbols.New(sym)
	s := t.Scopes.Get(scope)
	if s != nil {
		s.Symbols = append(s.Symbols, id)
		s.NameIndex[name] = append(s.NameIndex[name], id)
	}
	return id
}

// Lookup searches scope and its ancestors for name, returning the innermost
// match.
func (t *Table) Lookup(scope ScopeID, name source.StringID) (SymbolID, bool) {
	for s := scope; s.IsValid(); {
		sc := t.Scopes.Get(s)
		if sc == nil {
			break
		}
		if ids, ok := sc.NameIndex[name]; ok && len(ids) > 0 {
			return ids[len(ids)-1], true
		}
		s = sc.Parent
	}
	return NoSymbolID, false
}
