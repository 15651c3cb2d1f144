package symbols

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// ScopeKind enumerates the lexical scope categories the resolver models.
// ASL has one translation unit's worth of top-level declarations (the
// global environment) plus, once internal/sema runs, a stack
// of function-body and block scopes nested under it.
type ScopeKind uint8

const (
	ScopeInvalid ScopeKind = iota
	ScopeGlobal            // the global environment: types, functions, setters, operators, globals
	ScopeFunction          // a function/getter/setter body
	ScopeBlock             // a nested block (if/case/for/while/try arm)
)

func (k ScopeKind) String() string {
	switch k {
	case ScopeGlobal:
		return "global"
	case ScopeFunction:
		return "function"
	case ScopeBlock:
		return "block"
	default:
		return "invalid"
	}
}

// ScopeOwnerKind distinguishes what AST construct opened a scope.
type ScopeOwnerKind uint8

const (
	ScopeOwnerUnknown ScopeOwnerKind = iota
	ScopeOwnerFile
	ScopeOwnerDecl
	ScopeOwnerStmt
)

// ScopeOwner references the AST construct a scope was opened for.
type ScopeOwner struct {
	Kind       ScopeOwnerKind
	SourceFile source.FileID
	ASTFile    ast.FileID
	Decl       ast.DeclID
	Stmt       ast.StmtID
}

// Scope models one lexical scope in a parent-child hierarchy, with a
// name index for fast lookup of the symbols declared directly in it.
type Scope struct {
	Kind      ScopeKind
	Parent    ScopeID
	Owner     ScopeOwner
	Span      source.Span
	NameIndex map[source.StringID][]SymbolID
	Symbols   []SymbolID
	Children  []ScopeID
}
