package symbols

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// SymbolKind classifies what a name in the environment refers to, one per
// global-environment namespace (types; functions, indexed by
// name to a candidate list; setters, a separate namespace; operators;
// globals).
type SymbolKind uint8

const (
	SymbolInvalid SymbolKind = iota
	SymbolType
	SymbolFunction
	SymbolGetter
	SymbolSetter
	SymbolOperator
	SymbolEnumMember
	SymbolConstant
	SymbolConfigConstant
	SymbolVariable
	SymbolParam
	SymbolLocal
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolType:
		return "type"
	case SymbolFunction:
		return "function"
	case SymbolGetter:
		return "getter"
	case SymbolSetter:
		return "setter"
	case SymbolOperator:
		return "operator"
	case SymbolEnumMember:
		return "enum member"
	case SymbolConstant:
		return "constant"
	case SymbolConfigConstant:
		return "config constant"
	case SymbolVariable:
		return "variable"
	case SymbolParam:
		return "parameter"
	case SymbolLocal:
		return "local"
	default:
		return "invalid"
	}
}

// SymbolFlags encode misc attributes for quick checks.
type SymbolFlags uint16

const (
	SymbolFlagBuiltin SymbolFlags = 1 << iota
	SymbolFlagForward              // a DeclForwardType awaiting its full definition
)

// Symbol describes one named entity available in a scope.
type Symbol struct {
	Name      source.StringID
	Kind      SymbolKind
	Scope     ScopeID
	Span      source.Span
	Flags     SymbolFlags
	Decl      ast.DeclID
	Signature *FunctionSignature
}
