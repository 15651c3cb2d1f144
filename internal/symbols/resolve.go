package symbols

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
)

// ResolverOptions configures a resolve pass.
type ResolverOptions struct {
	Reporter diag.Reporter
	Prelude  []PreludeEntry
}

// OperatorCandidate is the structural twin of parser.OperatorCandidateNames,
// kept free of an internal/parser import so the semantic layer never depends
// on the syntactic one's side channel; internal/driver converts between the
// two once parsing finishes.
type OperatorCandidate struct {
	Decl  ast.DeclID
	Names []source.StringID
}

// Resolver builds the global environment for one translation unit: it
// walks every top-level declaration once, registers it in the Table under
// the appropriate namespace, and then resolves each operator declaration's
// candidate names against the Functions namespace.
type Resolver struct {
	table *Table
	rep   diag.Reporter
	b     *ast.Builder
}

// NewResolver creates a resolver over table, reporting diagnostics to rep
// and reading the file's AST through b.
func NewResolver(table *Table, rep diag.Reporter, b *ast.Builder) *Resolver {
	return &Resolver{table: table, rep: rep, b: b}
}

// LoadPrelude registers the builtin (and any caller-extended) prelude
// entries into the global scope before a file is walked.
func (r *Resolver) LoadPrelude(custom []PreludeEntry) {
	for _, e := range mergePrelude(custom) {
		name := r.table.Strings.Intern(e.Name)
		id := r.table.declare(r.table.Global, name, Symbol{
			Name:      name,
			Kind:      e.Kind,
			Scope:     r.table.Global,
			Flags:     SymbolFlagBuiltin,
			Decl:      ast.NoDeclID,
			Signature: e.Signature,
		})
		switch e.Kind {
		case SymbolType:
			r.table.Types[name] = id
		case SymbolFunction:
			r.table.Functions[name] = append(r.table.Functions[name], id)
		}
	}
}

// ResolveFile walks every declaration in file, in source order, registering
// each under its namespace in the global scope, then resolves the given
// operator candidate names against the Functions namespace as registered so
// far. It returns nothing; callers that need operators to see functions from
// other files use ResolveOperators after registering every file.
func (r *Resolver) ResolveFile(fileID ast.FileID, operators []OperatorCandidate) {
	file := r.b.Files.Get(fileID)
	if file == nil {
		return
	}
	for _, declID := range file.Decls {
		r.resolveDecl(declID)
	}
	r.ResolveOperators(operators)
}

// ResolveOperators resolves a batch of `operator` candidate name lists
// against the Functions namespace without re-walking any file's
// declarations, for callers (internal/driver) that register every file's
// declarations up front so operators may forward-reference a function
// declared in a different file.
func (r *Resolver) ResolveOperators(operators []OperatorCandidate) {
	for _, oc := range operators {
		r.resolveOperatorCandidates(oc)
	}
}

func (r *Resolver) resolveDecl(id ast.DeclID) {
	decl := r.b.Decls.Get(id)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclBuiltinType:
		if d, ok := r.b.Decls.BuiltinType(id); ok {
			r.declareUnique(r.table.Types, d.Name, SymbolType, id, nil, d.Span)
		}
	case ast.DeclForwardType, ast.DeclRecord, ast.DeclExceptionRecord, ast.DeclTypeAbbrev:
		name, span := r.namedDeclNameSpan(decl.Kind, id)
		r.declareUnique(r.table.Types, name, SymbolType, id, nil, span)
	case ast.DeclEnumeration:
		if d, ok := r.b.Decls.Enumeration(id); ok {
			r.declareUnique(r.table.Types, d.Name, SymbolType, id, nil, d.Span)
			for _, m := range d.Members {
				r.declareUnique(r.table.EnumMembers, m.Name, SymbolEnumMember, id, nil, m.Span)
			}
		}
	case ast.DeclBuiltinFunction:
		if d, ok := r.b.Decls.BuiltinFunction(id); ok {
			sig := buildFunctionSignature(r.b, r.table.Strings, d.Params, d.ReturnType, d.Throws, false)
			r.declareOverload(r.table.Functions, d.Name, SymbolFunction, id, sig, d.Span)
		}
	case ast.DeclFunctionType:
		if d, ok := r.b.Decls.FunctionType(id); ok {
			sig := buildFunctionSignature(r.b, r.table.Strings, d.Params, d.ReturnType, d.Throws, false)
			r.declareOverload(r.table.Functions, d.Name, SymbolFunction, id, sig, d.Span)
		}
	case ast.DeclFunctionDef:
		if d, ok := r.b.Decls.FunctionDef(id); ok {
			sig := buildFunctionSignature(r.b, r.table.Strings, d.Params, d.ReturnType, d.Throws, d.Body.IsValid())
			r.declareOverload(r.table.Functions, d.Name, SymbolFunction, id, sig, d.Span)
		}
	case ast.DeclGetter:
		if d, ok := r.b.Decls.Getter(id); ok {
			sig := buildFunctionSignature(r.b, r.table.Strings, d.Params, d.ReturnType, ast.ThrowsNever, d.Body.IsValid())
			r.declareOverload(r.table.Getters, d.Name, SymbolGetter, id, sig, d.Span)
		}
	case ast.DeclSetter:
		if d, ok := r.b.Decls.Setter(id); ok {
			params := append(append([]ast.FnParam(nil), d.Params...), d.Value)
			sig := buildFunctionSignature(r.b, r.table.Strings, params, ast.NoTypeID, ast.ThrowsNever, d.Body.IsValid())
			r.declareOverload(r.table.Setters, d.Name, SymbolSetter, id, sig, d.Span)
		}
	case ast.DeclOperator:
		if d, ok := r.b.Decls.Operator(id); ok {
			symID := r.table.declare(r.table.Global, source.NoStringID, Symbol{
				Kind: SymbolOperator, Scope: r.table.Global, Decl: id, Span: d.Span,
			})
			if d.Arity == ast.OperatorUnary {
				r.table.UnaryOps[d.UnaryOp] = append(r.table.UnaryOps[d.UnaryOp], symID)
			} else {
				r.table.BinaryOps[d.BinaryOp] = append(r.table.BinaryOps[d.BinaryOp], symID)
			}
		}
	case ast.DeclConstant:
		if d, ok := r.b.Decls.Constant(id); ok {
			r.declareUnique(r.table.Globals, d.Name, SymbolConstant, id, nil, d.Span)
		}
	case ast.DeclConfigConstant:
		if d, ok := r.b.Decls.ConfigConstant(id); ok {
			r.declareUnique(r.table.Globals, d.Name, SymbolConfigConstant, id, nil, d.Span)
		}
	case ast.DeclVariable:
		if d, ok := r.b.Decls.Variable(id); ok {
			r.declareUnique(r.table.Globals, d.Name, SymbolVariable, id, nil, d.Span)
		}
	}
}

func (r *Resolver) namedDeclNameSpan(kind ast.DeclKind, id ast.DeclID) (source.StringID, source.Span) {
	switch kind {
	case ast.DeclForwardType:
		if d, ok := r.b.Decls.ForwardType(id); ok {
			return d.Name, d.Span
		}
	case ast.DeclRecord:
		if d, ok := r.b.Decls.Record(id); ok {
			return d.Name, d.Span
		}
	case ast.DeclExceptionRecord:
		if d, ok := r.b.Decls.ExceptionRecord(id); ok {
			return d.Name, d.Span
		}
	case ast.DeclTypeAbbrev:
		if d, ok := r.b.Decls.TypeAbbrev(id); ok {
			return d.Name, d.Span
		}
	}
	return source.NoStringID, source.Span{}
}

// declareUnique registers a symbol in a namespace treated as
// non-overloadable (types, globals, enum members). A second declaration
// under the same name has no dedicated diagnostic kind in the failure-kind
// list, so it reuses AmbiguousOverload — the name now resolves to more than
// one candidate, which is exactly what that code reports.
func (r *Resolver) declareUnique(ns map[source.StringID]SymbolID, nameID source.StringID, kind SymbolKind, decl ast.DeclID, sig *FunctionSignature, span source.Span) {
	if existing, ok := ns[nameID]; ok {
		if sym := r.table.Symbols.Get(existing); sym != nil {
			diag.ReportError(r.rep, diag.AmbiguousOverload, span,
				"'"+r.table.Strings.MustLookup(nameID)+"' is already declared").
				WithNote(sym.Span, "previous declaration here").Emit()
		}
		return
	}
	id := r.table.declare(r.table.Global, nameID, Symbol{
		Name: nameID, Kind: kind, Scope: r.table.Global, Decl: decl, Span: span, Signature: sig,
	})
	ns[nameID] = id
}

// declareOverload registers a symbol in an overloadable namespace (functions,
// getters, setters): same name, distinct signature is fine; same name, same
// signature is a duplicate and is reported as AmbiguousOverload.
func (r *Resolver) declareOverload(ns map[source.StringID][]SymbolID, nameID source.StringID, kind SymbolKind, decl ast.DeclID, sig *FunctionSignature, span source.Span) {
	existing := ns[nameID]
	syms := make([]*Symbol, 0, len(existing))
	for _, id := range existing {
		syms = append(syms, r.table.Symbols.Get(id))
	}
	if !signatureDiffersFromAll(sig, syms) {
		diag.ReportError(r.rep, diag.AmbiguousOverload, span,
			"'"+r.table.Strings.MustLookup(nameID)+"' already has a matching overload").Emit()
		return
	}
	id := r.table.declare(r.table.Global, nameID, Symbol{
		Name: nameID, Kind: kind, Scope: r.table.Global, Decl: decl, Span: span, Signature: sig,
	})
	ns[nameID] = append(ns[nameID], id)
}

// resolveOperatorCandidates patches DeclOperatorData.Candidates in place by
// looking up each recorded name against the Functions namespace.
func (r *Resolver) resolveOperatorCandidates(oc OperatorCandidate) {
	data, ok := r.b.Decls.Operator(oc.Decl)
	if !ok {
		return
	}
	candidates := make([]ast.DeclID, 0, len(oc.Names))
	for _, name := range oc.Names {
		fns, ok := r.table.Functions[name]
		if !ok || len(fns) == 0 {
			diag.ReportError(r.rep, diag.UnknownFunction, data.Span,
				"operator candidate '"+r.table.Strings.MustLookup(name)+"' is not declared").Emit()
			continue
		}
		for _, symID := range fns {
			if sym := r.table.Symbols.Get(symID); sym != nil {
				candidates = append(candidates, sym.Decl)
			}
		}
	}
	data.Candidates = candidates
}
