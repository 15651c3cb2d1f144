package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
)

// tcCallUntyped resolves callee against the Functions namespace, checks the
// chosen overload's parameters, and reports Ambiguous/UnknownObject when
// resolution fails. It leaves the ast.ExprCallUntyped node in place: the
// untyped-to-typed rewrite that binds a concrete ast.DeclID happens in the
// transform pipeline once monomorphization has fixed every width parameter.
func (c *Checker) tcCallUntyped(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.CallUntyped(id)
	argTys := make([]Ty, len(d.Args))
	for i, a := range d.Args {
		argTys[i] = c.tcExpr(a.Value)
	}
	symIDs, ok := c.Table.Functions[d.Callee]
	if !ok || len(symIDs) == 0 {
		if _, isGetter := c.Table.Getters[d.Callee]; isGetter {
			return c.tcGetterCall(d.Callee, argTys, c.spanOf(id))
		}
		c.report(diag.NewError(diag.UnknownObject, c.spanOf(id), "unknown function '"+c.Str.MustLookup(d.Callee)+"'"))
		return Invalid()
	}
	return c.resolveOverload(d.Callee, symIDs, argTys, d.Args, c.spanOf(id))
}

func (c *Checker) tcGetterCall(name source.StringID, argTys []Ty, span source.Span) Ty {
	symIDs := c.Table.Getters[name]
	return c.resolveOverload(name, symIDs, argTys, nil, span)
}

// tcCallTyped checks a call whose callee has already been bound to a
// concrete declaration (produced by an earlier monomorphization pass); it
// simply looks the return type up from the callee's declaration.
func (c *Checker) tcCallTyped(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.CallTyped(id)
	for _, p := range d.Params {
		c.tcExpr(p)
	}
	for _, a := range d.Args {
		c.tcExpr(a)
	}
	return c.declReturnType(d.Callee)
}

func (c *Checker) declReturnType(declID ast.DeclID) Ty {
	decl := c.B.Decls.Get(declID)
	if decl == nil {
		return Invalid()
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		fd, _ := c.B.Decls.FunctionDef(declID)
		if !fd.ReturnType.IsValid() {
			return Nothing()
		}
		return c.resolveType(fd.ReturnType)
	case ast.DeclFunctionType:
		fd, _ := c.B.Decls.FunctionType(declID)
		if !fd.ReturnType.IsValid() {
			return Nothing()
		}
		return c.resolveType(fd.ReturnType)
	case ast.DeclBuiltinFunction:
		fd, _ := c.B.Decls.BuiltinFunction(declID)
		if !fd.ReturnType.IsValid() {
			return Nothing()
		}
		return c.resolveType(fd.ReturnType)
	case ast.DeclGetter:
		gd, _ := c.B.Decls.Getter(declID)
		return c.resolveType(gd.ReturnType)
	default:
		return Invalid()
	}
}

// declParamTypes resolves a function/getter declaration's formal parameter
// types. Returns ok=false for a prelude entry (no backing ast.DeclID),
// which the caller matches by coarse category instead.
func (c *Checker) declParamTypes(declID ast.DeclID) ([]Ty, bool) {
	if !declID.IsValid() {
		return nil, false
	}
	decl := c.B.Decls.Get(declID)
	if decl == nil {
		return nil, false
	}
	var params []ast.FnParam
	switch decl.Kind {
	case ast.DeclFunctionDef:
		fd, _ := c.B.Decls.FunctionDef(declID)
		params = fd.Params
	case ast.DeclFunctionType:
		fd, _ := c.B.Decls.FunctionType(declID)
		params = fd.Params
	case ast.DeclBuiltinFunction:
		fd, _ := c.B.Decls.BuiltinFunction(declID)
		params = fd.Params
	case ast.DeclGetter:
		gd, _ := c.B.Decls.Getter(declID)
		params = gd.Params
	default:
		return nil, false
	}
	tys := make([]Ty, len(params))
	for i, p := range params {
		tys[i] = c.resolveType(p.Type)
	}
	return tys, true
}

// resolveOverload picks the single candidate among symIDs whose parameter
// count and types accept argTys, reporting Ambiguous/UnknownObject/TypeError
// as appropriate. args carries default-argument expressions to typecheck
// for the parameters an untyped call omitted; nil for a call site the
// caller has already fully checked (e.g. a synthesized getter probe).
func (c *Checker) resolveOverload(name source.StringID, symIDs []symbols.SymbolID, argTys []Ty, args []ast.CallArg, span source.Span) Ty {
	var matches []*symbols.Symbol
	var matchReturn []Ty
	for _, symID := range symIDs {
		sym := c.Table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		if ret, ok := c.overloadAccepts(sym, argTys); ok {
			matches = append(matches, sym)
			matchReturn = append(matchReturn, ret)
		}
	}
	switch len(matches) {
	case 0:
		c.report(diag.NewError(diag.TypeErrorGeneric, span, "no overload of '"+c.Str.MustLookup(name)+"' accepts these argument types"))
		return Invalid()
	case 1:
		return matchReturn[0]
	default:
		c.report(diag.NewError(diag.AmbiguousOverload, span, "call to '"+c.Str.MustLookup(name)+"' matches more than one overload"))
		return matchReturn[0]
	}
}

// overloadAccepts reports whether sym's signature accepts argTys, and if so
// returns its resolved result type.
func (c *Checker) overloadAccepts(sym *symbols.Symbol, argTys []Ty) (Ty, bool) {
	if params, ok := c.declParamTypes(sym.Decl); ok {
		if len(params) != len(argTys) {
			return Invalid(), false
		}
		for i, p := range params {
			if !argTys[i].IsValid() || !c.Satisfies(argTys[i], p) {
				return Invalid(), false
			}
		}
		return c.declReturnType(sym.Decl), true
	}
	// Prelude intrinsic: match by coarse category against its signature.
	if sym.Signature == nil || len(sym.Signature.Params) != len(argTys) {
		return Invalid(), false
	}
	for i, key := range sym.Signature.Params {
		if !categoryAccepts(key, argTys[i]) {
			return Invalid(), false
		}
	}
	return categoryResult(sym.Signature.Result, argTys), true
}

// resolveBinaryOperatorOverload matches (l, r) against every function
// declared as a candidate of a user `operator` declaration for op, returning
// the single accepting candidate's result type. Builtin arithmetic/comparison
// on primitive types never reaches here; this path exists for record,
// exception, and enum operands where the Table.BinaryOps/UnaryOps namespaces
// (populated by internal/symbols' Resolver from source-level `operator`
// declarations) are the only source of a usable operator.
func (c *Checker) resolveBinaryOperatorOverload(op ast.BinaryOp, l, r Ty, span source.Span) (Ty, bool) {
	var matches []Ty
	for _, symID := range c.Table.BinaryOps[op] {
		sym := c.Table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		od, ok := c.B.Decls.Operator(sym.Decl)
		if !ok {
			continue
		}
		for _, cand := range od.Candidates {
			params, ok := c.declParamTypes(cand)
			if !ok || len(params) != 2 {
				continue
			}
			if c.Satisfies(l, params[0]) && c.Satisfies(r, params[1]) {
				matches = append(matches, c.declReturnType(cand))
			}
		}
	}
	switch len(matches) {
	case 0:
		return Invalid(), false
	case 1:
		return matches[0], true
	default:
		c.report(diag.NewError(diag.AmbiguousOverload, span, "more than one operator overload accepts these operand types"))
		return matches[0], true
	}
}

func (c *Checker) resolveUnaryOperatorOverload(op ast.UnaryOp, operand Ty, span source.Span) (Ty, bool) {
	var matches []Ty
	for _, symID := range c.Table.UnaryOps[op] {
		sym := c.Table.Symbols.Get(symID)
		if sym == nil {
			continue
		}
		od, ok := c.B.Decls.Operator(sym.Decl)
		if !ok {
			continue
		}
		for _, cand := range od.Candidates {
			params, ok := c.declParamTypes(cand)
			if !ok || len(params) != 1 {
				continue
			}
			if c.Satisfies(operand, params[0]) {
				matches = append(matches, c.declReturnType(cand))
			}
		}
	}
	switch len(matches) {
	case 0:
		return Invalid(), false
	case 1:
		return matches[0], true
	default:
		c.report(diag.NewError(diag.AmbiguousOverload, span, "more than one operator overload accepts this operand type"))
		return matches[0], true
	}
}

func categoryAccepts(key symbols.TypeKey, ty Ty) bool {
	switch string(key) {
	case "int":
		return ty.Kind == TyInt
	case "sintN":
		return ty.Kind == TySInt
	case "bits":
		return ty.Kind == TyBits
	case "bool":
		return ty.Kind == TyBool
	case "string":
		return ty.Kind == TyString
	case "RAM":
		return ty.Kind == TyRAM
	default:
		return false
	}
}

// categoryResult builds the prelude entry's declared result type, threading
// through the operand's own width for the resize/convert family so a call
// like resize_sintN(x, w) keeps x's representation.
func categoryResult(key symbols.TypeKey, argTys []Ty) Ty {
	switch string(key) {
	case "int":
		return UnconstrainedInt()
	case "sintN":
		for _, a := range argTys {
			if a.Kind == TySInt {
				return a
			}
		}
		return SIntOf(ast.NoExprID)
	case "bits":
		return BitsOf(ast.NoExprID)
	case "bool":
		return Bool()
	case "string":
		return String_()
	case "RAM":
		return RAM()
	case "nothing":
		return Nothing()
	default:
		return Invalid()
	}
}
