package xform

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// declName returns the name of any top-level declaration that has one
// (every kind except operator declarations, which are keyed by operator
// token rather than an identifier).
func declName(u *Unit, id ast.DeclID) (string, bool) {
	decl := u.B.Decls.Get(id)
	if decl == nil {
		return "", false
	}
	var name source.StringID
	switch decl.Kind {
	case ast.DeclBuiltinType:
		d, _ := u.B.Decls.BuiltinType(id)
		name = d.Name
	case ast.DeclForwardType:
		d, _ := u.B.Decls.ForwardType(id)
		name = d.Name
	case ast.DeclRecord:
		d, _ := u.B.Decls.Record(id)
		name = d.Name
	case ast.DeclExceptionRecord:
		d, _ := u.B.Decls.ExceptionRecord(id)
		name = d.Name
	case ast.DeclTypeAbbrev:
		d, _ := u.B.Decls.TypeAbbrev(id)
		name = d.Name
	case ast.DeclEnumeration:
		d, _ := u.B.Decls.Enumeration(id)
		name = d.Name
	case ast.DeclBuiltinFunction:
		d, _ := u.B.Decls.BuiltinFunction(id)
		name = d.Name
	case ast.DeclFunctionType:
		d, _ := u.B.Decls.FunctionType(id)
		name = d.Name
	case ast.DeclFunctionDef:
		d, _ := u.B.Decls.FunctionDef(id)
		name = d.Name
	case ast.DeclGetter:
		d, _ := u.B.Decls.Getter(id)
		name = d.Name
	case ast.DeclSetter:
		d, _ := u.B.Decls.Setter(id)
		name = d.Name
	case ast.DeclConstant:
		d, _ := u.B.Decls.Constant(id)
		name = d.Name
	case ast.DeclConfigConstant:
		d, _ := u.B.Decls.ConfigConstant(id)
		name = d.Name
	case ast.DeclVariable:
		d, _ := u.B.Decls.Variable(id)
		name = d.Name
	default:
		return "", false
	}
	return u.Str.MustLookup(name), true
}

// FilterReachableFromExports starts from the configured export names (the
// whole program when no export list was configured, i.e. asli's
// REPL/batch mode), walks every call, field, and type reference, and
// keeps only what is reachable. This
// runs twice in the default pipeline — once before monomorphization to
// shrink the tree it has to clone through, once after so a clone's own
// unreached helper calls are also dropped.
func FilterReachableFromExports(u *Unit) error {
	if len(u.Exports) == 0 {
		return nil
	}
	byName := map[string]ast.DeclID{}
	for _, id := range u.Decls {
		if name, ok := declName(u, id); ok {
			byName[name] = id
		}
	}
	seen := map[ast.DeclID]bool{}
	var work []ast.DeclID
	for _, name := range u.Exports {
		if id, ok := byName[name]; ok {
			work = append(work, id)
		}
	}
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		if seen[id] {
			continue
		}
		seen[id] = true
		for _, dep := range dependenciesOf(u, id, byName) {
			if !seen[dep] {
				work = append(work, dep)
			}
		}
	}
	kept := make([]ast.DeclID, 0, len(seen))
	for _, id := range u.Decls {
		if seen[id] {
			kept = append(kept, id)
		}
	}
	u.Decls = kept
	return nil
}

// FilterUnlistedFunctions implements filter_unlisted_functions: functions
// named in the import list are foreign (implemented by the embedding C
// program) and must not be emitted even if otherwise reachable, so this
// runs as a final pruning pass ahead of the closing reachability sweep.
func FilterUnlistedFunctions(u *Unit) error {
	if len(u.Imports) == 0 {
		return nil
	}
	imported := map[string]bool{}
	for _, name := range u.Imports {
		imported[name] = true
	}
	kept := make([]ast.DeclID, 0, len(u.Decls))
	for _, id := range u.Decls {
		if name, ok := declName(u, id); ok && imported[name] {
			continue
		}
		kept = append(kept, id)
	}
	u.Decls = kept
	return nil
}

// dependenciesOf collects the declarations id's body or signature directly
// names, resolved against byName.
func dependenciesOf(u *Unit, id ast.DeclID, byName map[string]ast.DeclID) []ast.DeclID {
	var deps []ast.DeclID
	add := func(name string) {
		if d, ok := byName[name]; ok {
			deps = append(deps, d)
		}
	}
	_, _, body, ok := bodyOfNames(u, id)
	if !ok {
		return nil
	}
	walkExprsInStmt(u, body, func(e ast.ExprID) ast.ExprID {
		exp := u.B.Exprs.Get(e)
		if exp == nil {
			return e
		}
		switch exp.Kind {
		case ast.ExprCallUntyped:
			d, _ := u.B.Exprs.CallUntyped(e)
			add(u.Str.MustLookup(d.Callee))
		case ast.ExprCallTyped:
			d, _ := u.B.Exprs.CallTyped(e)
			if name, ok := declName(u, d.Callee); ok {
				add(name)
			}
		case ast.ExprRecordConstruct:
			d, _ := u.B.Exprs.RecordConstruct(e)
			addTypeName(u, d.Type, add)
		}
		return e
	})
	return deps
}

func addTypeName(u *Unit, t ast.TypeID, add func(string)) {
	if !t.IsValid() {
		return
	}
	if ty := u.B.Types.Get(t); ty != nil && ty.Kind == ast.TyIdent {
		d, _ := u.B.Types.Ident(t)
		add(u.Str.MustLookup(d.Name))
	}
}

func bodyOfNames(u *Unit, id ast.DeclID) (string, []ast.FnParam, ast.StmtID, bool) {
	decl := u.B.Decls.Get(id)
	if decl == nil {
		return "", nil, ast.NoStmtID, false
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := u.B.Decls.FunctionDef(id)
		return u.Str.MustLookup(d.Name), d.Params, d.Body, true
	case ast.DeclGetter:
		d, _ := u.B.Decls.Getter(id)
		return u.Str.MustLookup(d.Name), d.Params, d.Body, true
	case ast.DeclSetter:
		d, _ := u.B.Decls.Setter(id)
		return u.Str.MustLookup(d.Name), nil, d.Body, true
	}
	return "", nil, ast.NoStmtID, false
}
