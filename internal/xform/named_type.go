package xform

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// NamedTypeExpandPass inlines references to a non-parametric type
// abbreviation (`type Foo = bits(32)`) with the type it stands for.
// Parametric abbreviations
// are left as TyIdent references with their argument expressions intact;
// internal/mono's clone step resolves those once a concrete instantiation's
// arguments are known, since an abbreviation parameterized by a width is
// exactly the same shape of polymorphism Monomorphize already clones over.
type NamedTypeExpandPass struct{}

func (NamedTypeExpandPass) Name() string { return "named_type_expand" }

func (p NamedTypeExpandPass) Run(u *Unit) error {
	abbrevs := map[source.StringID]ast.TypeID{}
	for _, id := range u.Decls {
		decl := u.B.Decls.Get(id)
		if decl == nil || decl.Kind != ast.DeclTypeAbbrev {
			continue
		}
		d, _ := u.B.Decls.TypeAbbrev(id)
		if len(d.Params) == 0 {
			abbrevs[d.Name] = d.Target
		}
	}
	if len(abbrevs) == 0 {
		return nil
	}
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return expandTypesInStmt(u, body, abbrevs)
	})
	return nil
}

// expandTypesInStmt rewrites the type annotations attached to a variable
// declaration or as-type-cast, which are the only two statement/expression
// shapes that carry an explicit TypeID a surface name could still occupy by
// the time this pass runs (record construction, array bounds and the like
// resolve their type through a value path already bound at parse time).
func expandTypesInStmt(u *Unit, id ast.StmtID, abbrevs map[source.StringID]ast.TypeID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := u.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	switch s.Kind {
	case ast.StmtBlock:
		d, _ := u.B.Stmts.Block(id)
		for i, st := range d.Stmts {
			d.Stmts[i] = expandTypesInStmt(u, st, abbrevs)
		}
	case ast.StmtVarDecl:
		d, _ := u.B.Stmts.VarDecl(id)
		d.Type = expandType(u, d.Type, abbrevs)
	case ast.StmtTryCatch:
		d, _ := u.B.Stmts.TryCatch(id)
		d.Body = expandTypesInStmt(u, d.Body, abbrevs)
		for i, a := range d.Arms {
			d.Arms[i].ExceptionType = expandType(u, a.ExceptionType, abbrevs)
			d.Arms[i].Body = expandTypesInStmt(u, a.Body, abbrevs)
		}
		d.Default = expandTypesInStmt(u, d.Default, abbrevs)
	case ast.StmtIf:
		d, _ := u.B.Stmts.If(id)
		for i, a := range d.Arms {
			d.Arms[i].Then = expandTypesInStmt(u, a.Then, abbrevs)
		}
		d.Else = expandTypesInStmt(u, d.Else, abbrevs)
	case ast.StmtCase:
		d, _ := u.B.Stmts.Case(id)
		for i, a := range d.Arms {
			d.Arms[i].Type = expandType(u, a.Type, abbrevs)
			d.Arms[i].Body = expandTypesInStmt(u, a.Body, abbrevs)
		}
		d.Default = expandTypesInStmt(u, d.Default, abbrevs)
	case ast.StmtForTo:
		d, _ := u.B.Stmts.ForTo(id)
		d.Body = expandTypesInStmt(u, d.Body, abbrevs)
	case ast.StmtWhile:
		d, _ := u.B.Stmts.While(id)
		d.Body = expandTypesInStmt(u, d.Body, abbrevs)
	case ast.StmtRepeatUntil:
		d, _ := u.B.Stmts.RepeatUntil(id)
		d.Body = expandTypesInStmt(u, d.Body, abbrevs)
	}
	return id
}

func expandType(u *Unit, t ast.TypeID, abbrevs map[source.StringID]ast.TypeID) ast.TypeID {
	if !t.IsValid() {
		return t
	}
	ty := u.B.Types.Get(t)
	if ty.Kind != ast.TyIdent {
		return t
	}
	d, _ := u.B.Types.Ident(t)
	if len(d.Args) > 0 {
		return t
	}
	if target, ok := abbrevs[d.Name]; ok {
		return expandType(u, target, abbrevs)
	}
	return t
}
