package xform

import "asli/internal/ast"

// GetSetInline lowers the LVWrite/LVReadWrite nodes internal/sema's
// resolveIdentSetter (internal/sema/stmt.go) introduces for a plain
// assignment to a bare setter name into a real call, per
// internal/ast/lvalue.go's note that those kinds exist purely to mark such
// a name for later lowering. It runs twice in the default pipeline: once
// early so Desugar-introduced getter/setter names get the same treatment,
// once again after Tuples in case tuple-unpacking produced a fresh
// multi-assignment over a setter-backed name.
//
// A plain StmtAssign with an LVWrite target becomes a StmtCallExpr
// invoking the setter with its fixed arguments followed by the assigned
// value. LVReadWrite — reserved for a read-modify-write position, such as
// an augmented assignment over a getter/setter pair — lowers the same way
// once the assignment's right-hand side has already been rewritten (by an
// earlier desugaring) to reference the getter call directly, so by the
// time GetSetInline runs the getter half has nothing left to do.
type GetSetInlinePass struct{}

func (GetSetInlinePass) Name() string { return "get_set_inline" }

func (GetSetInlinePass) Run(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return rewriteGetSet(u, body)
	})
	return nil
}

func rewriteGetSet(u *Unit, id ast.StmtID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := u.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	if s.Kind == ast.StmtAssign {
		d, _ := u.B.Stmts.Assign(id)
		lv := u.B.LValues.Get(d.Target)
		switch lv.Kind {
		case ast.LVWrite:
			w, _ := u.B.LValues.Write(d.Target)
			args := append(append([]ast.ExprID(nil), w.Args...), w.Value)
			call := u.B.Exprs.NewCallTyped(w.Setter, nil, args, ast.ThrowsNever, d.Span)
			return u.B.Stmts.NewCallExpr(call, d.Span)
		case ast.LVReadWrite:
			rw, _ := u.B.LValues.ReadWrite(d.Target)
			args := append(append([]ast.ExprID(nil), rw.Args...), d.Value)
			call := u.B.Exprs.NewCallTyped(rw.Setter, nil, args, ast.ThrowsNever, d.Span)
			return u.B.Stmts.NewCallExpr(call, d.Span)
		}
	}
	return rewriteNestedStmt(u, id, rewriteGetSet)
}

// rewriteNestedStmt rewrites the direct child statements of a compound
// statement in place, leaving everything else untouched. It does not
// recurse into expressions, since GetSetInline only ever rewrites whole
// assignment statements.
func rewriteNestedStmt(u *Unit, id ast.StmtID, rewrite func(ast.StmtID) ast.StmtID) ast.StmtID {
	s := u.B.Stmts.Get(id)
	switch s.Kind {
	case ast.StmtBlock:
		d, _ := u.B.Stmts.Block(id)
		for i, st := range d.Stmts {
			d.Stmts[i] = rewrite(st)
		}
	case ast.StmtTryCatch:
		d, _ := u.B.Stmts.TryCatch(id)
		d.Body = rewrite(d.Body)
		for i, a := range d.Arms {
			d.Arms[i].Body = rewrite(a.Body)
		}
		d.Default = rewrite(d.Default)
	case ast.StmtIf:
		d, _ := u.B.Stmts.If(id)
		for i, a := range d.Arms {
			d.Arms[i].Then = rewrite(a.Then)
		}
		d.Else = rewrite(d.Else)
	case ast.StmtCase:
		d, _ := u.B.Stmts.Case(id)
		for i, a := range d.Arms {
			d.Arms[i].Body = rewrite(a.Body)
		}
		d.Default = rewrite(d.Default)
	case ast.StmtForTo:
		d, _ := u.B.Stmts.ForTo(id)
		d.Body = rewrite(d.Body)
	case ast.StmtWhile:
		d, _ := u.B.Stmts.While(id)
		d.Body = rewrite(d.Body)
	case ast.StmtRepeatUntil:
		d, _ := u.B.Stmts.RepeatUntil(id)
		d.Body = rewrite(d.Body)
	}
	return id
}
