package xform

import "asli/internal/ast"

// bodyOf returns the statement body of a function-shaped declaration and a
// setter to write a rewritten body back, or ok=false for declarations with
// no body (builtins, prototypes, records, ...).
func bodyOf(u *Unit, id ast.DeclID) (ast.StmtID, func(ast.StmtID), bool) {
	decl := u.B.Decls.Get(id)
	if decl == nil {
		return ast.NoStmtID, nil, false
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := u.B.Decls.FunctionDef(id)
		return d.Body, func(s ast.StmtID) { d.Body = s }, true
	case ast.DeclGetter:
		d, _ := u.B.Decls.Getter(id)
		return d.Body, func(s ast.StmtID) { d.Body = s }, true
	case ast.DeclSetter:
		d, _ := u.B.Decls.Setter(id)
		return d.Body, func(s ast.StmtID) { d.Body = s }, true
	}
	return ast.NoStmtID, nil, false
}

// forEachBody invokes fn on every function-shaped declaration's body,
// writing back any rewritten root statement id.
func forEachBody(u *Unit, fn func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID) {
	for _, id := range u.Decls {
		body, set, ok := bodyOf(u, id)
		if !ok || !body.IsValid() {
			continue
		}
		set(fn(u, id, body))
	}
}

// walkExprsInStmt applies rewrite (an ast.ExprVisitor-shaped PostExpr-only
// function) to every expression reachable from stmt, recursing into nested
// statements by hand since internal/ast has no StmtVisitor.
func walkExprsInStmt(u *Unit, id ast.StmtID, rewrite func(ast.ExprID) ast.ExprID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	v := postOnlyVisitor{rewrite: rewrite}
	s := u.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	switch s.Kind {
	case ast.StmtBlock:
		d, _ := u.B.Stmts.Block(id)
		for i, st := range d.Stmts {
			d.Stmts[i] = walkExprsInStmt(u, st, rewrite)
		}
	case ast.StmtVarDecl:
		d, _ := u.B.Stmts.VarDecl(id)
		if d.Init.IsValid() {
			d.Init = ast.WalkExpr(u.B, v, d.Init)
		}
	case ast.StmtAssign:
		d, _ := u.B.Stmts.Assign(id)
		d.Value = ast.WalkExpr(u.B, v, d.Value)
		rewriteLValueExprs(u, d.Target, rewrite)
	case ast.StmtCallExpr:
		d, _ := u.B.Stmts.CallExpr(id)
		d.Call = ast.WalkExpr(u.B, v, d.Call)
	case ast.StmtReturn:
		d, _ := u.B.Stmts.Return(id)
		if d.Value.IsValid() {
			d.Value = ast.WalkExpr(u.B, v, d.Value)
		}
	case ast.StmtAssert:
		d, _ := u.B.Stmts.Assert(id)
		d.Cond = ast.WalkExpr(u.B, v, d.Cond)
	case ast.StmtThrow:
		d, _ := u.B.Stmts.Throw(id)
		d.Exception = ast.WalkExpr(u.B, v, d.Exception)
	case ast.StmtTryCatch:
		d, _ := u.B.Stmts.TryCatch(id)
		d.Body = walkExprsInStmt(u, d.Body, rewrite)
		for i := range d.Arms {
			d.Arms[i].Body = walkExprsInStmt(u, d.Arms[i].Body, rewrite)
		}
		if d.Default.IsValid() {
			d.Default = walkExprsInStmt(u, d.Default, rewrite)
		}
	case ast.StmtIf:
		d, _ := u.B.Stmts.If(id)
		for i := range d.Arms {
			d.Arms[i].Cond = ast.WalkExpr(u.B, v, d.Arms[i].Cond)
			d.Arms[i].Then = walkExprsInStmt(u, d.Arms[i].Then, rewrite)
		}
		if d.Else.IsValid() {
			d.Else = walkExprsInStmt(u, d.Else, rewrite)
		}
	case ast.StmtCase:
		d, _ := u.B.Stmts.Case(id)
		d.Discriminant = ast.WalkExpr(u.B, v, d.Discriminant)
		for i := range d.Arms {
			if d.Arms[i].Pattern.IsValid() {
				walkPatternExprs(u, d.Arms[i].Pattern, rewrite)
			}
			d.Arms[i].Body = walkExprsInStmt(u, d.Arms[i].Body, rewrite)
		}
		if d.Default.IsValid() {
			d.Default = walkExprsInStmt(u, d.Default, rewrite)
		}
	case ast.StmtForTo:
		d, _ := u.B.Stmts.ForTo(id)
		d.Lo = ast.WalkExpr(u.B, v, d.Lo)
		d.Hi = ast.WalkExpr(u.B, v, d.Hi)
		d.Body = walkExprsInStmt(u, d.Body, rewrite)
	case ast.StmtWhile:
		d, _ := u.B.Stmts.While(id)
		d.Cond = ast.WalkExpr(u.B, v, d.Cond)
		d.Body = walkExprsInStmt(u, d.Body, rewrite)
	case ast.StmtRepeatUntil:
		d, _ := u.B.Stmts.RepeatUntil(id)
		d.Body = walkExprsInStmt(u, d.Body, rewrite)
		d.Cond = ast.WalkExpr(u.B, v, d.Cond)
	}
	return id
}

// walkPatternExprs applies rewrite to every expression embedded in a
// pattern, recursing through tuple/set elements.
func walkPatternExprs(u *Unit, id ast.PatternID, rewrite func(ast.ExprID) ast.ExprID) {
	pat := u.B.Patterns.Get(id)
	if pat == nil {
		return
	}
	v := postOnlyVisitor{rewrite: rewrite}
	switch pat.Kind {
	case ast.PatLiteral:
		d, _ := u.B.Patterns.Literal(id)
		d.Value = ast.WalkExpr(u.B, v, d.Value)
	case ast.PatSingle:
		d, _ := u.B.Patterns.Single(id)
		d.Value = ast.WalkExpr(u.B, v, d.Value)
	case ast.PatMask:
		d, _ := u.B.Patterns.Mask(id)
		d.Value = ast.WalkExpr(u.B, v, d.Value)
	case ast.PatRange:
		d, _ := u.B.Patterns.Range(id)
		d.Lo = ast.WalkExpr(u.B, v, d.Lo)
		d.Hi = ast.WalkExpr(u.B, v, d.Hi)
	case ast.PatTuple:
		d, _ := u.B.Patterns.Tuple(id)
		for _, e := range d.Elems {
			walkPatternExprs(u, e, rewrite)
		}
	case ast.PatSet:
		d, _ := u.B.Patterns.Set(id)
		for _, e := range d.Elems {
			walkPatternExprs(u, e, rewrite)
		}
	}
}

func rewriteLValueExprs(u *Unit, id ast.LValueID, rewrite func(ast.ExprID) ast.ExprID) {
	lv := u.B.LValues.Get(id)
	if lv == nil {
		return
	}
	v := postOnlyVisitor{rewrite: rewrite}
	switch lv.Kind {
	case ast.LVField:
		d, _ := u.B.LValues.Field(id)
		d.Base = ast.WalkExpr(u.B, v, d.Base)
	case ast.LVIndex:
		d, _ := u.B.LValues.Index(id)
		d.Base = ast.WalkExpr(u.B, v, d.Base)
		d.Index = ast.WalkExpr(u.B, v, d.Index)
	case ast.LVBitslice:
		d, _ := u.B.LValues.Bitslice(id)
		d.Base = ast.WalkExpr(u.B, v, d.Base)
		if d.A.IsValid() {
			d.A = ast.WalkExpr(u.B, v, d.A)
		}
		if d.B.IsValid() {
			d.B = ast.WalkExpr(u.B, v, d.B)
		}
	case ast.LVReadWrite:
		d, _ := u.B.LValues.ReadWrite(id)
		for i, a := range d.Args {
			d.Args[i] = ast.WalkExpr(u.B, v, a)
		}
	case ast.LVWrite:
		d, _ := u.B.LValues.Write(id)
		for i, a := range d.Args {
			d.Args[i] = ast.WalkExpr(u.B, v, a)
		}
		d.Value = ast.WalkExpr(u.B, v, d.Value)
	}
}

// postOnlyVisitor adapts a plain ExprID->ExprID rewrite function (applied
// bottom-up, after children) into the ast.ExprVisitor interface.
type postOnlyVisitor struct {
	rewrite func(ast.ExprID) ast.ExprID
}

func (v postOnlyVisitor) PreExpr(b *ast.Builder, id ast.ExprID) (ast.VisitAction, ast.ExprID) {
	return ast.Descend, ast.NoExprID
}

func (v postOnlyVisitor) PostExpr(b *ast.Builder, id ast.ExprID) ast.ExprID {
	return v.rewrite(id)
}
