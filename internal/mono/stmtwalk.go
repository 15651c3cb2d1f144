package mono

import "asli/internal/ast"

// walkStmtExprs applies rewrite to the expressions the statements under id
// hold as operands (initialisers, assigned values, calls, conditions, case
// discriminants and patterns, loop bounds), recursing into nested
// statements by hand since internal/ast has no StmtVisitor (only
// internal/ast.ExprVisitor, for expression subtrees). Assignment targets
// and type expressions are not visited.
func walkStmtExprs(b *ast.Builder, id ast.StmtID, rewrite func(ast.ExprID) ast.ExprID) {
	if !id.IsValid() {
		return
	}
	s := b.Stmts.Get(id)
	if s == nil {
		return
	}
	switch s.Kind {
	case ast.StmtBlock:
		d, _ := b.Stmts.Block(id)
		for _, st := range d.Stmts {
			walkStmtExprs(b, st, rewrite)
		}
	case ast.StmtVarDecl:
		d, _ := b.Stmts.VarDecl(id)
		if d.Init.IsValid() {
			rewrite(d.Init)
		}
	case ast.StmtAssign:
		d, _ := b.Stmts.Assign(id)
		rewrite(d.Value)
	case ast.StmtCallExpr:
		d, _ := b.Stmts.CallExpr(id)
		rewrite(d.Call)
	case ast.StmtReturn:
		d, _ := b.Stmts.Return(id)
		if d.Value.IsValid() {
			rewrite(d.Value)
		}
	case ast.StmtAssert:
		d, _ := b.Stmts.Assert(id)
		rewrite(d.Cond)
	case ast.StmtThrow:
		d, _ := b.Stmts.Throw(id)
		rewrite(d.Exception)
	case ast.StmtTryCatch:
		d, _ := b.Stmts.TryCatch(id)
		walkStmtExprs(b, d.Body, rewrite)
		for _, a := range d.Arms {
			walkStmtExprs(b, a.Body, rewrite)
		}
		walkStmtExprs(b, d.Default, rewrite)
	case ast.StmtIf:
		d, _ := b.Stmts.If(id)
		for _, a := range d.Arms {
			rewrite(a.Cond)
			walkStmtExprs(b, a.Then, rewrite)
		}
		walkStmtExprs(b, d.Else, rewrite)
	case ast.StmtCase:
		d, _ := b.Stmts.Case(id)
		rewrite(d.Discriminant)
		for _, a := range d.Arms {
			walkPatternExprs(b, a.Pattern, rewrite)
			walkStmtExprs(b, a.Body, rewrite)
		}
		walkStmtExprs(b, d.Default, rewrite)
	case ast.StmtForTo:
		d, _ := b.Stmts.ForTo(id)
		rewrite(d.Lo)
		rewrite(d.Hi)
		walkStmtExprs(b, d.Body, rewrite)
	case ast.StmtWhile:
		d, _ := b.Stmts.While(id)
		rewrite(d.Cond)
		walkStmtExprs(b, d.Body, rewrite)
	case ast.StmtRepeatUntil:
		d, _ := b.Stmts.RepeatUntil(id)
		walkStmtExprs(b, d.Body, rewrite)
		rewrite(d.Cond)
	}
}

// walkPatternExprs applies rewrite to every expression embedded in a case
// arm's pattern, recursing through tuple/set elements.
func walkPatternExprs(b *ast.Builder, id ast.PatternID, rewrite func(ast.ExprID) ast.ExprID) {
	if !id.IsValid() {
		return
	}
	pat := b.Patterns.Get(id)
	if pat == nil {
		return
	}
	switch pat.Kind {
	case ast.PatLiteral:
		d, _ := b.Patterns.Literal(id)
		rewrite(d.Value)
	case ast.PatSingle:
		d, _ := b.Patterns.Single(id)
		rewrite(d.Value)
	case ast.PatMask:
		d, _ := b.Patterns.Mask(id)
		rewrite(d.Value)
	case ast.PatRange:
		d, _ := b.Patterns.Range(id)
		rewrite(d.Lo)
		rewrite(d.Hi)
	case ast.PatTuple:
		d, _ := b.Patterns.Tuple(id)
		for _, e := range d.Elems {
			walkPatternExprs(b, e, rewrite)
		}
	case ast.PatSet:
		d, _ := b.Patterns.Set(id)
		for _, e := range d.Elems {
			walkPatternExprs(b, e, rewrite)
		}
	}
}
