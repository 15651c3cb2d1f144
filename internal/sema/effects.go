package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
)

// CheckEffects runs before typechecking: no expression's value may depend
// on the evaluation order of its subexpressions. A function is effectful
// when it assigns to a global (directly or through a field/index/slice of
// one), touches RAM, or calls something effectful; an expression with two
// or more effectful calls under different children of the same node is
// rejected with TypeErrorEffectConflict.
func CheckEffects(b *ast.Builder, str *source.Interner, table *symbols.Table, diags *diag.Bag, decls []ast.DeclID) {
	c := &effectChecker{
		b:         b,
		table:     table,
		diags:     diags,
		effectful: map[source.StringID]bool{},
	}
	for _, name := range []string{"ram_init", "ram_read", "ram_write"} {
		c.effectful[str.Intern(name)] = true
	}

	// Fixed point over the call graph: a body that mutates a global seeds
	// the set, then effectfulness propagates caller-ward until stable.
	// Termination: the set only grows and is bounded by the program's
	// function names.
	for {
		changed := false
		for _, id := range decls {
			name, body, ok := c.callableBody(id)
			if !ok || c.effectful[name] {
				continue
			}
			if c.bodyIsEffectful(body) {
				c.effectful[name] = true
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, id := range decls {
		_, body, ok := c.callableBody(id)
		if !ok {
			continue
		}
		c.checkStmt(body)
	}
}

type effectChecker struct {
	b         *ast.Builder
	table     *symbols.Table
	diags     *diag.Bag
	effectful map[source.StringID]bool
}

func (c *effectChecker) callableBody(id ast.DeclID) (source.StringID, ast.StmtID, bool) {
	decl := c.b.Decls.Get(id)
	if decl == nil {
		return source.NoStringID, ast.NoStmtID, false
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := c.b.Decls.FunctionDef(id)
		return d.Name, d.Body, d.Body.IsValid()
	case ast.DeclGetter:
		d, _ := c.b.Decls.Getter(id)
		return d.Name, d.Body, d.Body.IsValid()
	case ast.DeclSetter:
		d, _ := c.b.Decls.Setter(id)
		return d.Name, d.Body, d.Body.IsValid()
	default:
		return source.NoStringID, ast.NoStmtID, false
	}
}

// bodyIsEffectful reports whether a body mutates a global or calls an
// already-known-effectful name.
func (c *effectChecker) bodyIsEffectful(id ast.StmtID) bool {
	found := false
	c.walkStmt(id, func(s ast.StmtID) {
		st := c.b.Stmts.Get(s)
		if st == nil || st.Kind != ast.StmtAssign {
			return
		}
		d, _ := c.b.Stmts.Assign(s)
		if c.assignsGlobal(d.Target) {
			found = true
		}
	}, func(e ast.ExprID) {
		check := func(call ast.ExprID) {
			if name, ok := c.calleeName(call); ok && c.effectful[name] {
				found = true
			}
		}
		check(e)
		c.walkNestedCalls(e, check)
	})
	return found
}

// assignsGlobal resolves an lvalue to its root name and reports whether
// that name is a global (or a setter, which may reach one).
func (c *effectChecker) assignsGlobal(id ast.LValueID) bool {
	lv := c.b.LValues.Get(id)
	if lv == nil {
		return false
	}
	switch lv.Kind {
	case ast.LVIdent:
		d, _ := c.b.LValues.Ident(id)
		_, isGlobal := c.table.Globals[d.Name]
		return isGlobal
	case ast.LVField:
		d, _ := c.b.LValues.Field(id)
		return c.exprRootIsGlobal(d.Base)
	case ast.LVIndex:
		d, _ := c.b.LValues.Index(id)
		return c.exprRootIsGlobal(d.Base)
	case ast.LVBitslice:
		d, _ := c.b.LValues.Bitslice(id)
		return c.exprRootIsGlobal(d.Base)
	case ast.LVReadWrite, ast.LVWrite:
		// A setter's own effects are accounted for under its name; the
		// write site itself is conservatively treated as effectful.
		return true
	default:
		return false
	}
}

func (c *effectChecker) exprRootIsGlobal(id ast.ExprID) bool {
	for id.IsValid() {
		exp := c.b.Exprs.Get(id)
		if exp == nil {
			return false
		}
		switch exp.Kind {
		case ast.ExprIdent:
			d, _ := c.b.Exprs.Ident(id)
			_, isGlobal := c.table.Globals[d.Name]
			return isGlobal
		case ast.ExprField:
			d, _ := c.b.Exprs.Field(id)
			id = d.Base
		case ast.ExprIndex:
			d, _ := c.b.Exprs.Index(id)
			id = d.Base
		case ast.ExprBitslice:
			d, _ := c.b.Exprs.Bitslice(id)
			id = d.Base
		default:
			return false
		}
	}
	return false
}

func (c *effectChecker) calleeName(id ast.ExprID) (source.StringID, bool) {
	exp := c.b.Exprs.Get(id)
	if exp == nil {
		return source.NoStringID, false
	}
	switch exp.Kind {
	case ast.ExprCallUntyped:
		d, _ := c.b.Exprs.CallUntyped(id)
		return d.Callee, true
	case ast.ExprCallTyped:
		d, _ := c.b.Exprs.CallTyped(id)
		decl := c.b.Decls.Get(d.Callee)
		if decl == nil {
			return source.NoStringID, false
		}
		switch decl.Kind {
		case ast.DeclFunctionDef:
			fd, _ := c.b.Decls.FunctionDef(d.Callee)
			return fd.Name, true
		case ast.DeclBuiltinFunction:
			fd, _ := c.b.Decls.BuiltinFunction(d.Callee)
			return fd.Name, true
		}
	}
	return source.NoStringID, false
}

// checkStmt verifies every expression the statement evaluates.
func (c *effectChecker) checkStmt(id ast.StmtID) {
	c.walkStmt(id, func(ast.StmtID) {}, func(e ast.ExprID) {
		c.checkExprOrder(e)
	})
}

// checkExprOrder reports a conflict when two or more children of one node
// each contain an effectful call: their evaluation order is unspecified,
// so the result could observe the global in either state. A statement
// evaluates its top-level expressions in source order, so only sibling
// subtrees inside a single expression conflict.
func (c *effectChecker) checkExprOrder(id ast.ExprID) {
	c.countEffectfulCalls(id)
}

// countEffectfulCalls returns how many effectful calls the subtree rooted
// at id contains, reporting a conflict at the shallowest node whose
// children contribute two or more.
func (c *effectChecker) countEffectfulCalls(id ast.ExprID) int {
	if !id.IsValid() {
		return 0
	}
	exp := c.b.Exprs.Get(id)
	if exp == nil {
		return 0
	}
	counts := make([]int, 0, 4)
	for _, child := range c.childExprs(id) {
		counts = append(counts, c.countEffectfulCalls(child))
	}
	total := 0
	contributing := 0
	for _, n := range counts {
		total += n
		if n > 0 {
			contributing++
		}
	}
	if name, ok := c.calleeName(id); ok && c.effectful[name] {
		total++
	}
	if contributing >= 2 {
		c.diags.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.TypeErrorEffectConflict,
			Message:  "expression depends on the evaluation order of two calls that modify global state",
			Primary:  exp.Span,
		})
	}
	return total
}

// childExprs lists a node's direct expression children; an if-expression's
// arms evaluate exclusively (condition chain aside), so only the
// conditions count as ordered siblings there.
func (c *effectChecker) childExprs(id ast.ExprID) []ast.ExprID {
	exp := c.b.Exprs.Get(id)
	var out []ast.ExprID
	switch exp.Kind {
	case ast.ExprField:
		d, _ := c.b.Exprs.Field(id)
		out = append(out, d.Base)
	case ast.ExprMultiField:
		d, _ := c.b.Exprs.MultiField(id)
		out = append(out, d.Base)
	case ast.ExprIndex:
		d, _ := c.b.Exprs.Index(id)
		out = append(out, d.Base, d.Index)
	case ast.ExprBitslice:
		d, _ := c.b.Exprs.Bitslice(id)
		out = append(out, d.Base, d.A, d.B)
	case ast.ExprRecordConstruct:
		d, _ := c.b.Exprs.RecordConstruct(id)
		for _, f := range d.Fields {
			out = append(out, f.Value)
		}
	case ast.ExprWith:
		d, _ := c.b.Exprs.With(id)
		out = append(out, d.Base)
		for _, ch := range d.Changes {
			out = append(out, ch.Lo, ch.Width, ch.Value)
		}
	case ast.ExprIf:
		d, _ := c.b.Exprs.If(id)
		for _, arm := range d.Arms {
			out = append(out, arm.Cond)
		}
	case ast.ExprLet:
		d, _ := c.b.Exprs.Let(id)
		out = append(out, d.Value, d.Body)
	case ast.ExprAssertIn:
		d, _ := c.b.Exprs.AssertIn(id)
		out = append(out, d.Value, d.Set)
	case ast.ExprCallUntyped:
		d, _ := c.b.Exprs.CallUntyped(id)
		for _, a := range d.Args {
			out = append(out, a.Value)
		}
	case ast.ExprCallTyped:
		d, _ := c.b.Exprs.CallTyped(id)
		out = append(out, d.Args...)
	case ast.ExprTuple:
		d, _ := c.b.Exprs.Tuple(id)
		out = append(out, d.Elems...)
	case ast.ExprConcat:
		d, _ := c.b.Exprs.Concat(id)
		out = append(out, d.Elems...)
	case ast.ExprUnary:
		d, _ := c.b.Exprs.Unary(id)
		out = append(out, d.Operand)
	case ast.ExprBinary:
		d, _ := c.b.Exprs.Binary(id)
		out = append(out, d.Left, d.Right)
	case ast.ExprAsConstraint:
		d, _ := c.b.Exprs.AsConstraint(id)
		out = append(out, d.Operand)
	case ast.ExprAsType:
		d, _ := c.b.Exprs.AsType(id)
		out = append(out, d.Operand)
	case ast.ExprArrayInit:
		d, _ := c.b.Exprs.ArrayInit(id)
		out = append(out, d.Elems...)
		out = append(out, d.Fill)
	case ast.ExprPatternIn:
		d, _ := c.b.Exprs.PatternIn(id)
		out = append(out, d.Value)
		out = append(out, c.patternExprs(d.Pattern)...)
	}
	return out
}

// patternExprs collects the expressions embedded in a matching pattern,
// recursing through tuple/set elements.
func (c *effectChecker) patternExprs(id ast.PatternID) []ast.ExprID {
	if !id.IsValid() {
		return nil
	}
	pat := c.b.Patterns.Get(id)
	if pat == nil {
		return nil
	}
	var out []ast.ExprID
	switch pat.Kind {
	case ast.PatLiteral:
		d, _ := c.b.Patterns.Literal(id)
		out = append(out, d.Value)
	case ast.PatSingle:
		d, _ := c.b.Patterns.Single(id)
		out = append(out, d.Value)
	case ast.PatMask:
		d, _ := c.b.Patterns.Mask(id)
		out = append(out, d.Value)
	case ast.PatRange:
		d, _ := c.b.Patterns.Range(id)
		out = append(out, d.Lo, d.Hi)
	case ast.PatTuple:
		d, _ := c.b.Patterns.Tuple(id)
		for _, e := range d.Elems {
			out = append(out, c.patternExprs(e)...)
		}
	case ast.PatSet:
		d, _ := c.b.Patterns.Set(id)
		for _, e := range d.Elems {
			out = append(out, c.patternExprs(e)...)
		}
	}
	return out
}

// walkStmt visits every statement and every top-level expression under id.
func (c *effectChecker) walkStmt(id ast.StmtID, onStmt func(ast.StmtID), onExpr func(ast.ExprID)) {
	if !id.IsValid() {
		return
	}
	st := c.b.Stmts.Get(id)
	if st == nil {
		return
	}
	onStmt(id)
	expr := func(e ast.ExprID) {
		if e.IsValid() {
			onExpr(e)
		}
	}
	switch st.Kind {
	case ast.StmtBlock:
		d, _ := c.b.Stmts.Block(id)
		for _, child := range d.Stmts {
			c.walkStmt(child, onStmt, onExpr)
		}
	case ast.StmtVarDecl:
		d, _ := c.b.Stmts.VarDecl(id)
		expr(d.Init)
	case ast.StmtAssign:
		d, _ := c.b.Stmts.Assign(id)
		expr(d.Value)
	case ast.StmtCallExpr:
		d, _ := c.b.Stmts.CallExpr(id)
		expr(d.Call)
	case ast.StmtReturn:
		d, _ := c.b.Stmts.Return(id)
		expr(d.Value)
	case ast.StmtAssert:
		d, _ := c.b.Stmts.Assert(id)
		expr(d.Cond)
	case ast.StmtThrow:
		d, _ := c.b.Stmts.Throw(id)
		expr(d.Exception)
	case ast.StmtTryCatch:
		d, _ := c.b.Stmts.TryCatch(id)
		c.walkStmt(d.Body, onStmt, onExpr)
		for _, arm := range d.Arms {
			c.walkStmt(arm.Body, onStmt, onExpr)
		}
		c.walkStmt(d.Default, onStmt, onExpr)
	case ast.StmtIf:
		d, _ := c.b.Stmts.If(id)
		for _, arm := range d.Arms {
			expr(arm.Cond)
			c.walkStmt(arm.Then, onStmt, onExpr)
		}
		c.walkStmt(d.Else, onStmt, onExpr)
	case ast.StmtCase:
		d, _ := c.b.Stmts.Case(id)
		expr(d.Discriminant)
		for _, arm := range d.Arms {
			for _, pe := range c.patternExprs(arm.Pattern) {
				expr(pe)
			}
			c.walkStmt(arm.Body, onStmt, onExpr)
		}
		c.walkStmt(d.Default, onStmt, onExpr)
	case ast.StmtForTo:
		d, _ := c.b.Stmts.ForTo(id)
		expr(d.Lo)
		expr(d.Hi)
		c.walkStmt(d.Body, onStmt, onExpr)
	case ast.StmtWhile:
		d, _ := c.b.Stmts.While(id)
		expr(d.Cond)
		c.walkStmt(d.Body, onStmt, onExpr)
	case ast.StmtRepeatUntil:
		d, _ := c.b.Stmts.RepeatUntil(id)
		c.walkStmt(d.Body, onStmt, onExpr)
		expr(d.Cond)
	}
}

// walkNestedCalls feeds every call expression inside e to onExpr, so the
// effectful-body scan sees calls at any depth, not just at the root.
func (c *effectChecker) walkNestedCalls(e ast.ExprID, onExpr func(ast.ExprID)) {
	for _, child := range c.childExprs(e) {
		if !child.IsValid() {
			continue
		}
		exp := c.b.Exprs.Get(child)
		if exp == nil {
			continue
		}
		if exp.Kind == ast.ExprCallUntyped || exp.Kind == ast.ExprCallTyped {
			onExpr(child)
		}
		c.walkNestedCalls(child, onExpr)
	}
}
