package mono

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// cloner deep-copies the statements, expressions, lvalues and types
// reachable from a function body into fresh arena slots, substituting every
// read of a specialized width parameter with the literal the call-site
// analysis in Monomorphize resolved it to. This is the mechanism that gives
// each (function, width-tuple) instantiation its own AST subtree, so a
// later rewrite of one clone never leaks into another.
type cloner struct {
	b     *ast.Builder
	subst map[source.StringID]ast.ExprID // formal name -> literal replacing it
}

func (c *cloner) cloneType(id ast.TypeID) ast.TypeID {
	if !id.IsValid() {
		return id
	}
	t := c.b.Types.Get(id)
	switch t.Kind {
	case ast.TyIdent:
		d, _ := c.b.Types.Ident(id)
		args := make([]ast.ExprID, len(d.Args))
		for i, a := range d.Args {
			args[i] = c.cloneExpr(a)
		}
		return c.b.Types.NewIdent(d.Name, args, d.Span)
	case ast.TyInteger:
		d, _ := c.b.Types.Integer(id)
		cs := make([]ast.IntConstraint, len(d.Constraints))
		for i, ic := range d.Constraints {
			cs[i] = ast.IntConstraint{Kind: ic.Kind, Lo: c.cloneExpr(ic.Lo), Hi: c.cloneExpr(ic.Hi), Val: c.cloneExpr(ic.Val)}
		}
		return c.b.Types.NewInteger(cs, d.Span)
	case ast.TySizedInt:
		d, _ := c.b.Types.SizedInt(id)
		return c.b.Types.NewSizedInt(c.cloneExpr(d.Width), d.Span)
	case ast.TyBits:
		d, _ := c.b.Types.Bits_(id)
		return c.b.Types.NewBits(c.cloneExpr(d.Width), d.Span)
	case ast.TyArray:
		d, _ := c.b.Types.Array(id)
		return c.b.Types.NewArray(c.cloneType(d.Elem), c.cloneExpr(d.Size), d.Span)
	case ast.TyTuple:
		d, _ := c.b.Types.Tuple(id)
		elems := make([]ast.TypeID, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.cloneType(e)
		}
		return c.b.Types.NewTuple(elems, d.Span)
	case ast.TyTypeOf:
		d, _ := c.b.Types.TypeOf(id)
		return c.b.Types.NewTypeOf(c.cloneExpr(d.Expr), d.Span)
	}
	return id
}

func (c *cloner) cloneExpr(id ast.ExprID) ast.ExprID {
	if !id.IsValid() {
		return id
	}
	e := c.b.Exprs.Get(id)
	switch e.Kind {
	case ast.ExprLiteral:
		d, _ := c.b.Exprs.Literal(id)
		return c.b.Exprs.NewLiteral(d.Kind, d.Text, d.Width, d.Span)
	case ast.ExprIdent:
		d, _ := c.b.Exprs.Ident(id)
		if lit, ok := c.subst[d.Name]; ok {
			return lit
		}
		return c.b.Exprs.NewIdent(d.Name, d.Span)
	case ast.ExprField:
		d, _ := c.b.Exprs.Field(id)
		return c.b.Exprs.NewField(c.cloneExpr(d.Base), d.Name, d.Span)
	case ast.ExprMultiField:
		d, _ := c.b.Exprs.MultiField(id)
		return c.b.Exprs.NewMultiField(c.cloneExpr(d.Base), d.Names, d.Span)
	case ast.ExprIndex:
		d, _ := c.b.Exprs.Index(id)
		return c.b.Exprs.NewIndex(c.cloneExpr(d.Base), c.cloneExpr(d.Index), d.Span)
	case ast.ExprBitslice:
		d, _ := c.b.Exprs.Bitslice(id)
		return c.b.Exprs.NewBitslice(d.Kind, c.cloneExpr(d.Base), c.cloneExpr(d.A), c.cloneExpr(d.B), d.Span)
	case ast.ExprRecordConstruct:
		d, _ := c.b.Exprs.RecordConstruct(id)
		fields := make([]ast.RecordFieldInit, len(d.Fields))
		for i, f := range d.Fields {
			fields[i] = ast.RecordFieldInit{Name: f.Name, Value: c.cloneExpr(f.Value), Span: f.Span}
		}
		return c.b.Exprs.NewRecordConstruct(c.cloneType(d.Type), fields, d.Span)
	case ast.ExprWith:
		d, _ := c.b.Exprs.With(id)
		changes := make([]ast.ExprWithChange, len(d.Changes))
		for i, ch := range d.Changes {
			changes[i] = ast.ExprWithChange{Kind: ch.Kind, Field: ch.Field, Lo: c.cloneExpr(ch.Lo), Width: c.cloneExpr(ch.Width), Value: c.cloneExpr(ch.Value), Span: ch.Span}
		}
		return c.b.Exprs.NewWith(c.cloneExpr(d.Base), changes, d.Span)
	case ast.ExprIf:
		d, _ := c.b.Exprs.If(id)
		arms := make([]ast.ExprIfArm, len(d.Arms))
		for i, a := range d.Arms {
			arms[i] = ast.ExprIfArm{Cond: c.cloneExpr(a.Cond), Then: c.cloneExpr(a.Then), Span: a.Span}
		}
		return c.b.Exprs.NewIf(arms, c.cloneExpr(d.Else), d.Span)
	case ast.ExprLet:
		d, _ := c.b.Exprs.Let(id)
		return c.b.Exprs.NewLet(d.Name, c.cloneType(d.Type), c.cloneExpr(d.Value), c.cloneExpr(d.Body), d.Span)
	case ast.ExprAssertIn:
		d, _ := c.b.Exprs.AssertIn(id)
		return c.b.Exprs.NewAssertIn(c.cloneExpr(d.Value), c.cloneExpr(d.Set), d.Span)
	case ast.ExprCallUntyped:
		d, _ := c.b.Exprs.CallUntyped(id)
		args := make([]ast.CallArg, len(d.Args))
		for i, a := range d.Args {
			args[i] = ast.CallArg{Name: a.Name, Value: c.cloneExpr(a.Value), Span: a.Span}
		}
		return c.b.Exprs.NewCallUntyped(d.Callee, args, d.Throws, d.Span)
	case ast.ExprCallTyped:
		d, _ := c.b.Exprs.CallTyped(id)
		params := make([]ast.ExprID, len(d.Params))
		for i, p := range d.Params {
			params[i] = c.cloneExpr(p)
		}
		args := make([]ast.ExprID, len(d.Args))
		for i, a := range d.Args {
			args[i] = c.cloneExpr(a)
		}
		return c.b.Exprs.NewCallTyped(d.Callee, params, args, d.Throws, d.Span)
	case ast.ExprTuple:
		d, _ := c.b.Exprs.Tuple(id)
		elems := make([]ast.ExprID, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.cloneExpr(e)
		}
		return c.b.Exprs.NewTuple(elems, d.Span)
	case ast.ExprConcat:
		d, _ := c.b.Exprs.Concat(id)
		elems := make([]ast.ExprID, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.cloneExpr(e)
		}
		widths := make([]ast.ExprID, len(d.Widths))
		for i, w := range d.Widths {
			widths[i] = c.cloneExpr(w)
		}
		return c.b.Exprs.NewConcat(elems, widths, d.Span)
	case ast.ExprUnary:
		d, _ := c.b.Exprs.Unary(id)
		return c.b.Exprs.NewUnary(d.Op, c.cloneExpr(d.Operand), d.Span)
	case ast.ExprBinary:
		d, _ := c.b.Exprs.Binary(id)
		return c.b.Exprs.NewBinary(d.Op, c.cloneExpr(d.Left), c.cloneExpr(d.Right), d.Span)
	case ast.ExprAsConstraint:
		d, _ := c.b.Exprs.AsConstraint(id)
		return c.b.Exprs.NewAsConstraint(c.cloneExpr(d.Operand), c.cloneType(d.Constraint), d.Span)
	case ast.ExprAsType:
		d, _ := c.b.Exprs.AsType(id)
		return c.b.Exprs.NewAsType(c.cloneExpr(d.Operand), c.cloneType(d.Type), d.Span)
	case ast.ExprArrayInit:
		d, _ := c.b.Exprs.ArrayInit(id)
		if d.Kind == ast.ArrayInitFill {
			return c.b.Exprs.NewArrayInitFill(c.cloneExpr(d.Fill), c.cloneExpr(d.Size), d.Span)
		}
		elems := make([]ast.ExprID, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.cloneExpr(e)
		}
		return c.b.Exprs.NewArrayInitList(elems, d.Span)
	case ast.ExprUnknownOfType:
		d, _ := c.b.Exprs.UnknownOfType(id)
		return c.b.Exprs.NewUnknownOfType(c.cloneType(d.Type), d.Span)
	case ast.ExprPatternIn:
		d, _ := c.b.Exprs.PatternIn(id)
		return c.b.Exprs.NewPatternIn(c.cloneExpr(d.Value), c.clonePattern(d.Pattern), d.Span)
	}
	return id
}

func (c *cloner) cloneLValue(id ast.LValueID) ast.LValueID {
	if !id.IsValid() {
		return id
	}
	lv := c.b.LValues.Get(id)
	switch lv.Kind {
	case ast.LVIdent:
		d, _ := c.b.LValues.Ident(id)
		return c.b.LValues.NewIdent(d.Name, d.Span)
	case ast.LVField:
		d, _ := c.b.LValues.Field(id)
		return c.b.LValues.NewField(c.cloneExpr(d.Base), d.Name, d.Span)
	case ast.LVIndex:
		d, _ := c.b.LValues.Index(id)
		return c.b.LValues.NewIndex(c.cloneExpr(d.Base), c.cloneExpr(d.Index), d.Span)
	case ast.LVBitslice:
		d, _ := c.b.LValues.Bitslice(id)
		return c.b.LValues.NewBitslice(d.Kind, c.cloneExpr(d.Base), c.cloneExpr(d.A), c.cloneExpr(d.B), d.Span)
	case ast.LVReadWrite:
		d, _ := c.b.LValues.ReadWrite(id)
		args := make([]ast.ExprID, len(d.Args))
		for i, a := range d.Args {
			args[i] = c.cloneExpr(a)
		}
		return c.b.LValues.NewReadWrite(d.Getter, d.Setter, args, d.Span)
	case ast.LVWrite:
		d, _ := c.b.LValues.Write(id)
		args := make([]ast.ExprID, len(d.Args))
		for i, a := range d.Args {
			args[i] = c.cloneExpr(a)
		}
		return c.b.LValues.NewWrite(d.Setter, args, c.cloneExpr(d.Value), d.Span)
	}
	return id
}

func (c *cloner) cloneStmt(id ast.StmtID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := c.b.Stmts.Get(id)
	switch s.Kind {
	case ast.StmtBlock:
		d, _ := c.b.Stmts.Block(id)
		stmts := make([]ast.StmtID, len(d.Stmts))
		for i, st := range d.Stmts {
			stmts[i] = c.cloneStmt(st)
		}
		return c.b.Stmts.NewBlock(stmts, d.Span)
	case ast.StmtVarDecl:
		d, _ := c.b.Stmts.VarDecl(id)
		return c.b.Stmts.NewVarDecl(d.Binding, d.Shape, d.Names, c.cloneType(d.Type), c.cloneExpr(d.Init), d.Span)
	case ast.StmtAssign:
		d, _ := c.b.Stmts.Assign(id)
		return c.b.Stmts.NewAssign(c.cloneLValue(d.Target), c.cloneExpr(d.Value), d.Span)
	case ast.StmtCallExpr:
		d, _ := c.b.Stmts.CallExpr(id)
		return c.b.Stmts.NewCallExpr(c.cloneExpr(d.Call), d.Span)
	case ast.StmtReturn:
		d, _ := c.b.Stmts.Return(id)
		return c.b.Stmts.NewReturn(c.cloneExpr(d.Value), d.HasValue, d.Span)
	case ast.StmtAssert:
		d, _ := c.b.Stmts.Assert(id)
		return c.b.Stmts.NewAssert(c.cloneExpr(d.Cond), d.Message, d.Span)
	case ast.StmtThrow:
		d, _ := c.b.Stmts.Throw(id)
		return c.b.Stmts.NewThrow(c.cloneExpr(d.Exception), d.Span)
	case ast.StmtTryCatch:
		d, _ := c.b.Stmts.TryCatch(id)
		arms := make([]ast.CatchArm, len(d.Arms))
		for i, a := range d.Arms {
			arms[i] = ast.CatchArm{ExceptionType: c.cloneType(a.ExceptionType), Binder: a.Binder, Body: c.cloneStmt(a.Body), Span: a.Span}
		}
		return c.b.Stmts.NewTryCatch(c.cloneStmt(d.Body), arms, c.cloneStmt(d.Default), d.Span)
	case ast.StmtIf:
		d, _ := c.b.Stmts.If(id)
		arms := make([]ast.IfArm, len(d.Arms))
		for i, a := range d.Arms {
			arms[i] = ast.IfArm{Cond: c.cloneExpr(a.Cond), Then: c.cloneStmt(a.Then), Span: a.Span}
		}
		return c.b.Stmts.NewIf(arms, c.cloneStmt(d.Else), d.Span)
	case ast.StmtCase:
		d, _ := c.b.Stmts.Case(id)
		arms := make([]ast.CaseArm, len(d.Arms))
		for i, a := range d.Arms {
			arms[i] = ast.CaseArm{Type: c.cloneType(a.Type), Pattern: c.clonePattern(a.Pattern), Body: c.cloneStmt(a.Body), Span: a.Span}
		}
		return c.b.Stmts.NewCase(c.cloneExpr(d.Discriminant), arms, c.cloneStmt(d.Default), d.Span)
	case ast.StmtForTo:
		d, _ := c.b.Stmts.ForTo(id)
		return c.b.Stmts.NewForTo(d.Var, c.cloneExpr(d.Lo), c.cloneExpr(d.Hi), d.Descending, c.cloneStmt(d.Body), d.Span)
	case ast.StmtWhile:
		d, _ := c.b.Stmts.While(id)
		return c.b.Stmts.NewWhile(c.cloneExpr(d.Cond), c.cloneStmt(d.Body), d.Span)
	case ast.StmtRepeatUntil:
		d, _ := c.b.Stmts.RepeatUntil(id)
		return c.b.Stmts.NewRepeatUntil(c.cloneStmt(d.Body), c.cloneExpr(d.Cond), d.Span)
	}
	return id
}

func (c *cloner) clonePattern(id ast.PatternID) ast.PatternID {
	if !id.IsValid() {
		return id
	}
	pat := c.b.Patterns.Get(id)
	if pat == nil {
		return id
	}
	switch pat.Kind {
	case ast.PatLiteral:
		d, _ := c.b.Patterns.Literal(id)
		return c.b.Patterns.NewLiteral(c.cloneExpr(d.Value), d.Span)
	case ast.PatConstRef:
		d, _ := c.b.Patterns.ConstRef(id)
		return c.b.Patterns.NewConstRef(d.Name, d.Span)
	case ast.PatWildcard:
		return c.b.Patterns.NewWildcard(pat.Span)
	case ast.PatTuple:
		d, _ := c.b.Patterns.Tuple(id)
		elems := make([]ast.PatternID, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.clonePattern(e)
		}
		return c.b.Patterns.NewTuple(elems, d.Span)
	case ast.PatSet:
		d, _ := c.b.Patterns.Set(id)
		elems := make([]ast.PatternID, len(d.Elems))
		for i, e := range d.Elems {
			elems[i] = c.clonePattern(e)
		}
		return c.b.Patterns.NewSet(elems, d.Span)
	case ast.PatSingle:
		d, _ := c.b.Patterns.Single(id)
		return c.b.Patterns.NewSingle(c.cloneExpr(d.Value), d.Span)
	case ast.PatRange:
		d, _ := c.b.Patterns.Range(id)
		return c.b.Patterns.NewRange(c.cloneExpr(d.Lo), c.cloneExpr(d.Hi), d.Span)
	case ast.PatMask:
		d, _ := c.b.Patterns.Mask(id)
		return c.b.Patterns.NewMask(c.cloneExpr(d.Value), d.Span)
	}
	return id
}
