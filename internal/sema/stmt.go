package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
)

// tcStmt typechecks one statement, threading the current local scope and
// assumption set as it descends into nested blocks. Checking
// a statement may rewrite it: tc_stmt(s) -> [s'] when division, indexing,
// bitslicing, or an `as constraint`/`as type` narrowing inside it needed a
// runtime check, in which case the returned StmtID is a synthesized block
// holding the inserted asserts ahead of the (possibly also rewritten)
// original statement. Callers must persist the returned id, since the
// original may no longer be the right one to keep walking.
func (c *Checker) tcStmt(id ast.StmtID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := c.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	if c.Diags.AtLimit() {
		return id
	}
	switch s.Kind {
	case ast.StmtBlock:
		return c.tcBlock(id)
	case ast.StmtVarDecl:
		return c.tcVarDecl(id)
	case ast.StmtAssign:
		return c.tcAssign(id)
	case ast.StmtCallExpr:
		mark := c.checkMark()
		d, _ := c.B.Stmts.CallExpr(id)
		c.tcExpr(d.Call)
		return c.liftChecks(mark, id, s.Span)
	case ast.StmtReturn:
		return c.tcReturn(id)
	case ast.StmtAssert:
		return c.tcAssert(id)
	case ast.StmtThrow:
		mark := c.checkMark()
		d, _ := c.B.Stmts.Throw(id)
		c.tcExpr(d.Exception)
		return c.liftChecks(mark, id, s.Span)
	case ast.StmtTryCatch:
		return c.tcTryCatch(id)
	case ast.StmtIf:
		return c.tcIfStmt(id)
	case ast.StmtCase:
		return c.tcCase(id)
	case ast.StmtForTo:
		return c.tcForTo(id)
	case ast.StmtWhile:
		return c.tcWhile(id)
	case ast.StmtRepeatUntil:
		return c.tcRepeatUntil(id)
	default:
		c.report(diag.NewError(diag.UnimplementedConstruct, s.Span, "unsupported statement form"))
		return id
	}
}

func (c *Checker) tcBlock(id ast.StmtID) ast.StmtID {
	d, _ := c.B.Stmts.Block(id)
	prev := c.pushScope()
	for i, st := range d.Stmts {
		d.Stmts[i] = c.tcStmt(st)
	}
	c.popScope(prev)
	return id
}

// tcVarDecl checks a local let/var/constant/config binding. All four
// keywords introduce a statement-scoped binding here; only `var` makes it
// assignable.
func (c *Checker) tcVarDecl(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.VarDecl(id)
	var initTy Ty
	if d.Init.IsValid() {
		initTy = c.tcExpr(d.Init)
	}
	mutable := d.Binding == ast.BindingVar
	switch d.Shape {
	case ast.VarDeclSingle:
		declared := initTy
		if d.Type.IsValid() {
			declared = c.resolveType(d.Type)
			if initTy.IsValid() && !c.Satisfies(initTy, declared) {
				c.report(diag.NewError(diag.TypeErrorSubrangeEntail, d.Span,
					"'"+c.Str.MustLookup(d.Names[0])+"' initializer does not satisfy its declared type"))
			}
		}
		c.bindLocal(d.Names[0], declared, mutable)
	case ast.VarDeclTuple:
		elems := initTy.Elems
		for i, n := range d.Names {
			var ty Ty
			if i < len(elems) {
				ty = elems[i]
			}
			c.bindLocal(n, ty, mutable)
		}
	case ast.VarDeclBitTuple:
		for _, n := range d.Names {
			c.bindLocal(n, BitsOf(ast.NoExprID), mutable)
		}
	}
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) bindLocal(name source.StringID, ty Ty, mutable bool) {
	if c.scope == nil {
		c.scope = newLocalScope(nil)
	}
	c.scope.bind(name, ty, mutable)
}

func (c *Checker) tcAssign(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.Assign(id)
	valTy := c.tcExpr(d.Value)
	if setterID, ok := c.resolveIdentSetter(d.Target); ok {
		lv := c.B.LValues.Get(d.Target)
		d.Target = c.B.LValues.NewWrite(setterID, nil, d.Value, lv.Span)
	}
	target, mutable := c.tcLValue(d.Target)
	if target.IsValid() && !mutable {
		c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "assignment target is not mutable"))
		return c.liftChecks(mark, id, d.Span)
	}
	if target.IsValid() && valTy.IsValid() && !c.Satisfies(valTy, target) {
		c.report(diag.NewError(diag.TypeErrorSubrangeEntail, d.Span, "assigned value does not satisfy the target's type"))
	}
	return c.liftChecks(mark, id, d.Span)
}

// resolveIdentSetter reports whether target is a bare identifier that names
// neither a local nor a global but does name a zero-argument setter, per
// internal/ast/lvalue.go's note that LVWrite only exists once typechecking
// has resolved such a name. internal/xform's GetSetInline pass later lowers
// the LVWrite this produces into the actual setter call.
func (c *Checker) resolveIdentSetter(target ast.LValueID) (ast.DeclID, bool) {
	lv := c.B.LValues.Get(target)
	if lv == nil || lv.Kind != ast.LVIdent {
		return ast.NoDeclID, false
	}
	d, _ := c.B.LValues.Ident(target)
	if _, _, found := c.lookupLocal(d.Name); found {
		return ast.NoDeclID, false
	}
	if _, ok := c.Table.Globals[d.Name]; ok {
		return ast.NoDeclID, false
	}
	symIDs, ok := c.Table.Setters[d.Name]
	if !ok || len(symIDs) != 1 {
		return ast.NoDeclID, false
	}
	sym := c.Table.Symbols.Get(symIDs[0])
	if sym == nil {
		return ast.NoDeclID, false
	}
	if params, ok := c.declParamTypes(sym.Decl); !ok || len(params) != 0 {
		return ast.NoDeclID, false
	}
	return sym.Decl, true
}

// tcLValue infers the type of an assignment target and reports whether it
// is writable. Index and bitslice targets accumulate the same bounds
// obligations as their expression-position counterparts in expr.go; the
// caller (tcAssign) is responsible for lifting them.
func (c *Checker) tcLValue(id ast.LValueID) (Ty, bool) {
	lv := c.B.LValues.Get(id)
	if lv == nil {
		return Invalid(), false
	}
	switch lv.Kind {
	case ast.LVIdent:
		d, _ := c.B.LValues.Ident(id)
		ty, mutable, found := c.lookupLocal(d.Name)
		if found {
			return ty, mutable
		}
		if symID, ok := c.Table.Globals[d.Name]; ok {
			sym := c.Table.Symbols.Get(symID)
			return c.globalTy(symID), sym != nil && sym.Kind == symbols.SymbolVariable
		}
		c.report(diag.NewError(diag.UnknownObject, lv.Span, "unknown identifier '"+c.Str.MustLookup(d.Name)+"'"))
		return Invalid(), false
	case ast.LVField:
		d, _ := c.B.LValues.Field(id)
		base := c.tcExpr(d.Base)
		if base.Kind != TyRecord && base.Kind != TyException {
			c.report(diag.NewError(diag.IsNotA, lv.Span, "field assignment requires a record or exception value"))
			return Invalid(), false
		}
		ft, ok := c.fieldType(base, d.Name)
		return ft, ok
	case ast.LVIndex:
		d, _ := c.B.LValues.Index(id)
		base := c.tcExpr(d.Base)
		c.tcExpr(d.Index)
		c.checkIndexBounds(base, d.Index, lv.Span)
		if base.Kind == TyArray && base.Elem != nil {
			return *base.Elem, true
		}
		if base.Kind == TyBits {
			return BitsOf(ast.NoExprID), true
		}
		return Invalid(), false
	case ast.LVBitslice:
		d, _ := c.B.LValues.Bitslice(id)
		base := c.tcExpr(d.Base)
		if d.A.IsValid() {
			c.tcExpr(d.A)
		}
		if d.B.IsValid() {
			c.tcExpr(d.B)
		}
		if base.Kind != TyBits && base.Kind != TySInt {
			c.report(diag.NewError(diag.IsNotA, lv.Span, "bitslice assignment requires a bits or sintN value"))
			return Invalid(), false
		}
		c.checkBitsliceBounds(base, d.Kind, d.A, d.B, lv.Span)
		return BitsOf(ast.NoExprID), true
	case ast.LVReadWrite:
		d, _ := c.B.LValues.ReadWrite(id)
		for _, a := range d.Args {
			c.tcExpr(a)
		}
		return c.declReturnType(d.Getter), true
	case ast.LVWrite:
		d, _ := c.B.LValues.Write(id)
		for _, a := range d.Args {
			c.tcExpr(a)
		}
		c.tcExpr(d.Value)
		return Nothing(), true
	default:
		return Invalid(), false
	}
}

func (c *Checker) tcReturn(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.Return(id)
	if !d.HasValue {
		if c.ret.IsValid() && c.ret.Kind != TyNothing {
			c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "missing return value"))
		}
		return c.liftChecks(mark, id, d.Span)
	}
	valTy := c.tcExpr(d.Value)
	if valTy.IsValid() && c.ret.IsValid() && !c.Satisfies(valTy, c.ret) {
		c.report(diag.NewError(diag.TypeErrorSubrangeEntail, d.Span, "returned value does not satisfy the declared return type"))
	}
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) tcAssert(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.Assert(id)
	condTy := c.tcExpr(d.Cond)
	if condTy.IsValid() && condTy.Kind != TyBool {
		c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "assert condition must be boolean"))
	}
	c.pushAssumption(d.Cond)
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) tcTryCatch(id ast.StmtID) ast.StmtID {
	d, _ := c.B.Stmts.TryCatch(id)
	d.Body = c.tcStmt(d.Body)
	for i := range d.Arms {
		prev := c.pushScope()
		if d.Arms[i].Binder != source.NoStringID {
			c.scope.bind(d.Arms[i].Binder, c.resolveType(d.Arms[i].ExceptionType), false)
		}
		d.Arms[i].Body = c.tcStmt(d.Arms[i].Body)
		c.popScope(prev)
	}
	if d.Default.IsValid() {
		d.Default = c.tcStmt(d.Default)
	}
	return id
}

// tcIfStmt checks every arm's condition and body. Runtime checks produced by
// any arm's condition are conservatively lifted ahead of the whole
// statement rather than threaded per-branch: precise per-branch placement
// requires restructuring the arm chain into nested statements, which is a
// transform-pipeline lowering concern, not a typechecking one.
func (c *Checker) tcIfStmt(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.If(id)
	for i := range d.Arms {
		condTy := c.tcExpr(d.Arms[i].Cond)
		if condTy.IsValid() && condTy.Kind != TyBool {
			c.report(diag.NewError(diag.TypeErrorGeneric, d.Arms[i].Span, "if condition must be boolean"))
		}
		amark := c.assumptionMark()
		c.pushAssumption(d.Arms[i].Cond)
		d.Arms[i].Then = c.tcStmt(d.Arms[i].Then)
		c.restoreAssumptions(amark)
	}
	if d.Else.IsValid() {
		d.Else = c.tcStmt(d.Else)
	}
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) tcCase(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.Case(id)
	discTy := c.tcExpr(d.Discriminant)
	for i := range d.Arms {
		switch {
		case d.Arms[i].Type.IsValid():
			armTy := c.resolveType(d.Arms[i].Type)
			if discTy.IsValid() && !c.Satisfies(armTy, discTy) && !c.Satisfies(discTy, armTy) {
				c.report(diag.NewError(diag.TypeErrorGeneric, d.Arms[i].Span, "case alternative type is unrelated to the discriminant"))
			}
		case d.Arms[i].Pattern.IsValid():
			c.tcPattern(d.Arms[i].Pattern)
		}
		d.Arms[i].Body = c.tcStmt(d.Arms[i].Body)
	}
	if d.Default.IsValid() {
		d.Default = c.tcStmt(d.Default)
	}
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) tcForTo(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.ForTo(id)
	loTy := c.tcExpr(d.Lo)
	hiTy := c.tcExpr(d.Hi)
	if loTy.IsValid() && !loTy.IsNumeric() {
		c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "for loop bound must be numeric"))
	}
	if hiTy.IsValid() && !hiTy.IsNumeric() {
		c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "for loop bound must be numeric"))
	}
	prev := c.pushScope()
	c.scope.bind(d.Var, UnconstrainedInt(), false)
	d.Body = c.tcStmt(d.Body)
	c.popScope(prev)
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) tcWhile(id ast.StmtID) ast.StmtID {
	mark := c.checkMark()
	d, _ := c.B.Stmts.While(id)
	condTy := c.tcExpr(d.Cond)
	if condTy.IsValid() && condTy.Kind != TyBool {
		c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "while condition must be boolean"))
	}
	amark := c.assumptionMark()
	c.pushAssumption(d.Cond)
	d.Body = c.tcStmt(d.Body)
	c.restoreAssumptions(amark)
	return c.liftChecks(mark, id, d.Span)
}

func (c *Checker) tcRepeatUntil(id ast.StmtID) ast.StmtID {
	d, _ := c.B.Stmts.RepeatUntil(id)
	d.Body = c.tcStmt(d.Body)
	mark := c.checkMark()
	condTy := c.tcExpr(d.Cond)
	if condTy.IsValid() && condTy.Kind != TyBool {
		c.report(diag.NewError(diag.TypeErrorGeneric, d.Span, "repeat-until condition must be boolean"))
	}
	return c.liftChecks(mark, id, d.Span)
}
