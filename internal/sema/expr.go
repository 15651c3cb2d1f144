package sema

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
)

// tcExpr infers id's type, reporting diagnostics for anything that does not
// typecheck and returning Invalid() so callers can keep walking without
// cascading unrelated errors.
func (c *Checker) tcExpr(id ast.ExprID) Ty {
	ty := c.tcExprUncached(id)
	if id.IsValid() {
		c.ExprTypes[id] = ty
	}
	return ty
}

func (c *Checker) tcExprUncached(id ast.ExprID) Ty {
	if !id.IsValid() {
		return Invalid()
	}
	e := c.B.Exprs.Get(id)
	if e == nil {
		return Invalid()
	}
	switch e.Kind {
	case ast.ExprLiteral:
		return c.tcLiteral(id)
	case ast.ExprIdent:
		return c.tcIdent(id)
	case ast.ExprField:
		return c.tcField(id)
	case ast.ExprMultiField:
		return c.tcMultiField(id)
	case ast.ExprIndex:
		return c.tcIndex(id)
	case ast.ExprBitslice:
		return c.tcBitslice(id)
	case ast.ExprRecordConstruct:
		return c.tcRecordConstruct(id)
	case ast.ExprWith:
		return c.tcWith(id)
	case ast.ExprIf:
		return c.tcIf(id)
	case ast.ExprLet:
		return c.tcLet(id)
	case ast.ExprAssertIn:
		return c.tcAssertIn(id)
	case ast.ExprCallUntyped:
		return c.tcCallUntyped(id)
	case ast.ExprCallTyped:
		return c.tcCallTyped(id)
	case ast.ExprTuple:
		return c.tcTuple(id)
	case ast.ExprConcat:
		return c.tcConcat(id)
	case ast.ExprUnary:
		return c.tcUnary(id)
	case ast.ExprBinary:
		return c.tcBinary(id)
	case ast.ExprAsConstraint:
		return c.tcAsConstraint(id)
	case ast.ExprAsType:
		return c.tcAsType(id)
	case ast.ExprArrayInit:
		return c.tcArrayInit(id)
	case ast.ExprUnknownOfType:
		d, _ := c.B.Exprs.UnknownOfType(id)
		return c.resolveType(d.Type)
	case ast.ExprPatternIn:
		return c.tcPatternIn(id)
	default:
		c.report(diag.NewError(diag.UnimplementedConstruct, e.Span, "unsupported expression form"))
		return Invalid()
	}
}

func (c *Checker) tcLiteral(id ast.ExprID) Ty {
	d, ok := c.B.Exprs.Literal(id)
	if !ok {
		return Invalid()
	}
	switch d.Kind {
	case ast.LitInteger:
		return UnconstrainedInt()
	case ast.LitSizedInt:
		return SIntOf(ast.NoExprID)
	case ast.LitBits, ast.LitMask:
		return BitsOf(ast.NoExprID)
	case ast.LitBool:
		return Bool()
	case ast.LitString:
		return String_()
	case ast.LitReal:
		e := c.B.Exprs.Get(id)
		c.report(diag.NewError(diag.UnimplementedConstruct, e.Span, "real-valued literals have no runtime representation"))
		return Invalid()
	default:
		return Invalid()
	}
}

func (c *Checker) tcIdent(id ast.ExprID) Ty {
	d, ok := c.B.Exprs.Ident(id)
	if !ok {
		return Invalid()
	}
	if ty, _, found := c.lookupLocal(d.Name); found {
		return ty
	}
	if symID, ok := c.Table.Globals[d.Name]; ok {
		return c.globalTy(symID)
	}
	if symID, ok := c.Table.EnumMembers[d.Name]; ok {
		sym := c.Table.Symbols.Get(symID)
		if sym != nil {
			return Ty{Kind: TyEnum, Decl: sym.Decl}
		}
	}
	e := c.B.Exprs.Get(id)
	c.report(diag.NewError(diag.UnknownObject, e.Span, "unknown identifier '"+c.Str.MustLookup(d.Name)+"'"))
	return Invalid()
}

// globalTy resolves the declared (or inferred) type of a constant, config
// constant, or mutable global variable.
func (c *Checker) globalTy(symID symbols.SymbolID) Ty {
	sym := c.Table.Symbols.Get(symID)
	if sym == nil {
		return Invalid()
	}
	d := c.B.Decls.Get(sym.Decl)
	if d == nil {
		return Invalid()
	}
	switch d.Kind {
	case ast.DeclConstant:
		cd, _ := c.B.Decls.Constant(sym.Decl)
		if cd.Type.IsValid() {
			return c.resolveType(cd.Type)
		}
		return c.tcExpr(cd.Value)
	case ast.DeclConfigConstant:
		cd, _ := c.B.Decls.ConfigConstant(sym.Decl)
		return c.resolveType(cd.Type)
	case ast.DeclVariable:
		vd, _ := c.B.Decls.Variable(sym.Decl)
		return c.resolveType(vd.Type)
	default:
		return Invalid()
	}
}

func (c *Checker) tcField(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Field(id)
	base := c.tcExpr(d.Base)
	if base.Kind != TyRecord && base.Kind != TyException {
		if base.IsValid() {
			c.report(diag.NewError(diag.IsNotA, c.spanOf(id), "field access requires a record or exception value"))
		}
		return Invalid()
	}
	ft, ok := c.fieldType(base, d.Name)
	if !ok {
		c.report(diag.NewError(diag.UnknownObject, c.spanOf(id), "no field '"+c.Str.MustLookup(d.Name)+"' on this type"))
		return Invalid()
	}
	return ft
}

func (c *Checker) tcMultiField(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.MultiField(id)
	base := c.tcExpr(d.Base)
	if base.Kind != TyRecord && base.Kind != TyException {
		c.report(diag.NewError(diag.IsNotA, c.spanOf(id), "field access requires a record or exception value"))
		return Invalid()
	}
	for _, n := range d.Names {
		if _, ok := c.fieldType(base, n); !ok {
			c.report(diag.NewError(diag.UnknownObject, c.spanOf(id), "no field '"+c.Str.MustLookup(n)+"' on this type"))
		}
	}
	return BitsOf(ast.NoExprID)
}

// fieldType looks name up among rec's declared fields (rec must be
// TyRecord or TyException).
func (c *Checker) fieldType(rec Ty, name source.StringID) (Ty, bool) {
	d := c.B.Decls.Get(rec.Decl)
	if d == nil {
		return Invalid(), false
	}
	var fields []ast.Field
	switch d.Kind {
	case ast.DeclRecord:
		rd, _ := c.B.Decls.Record(rec.Decl)
		fields = rd.Fields
	case ast.DeclExceptionRecord:
		rd, _ := c.B.Decls.ExceptionRecord(rec.Decl)
		fields = rd.Fields
	default:
		return Invalid(), false
	}
	for _, f := range fields {
		if f.Name == name {
			return c.resolveType(f.Type), true
		}
	}
	return Invalid(), false
}

func (c *Checker) tcIndex(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Index(id)
	base := c.tcExpr(d.Base)
	idxTy := c.tcExpr(d.Index)
	if idxTy.IsValid() && !idxTy.IsNumeric() {
		c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(id), "array index must be an integer"))
	}
	c.checkIndexBounds(base, d.Index, c.spanOf(id))
	switch base.Kind {
	case TyArray:
		if base.Elem != nil {
			return *base.Elem
		}
		return Invalid()
	case TyBits:
		return BitsOf(ast.NoExprID)
	default:
		if base.IsValid() {
			c.report(diag.NewError(diag.IsNotA, c.spanOf(id), "indexing requires an array or bitvector"))
		}
		return Invalid()
	}
}

func (c *Checker) tcBitslice(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Bitslice(id)
	base := c.tcExpr(d.Base)
	if base.IsValid() && base.Kind != TyBits && base.Kind != TySInt {
		c.report(diag.NewError(diag.IsNotA, c.spanOf(id), "bitslice requires a bits or sintN value"))
	}
	if d.A.IsValid() {
		c.tcExpr(d.A)
	}
	if d.B.IsValid() {
		c.tcExpr(d.B)
	}
	if base.Kind == TyBits || base.Kind == TySInt {
		c.checkBitsliceBounds(base, d.Kind, d.A, d.B, c.spanOf(id))
	}
	return BitsOf(ast.NoExprID)
}

func (c *Checker) tcRecordConstruct(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.RecordConstruct(id)
	ty := c.resolveType(d.Type)
	for _, f := range d.Fields {
		c.tcExpr(f.Value)
	}
	return ty
}

func (c *Checker) tcWith(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.With(id)
	base := c.tcExpr(d.Base)
	for _, ch := range d.Changes {
		if ch.Lo.IsValid() {
			c.tcExpr(ch.Lo)
		}
		if ch.Width.IsValid() {
			c.tcExpr(ch.Width)
		}
		c.tcExpr(ch.Value)
	}
	return base
}

func (c *Checker) tcIf(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.If(id)
	var result Ty
	for i, arm := range d.Arms {
		condTy := c.tcExpr(arm.Cond)
		if condTy.IsValid() && condTy.Kind != TyBool {
			c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(arm.Cond), "if condition must be boolean"))
		}
		mark := c.assumptionMark()
		c.pushAssumption(arm.Cond)
		thenTy := c.tcExpr(arm.Then)
		c.restoreAssumptions(mark)
		if i == 0 {
			result = thenTy
		}
	}
	if d.Else.IsValid() {
		c.tcExpr(d.Else)
	}
	return result
}

func (c *Checker) tcLet(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Let(id)
	valTy := c.tcExpr(d.Value)
	declared := valTy
	if d.Type.IsValid() {
		declared = c.resolveType(d.Type)
		if valTy.IsValid() && !c.Satisfies(valTy, declared) {
			c.report(diag.NewError(diag.TypeErrorSubrangeEntail, c.spanOf(id),
				"'"+c.Str.MustLookup(d.Name)+"' initializer does not satisfy its declared type"))
		}
	}
	prev := c.pushScope()
	c.scope.bind(d.Name, declared, false)
	result := c.tcExpr(d.Body)
	c.popScope(prev)
	return result
}

func (c *Checker) tcAssertIn(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.AssertIn(id)
	c.tcExpr(d.Value)
	c.tcExpr(d.Set)
	return Bool()
}

func (c *Checker) tcTuple(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Tuple(id)
	elems := make([]Ty, len(d.Elems))
	for i, e := range d.Elems {
		elems[i] = c.tcExpr(e)
	}
	return Ty{Kind: TyTuple, Elems: elems}
}

func (c *Checker) tcConcat(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Concat(id)
	for _, e := range d.Elems {
		t := c.tcExpr(e)
		if t.IsValid() && t.Kind != TyBits && t.Kind != TySInt {
			c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(e), "concatenation operands must be bitvectors"))
		}
	}
	return BitsOf(ast.NoExprID)
}

func (c *Checker) tcUnary(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Unary(id)
	operand := c.tcExpr(d.Operand)
	if !operand.IsValid() {
		return Invalid()
	}
	switch d.Op {
	case ast.UnaryNot:
		if operand.Kind == TyBool {
			return Bool()
		}
		if operand.Kind == TyBits {
			// NOT over a bitvector is the bitwise complement.
			d.Op = ast.UnaryBitNot
			return operand
		}
	case ast.UnaryNeg:
		if operand.IsNumeric() {
			return operand
		}
	case ast.UnaryBitNot:
		if operand.Kind == TyBits {
			return operand
		}
	default:
		return Invalid()
	}
	if operand.Kind == TyRecord || operand.Kind == TyException || operand.Kind == TyEnum {
		if ty, ok := c.resolveUnaryOperatorOverload(d.Op, operand, c.spanOf(id)); ok {
			return ty
		}
	}
	c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(id), "operator does not accept this operand type"))
	return Invalid()
}

func (c *Checker) tcBinary(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.Binary(id)
	l := c.tcExpr(d.Left)
	r := c.tcExpr(d.Right)
	if !l.IsValid() || !r.IsValid() {
		return Invalid()
	}
	isOverloadable := l.Kind == TyRecord || l.Kind == TyException || l.Kind == TyEnum ||
		r.Kind == TyRecord || r.Kind == TyException || r.Kind == TyEnum
	switch d.Op {
	case ast.BinAnd, ast.BinOr, ast.BinXor, ast.BinIff, ast.BinImplies:
		if l.Kind == TyBool && r.Kind == TyBool {
			return Bool()
		}
		if l.Kind == TyBits && r.Kind == TyBits && d.Op != ast.BinIff && d.Op != ast.BinImplies {
			// Over bitvectors AND/OR/XOR are the bitwise operators: retarget
			// the node in place so later passes and the emitter see Bit*.
			d.Op = map[ast.BinaryOp]ast.BinaryOp{ast.BinAnd: ast.BinBitAnd, ast.BinOr: ast.BinBitOr, ast.BinXor: ast.BinBitXor}[d.Op]
			if !c.widthsEqual(l.Width, r.Width) {
				c.report(diag.NewError(diag.TypeErrorSubrangeEntail, c.spanOf(id), "bitwise operator operands must have provably equal width"))
			}
			return l
		}
	case ast.BinEq, ast.BinNe:
		if !isOverloadable && l.Kind == r.Kind {
			return Bool()
		}
	case ast.BinLt, ast.BinLe, ast.BinGt, ast.BinGe:
		if l.IsNumeric() && r.IsNumeric() {
			return Bool()
		}
	case ast.BinIn:
		return Bool()
	case ast.BinBitAnd, ast.BinBitOr, ast.BinBitXor:
		if l.Kind != TyBits || r.Kind != TyBits {
			c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(id), "bitwise operator requires bits operands"))
			return Invalid()
		}
		if !c.widthsEqual(l.Width, r.Width) {
			c.report(diag.NewError(diag.TypeErrorSubrangeEntail, c.spanOf(id), "bitwise operator operands must have provably equal width"))
		}
		return l
	case ast.BinDiv, ast.BinMod, ast.BinDivRem, ast.BinQuot, ast.BinRem:
		if !isOverloadable {
			c.checkDivisionSafe(d.Right, r, c.spanOf(id))
		}
		fallthrough
	case ast.BinAdd, ast.BinSub, ast.BinMul:
		if isOverloadable {
			break
		}
		return c.tcArith(id, l, r)
	default:
		return Invalid()
	}
	if isOverloadable {
		if ty, ok := c.resolveBinaryOperatorOverload(d.Op, l, r, c.spanOf(id)); ok {
			return ty
		}
	}
	c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(id), "operator does not accept these operand types"))
	return Invalid()
}

// tcArith checks the two operands of an arithmetic operator share a
// representation (plain integer, or provably equal-width sintN/bits) and
// returns the result type.
func (c *Checker) tcArith(id ast.ExprID, l, r Ty) Ty {
	if l.Kind != r.Kind {
		c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(id), "arithmetic operands must share a representation"))
		return Invalid()
	}
	switch l.Kind {
	case TyInt:
		return UnconstrainedInt()
	case TySInt, TyBits:
		if !c.widthsEqual(l.Width, r.Width) {
			c.report(diag.NewError(diag.TypeErrorSubrangeEntail, c.spanOf(id), "arithmetic operands must have provably equal width"))
		}
		return l
	default:
		c.report(diag.NewError(diag.TypeErrorGeneric, c.spanOf(id), "arithmetic requires numeric operands"))
		return Invalid()
	}
}

// tcAsConstraint narrows operand to constraintTy, inserting a
// runtime membership check when the narrowing is not already provable
// rather than rejecting the program outright.
func (c *Checker) tcAsConstraint(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.AsConstraint(id)
	operand := c.tcExpr(d.Operand)
	constraintTy := c.resolveType(d.Constraint)
	if operand.IsValid() {
		c.checkConstraintSatisfied(d.Operand, operand, constraintTy, c.spanOf(id))
	}
	return constraintTy
}

func (c *Checker) tcAsType(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.AsType(id)
	operand := c.tcExpr(d.Operand)
	target := c.resolveType(d.Type)
	if operand.IsValid() {
		c.checkConstraintSatisfied(d.Operand, operand, target, c.spanOf(id))
	}
	return target
}

func (c *Checker) tcArrayInit(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.ArrayInit(id)
	switch d.Kind {
	case ast.ArrayInitList:
		var elem Ty
		for i, e := range d.Elems {
			t := c.tcExpr(e)
			if i == 0 {
				elem = t
			}
		}
		return Ty{Kind: TyArray, Elem: &elem, Size: ast.NoExprID}
	case ast.ArrayInitFill:
		elem := c.tcExpr(d.Fill)
		c.tcExpr(d.Size)
		return Ty{Kind: TyArray, Elem: &elem, Size: d.Size}
	default:
		return Invalid()
	}
}

func (c *Checker) tcPatternIn(id ast.ExprID) Ty {
	d, _ := c.B.Exprs.PatternIn(id)
	c.tcExpr(d.Value)
	c.tcPattern(d.Pattern)
	return Bool()
}

func (c *Checker) tcPattern(id ast.PatternID) {
	p := c.B.Patterns.Get(id)
	if p == nil {
		return
	}
	switch p.Kind {
	case ast.PatLiteral:
		d, _ := c.B.Patterns.Literal(id)
		c.tcExpr(d.Value)
	case ast.PatSingle:
		d, _ := c.B.Patterns.Single(id)
		c.tcExpr(d.Value)
	case ast.PatRange:
		d, _ := c.B.Patterns.Range(id)
		c.tcExpr(d.Lo)
		c.tcExpr(d.Hi)
	case ast.PatMask:
		d, _ := c.B.Patterns.Mask(id)
		c.tcExpr(d.Value)
	case ast.PatTuple:
		d, _ := c.B.Patterns.Tuple(id)
		for _, e := range d.Elems {
			c.tcPattern(e)
		}
	case ast.PatSet:
		d, _ := c.B.Patterns.Set(id)
		for _, e := range d.Elems {
			c.tcPattern(e)
		}
	case ast.PatConstRef, ast.PatWildcard:
		// nothing to check statically beyond name resolution, done at use.
	}
}

func (c *Checker) spanOf(id ast.ExprID) source.Span {
	e := c.B.Exprs.Get(id)
	if e == nil {
		return source.Span{}
	}
	return e.Span
}
