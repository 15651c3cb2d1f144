package xform

import "asli/internal/ast"

// BitsliceNormalizePass rewrites every bitslice notation other than the
// canonical e[hi:lo] form into that form, so every later pass (and
// eventually internal/emit) only has to reason about one shape.
type BitsliceNormalizePass struct{}

func (BitsliceNormalizePass) Name() string { return "bitslice_normalize" }

func (BitsliceNormalizePass) Run(u *Unit) error {
	return normalizeBitslices(u)
}

// BitslicesPass re-runs the same normalization once HoistLets and Case
// have finished introducing fresh statements, since a let-bound slice
// hoisted out of an expression position carries its original notation
// with it.
type BitslicesPass struct{}

func (BitslicesPass) Name() string { return "bitslices" }

func (BitslicesPass) Run(u *Unit) error {
	return normalizeBitslices(u)
}

func normalizeBitslices(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return walkExprsInStmt(u, body, func(e ast.ExprID) ast.ExprID {
			return normalizeBitsliceExpr(u, e)
		})
	})
	return nil
}

func normalizeBitsliceExpr(u *Unit, id ast.ExprID) ast.ExprID {
	exp := u.B.Exprs.Get(id)
	if exp == nil || exp.Kind != ast.ExprBitslice {
		return id
	}
	d, _ := u.B.Exprs.Bitslice(id)
	hi, lo := canonicalBounds(u, d)
	if hi == d.A && lo == d.B && d.Kind == ast.BitsliceHighLow {
		return id
	}
	return u.B.Exprs.NewBitslice(ast.BitsliceHighLow, d.Base, hi, lo, d.Span)
}

// canonicalBounds computes the [hi:lo] bounds equivalent to d's notation.
// BitsliceIndex and BitsliceElement collapse a single-bit/per-element
// width into an explicit hi/lo pair built from the same sub-expressions,
// rather than folding a constant here — constant folding is ConstProp's
// job, run immediately after this pass in the default pipeline.
func canonicalBounds(u *Unit, d *ast.ExprBitsliceData) (hi, lo ast.ExprID) {
	one := u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern("1"), 0, d.Span)
	sub := func(a, b ast.ExprID) ast.ExprID {
		return u.B.Exprs.NewBinary(ast.BinSub, a, b, d.Span)
	}
	add := func(a, b ast.ExprID) ast.ExprID {
		return u.B.Exprs.NewBinary(ast.BinAdd, a, b, d.Span)
	}
	switch d.Kind {
	case ast.BitsliceIndex:
		return d.A, d.A
	case ast.BitsliceHighLow:
		return d.A, d.B
	case ast.BitsliceLowWidth: // e[lo +: w] -> [lo+w-1 : lo]
		return sub(add(d.A, d.B), one), d.A
	case ast.BitsliceHighWidth: // e[hi -: w] -> [hi : hi-w+1]
		return d.A, add(sub(d.A, d.B), one)
	case ast.BitsliceElement: // e[i *: w] -> [(i+1)*w-1 : i*w]
		mul := u.B.Exprs.NewBinary(ast.BinMul, d.A, d.B, d.Span)
		lo := mul
		hi := sub(u.B.Exprs.NewBinary(ast.BinMul, add(d.A, one), d.B, d.Span), one)
		return hi, lo
	}
	return d.A, d.B
}
