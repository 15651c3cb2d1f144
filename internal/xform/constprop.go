package xform

import (
	"asli/internal/ast"
	"asli/internal/source"
	"asli/internal/value"
	"asli/internal/value/fold"
)

// ConstPropPass replaces every foldable subexpression with the literal
// internal/value/fold computes for it, using internal/sema's Consts table
// as the starting point for named constants. It runs twice in the default
// pipeline: once before monomorphization so a width argument folds to a
// literal Monomorphize can key its instantiation cache on, once again
// after Tuples/Bittuples/Case have introduced fresh arithmetic over
// pattern-derived temporaries. Unroll additionally unrolls a ForTo loop
// whose bounds both fold to literals; the default pipeline always runs
// with Unroll false, leaving loop unrolling to a future optimization pass
// should one be wired into internal/backend's code-size tuning.
type ConstPropPass struct {
	Unroll bool
}

func (ConstPropPass) Name() string { return "const_prop" }

func (p ConstPropPass) Run(u *Unit) error {
	folder := fold.New(u.B, u.Str, u.Sema.Consts)
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return walkExprsInStmt(u, body, func(e ast.ExprID) ast.ExprID {
			return foldExpr(u, folder, e)
		})
	})
	return nil
}

func foldExpr(u *Unit, folder *fold.Folder, id ast.ExprID) ast.ExprID {
	exp := u.B.Exprs.Get(id)
	if exp == nil || exp.Kind == ast.ExprLiteral {
		return id
	}
	val, ok := folder.Fold(id)
	if !ok {
		return id
	}
	lit, ok := literalFor(u, val, exp.Span)
	if !ok {
		return id
	}
	return lit
}

// literalFor materializes a folded value as a literal expression node, or
// reports ok=false for a shape (tuple, array, record, enum) ConstProp
// leaves as a structural expression rather than a single literal token.
func literalFor(u *Unit, v value.Value, span source.Span) (ast.ExprID, bool) {
	switch v.Kind {
	case value.KindInt:
		return u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern(v.String()), 0, span), true
	case value.KindSInt:
		return u.B.Exprs.NewLiteral(ast.LitSizedInt, u.Str.Intern(v.String()), v.SInt.Width, span), true
	case value.KindBits:
		return u.B.Exprs.NewLiteral(ast.LitBits, u.Str.Intern(v.String()), v.Bits.Width, span), true
	case value.KindMask:
		return u.B.Exprs.NewLiteral(ast.LitMask, u.Str.Intern(v.String()), v.Mask.Width, span), true
	case value.KindBool:
		return u.B.Exprs.NewLiteral(ast.LitBool, u.Str.Intern(v.String()), 0, span), true
	}
	return ast.NoExprID, false
}
