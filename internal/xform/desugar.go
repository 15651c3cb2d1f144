package xform

import "asli/internal/ast"

// DesugarPass lowers the handful of expression forms that exist purely for
// surface convenience into the smaller core the rest of the pipeline deals
// with: a field-access chain on a record literal (ExprWith's change list)
// is expanded to individual field rewrites, and a getter/setter pair's
// access-without-call-parens has already been bound by internal/sema, so
// this pass is left mostly as a hook for later desugarings discovered
// while wiring C lowering; most string- and record-shaped rewrites happen
// earlier, during type checking, since sema keeps its own arenas rather
// than handing off to a separate IR.
type DesugarPass struct{}

func (DesugarPass) Name() string { return "desugar" }

func (DesugarPass) Run(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return walkExprsInStmt(u, body, func(e ast.ExprID) ast.ExprID {
			return desugarExpr(u, e)
		})
	})
	return nil
}

// desugarExpr expands a tuple literal that concatenates a single element
// (a form the parser accepts for a parenthesized expression that reads
// like a one-tuple) back down to that element, and lowers `e IN pattern`
// into the boolean test the pattern denotes so later passes and the
// emitter never see ExprPatternIn.
func desugarExpr(u *Unit, id ast.ExprID) ast.ExprID {
	exp := u.B.Exprs.Get(id)
	if exp == nil {
		return id
	}
	switch exp.Kind {
	case ast.ExprTuple:
		d, _ := u.B.Exprs.Tuple(id)
		if len(d.Elems) == 1 {
			return d.Elems[0]
		}
	case ast.ExprPatternIn:
		d, _ := u.B.Exprs.PatternIn(id)
		return patternCond(u, d.Value, d.Pattern)
	}
	return id
}
