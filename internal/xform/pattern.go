package xform

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
)

// unmatchedCaseFn is the runtime primitive a lowered `case` without an
// `otherwise` arm falls through to; the emitted C aborts with an
// unmatched-case error instead of silently continuing.
const unmatchedCaseFn = "asl_unmatched_case"

func boolLit(u *Unit, v bool, span source.Span) ast.ExprID {
	text := "FALSE"
	if v {
		text = "TRUE"
	}
	return u.B.Exprs.NewLiteral(ast.LitBool, u.Str.Intern(text), 0, span)
}

// patternCond builds the boolean expression equivalent to matching disc
// against pat: equality for literals, constants, and computed values,
// a bounds conjunction for ranges, mask-equality for masks, a disjunction
// over set members, and a conjunction over tuple elements.
func patternCond(u *Unit, disc ast.ExprID, pat ast.PatternID) ast.ExprID {
	p := u.B.Patterns.Get(pat)
	if p == nil {
		return boolLit(u, true, source.Span{})
	}
	switch p.Kind {
	case ast.PatWildcard:
		return boolLit(u, true, p.Span)
	case ast.PatLiteral:
		d, _ := u.B.Patterns.Literal(pat)
		return u.B.Exprs.NewBinary(ast.BinEq, disc, d.Value, p.Span)
	case ast.PatSingle:
		d, _ := u.B.Patterns.Single(pat)
		return u.B.Exprs.NewBinary(ast.BinEq, disc, d.Value, p.Span)
	case ast.PatConstRef:
		d, _ := u.B.Patterns.ConstRef(pat)
		ref := u.B.Exprs.NewIdent(d.Name, p.Span)
		return u.B.Exprs.NewBinary(ast.BinEq, disc, ref, p.Span)
	case ast.PatRange:
		d, _ := u.B.Patterns.Range(pat)
		lo := u.B.Exprs.NewBinary(ast.BinLe, d.Lo, disc, p.Span)
		hi := u.B.Exprs.NewBinary(ast.BinLe, disc, d.Hi, p.Span)
		return u.B.Exprs.NewBinary(ast.BinAnd, lo, hi, p.Span)
	case ast.PatMask:
		d, _ := u.B.Patterns.Mask(pat)
		return u.B.Exprs.NewBinary(ast.BinIn, disc, d.Value, p.Span)
	case ast.PatSet:
		d, _ := u.B.Patterns.Set(pat)
		if len(d.Elems) == 0 {
			return boolLit(u, false, p.Span)
		}
		cond := patternCond(u, disc, d.Elems[0])
		for _, e := range d.Elems[1:] {
			cond = u.B.Exprs.NewBinary(ast.BinOr, cond, patternCond(u, disc, e), p.Span)
		}
		return cond
	case ast.PatTuple:
		d, _ := u.B.Patterns.Tuple(pat)
		discExp := u.B.Exprs.Get(disc)
		if discExp == nil || discExp.Kind != ast.ExprTuple {
			u.Diags.Add(diag.NewError(diag.UnimplementedConstruct, p.Span,
				"tuple pattern against a non-tuple discriminant"))
			return boolLit(u, false, p.Span)
		}
		td, _ := u.B.Exprs.Tuple(disc)
		if len(td.Elems) != len(d.Elems) {
			u.Diags.Add(diag.NewError(diag.UnimplementedConstruct, p.Span,
				"tuple pattern arity does not match the discriminant"))
			return boolLit(u, false, p.Span)
		}
		cond := boolLit(u, true, p.Span)
		for i, e := range d.Elems {
			cond = u.B.Exprs.NewBinary(ast.BinAnd, cond, patternCond(u, td.Elems[i], e), p.Span)
		}
		return cond
	default:
		return boolLit(u, false, p.Span)
	}
}
