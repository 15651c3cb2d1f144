package sema

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// Satisfies reports whether a value of type sub may be used where super is
// expected: widths agree (proven, not merely syntactically equal) for
// sintN/bits, element types and sizes agree structurally for arrays/tuples,
// and every refinement constraint sub carries is provably contained in
// super's constraint set for plain integers. This is the checker's subtype
// relation, built on internal/entail rather than a full decision procedure:
// sound, but some true subtype relationships that need case-splitting or
// nonlinear reasoning will be reported as unproven (TypeErrorSubrangeEntail).
func (c *Checker) Satisfies(sub, super Ty) bool {
	if !sub.IsValid() || !super.IsValid() {
		return false
	}
	switch super.Kind {
	case TyInt:
		if sub.Kind != TyInt {
			return false
		}
		return c.constraintsSatisfy(sub.Constraints, super.Constraints)
	case TySInt:
		if sub.Kind != TySInt {
			return false
		}
		return c.widthsEqual(sub.Width, super.Width)
	case TyBits:
		if sub.Kind != TyBits {
			return false
		}
		return c.widthsEqual(sub.Width, super.Width)
	case TyBool, TyString, TyRAM, TyNothing:
		return sub.Kind == super.Kind
	case TyArray:
		if sub.Kind != TyArray {
			return false
		}
		if sub.Elem == nil || super.Elem == nil {
			return false
		}
		if !c.Satisfies(*sub.Elem, *super.Elem) {
			return false
		}
		return c.widthsEqual(sub.Size, super.Size)
	case TyTuple:
		if sub.Kind != TyTuple || len(sub.Elems) != len(super.Elems) {
			return false
		}
		for i := range super.Elems {
			if !c.Satisfies(sub.Elems[i], super.Elems[i]) {
				return false
			}
		}
		return true
	case TyRecord, TyException, TyEnum:
		return sub.Kind == super.Kind && sub.Decl == super.Decl
	default:
		return false
	}
}

// widthsEqual proves lhs == rhs using the current entailment environment,
// falling back to identical-ExprID as a fast accept for the common case of
// a parameter's width literally reused from its declaration.
func (c *Checker) widthsEqual(lhs, rhs ast.ExprID) bool {
	if !lhs.IsValid() || !rhs.IsValid() {
		return lhs == rhs
	}
	if lhs == rhs {
		return true
	}
	env := c.entailEnv()
	eq := c.B.Exprs.NewBinary(ast.BinEq, lhs, rhs, source.Span{})
	return env.Prove(eq)
}

// constraintsSatisfy reports whether every element of sub is provably
// contained in some element of super. An empty super (unconstrained
// integer) always accepts; an empty sub against a constrained super is
// rejected, since an unconstrained value cannot be shown to stay in range.
func (c *Checker) constraintsSatisfy(sub, super []ast.IntConstraint) bool {
	if len(super) == 0 {
		return true
	}
	if len(sub) == 0 {
		return false
	}
	for _, s := range sub {
		if !c.constraintSatisfiesAny(s, super) {
			return false
		}
	}
	return true
}

func (c *Checker) constraintSatisfiesAny(s ast.IntConstraint, super []ast.IntConstraint) bool {
	for _, sup := range super {
		if c.constraintSatisfiesOne(s, sup) {
			return true
		}
	}
	return false
}

// constraintSatisfiesOne checks containment of one sub element within one
// super element by proving the boundary inequalities with entail.Entails,
// seeded by the assumptions currently in scope.
func (c *Checker) constraintSatisfiesOne(s, sup ast.IntConstraint) bool {
	sLo, sHi, ok := constraintBounds(s)
	if !ok {
		return false
	}
	supLo, supHi, ok := constraintBounds(sup)
	if !ok {
		return false
	}
	return c.proveLE(supLo, sLo) && c.proveLE(sHi, supHi)
}

func constraintBounds(ic ast.IntConstraint) (lo, hi ast.ExprID, ok bool) {
	switch ic.Kind {
	case ast.ConstraintRange:
		return ic.Lo, ic.Hi, ic.Lo.IsValid() && ic.Hi.IsValid()
	case ast.ConstraintSingle:
		return ic.Val, ic.Val, ic.Val.IsValid()
	default:
		return ast.NoExprID, ast.NoExprID, false
	}
}

// proveLE proves lhs <= rhs against the current assumption set.
func (c *Checker) proveLE(lhs, rhs ast.ExprID) bool {
	if lhs == rhs {
		return true
	}
	env := c.entailEnv()
	le := c.B.Exprs.NewBinary(ast.BinLe, lhs, rhs, source.Span{})
	return env.Prove(le)
}
