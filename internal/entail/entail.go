package entail

import (
	"asli/internal/ast"
	"asli/internal/source"
	"asli/internal/value"
	"asli/internal/value/fold"
)

// bound is an atom's known inclusive interval; a nil pointer on either side
// means unbounded in that direction.
type bound struct {
	lo, hi *value.Int
}

// Env accumulates the conjoined scope assumptions before deciding
// entailment of a goal: interval bounds and equalities per atom, derived by
// walking each assumption's boolean structure once via Assume.
type Env struct {
	norm  *Normalizer
	bound map[string]bound
	eq    map[string]*Term // atom key -> term it is known equal to
}

func NewEnv(n *Normalizer) *Env {
	return &Env{norm: n, bound: map[string]bound{}, eq: map[string]*Term{}}
}

// Assume folds the boolean structure of e into Env's bounds/equalities.
// Conjunctions are split recursively; anything else that isn't a relational
// comparison of two linear terms is dropped (it contributes nothing the
// decision procedure below can use — dropping an assumption only
// makes the procedure more conservative, never unsound).
func (e *Env) Assume(id ast.ExprID) {
	shape := e.norm.B.Exprs.Get(id)
	if shape == nil {
		return
	}
	if shape.Kind == ast.ExprBinary {
		d, _ := e.norm.B.Exprs.Binary(id)
		if d.Op == ast.BinAnd {
			e.Assume(d.Left)
			e.Assume(d.Right)
			return
		}
		if rel, ok := relOf(d.Op); ok {
			e.assumeRel(rel, e.norm.Term(d.Left), e.norm.Term(d.Right))
			return
		}
	}
}

type relation uint8

const (
	relEq relation = iota
	relLt
	relLe
	relGt
	relGe
	relNe
)

func relOf(op ast.BinaryOp) (relation, bool) {
	switch op {
	case ast.BinEq:
		return relEq, true
	case ast.BinNe:
		return relNe, true
	case ast.BinLt:
		return relLt, true
	case ast.BinLe:
		return relLe, true
	case ast.BinGt:
		return relGt, true
	case ast.BinGe:
		return relGe, true
	}
	return 0, false
}

// assumeRel records what l `rel` r implies about the single free atom on
// either side, when the other side reduces (after substitution) to a plain
// constant. This covers the common shape ASL's refinement constraints
// actually produce — "N >= 1", "N == 4", "W <= 64" — without attempting
// general linear-arithmetic projection.
func (e *Env) assumeRel(rel relation, l, r *Term) {
	diff, ok := subTerms(l, r) // l - r rel 0
	if !ok {
		return
	}
	key, coeff, ok := soleAtom(diff)
	if !ok {
		return
	}
	// diff = coeff*atom + const; solve for atom's bound against 0.
	c := diff.Const
	neg := c.Neg_()
	var atomRel relation
	switch {
	case coeff.Cmp(value.IntFromInt64(1)) == 0:
		atomRel = rel // atom rel -const
	case coeff.Cmp(value.IntFromInt64(-1)) == 0:
		atomRel = flip(rel) // -atom rel -const  =>  atom (flip rel) const
		neg = c
	default:
		return
	}
	e.applyBound(key, atomRel, neg)
}

func flip(r relation) relation {
	switch r {
	case relLt:
		return relGt
	case relLe:
		return relGe
	case relGt:
		return relLt
	case relGe:
		return relLe
	default:
		return r
	}
}

func soleAtom(t *Term) (string, value.Int, bool) {
	if len(t.Coeffs) != 1 {
		return "", value.Int{}, false
	}
	for k, c := range t.Coeffs {
		return k, c, true
	}
	return "", value.Int{}, false
}

func (e *Env) applyBound(key string, rel relation, v value.Int) {
	b := e.bound[key]
	one := value.IntFromInt64(1)
	switch rel {
	case relEq:
		t := v
		b.lo, b.hi = &t, &t
		eq := v
		e.eq[key] = constTerm(eq)
	case relLe:
		tighten(&b.hi, v, false)
	case relLt:
		pred, _ := v.Sub(one)
		tighten(&b.hi, pred, false)
	case relGe:
		tighten(&b.lo, v, true)
	case relGt:
		succ, _ := v.Add(one)
		tighten(&b.lo, succ, true)
	}
	e.bound[key] = b
}

// tighten replaces *cur with v when v is a stricter bound: for a lower
// bound (isLower) that means v is larger than the current lo; for an upper
// bound it means v is smaller than the current hi.
func tighten(cur **value.Int, v value.Int, isLower bool) {
	if *cur == nil {
		c := v
		*cur = &c
		return
	}
	if isLower && v.Cmp(**cur) > 0 {
		c := v
		*cur = &c
	}
	if !isLower && v.Cmp(**cur) < 0 {
		c := v
		*cur = &c
	}
}

// boundsOf returns the best known [lo, hi] for a term, substituting each
// atom's equality/interval (and, for min/max atoms, the axioms the
// normalizer recorded while building the term). Either side may come back
// nil, meaning unbounded in that direction — the two sides are tracked
// independently so a term whose atoms are only bounded on one side (e.g.
// "N >= 2" gives N no upper bound) still yields a useful partial result.
// ok is false only when the term has no atoms and folds to a plain constant
// that couldn't otherwise be reached — in practice both lo and hi are
// always non-nil for a term with no free atoms.
func (e *Env) boundsOf(t *Term) (lo, hi *value.Int, ok bool) {
	loSum, hiSum := t.Const, t.Const
	haveLo, haveHi := true, true
	for key, coeff := range t.Coeffs {
		alo, ahi, found := e.atomBounds(key)
		if !found {
			alo, ahi = nil, nil
		}
		clo, chi := scaleBound(alo, ahi, coeff)
		if haveLo && clo != nil {
			v, err := loSum.Add(*clo)
			if err != nil {
				haveLo = false
			} else {
				loSum = v
			}
		} else {
			haveLo = false
		}
		if haveHi && chi != nil {
			v, err := hiSum.Add(*chi)
			if err != nil {
				haveHi = false
			} else {
				hiSum = v
			}
		} else {
			haveHi = false
		}
	}
	if haveLo {
		lo = &loSum
	}
	if haveHi {
		hi = &hiSum
	}
	return lo, hi, true
}

func (e *Env) atomBounds(key string) (lo, hi *value.Int, ok bool) {
	if eqT, found := e.eq[key]; found {
		l, h, _ := e.boundsOf(eqT)
		return l, h, l != nil || h != nil
	}
	if mm, found := e.norm.minMax[key]; found {
		var lo, hi *value.Int
		for _, arg := range mm.args {
			al, ah, _ := e.boundsOf(arg)
			if mm.isMin {
				// min(a,b) <= each arg's upper bound; no sound lower bound
				// without both arms' lower bounds meeting.
				if ah != nil {
					tighten(&hi, *ah, false)
				}
			} else {
				if al != nil {
					tighten(&lo, *al, true)
				}
			}
		}
		return lo, hi, lo != nil || hi != nil
	}
	b, found := e.bound[key]
	if !found {
		return nil, nil, false
	}
	return b.lo, b.hi, b.lo != nil || b.hi != nil
}

// scaleBound multiplies an atom's [lo, hi] by coeff, swapping the sides when
// coeff is negative. Either input side may be nil (unbounded); the
// corresponding output side is then nil too, unless coeff is zero.
func scaleBound(lo, hi *value.Int, coeff value.Int) (*value.Int, *value.Int) {
	if coeff.IsZero() {
		zero := value.IntFromInt64(0)
		return &zero, &zero
	}
	mul := func(v *value.Int) *value.Int {
		if v == nil {
			return nil
		}
		r, err := v.Mul(coeff)
		if err != nil {
			return nil
		}
		return &r
	}
	a, b := mul(lo), mul(hi)
	if coeff.Neg {
		return b, a
	}
	return a, b
}

// Prove decides whether id necessarily holds given every assumption already
// recorded on e: constant-fold id first; if it doesn't
// reduce outright, normalize both sides of its relation and check the
// relation against the interval Env derives for their difference. Returns
// false (not proved) rather than erroring when the fragment can't decide
// the goal — the typechecker treats an unproved goal as a failed check.
func (e *Env) Prove(id ast.ExprID) bool {
	if v, ok := e.norm.Folder.Fold(id); ok && v.Kind == value.KindBool {
		return v.Bool
	}
	shape := e.norm.B.Exprs.Get(id)
	if shape == nil {
		return false
	}
	if shape.Kind != ast.ExprBinary {
		return false
	}
	d, _ := e.norm.B.Exprs.Binary(id)
	switch d.Op {
	case ast.BinAnd:
		return e.Prove(d.Left) && e.Prove(d.Right)
	case ast.BinOr:
		return e.Prove(d.Left) || e.Prove(d.Right)
	case ast.BinImplies:
		// Only provable by discharging the antecedent as true and the
		// consequent as entailed; a false antecedent can't be derived from
		// this fragment so implications with an unprovable antecedent are
		// reported as unproved rather than vacuously true.
		return e.Prove(d.Left) && e.Prove(d.Right)
	}
	rel, ok := relOf(d.Op)
	if !ok {
		return false
	}
	diff, ok := subTerms(e.norm.Term(d.Left), e.norm.Term(d.Right))
	if !ok {
		return false
	}
	lo, hi, ok := e.boundsOf(diff)
	if !ok {
		return false
	}
	zero := value.IntFromInt64(0)
	switch rel {
	case relEq:
		return lo != nil && hi != nil && lo.Cmp(zero) == 0 && hi.Cmp(zero) == 0
	case relNe:
		return (hi != nil && hi.Cmp(zero) < 0) || (lo != nil && lo.Cmp(zero) > 0)
	case relLe:
		return hi != nil && hi.Cmp(zero) <= 0
	case relLt:
		return hi != nil && hi.Cmp(zero) < 0
	case relGe:
		return lo != nil && lo.Cmp(zero) >= 0
	case relGt:
		return lo != nil && lo.Cmp(zero) > 0
	}
	return false
}

// Entails is the one-shot convenience form: does the
// conjunction of assumptions entail goal. It builds a fresh Env each call;
// callers checking many goals against the same scope should build one Env
// with NewEnv and Assume each assumption once instead.
func Entails(b *ast.Builder, str *source.Interner, f *fold.Folder, resolve Resolver, assumptions []ast.ExprID, goal ast.ExprID) bool {
	n := NewNormalizer(b, str, f, resolve)
	env := NewEnv(n)
	for _, a := range assumptions {
		env.Assume(a)
	}
	return env.Prove(goal)
}
