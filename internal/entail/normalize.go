package entail

import (
	"fmt"
	"strings"

	"asli/internal/ast"
	"asli/internal/source"
	"asli/internal/value"
	"asli/internal/value/fold"
)

// Resolver names the callee of an already-resolved ExprCallTyped node so the
// normalizer can recognise calls to the prelude's add/sub/neg/mul/shl/pow2
// intrinsics even after the checker has
// replaced the source-level call with a concrete callee tag. A nil Resolver
// makes every ExprCallTyped an opaque atom.
type Resolver func(ast.DeclID) (name string, ok bool)

// Normalizer translates ExprIDs into linear Terms for the entailment
// procedure: constant-fold first, then recognise +, -, *
// (by a constant), neg, shl/pow2 (exponent known), min, max, and boolean
// connectives; anything else becomes an uninterpreted atom keyed by its
// canonical textual form so equal subterms compare equal regardless of
// where in the tree they were allocated.
type Normalizer struct {
	B        *ast.Builder
	Str      *source.Interner
	Folder   *fold.Folder
	Resolve  Resolver
	minMax   map[string]minMaxFact // atom key -> derived bound facts
}

type minMaxFact struct {
	isMin bool
	args  []*Term
}

func NewNormalizer(b *ast.Builder, str *source.Interner, f *fold.Folder, resolve Resolver) *Normalizer {
	return &Normalizer{B: b, Str: str, Folder: f, Resolve: resolve, minMax: map[string]minMaxFact{}}
}

// Term reduces id to a linear Term, falling back to a single-atom term when
// id is outside the recognised fragment.
func (n *Normalizer) Term(id ast.ExprID) *Term {
	if v, ok := n.Folder.Fold(id); ok && v.Kind == value.KindInt {
		return constTerm(v.Int)
	}
	shape := n.B.Exprs.Get(id)
	if shape == nil {
		return atomTerm(n.canonKey(id))
	}
	switch shape.Kind {
	case ast.ExprBinary:
		d, _ := n.B.Exprs.Binary(id)
		switch d.Op {
		case ast.BinAdd:
			if t, ok := addTerms(n.Term(d.Left), n.Term(d.Right)); ok {
				return t
			}
		case ast.BinSub:
			if t, ok := subTerms(n.Term(d.Left), n.Term(d.Right)); ok {
				return t
			}
		case ast.BinMul:
			if t, ok := n.mul(d.Left, d.Right); ok {
				return t
			}
		}
	case ast.ExprUnary:
		d, _ := n.B.Exprs.Unary(id)
		if d.Op == ast.UnaryNeg {
			return negTerm(n.Term(d.Operand))
		}
	case ast.ExprCallUntyped:
		d, _ := n.B.Exprs.CallUntyped(id)
		name := n.Str.MustLookup(d.Callee)
		if t, ok := n.call(id, name, argExprs(d.Args)); ok {
			return t
		}
	case ast.ExprCallTyped:
		d, _ := n.B.Exprs.CallTyped(id)
		if n.Resolve != nil {
			if name, ok := n.Resolve(d.Callee); ok {
				if t, ok := n.call(id, name, d.Args); ok {
					return t
				}
			}
		}
	}
	return atomTerm(n.canonKey(id))
}

func argExprs(args []ast.CallArg) []ast.ExprID {
	out := make([]ast.ExprID, len(args))
	for i, a := range args {
		out[i] = a.Value
	}
	return out
}

// call recognises the prelude intrinsics that the recognised operator set
// maps onto: add/sub/mul/neg directly mirror the infix forms; shl and pow2
// are linear only when the exponent is a known constant; min/max are
// genuinely non-linear, so the call itself becomes an atom, but its operand
// terms are recorded so Env.boundsOf can derive the standard min/max bound
// axioms on demand.
func (n *Normalizer) call(id ast.ExprID, name string, args []ast.ExprID) (*Term, bool) {
	switch name {
	case "add":
		if len(args) == 2 {
			return addTerms(n.Term(args[0]), n.Term(args[1]))
		}
	case "sub":
		if len(args) == 2 {
			return subTerms(n.Term(args[0]), n.Term(args[1]))
		}
	case "neg":
		if len(args) == 1 {
			return negTerm(n.Term(args[0])), true
		}
	case "mul":
		if len(args) == 2 {
			return n.mul(args[0], args[1])
		}
	case "shl":
		if len(args) == 2 {
			if shift, ok := smallShiftAmount(n.Folder, args[1]); ok {
				if pow, err := value.IntFromInt64(1).Shl(shift); err == nil {
					return scaleTerm(n.Term(args[0]), pow)
				}
			}
		}
	case "pow2":
		if len(args) == 1 {
			if shift, ok := smallShiftAmount(n.Folder, args[0]); ok {
				if pow, err := value.IntFromInt64(1).Shl(shift); err == nil {
					return constTerm(pow), true
				}
			}
		}
	case "min", "max":
		if len(args) == 2 {
			key := n.canonKey(id)
			n.minMax[key] = minMaxFact{isMin: name == "min", args: []*Term{n.Term(args[0]), n.Term(args[1])}}
			return atomTerm(key), true
		}
	}
	return nil, false
}

// smallShiftAmount folds e to a nonnegative constant small enough to use as
// a shift exponent (bounded well under any real ASL bit width).
func smallShiftAmount(f *fold.Folder, e ast.ExprID) (uint32, bool) {
	v, ok := f.Fold(e)
	if !ok || v.Kind != value.KindInt || v.Int.Neg {
		return 0, false
	}
	u, ok := v.Int.Mag.Uint64()
	if !ok || u > 4096 {
		return 0, false
	}
	return uint32(u), true
}

func (n *Normalizer) mul(l, r ast.ExprID) (*Term, bool) {
	lt, rt := n.Term(l), n.Term(r)
	if lt.isConst() {
		return scaleTerm(rt, lt.Const)
	}
	if rt.isConst() {
		return scaleTerm(lt, rt.Const)
	}
	return nil, false
}

// canonKey produces a structural identity for id's subtree so repeated
// occurrences of the same source-level expression normalize to the same
// atom even when the parser allocated them as separate ExprIDs. Forms
// outside the handful recognised below fall back to the node's kind and
// payload, which is sound (never unifies two genuinely different atoms)
// but not complete (never unifies two structurally-equal atoms stored in
// unrelated allocations of a form the key function is blind to).
func (n *Normalizer) canonKey(id ast.ExprID) string {
	shape := n.B.Exprs.Get(id)
	if shape == nil {
		return fmt.Sprintf("?%d", id)
	}
	switch shape.Kind {
	case ast.ExprIdent:
		d, _ := n.B.Exprs.Ident(id)
		return "id:" + n.Str.MustLookup(d.Name)
	case ast.ExprLiteral:
		d, _ := n.B.Exprs.Literal(id)
		return fmt.Sprintf("lit:%d:%s", d.Kind, n.Str.MustLookup(d.Text))
	case ast.ExprField:
		d, _ := n.B.Exprs.Field(id)
		return n.canonKey(d.Base) + "." + n.Str.MustLookup(d.Name)
	case ast.ExprIndex:
		d, _ := n.B.Exprs.Index(id)
		return n.canonKey(d.Base) + "[" + n.canonKey(d.Index) + "]"
	case ast.ExprTuple:
		d, _ := n.B.Exprs.Tuple(id)
		parts := make([]string, len(d.Elems))
		for i, e := range d.Elems {
			parts[i] = n.canonKey(e)
		}
		return "(" + strings.Join(parts, ",") + ")"
	case ast.ExprCallUntyped:
		d, _ := n.B.Exprs.CallUntyped(id)
		parts := make([]string, len(d.Args))
		for i, a := range d.Args {
			parts[i] = n.canonKey(a.Value)
		}
		return n.Str.MustLookup(d.Callee) + "(" + strings.Join(parts, ",") + ")"
	case ast.ExprCallTyped:
		d, _ := n.B.Exprs.CallTyped(id)
		name := fmt.Sprintf("callee#%d", d.Callee)
		if n.Resolve != nil {
			if nm, ok := n.Resolve(d.Callee); ok {
				name = nm
			}
		}
		parts := make([]string, len(d.Args))
		for i, a := range d.Args {
			parts[i] = n.canonKey(a)
		}
		return name + "(" + strings.Join(parts, ",") + ")"
	case ast.ExprUnary:
		d, _ := n.B.Exprs.Unary(id)
		return fmt.Sprintf("u%d(%s)", d.Op, n.canonKey(d.Operand))
	case ast.ExprBinary:
		d, _ := n.B.Exprs.Binary(id)
		return fmt.Sprintf("b%d(%s,%s)", d.Op, n.canonKey(d.Left), n.canonKey(d.Right))
	default:
		return fmt.Sprintf("k%d#%d", shape.Kind, id)
	}
}
