// Package fold implements constant folding:
// given an AST expression tree built from literals and the supported
// arithmetic/bitwise/relational operators, reduce it as far as possible
// while preserving observable failure — division by zero and similar
// runtime-checked operations are left unfolded rather than panicking, so
// that internal/sema can still insert its runtime assertion around them.
package fold

import (
	"fmt"
	"strings"

	"asli/internal/ast"
	"asli/internal/source"
	"asli/internal/value"
	"asli/internal/value/bignum"
)

// Folder reduces literal-and-operator expression trees to values using a
// shared interner (for literal text) and, optionally, a table of known
// constant values for identifiers (populated by internal/sema's constant
// propagation pass). A nil Consts behaves as "no identifier is known".
type Folder struct {
	B      *ast.Builder
	Str    *source.Interner
	Consts map[source.StringID]value.Value
}

func New(b *ast.Builder, str *source.Interner, consts map[source.StringID]value.Value) *Folder {
	return &Folder{B: b, Str: str, Consts: consts}
}

// Fold attempts to reduce id to a constant Value. ok is false when the
// expression contains a non-constant subterm (an unresolved identifier, a
// call, a field access, etc.) or when reduction is unsafe to perform ahead
// of a runtime check (division/remainder by an operand not statically known
// nonzero, an unresolved shift amount, an out-of-range slice).
func (f *Folder) Fold(id ast.ExprID) (value.Value, bool) {
	if !id.IsValid() || f.B == nil {
		return value.Value{}, false
	}
	shape := f.B.Exprs.Get(id)
	if shape == nil {
		return value.Value{}, false
	}
	switch shape.Kind {
	case ast.ExprLiteral:
		return f.foldLiteral(id)
	case ast.ExprIdent:
		return f.foldIdent(id)
	case ast.ExprUnary:
		return f.foldUnary(id)
	case ast.ExprBinary:
		return f.foldBinary(id)
	case ast.ExprAsType, ast.ExprAsConstraint:
		return f.foldPassthroughOperand(shape.Kind, id)
	case ast.ExprIf:
		return f.foldIf(id)
	case ast.ExprLet:
		return f.foldLet(id)
	default:
		return value.Value{}, false
	}
}

func (f *Folder) foldPassthroughOperand(kind ast.ExprKind, id ast.ExprID) (value.Value, bool) {
	if kind == ast.ExprAsType {
		d, _ := f.B.Exprs.AsType(id)
		return f.Fold(d.Operand)
	}
	d, _ := f.B.Exprs.AsConstraint(id)
	return f.Fold(d.Operand)
}

func (f *Folder) foldIdent(id ast.ExprID) (value.Value, bool) {
	d, ok := f.B.Exprs.Ident(id)
	if !ok || f.Consts == nil {
		return value.Value{}, false
	}
	v, ok := f.Consts[d.Name]
	return v, ok
}

func (f *Folder) foldLiteral(id ast.ExprID) (value.Value, bool) {
	d, ok := f.B.Exprs.Literal(id)
	if !ok {
		return value.Value{}, false
	}
	text := f.Str.MustLookup(d.Text)
	switch d.Kind {
	case ast.LitInteger:
		bi, err := bignum.ParseIntLiteral(text)
		if err != nil {
			return value.Value{}, false
		}
		i := value.Int{Mag: bi.Abs(), Neg: bi.Neg}
		return value.OfInt(i), true
	case ast.LitSizedInt:
		mag, width, err := parseTaggedLiteral(text, true)
		if err != nil {
			return value.Value{}, false
		}
		if width == 0 {
			width = d.Width
		}
		s, err := value.NewSInt(width, value.Int{Mag: mag})
		if err != nil {
			return value.Value{}, false
		}
		return value.OfSInt(s), true
	case ast.LitBits:
		mag, width, err := parseTaggedLiteral(text, false)
		if err != nil {
			return value.Value{}, false
		}
		if width == 0 {
			width = d.Width
		}
		return value.OfBits(value.NewBitVector(width, mag)), true
	case ast.LitMask:
		m, err := value.NewMask(text)
		if err != nil {
			return value.Value{}, false
		}
		return value.OfMask(m), true
	case ast.LitBool:
		return value.OfBool(text == "TRUE"), true
	case ast.LitString:
		return value.OfString(text), true
	default:
		return value.Value{}, false
	}
}

// parseTaggedLiteral parses both the "i<N>'<b|d|x><digits>" sized-integer
// form and the "<N>'<b|d|x><digits>" / quoted "'<bits>'" bitvector forms,
// returning the magnitude and the literal's own width (0 if the textual
// form carries none, in which case the caller falls back to the parser's
// separately-recorded ExprLiteralData.Width).
func parseTaggedLiteral(text string, sizedInt bool) (bignum.BigUint, uint32, error) {
	if strings.HasPrefix(text, "'") {
		inner := strings.Trim(text, "'")
		var bits strings.Builder
		for _, c := range inner {
			switch c {
			case '0', '1':
				bits.WriteRune(c)
			case ' ':
				continue
			default:
				return bignum.BigUint{}, 0, fmt.Errorf("bad quoted bitvector literal %q", text)
			}
		}
		mag, err := bignum.ParseDigitsBase(bits.String(), 2)
		return mag, uint32(bits.Len()), err
	}
	i := 0
	if sizedInt && i < len(text) && (text[i] == 'i' || text[i] == 'I') {
		i++
	}
	start := i
	for i < len(text) && text[i] >= '0' && text[i] <= '9' {
		i++
	}
	if i == start || i >= len(text) || text[i] != '\'' {
		return bignum.BigUint{}, 0, fmt.Errorf("bad tagged literal %q", text)
	}
	var width uint32
	for _, c := range text[start:i] {
		width = width*10 + uint32(c-'0')
	}
	i++ // the quote
	if i >= len(text) {
		return bignum.BigUint{}, 0, fmt.Errorf("bad tagged literal %q", text)
	}
	var base uint32
	switch text[i] {
	case 'b':
		base = 2
	case 'd':
		base = 10
	case 'x':
		base = 16
	default:
		return bignum.BigUint{}, 0, fmt.Errorf("bad tagged literal %q", text)
	}
	i++
	digits := strings.ReplaceAll(text[i:], "_", "")
	mag, err := bignum.ParseDigitsBase(digits, base)
	return mag, width, err
}

func (f *Folder) foldUnary(id ast.ExprID) (value.Value, bool) {
	d, ok := f.B.Exprs.Unary(id)
	if !ok {
		return value.Value{}, false
	}
	v, ok := f.Fold(d.Operand)
	if !ok {
		return value.Value{}, false
	}
	switch d.Op {
	case ast.UnaryNeg:
		switch v.Kind {
		case value.KindInt:
			return value.OfInt(v.Int.Neg_()), true
		case value.KindSInt:
			return value.OfSInt(v.SInt.Neg()), true
		}
	case ast.UnaryNot:
		if v.Kind == value.KindBool {
			return value.OfBool(!v.Bool), true
		}
	case ast.UnaryBitNot:
		if v.Kind == value.KindBits {
			return value.OfBits(v.Bits.Not()), true
		}
	}
	return value.Value{}, false
}

func (f *Folder) foldBinary(id ast.ExprID) (value.Value, bool) {
	d, ok := f.B.Exprs.Binary(id)
	if !ok {
		return value.Value{}, false
	}
	l, ok := f.Fold(d.Left)
	if !ok {
		return value.Value{}, false
	}
	r, ok := f.Fold(d.Right)
	if !ok {
		return value.Value{}, false
	}
	return FoldBinaryOp(d.Op, l, r)
}

// FoldBinaryOp folds two already-reduced operands. Exported so
// internal/entail's linear normalizer can reuse the exact same arithmetic
// semantics when it constant-folds subterms.
func FoldBinaryOp(op ast.BinaryOp, l, r value.Value) (value.Value, bool) {
	switch op {
	case ast.BinAdd:
		return arithInt(l, r, value.Int.Add)
	case ast.BinSub:
		return arithInt(l, r, value.Int.Sub)
	case ast.BinMul:
		return arithInt(l, r, value.Int.Mul)
	case ast.BinDiv:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			if r.Int.IsZero() {
				return value.Value{}, false // preserve observable failure: leave the runtime check to fire
			}
			q, _, err := l.Int.DivMod(r.Int)
			if err != nil {
				return value.Value{}, false
			}
			return value.OfInt(q), true
		}
	case ast.BinMod:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			if r.Int.IsZero() {
				return value.Value{}, false
			}
			_, m, err := l.Int.DivMod(r.Int)
			if err != nil {
				return value.Value{}, false
			}
			return value.OfInt(m), true
		}
	case ast.BinQuot, ast.BinRem:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			if r.Int.IsZero() {
				return value.Value{}, false
			}
			q, m, err := l.Int.QuotRem(r.Int)
			if err != nil {
				return value.Value{}, false
			}
			if op == ast.BinQuot {
				return value.OfInt(q), true
			}
			return value.OfInt(m), true
		}
	case ast.BinAnd:
		if l.Kind == value.KindBool && r.Kind == value.KindBool {
			return value.OfBool(l.Bool && r.Bool), true
		}
		if l.Kind == value.KindBits && r.Kind == value.KindBits {
			b, err := l.Bits.And(r.Bits)
			return value.OfBits(b), err == nil
		}
	case ast.BinOr:
		if l.Kind == value.KindBool && r.Kind == value.KindBool {
			return value.OfBool(l.Bool || r.Bool), true
		}
		if l.Kind == value.KindBits && r.Kind == value.KindBits {
			b, err := l.Bits.Or(r.Bits)
			return value.OfBits(b), err == nil
		}
	case ast.BinXor:
		if l.Kind == value.KindBool && r.Kind == value.KindBool {
			return value.OfBool(l.Bool != r.Bool), true
		}
		if l.Kind == value.KindBits && r.Kind == value.KindBits {
			b, err := l.Bits.Xor(r.Bits)
			return value.OfBits(b), err == nil
		}
	case ast.BinBitAnd:
		if l.Kind == value.KindBits && r.Kind == value.KindBits {
			b, err := l.Bits.And(r.Bits)
			return value.OfBits(b), err == nil
		}
	case ast.BinBitOr:
		if l.Kind == value.KindBits && r.Kind == value.KindBits {
			b, err := l.Bits.Or(r.Bits)
			return value.OfBits(b), err == nil
		}
	case ast.BinBitXor:
		if l.Kind == value.KindBits && r.Kind == value.KindBits {
			b, err := l.Bits.Xor(r.Bits)
			return value.OfBits(b), err == nil
		}
	case ast.BinEq:
		return value.OfBool(l.Equal(r)), true
	case ast.BinNe:
		return value.OfBool(!l.Equal(r)), true
	case ast.BinLt:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			return value.OfBool(l.Int.Cmp(r.Int) < 0), true
		}
	case ast.BinLe:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			return value.OfBool(l.Int.Cmp(r.Int) <= 0), true
		}
	case ast.BinGt:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			return value.OfBool(l.Int.Cmp(r.Int) > 0), true
		}
	case ast.BinGe:
		if l.Kind == value.KindInt && r.Kind == value.KindInt {
			return value.OfBool(l.Int.Cmp(r.Int) >= 0), true
		}
	case ast.BinIff:
		if l.Kind == value.KindBool && r.Kind == value.KindBool {
			return value.OfBool(l.Bool == r.Bool), true
		}
	case ast.BinImplies:
		if l.Kind == value.KindBool && r.Kind == value.KindBool {
			return value.OfBool(!l.Bool || r.Bool), true
		}
	}
	return value.Value{}, false
}

func arithInt(l, r value.Value, op func(value.Int, value.Int) (value.Int, error)) (value.Value, bool) {
	if l.Kind != value.KindInt || r.Kind != value.KindInt {
		return value.Value{}, false
	}
	v, err := op(l.Int, r.Int)
	if err != nil {
		return value.Value{}, false
	}
	return value.OfInt(v), true
}

func (f *Folder) foldIf(id ast.ExprID) (value.Value, bool) {
	d, ok := f.B.Exprs.If(id)
	if !ok {
		return value.Value{}, false
	}
	for _, arm := range d.Arms {
		c, ok := f.Fold(arm.Cond)
		if !ok || c.Kind != value.KindBool {
			return value.Value{}, false
		}
		if c.Bool {
			return f.Fold(arm.Then)
		}
	}
	return f.Fold(d.Else)
}

func (f *Folder) foldLet(id ast.ExprID) (value.Value, bool) {
	d, ok := f.B.Exprs.Let(id)
	if !ok {
		return value.Value{}, false
	}
	v, ok := f.Fold(d.Value)
	if !ok {
		return value.Value{}, false
	}
	saved, had := f.Consts[d.Name]
	if f.Consts == nil {
		f.Consts = map[source.StringID]value.Value{}
	}
	f.Consts[d.Name] = v
	defer func() {
		if had {
			f.Consts[d.Name] = saved
		} else {
			delete(f.Consts, d.Name)
		}
	}()
	return f.Fold(d.Body)
}
