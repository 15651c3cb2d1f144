package ast

import "asli/internal/source"

// TypeExprKind discriminates the shape stored in a Type node's Payload.
type TypeExprKind uint8

const (
	TyInvalid TypeExprKind = iota
	TyIdent                // named type: a record, exception record, enumeration or abbreviation, optionally parameterised
	TyInteger               // integer {constraint-set}; empty set means unconstrained
	TySizedInt              // i<width>, aka sintN
	TyBits                  // bits(width), aka bitvector of width
	TyArray                 // array of elem, sized
	TyTuple                 // pre-lowering tuple type (eliminated by the Tuple elimination pass)
	TyTypeOf                // typeof(expr)
)

func (k TypeExprKind) String() string {
	switch k {
	case TyIdent:
		return "ident"
	case TyInteger:
		return "integer"
	case TySizedInt:
		return "sized-int"
	case TyBits:
		return "bits"
	case TyArray:
		return "array"
	case TyTuple:
		return "tuple"
	case TyTypeOf:
		return "typeof"
	default:
		return "invalid"
	}
}

// Type is the lean shape stored in the Types arena; the Payload indexes the
// per-kind Data arena that holds the variant's actual fields.
type Type struct {
	Kind    TypeExprKind
	Span    source.Span
	Payload PayloadID
}

// IntConstraintKind discriminates one element of an integer constraint set.
type IntConstraintKind uint8

const (
	ConstraintRange IntConstraintKind = iota // [lo, hi]
	ConstraintSingle                          // {v}
)

// IntConstraint is one element of the constraint set attached to an
// `integer {...}` type; the set is the union of its elements.
type IntConstraint struct {
	Kind IntConstraintKind
	Lo   ExprID // used by ConstraintRange
	Hi   ExprID // used by ConstraintRange
	Val  ExprID // used by ConstraintSingle
}

type TyIdentData struct {
	Name source.StringID
	// Args are the parameterisation arguments for a parameterised record
	// type, e.g. the (e1,e2) in `R(e1,e2)`. Empty for non-parameterised types.
	Args []ExprID
	Span source.Span
}

type TyIntegerData struct {
	Constraints []IntConstraint
	Span        source.Span
}

type TySizedIntData struct {
	Width ExprID
	Span  source.Span
}

type TyBitsData struct {
	Width ExprID
	Span  source.Span
}

type TyArrayData struct {
	Elem TypeID
	Size ExprID
	Span source.Span
}

type TyTupleData struct {
	Elems []TypeID
	Span  source.Span
}

type TyTypeOfData struct {
	Expr ExprID
	Span source.Span
}

// Types aggregates the Type shape arena with one Data arena per variant kind,
// following the same arena-plus-payload layout used for expressions and
// statements throughout this package.
type Types struct {
	Arena *Arena[Type]

	Idents    *Arena[TyIdentData]
	Integers  *Arena[TyIntegerData]
	SizedInts *Arena[TySizedIntData]
	Bits      *Arena[TyBitsData]
	Arrays    *Arena[TyArrayData]
	Tuples    *Arena[TyTupleData]
	TypeOfs   *Arena[TyTypeOfData]
}

func NewTypes(capHint uint) *Types {
	return &Types{
		Arena:     NewArena[Type](capHint),
		Idents:    NewArena[TyIdentData](capHint),
		Integers:  NewArena[TyIntegerData](capHint / 4),
		SizedInts: NewArena[TySizedIntData](capHint / 4),
		Bits:      NewArena[TyBitsData](capHint / 4),
		Arrays:    NewArena[TyArrayData](capHint / 8),
		Tuples:    NewArena[TyTupleData](capHint / 8),
		TypeOfs:   NewArena[TyTypeOfData](capHint / 8),
	}
}

func (t *Types) new(kind TypeExprKind, span source.Span, payload PayloadID) TypeID {
	return TypeID(t.Arena.Allocate(Type{Kind: kind, Span: span, Payload: payload}))
}

func (t *Types) Get(id TypeID) *Type { return t.Arena.Get(uint32(id)) }

func (t *Types) NewIdent(name source.StringID, args []ExprID, span source.Span) TypeID {
	p := t.Idents.Allocate(TyIdentData{Name: name, Args: append([]ExprID(nil), args...), Span: span})
	return t.new(TyIdent, span, PayloadID(p))
}

func (t *Types) Ident(id TypeID) (*TyIdentData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TyIdent {
		return nil, false
	}
	return t.Idents.Get(uint32(ty.Payload)), true
}

func (t *Types) NewInteger(constraints []IntConstraint, span source.Span) TypeID {
	p := t.Integers.Allocate(TyIntegerData{Constraints: append([]IntConstraint(nil), constraints...), Span: span})
	return t.new(TyInteger, span, PayloadID(p))
}

func (t *Types) Integer(id TypeID) (*TyIntegerData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TyInteger {
		return nil, false
	}
	return t.Integers.Get(uint32(ty.Payload)), true
}

func (t *Types) NewSizedInt(width ExprID, span source.Span) TypeID {
	p := t.SizedInts.Allocate(TySizedIntData{Width: width, Span: span})
	return t.new(TySizedInt, span, PayloadID(p))
}

func (t *Types) SizedInt(id TypeID) (*TySizedIntData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TySizedInt {
		return nil, false
	}
	return t.SizedInts.Get(uint32(ty.Payload)), true
}

func (t *Types) NewBits(width ExprID, span source.Span) TypeID {
	p := t.Bits.Allocate(TyBitsData{Width: width, Span: span})
	return t.new(TyBits, span, PayloadID(p))
}

func (t *Types) Bits_(id TypeID) (*TyBitsData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TyBits {
		return nil, false
	}
	return t.Bits.Get(uint32(ty.Payload)), true
}

func (t *Types) NewArray(elem TypeID, size ExprID, span source.Span) TypeID {
	p := t.Arrays.Allocate(TyArrayData{Elem: elem, Size: size, Span: span})
	return t.new(TyArray, span, PayloadID(p))
}

func (t *Types) Array(id TypeID) (*TyArrayData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TyArray {
		return nil, false
	}
	return t.Arrays.Get(uint32(ty.Payload)), true
}

func (t *Types) NewTuple(elems []TypeID, span source.Span) TypeID {
	p := t.Tuples.Allocate(TyTupleData{Elems: append([]TypeID(nil), elems...), Span: span})
	return t.new(TyTuple, span, PayloadID(p))
}

func (t *Types) Tuple(id TypeID) (*TyTupleData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TyTuple {
		return nil, false
	}
	return t.Tuples.Get(uint32(ty.Payload)), true
}

func (t *Types) NewTypeOf(expr ExprID, span source.Span) TypeID {
	p := t.TypeOfs.Allocate(TyTypeOfData{Expr: expr, Span: span})
	return t.new(TyTypeOf, span, PayloadID(p))
}

func (t *Types) TypeOf(id TypeID) (*TyTypeOfData, bool) {
	ty := t.Arena.Get(uint32(id))
	if ty == nil || ty.Kind != TyTypeOf {
		return nil, false
	}
	return t.TypeOfs.Get(uint32(ty.Payload)), true
}
