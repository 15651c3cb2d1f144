// Package value implements ASL's primitive value domain: arbitrary-precision
// integers, bounded sintN integers, bitvectors, masks, strings, and the
// aggregate values (tuple/array/record/enum) built from them, together with
// the arithmetic used by constant folding and by the C-family emitter.
package value

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"asli/internal/ident"
)

// Kind discriminates the Value sum type.
type Kind uint8

const (
	KindInt Kind = iota
	KindSInt
	KindBits
	KindMask
	KindString
	KindBool
	KindTuple
	KindArray
	KindRecord
	KindEnum
)

// Value is ASL's runtime/constant-folding value: a sum over the primitive
// kinds plus the aggregates (tuple, array, record, enum member) built on top
// of them.
type Value struct {
	Kind Kind

	Int    Int
	SInt   SInt
	Bits   BitVector
	Mask   Mask
	Str    string
	Bool   bool
	Elems  []Value            // Tuple, Array
	Fields map[string]Value   // Record: field name -> value
	Order  []string           // Record: declaration order of Fields' keys
	Enum   ident.Ident        // Enum: the member identifier
	EnumTy ident.Ident        // Enum: the owning enumeration type
}

func OfInt(i Int) Value    { return Value{Kind: KindInt, Int: i} }
func OfSInt(s SInt) Value  { return Value{Kind: KindSInt, SInt: s} }
func OfBits(b BitVector) Value { return Value{Kind: KindBits, Bits: b} }
func OfMask(m Mask) Value  { return Value{Kind: KindMask, Mask: m} }
// OfString normalizes to NFC so two source spellings of the same text
// compare equal as constants and print identically.
func OfString(s string) Value { return Value{Kind: KindString, Str: norm.NFC.String(s)} }
func OfBool(b bool) Value  { return Value{Kind: KindBool, Bool: b} }

func OfTuple(elems []Value) Value { return Value{Kind: KindTuple, Elems: elems} }
func OfArray(elems []Value) Value { return Value{Kind: KindArray, Elems: elems} }

func OfRecord(order []string, fields map[string]Value) Value {
	return Value{Kind: KindRecord, Order: order, Fields: fields}
}

func OfEnum(ty, member ident.Ident) Value {
	return Value{Kind: KindEnum, EnumTy: ty, Enum: member}
}

// Equal reports structural equality between two values of the same Kind.
// Comparing values of different kinds is always false (the typechecker never
// lets that happen; the emitter relies on this for case-lowering guards).
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case KindInt:
		return v.Int.Cmp(o.Int) == 0
	case KindSInt:
		return v.SInt.Equal(o.SInt)
	case KindBits:
		return v.Bits.Equal(o.Bits)
	case KindMask:
		return v.Mask.EqualUnderMask(o.Mask)
	case KindString:
		return v.Str == o.Str
	case KindBool:
		return v.Bool == o.Bool
	case KindTuple, KindArray:
		if len(v.Elems) != len(o.Elems) {
			return false
		}
		for i := range v.Elems {
			if !v.Elems[i].Equal(o.Elems[i]) {
				return false
			}
		}
		return true
	case KindRecord:
		if len(v.Order) != len(o.Order) {
			return false
		}
		for _, name := range v.Order {
			a, ok1 := v.Fields[name]
			b, ok2 := o.Fields[name]
			if ok1 != ok2 || !a.Equal(b) {
				return false
			}
		}
		return true
	case KindEnum:
		return v.EnumTy.Equal(o.EnumTy) && v.Enum.Equal(o.Enum)
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindInt:
		return v.Int.String()
	case KindSInt:
		return v.SInt.String()
	case KindBits:
		return v.Bits.String()
	case KindMask:
		return "'" + v.Mask.String() + "'"
	case KindString:
		return fmt.Sprintf("%q", v.Str)
	case KindBool:
		if v.Bool {
			return "TRUE"
		}
		return "FALSE"
	case KindTuple:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "(" + strings.Join(parts, ", ") + ")"
	case KindArray:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindRecord:
		parts := make([]string, 0, len(v.Order))
		for _, name := range v.Order {
			parts = append(parts, name+"="+v.Fields[name].String())
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case KindEnum:
		return "<enum>"
	default:
		return "<invalid value>"
	}
}
