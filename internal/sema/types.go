package sema

import (
	"fmt"

	"asli/internal/ast"
	"asli/internal/source"
)

// TyKind discriminates the resolved semantic type of a checked expression,
// distinct from ast.TypeExprKind: named types are resolved to the
// declaration they name, and every array/tuple element is itself a Ty
// rather than an unresolved ast.TypeID.
type TyKind uint8

const (
	TyInvalid TyKind = iota
	TyInt
	TySInt
	TyBits
	TyBool
	TyString
	TyRAM
	TyNothing // the "no value" result type of a procedure call
	TyArray
	TyTuple
	TyRecord
	TyException
	TyEnum
)

func (k TyKind) String() string {
	switch k {
	case TyInt:
		return "integer"
	case TySInt:
		return "sintN"
	case TyBits:
		return "bits"
	case TyBool:
		return "boolean"
	case TyString:
		return "string"
	case TyRAM:
		return "RAM"
	case TyNothing:
		return "nothing"
	case TyArray:
		return "array"
	case TyTuple:
		return "tuple"
	case TyRecord:
		return "record"
	case TyException:
		return "exception"
	case TyEnum:
		return "enumeration"
	default:
		return "invalid"
	}
}

// Ty is one checked expression's or binding's semantic type. Only the
// fields relevant to Kind are populated; the rest are zero.
type Ty struct {
	Kind TyKind

	// TyInt: the refinement constraint set; nil/empty means unconstrained.
	Constraints []ast.IntConstraint

	// TySInt, TyBits: the width expression (may be non-constant until the
	// integer-bounds lowering resolves it against a monomorphized callee).
	Width ast.ExprID

	// TyArray
	Elem *Ty
	Size ast.ExprID

	// TyTuple
	Elems []Ty

	// TyRecord, TyException, TyEnum: the declaration this type names.
	Name source.StringID
	Decl ast.DeclID
}

func Invalid() Ty       { return Ty{Kind: TyInvalid} }
func Bool() Ty          { return Ty{Kind: TyBool} }
func String_() Ty       { return Ty{Kind: TyString} }
func RAM() Ty           { return Ty{Kind: TyRAM} }
func Nothing() Ty       { return Ty{Kind: TyNothing} }
func UnconstrainedInt() Ty { return Ty{Kind: TyInt} }

func IntWith(cs []ast.IntConstraint) Ty {
	return Ty{Kind: TyInt, Constraints: append([]ast.IntConstraint(nil), cs...)}
}

func SIntOf(width ast.ExprID) Ty { return Ty{Kind: TySInt, Width: width} }
func BitsOf(width ast.ExprID) Ty { return Ty{Kind: TyBits, Width: width} }

func (t Ty) IsValid() bool { return t.Kind != TyInvalid }

// IsNumeric reports whether t is one of ASL's three integer representations.
func (t Ty) IsNumeric() bool {
	return t.Kind == TyInt || t.Kind == TySInt || t.Kind == TyBits
}

func (t Ty) String() string {
	switch t.Kind {
	case TySInt:
		return fmt.Sprintf("i<%v>", t.Width)
	case TyBits:
		return fmt.Sprintf("bits(%v)", t.Width)
	case TyArray:
		if t.Elem != nil {
			return fmt.Sprintf("array[%s]", t.Elem.String())
		}
		return "array"
	case TyTuple:
		return fmt.Sprintf("(%d-tuple)", len(t.Elems))
	case TyRecord, TyException, TyEnum:
		return t.Kind.String()
	default:
		return t.Kind.String()
	}
}
