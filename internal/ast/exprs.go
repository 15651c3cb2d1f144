package ast

import "asli/internal/source"

// Exprs aggregates the Expr shape arena with one Data arena per expression
// kind. Each kind gets a NewXxx constructor that allocates the payload and
// the shape, and an Xxx accessor that checks the shape's Kind before
// indexing into the right Data arena.
type Exprs struct {
	Arena *Arena[Expr]

	Literals          *Arena[ExprLiteralData]
	Idents            *Arena[ExprIdentData]
	Fields            *Arena[ExprFieldData]
	MultiFields       *Arena[ExprMultiFieldData]
	Indices           *Arena[ExprIndexData]
	Bitslices         *Arena[ExprBitsliceData]
	RecordConstructs  *Arena[ExprRecordConstructData]
	Withs             *Arena[ExprWithData]
	Ifs               *Arena[ExprIfData]
	Lets              *Arena[ExprLetData]
	AssertIns         *Arena[ExprAssertInData]
	CallsUntyped      *Arena[ExprCallUntypedData]
	CallsTyped        *Arena[ExprCallTypedData]
	Tuples            *Arena[ExprTupleData]
	Concats           *Arena[ExprConcatData]
	Unaries           *Arena[ExprUnaryData]
	Binaries          *Arena[ExprBinaryData]
	AsConstraints     *Arena[ExprAsConstraintData]
	AsTypes           *Arena[ExprAsTypeData]
	ArrayInits        *Arena[ExprArrayInitData]
	UnknownOfTypes    *Arena[ExprUnknownOfTypeData]
	PatternIns        *Arena[ExprPatternInData]
}

func NewExprs(capHint uint) *Exprs {
	return &Exprs{
		Arena: NewArena[Expr](capHint),

		Literals:         NewArena[ExprLiteralData](capHint / 2),
		Idents:           NewArena[ExprIdentData](capHint / 2),
		Fields:           NewArena[ExprFieldData](capHint / 4),
		MultiFields:      NewArena[ExprMultiFieldData](capHint / 8),
		Indices:          NewArena[ExprIndexData](capHint / 4),
		Bitslices:        NewArena[ExprBitsliceData](capHint / 4),
		RecordConstructs: NewArena[ExprRecordConstructData](capHint / 8),
		Withs:            NewArena[ExprWithData](capHint / 8),
		Ifs:              NewArena[ExprIfData](capHint / 8),
		Lets:             NewArena[ExprLetData](capHint / 8),
		AssertIns:        NewArena[ExprAssertInData](capHint / 8),
		CallsUntyped:     NewArena[ExprCallUntypedData](capHint / 4),
		CallsTyped:       NewArena[ExprCallTypedData](capHint / 4),
		Tuples:           NewArena[ExprTupleData](capHint / 8),
		Concats:          NewArena[ExprConcatData](capHint / 8),
		Unaries:          NewArena[ExprUnaryData](capHint / 4),
		Binaries:         NewArena[ExprBinaryData](capHint / 2),
		AsConstraints:    NewArena[ExprAsConstraintData](capHint / 8),
		AsTypes:          NewArena[ExprAsTypeData](capHint / 8),
		ArrayInits:       NewArena[ExprArrayInitData](capHint / 8),
		UnknownOfTypes:   NewArena[ExprUnknownOfTypeData](capHint / 16),
		PatternIns:       NewArena[ExprPatternInData](capHint / 16),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload PayloadID) ExprID {
	return ExprID(e.Arena.Allocate(Expr{Kind: kind, Span: span, Payload: payload}))
}

func (e *Exprs) Get(id ExprID) *Expr { return e.Arena.Get(uint32(id)) }

func (e *Exprs) NewLiteral(kind ExprLitKind, text source.StringID, width uint32, span source.Span) ExprID {
	p := e.Literals.Allocate(ExprLiteralData{Kind: kind, Text: text, Width: width, Span: span})
	return e.new(ExprLiteral, span, PayloadID(p))
}

func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprLiteral {
		return nil, false
	}
	return e.Literals.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewIdent(name source.StringID, span source.Span) ExprID {
	p := e.Idents.Allocate(ExprIdentData{Name: name, Span: span})
	return e.new(ExprIdent, span, PayloadID(p))
}

func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprIdent {
		return nil, false
	}
	return e.Idents.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewField(base ExprID, name source.StringID, span source.Span) ExprID {
	p := e.Fields.Allocate(ExprFieldData{Base: base, Name: name, Span: span})
	return e.new(ExprField, span, PayloadID(p))
}

func (e *Exprs) Field(id ExprID) (*ExprFieldData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprField {
		return nil, false
	}
	return e.Fields.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewMultiField(base ExprID, names []source.StringID, span source.Span) ExprID {
	p := e.MultiFields.Allocate(ExprMultiFieldData{Base: base, Names: append([]source.StringID(nil), names...), Span: span})
	return e.new(ExprMultiField, span, PayloadID(p))
}

func (e *Exprs) MultiField(id ExprID) (*ExprMultiFieldData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprMultiField {
		return nil, false
	}
	return e.MultiFields.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewIndex(base, index ExprID, span source.Span) ExprID {
	p := e.Indices.Allocate(ExprIndexData{Base: base, Index: index, Span: span})
	return e.new(ExprIndex, span, PayloadID(p))
}

func (e *Exprs) Index(id ExprID) (*ExprIndexData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprIndex {
		return nil, false
	}
	return e.Indices.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewBitslice(kind BitsliceKind, base, a, b ExprID, span source.Span) ExprID {
	p := e.Bitslices.Allocate(ExprBitsliceData{Kind: kind, Base: base, A: a, B: b, Span: span})
	return e.new(ExprBitslice, span, PayloadID(p))
}

func (e *Exprs) Bitslice(id ExprID) (*ExprBitsliceData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprBitslice {
		return nil, false
	}
	return e.Bitslices.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewRecordConstruct(typ TypeID, fields []RecordFieldInit, span source.Span) ExprID {
	p := e.RecordConstructs.Allocate(ExprRecordConstructData{Type: typ, Fields: append([]RecordFieldInit(nil), fields...), Span: span})
	return e.new(ExprRecordConstruct, span, PayloadID(p))
}

func (e *Exprs) RecordConstruct(id ExprID) (*ExprRecordConstructData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprRecordConstruct {
		return nil, false
	}
	return e.RecordConstructs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewWith(base ExprID, changes []ExprWithChange, span source.Span) ExprID {
	p := e.Withs.Allocate(ExprWithData{Base: base, Changes: append([]ExprWithChange(nil), changes...), Span: span})
	return e.new(ExprWith, span, PayloadID(p))
}

func (e *Exprs) With(id ExprID) (*ExprWithData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprWith {
		return nil, false
	}
	return e.Withs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewIf(arms []ExprIfArm, elseExpr ExprID, span source.Span) ExprID {
	p := e.Ifs.Allocate(ExprIfData{Arms: append([]ExprIfArm(nil), arms...), Else: elseExpr, Span: span})
	return e.new(ExprIf, span, PayloadID(p))
}

func (e *Exprs) If(id ExprID) (*ExprIfData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprIf {
		return nil, false
	}
	return e.Ifs.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewLet(name source.StringID, typ TypeID, value, body ExprID, span source.Span) ExprID {
	p := e.Lets.Allocate(ExprLetData{Name: name, Type: typ, Value: value, Body: body, Span: span})
	return e.new(ExprLet, span, PayloadID(p))
}

func (e *Exprs) Let(id ExprID) (*ExprLetData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprLet {
		return nil, false
	}
	return e.Lets.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewAssertIn(value, set ExprID, span source.Span) ExprID {
	p := e.AssertIns.Allocate(ExprAssertInData{Value: value, Set: set, Span: span})
	return e.new(ExprAssertIn, span, PayloadID(p))
}

func (e *Exprs) AssertIn(id ExprID) (*ExprAssertInData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprAssertIn {
		return nil, false
	}
	return e.AssertIns.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewCallUntyped(callee source.StringID, args []CallArg, throws ThrowsTag, span source.Span) ExprID {
	p := e.CallsUntyped.Allocate(ExprCallUntypedData{Callee: callee, Args: append([]CallArg(nil), args...), Throws: throws, Span: span})
	return e.new(ExprCallUntyped, span, PayloadID(p))
}

func (e *Exprs) CallUntyped(id ExprID) (*ExprCallUntypedData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprCallUntyped {
		return nil, false
	}
	return e.CallsUntyped.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewCallTyped(callee DeclID, params, args []ExprID, throws ThrowsTag, span source.Span) ExprID {
	p := e.CallsTyped.Allocate(ExprCallTypedData{
		Callee: callee,
		Params: append([]ExprID(nil), params...),
		Args:   append([]ExprID(nil), args...),
		Throws: throws,
		Span:   span,
	})
	return e.new(ExprCallTyped, span, PayloadID(p))
}

func (e *Exprs) CallTyped(id ExprID) (*ExprCallTypedData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprCallTyped {
		return nil, false
	}
	return e.CallsTyped.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewTuple(elems []ExprID, span source.Span) ExprID {
	p := e.Tuples.Allocate(ExprTupleData{Elems: append([]ExprID(nil), elems...), Span: span})
	return e.new(ExprTuple, span, PayloadID(p))
}

func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprTuple {
		return nil, false
	}
	return e.Tuples.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewConcat(elems, widths []ExprID, span source.Span) ExprID {
	p := e.Concats.Allocate(ExprConcatData{Elems: append([]ExprID(nil), elems...), Widths: append([]ExprID(nil), widths...), Span: span})
	return e.new(ExprConcat, span, PayloadID(p))
}

func (e *Exprs) Concat(id ExprID) (*ExprConcatData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprConcat {
		return nil, false
	}
	return e.Concats.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewUnary(op UnaryOp, operand ExprID, span source.Span) ExprID {
	p := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand, Span: span})
	return e.new(ExprUnary, span, PayloadID(p))
}

func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprUnary {
		return nil, false
	}
	return e.Unaries.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewBinary(op BinaryOp, left, right ExprID, span source.Span) ExprID {
	p := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right, Span: span})
	return e.new(ExprBinary, span, PayloadID(p))
}

func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprBinary {
		return nil, false
	}
	return e.Binaries.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewAsConstraint(operand ExprID, constraint TypeID, span source.Span) ExprID {
	p := e.AsConstraints.Allocate(ExprAsConstraintData{Operand: operand, Constraint: constraint, Span: span})
	return e.new(ExprAsConstraint, span, PayloadID(p))
}

func (e *Exprs) AsConstraint(id ExprID) (*ExprAsConstraintData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprAsConstraint {
		return nil, false
	}
	return e.AsConstraints.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewAsType(operand ExprID, typ TypeID, span source.Span) ExprID {
	p := e.AsTypes.Allocate(ExprAsTypeData{Operand: operand, Type: typ, Span: span})
	return e.new(ExprAsType, span, PayloadID(p))
}

func (e *Exprs) AsType(id ExprID) (*ExprAsTypeData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprAsType {
		return nil, false
	}
	return e.AsTypes.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewArrayInitList(elems []ExprID, span source.Span) ExprID {
	p := e.ArrayInits.Allocate(ExprArrayInitData{Kind: ArrayInitList, Elems: append([]ExprID(nil), elems...), Span: span})
	return e.new(ExprArrayInit, span, PayloadID(p))
}

func (e *Exprs) NewArrayInitFill(fill, size ExprID, span source.Span) ExprID {
	p := e.ArrayInits.Allocate(ExprArrayInitData{Kind: ArrayInitFill, Fill: fill, Size: size, Span: span})
	return e.new(ExprArrayInit, span, PayloadID(p))
}

func (e *Exprs) ArrayInit(id ExprID) (*ExprArrayInitData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprArrayInit {
		return nil, false
	}
	return e.ArrayInits.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewUnknownOfType(typ TypeID, span source.Span) ExprID {
	p := e.UnknownOfTypes.Allocate(ExprUnknownOfTypeData{Type: typ, Span: span})
	return e.new(ExprUnknownOfType, span, PayloadID(p))
}

func (e *Exprs) UnknownOfType(id ExprID) (*ExprUnknownOfTypeData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprUnknownOfType {
		return nil, false
	}
	return e.UnknownOfTypes.Get(uint32(x.Payload)), true
}

func (e *Exprs) NewPatternIn(value ExprID, pattern PatternID, span source.Span) ExprID {
	p := e.PatternIns.Allocate(ExprPatternInData{Value: value, Pattern: pattern, Span: span})
	return e.new(ExprPatternIn, span, PayloadID(p))
}

func (e *Exprs) PatternIn(id ExprID) (*ExprPatternInData, bool) {
	x := e.Arena.Get(uint32(id))
	if x == nil || x.Kind != ExprPatternIn {
		return nil, false
	}
	return e.PatternIns.Get(uint32(x.Payload)), true
}
