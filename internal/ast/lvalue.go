package ast

import "asli/internal/source"

// LValueKind discriminates an assignment target. The read-side forms mirror
// the corresponding Expr variants; ReadWrite and Write only exist after
// typechecking resolves a bare identifier to a getter/setter pair.
type LValueKind uint8

const (
	LVInvalid LValueKind = iota
	LVIdent
	LVField
	LVIndex
	LVBitslice
	LVReadWrite // getter+setter pair resolved for a name used in a read-modify-write position
	LVWrite     // setter applied during a plain assignment
)

type LValue struct {
	Kind    LValueKind
	Span    source.Span
	Payload PayloadID
}

type LVIdentData struct {
	Name source.StringID
	Span source.Span
}

type LVFieldData struct {
	Base ExprID
	Name source.StringID
	Span source.Span
}

type LVIndexData struct {
	Base  ExprID
	Index ExprID
	Span  source.Span
}

type LVBitsliceData struct {
	Kind BitsliceKind
	Base ExprID
	A, B ExprID
	Span source.Span
}

type LVReadWriteData struct {
	Getter DeclID
	Setter DeclID
	Args   []ExprID
	Span   source.Span
}

type LVWriteData struct {
	Setter DeclID
	Args   []ExprID
	Value  ExprID
	Span   source.Span
}

type LValues struct {
	Arena *Arena[LValue]

	Idents     *Arena[LVIdentData]
	Fields     *Arena[LVFieldData]
	Indices    *Arena[LVIndexData]
	Bitslices  *Arena[LVBitsliceData]
	ReadWrites *Arena[LVReadWriteData]
	Writes     *Arena[LVWriteData]
}

func NewLValues(capHint uint) *LValues {
	return &LValues{
		Arena:      NewArena[LValue](capHint),
		Idents:     NewArena[LVIdentData](capHint / 2),
		Fields:     NewArena[LVFieldData](capHint / 4),
		Indices:    NewArena[LVIndexData](capHint / 4),
		Bitslices:  NewArena[LVBitsliceData](capHint / 4),
		ReadWrites: NewArena[LVReadWriteData](capHint / 8),
		Writes:     NewArena[LVWriteData](capHint / 8),
	}
}

func (l *LValues) new(kind LValueKind, span source.Span, payload PayloadID) LValueID {
	return LValueID(l.Arena.Allocate(LValue{Kind: kind, Span: span, Payload: payload}))
}

func (l *LValues) Get(id LValueID) *LValue { return l.Arena.Get(uint32(id)) }

func (l *LValues) NewIdent(name source.StringID, span source.Span) LValueID {
	p := l.Idents.Allocate(LVIdentData{Name: name, Span: span})
	return l.new(LVIdent, span, PayloadID(p))
}

func (l *LValues) Ident(id LValueID) (*LVIdentData, bool) {
	x := l.Arena.Get(uint32(id))
	if x == nil || x.Kind != LVIdent {
		return nil, false
	}
	return l.Idents.Get(uint32(x.Payload)), true
}

func (l *LValues) NewField(base ExprID, name source.StringID, span source.Span) LValueID {
	p := l.Fields.Allocate(LVFieldData{Base: base, Name: name, Span: span})
	return l.new(LVField, span, PayloadID(p))
}

func (l *LValues) Field(id LValueID) (*LVFieldData, bool) {
	x := l.Arena.Get(uint32(id))
	if x == nil || x.Kind != LVField {
		return nil, false
	}
	return l.Fields.Get(uint32(x.Payload)), true
}

func (l *LValues) NewIndex(base, index ExprID, span source.Span) LValueID {
	p := l.Indices.Allocate(LVIndexData{Base: base, Index: index, Span: span})
	return l.new(LVIndex, span, PayloadID(p))
}

func (l *LValues) Index(id LValueID) (*LVIndexData, bool) {
	x := l.Arena.Get(uint32(id))
	if x == nil || x.Kind != LVIndex {
		return nil, false
	}
	return l.Indices.Get(uint32(x.Payload)), true
}

func (l *LValues) NewBitslice(kind BitsliceKind, base, a, b ExprID, span source.Span) LValueID {
	p := l.Bitslices.Allocate(LVBitsliceData{Kind: kind, Base: base, A: a, B: b, Span: span})
	return l.new(LVBitslice, span, PayloadID(p))
}

func (l *LValues) Bitslice(id LValueID) (*LVBitsliceData, bool) {
	x := l.Arena.Get(uint32(id))
	if x == nil || x.Kind != LVBitslice {
		return nil, false
	}
	return l.Bitslices.Get(uint32(x.Payload)), true
}

func (l *LValues) NewReadWrite(getter, setter DeclID, args []ExprID, span source.Span) LValueID {
	p := l.ReadWrites.Allocate(LVReadWriteData{Getter: getter, Setter: setter, Args: append([]ExprID(nil), args...), Span: span})
	return l.new(LVReadWrite, span, PayloadID(p))
}

func (l *LValues) ReadWrite(id LValueID) (*LVReadWriteData, bool) {
	x := l.Arena.Get(uint32(id))
	if x == nil || x.Kind != LVReadWrite {
		return nil, false
	}
	return l.ReadWrites.Get(uint32(x.Payload)), true
}

func (l *LValues) NewWrite(setter DeclID, args []ExprID, value ExprID, span source.Span) LValueID {
	p := l.Writes.Allocate(LVWriteData{Setter: setter, Args: append([]ExprID(nil), args...), Value: value, Span: span})
	return l.new(LVWrite, span, PayloadID(p))
}

func (l *LValues) Write(id LValueID) (*LVWriteData, bool) {
	x := l.Arena.Get(uint32(id))
	if x == nil || x.Kind != LVWrite {
		return nil, false
	}
	return l.Writes.Get(uint32(x.Payload)), true
}
