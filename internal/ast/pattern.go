package ast

import "asli/internal/source"

// PatternKind discriminates a `when` arm's matching form.
type PatternKind uint8

const (
	PatInvalid PatternKind = iota
	PatLiteral              // a literal value
	PatConstRef              // reference to a declared constant
	PatWildcard              // `otherwise`
	PatTuple                 // (p1, p2, ...)
	PatSet                   // {p1, p2, ...} — matches any member
	PatSingle                // an arbitrary computed expression, matched by equality
	PatRange                 // lo..hi
	PatMask                  // a mask literal, matched by mask-equality
)

type Pattern struct {
	Kind    PatternKind
	Span    source.Span
	Payload PayloadID
}

type PatLiteralData struct {
	Value ExprID
	Span  source.Span
}

type PatConstRefData struct {
	Name source.StringID
	Span source.Span
}

type PatTupleData struct {
	Elems []PatternID
	Span  source.Span
}

type PatSetData struct {
	Elems []PatternID
	Span  source.Span
}

type PatSingleData struct {
	Value ExprID
	Span  source.Span
}

type PatRangeData struct {
	Lo, Hi ExprID
	Span   source.Span
}

type PatMaskData struct {
	Value ExprID
	Span  source.Span
}

type Patterns struct {
	Arena *Arena[Pattern]

	Literals  *Arena[PatLiteralData]
	ConstRefs *Arena[PatConstRefData]
	Tuples    *Arena[PatTupleData]
	Sets      *Arena[PatSetData]
	Singles   *Arena[PatSingleData]
	Ranges    *Arena[PatRangeData]
	Masks     *Arena[PatMaskData]
}

func NewPatterns(capHint uint) *Patterns {
	return &Patterns{
		Arena:     NewArena[Pattern](capHint),
		Literals:  NewArena[PatLiteralData](capHint / 2),
		ConstRefs: NewArena[PatConstRefData](capHint / 4),
		Tuples:    NewArena[PatTupleData](capHint / 8),
		Sets:      NewArena[PatSetData](capHint / 8),
		Singles:   NewArena[PatSingleData](capHint / 4),
		Ranges:    NewArena[PatRangeData](capHint / 8),
		Masks:     NewArena[PatMaskData](capHint / 8),
	}
}

func (p *Patterns) new(kind PatternKind, span source.Span, payload PayloadID) PatternID {
	return PatternID(p.Arena.Allocate(Pattern{Kind: kind, Span: span, Payload: payload}))
}

func (p *Patterns) Get(id PatternID) *Pattern { return p.Arena.Get(uint32(id)) }

func (p *Patterns) NewWildcard(span source.Span) PatternID {
	return p.new(PatWildcard, span, NoPayloadID)
}

func (p *Patterns) NewLiteral(value ExprID, span source.Span) PatternID {
	id := p.Literals.Allocate(PatLiteralData{Value: value, Span: span})
	return p.new(PatLiteral, span, PayloadID(id))
}

func (p *Patterns) Literal(id PatternID) (*PatLiteralData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatLiteral {
		return nil, false
	}
	return p.Literals.Get(uint32(pat.Payload)), true
}

func (p *Patterns) NewConstRef(name source.StringID, span source.Span) PatternID {
	id := p.ConstRefs.Allocate(PatConstRefData{Name: name, Span: span})
	return p.new(PatConstRef, span, PayloadID(id))
}

func (p *Patterns) ConstRef(id PatternID) (*PatConstRefData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatConstRef {
		return nil, false
	}
	return p.ConstRefs.Get(uint32(pat.Payload)), true
}

func (p *Patterns) NewTuple(elems []PatternID, span source.Span) PatternID {
	id := p.Tuples.Allocate(PatTupleData{Elems: append([]PatternID(nil), elems...), Span: span})
	return p.new(PatTuple, span, PayloadID(id))
}

func (p *Patterns) Tuple(id PatternID) (*PatTupleData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatTuple {
		return nil, false
	}
	return p.Tuples.Get(uint32(pat.Payload)), true
}

func (p *Patterns) NewSet(elems []PatternID, span source.Span) PatternID {
	id := p.Sets.Allocate(PatSetData{Elems: append([]PatternID(nil), elems...), Span: span})
	return p.new(PatSet, span, PayloadID(id))
}

func (p *Patterns) Set(id PatternID) (*PatSetData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatSet {
		return nil, false
	}
	return p.Sets.Get(uint32(pat.Payload)), true
}

func (p *Patterns) NewSingle(value ExprID, span source.Span) PatternID {
	id := p.Singles.Allocate(PatSingleData{Value: value, Span: span})
	return p.new(PatSingle, span, PayloadID(id))
}

func (p *Patterns) Single(id PatternID) (*PatSingleData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatSingle {
		return nil, false
	}
	return p.Singles.Get(uint32(pat.Payload)), true
}

func (p *Patterns) NewRange(lo, hi ExprID, span source.Span) PatternID {
	id := p.Ranges.Allocate(PatRangeData{Lo: lo, Hi: hi, Span: span})
	return p.new(PatRange, span, PayloadID(id))
}

func (p *Patterns) Range(id PatternID) (*PatRangeData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatRange {
		return nil, false
	}
	return p.Ranges.Get(uint32(pat.Payload)), true
}

func (p *Patterns) NewMask(value ExprID, span source.Span) PatternID {
	id := p.Masks.Allocate(PatMaskData{Value: value, Span: span})
	return p.new(PatMask, span, PayloadID(id))
}

func (p *Patterns) Mask(id PatternID) (*PatMaskData, bool) {
	pat := p.Arena.Get(uint32(id))
	if pat == nil || pat.Kind != PatMask {
		return nil, false
	}
	return p.Masks.Get(uint32(pat.Payload)), true
}
