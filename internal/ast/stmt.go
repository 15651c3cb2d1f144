package ast

import "asli/internal/source"

// StmtKind discriminates the shape stored in a statement node's Payload.
type StmtKind uint8

const (
	StmtInvalid StmtKind = iota
	StmtBlock
	StmtVarDecl   // let/var/constant/config, optionally tuple- or bittuple-shaped
	StmtAssign
	StmtCallExpr   // an untyped or typed call used in procedure position
	StmtReturn
	StmtAssert
	StmtThrow
	StmtTryCatch
	StmtIf
	StmtCase
	StmtForTo // ascending or descending, discriminated by Descending
	StmtWhile
	StmtRepeatUntil
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

type StmtBlockData struct {
	Stmts []StmtID
	Span  source.Span
}

// VarDeclShape discriminates a binding's left-hand shape.
type VarDeclShape uint8

const (
	VarDeclSingle   VarDeclShape = iota // let n : T = v
	VarDeclTuple                        // let (n1, n2) = v
	VarDeclBitTuple                     // let (n1 @ n2 @ ...) = v  (bitvector concatenation pattern)
)

// VarDeclBinding discriminates the declaring keyword, which fixes mutability
// and configurability.
type VarDeclBinding uint8

const (
	BindingLet      VarDeclBinding = iota // immutable local
	BindingVar                            // mutable local
	BindingConstant                       // immutable global
	BindingConfig                         // session-configurable global constant
)

type StmtVarDeclData struct {
	Binding VarDeclBinding
	Shape   VarDeclShape
	Names   []source.StringID // one entry for Single, N entries for Tuple/BitTuple
	Type    TypeID             // NoTypeID when omitted and inferred from Init
	Init    ExprID             // NoExprID when there is no initializer
	Span    source.Span
}

type StmtAssignData struct {
	Target LValueID
	Value  ExprID
	Span   source.Span
}

type StmtCallExprData struct {
	Call ExprID // an ExprCallUntyped or ExprCallTyped node used as a statement
	Span source.Span
}

type StmtReturnData struct {
	Value    ExprID // NoExprID for a unit return
	HasValue bool
	Span     source.Span
}

type StmtAssertData struct {
	Cond    ExprID
	Message source.StringID // NoStringID when absent
	Span    source.Span
}

type StmtThrowData struct {
	Exception ExprID // a record-construction expression naming the exception
	Span      source.Span
}

type CatchArm struct {
	ExceptionType TypeID
	Binder        source.StringID // NoStringID when the payload is not bound
	Body          StmtID
	Span          source.Span
}

type StmtTryCatchData struct {
	Body    StmtID
	Arms    []CatchArm
	Default StmtID // NoStmtID when there is no default arm
	Span    source.Span
}

type IfArm struct {
	Cond ExprID
	Then StmtID
	Span source.Span
}

type StmtIfData struct {
	Arms []IfArm
	Else StmtID // NoStmtID when there is no else branch
	Span source.Span
}

type CaseArm struct {
	// Exactly one of Type/Pattern is valid, per the alternative's form: a
	// type test, or a matching pattern (literal, constant, tuple, set,
	// range, mask, computed expression).
	Type    TypeID
	Pattern PatternID
	Body    StmtID
	Span    source.Span
}

type StmtCaseData struct {
	Discriminant ExprID
	Arms         []CaseArm
	Default      StmtID // NoStmtID when there is no default arm
	Span         source.Span
}

type StmtForToData struct {
	Var        source.StringID
	Lo, Hi     ExprID
	Descending bool
	Body       StmtID
	Span       source.Span
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
	Span source.Span
}

type StmtRepeatUntilData struct {
	Body StmtID
	Cond ExprID
	Span source.Span
}

type Stmts struct {
	Arena *Arena[Stmt]

	Blocks       *Arena[StmtBlockData]
	VarDecls     *Arena[StmtVarDeclData]
	Assigns      *Arena[StmtAssignData]
	CallExprs    *Arena[StmtCallExprData]
	Returns      *Arena[StmtReturnData]
	Asserts      *Arena[StmtAssertData]
	Throws       *Arena[StmtThrowData]
	TryCatches   *Arena[StmtTryCatchData]
	Ifs          *Arena[StmtIfData]
	Cases        *Arena[StmtCaseData]
	ForTos       *Arena[StmtForToData]
	Whiles       *Arena[StmtWhileData]
	RepeatUntils *Arena[StmtRepeatUntilData]
}

func NewStmts(capHint uint) *Stmts {
	return &Stmts{
		Arena:        NewArena[Stmt](capHint),
		Blocks:       NewArena[StmtBlockData](capHint / 4),
		VarDecls:     NewArena[StmtVarDeclData](capHint / 2),
		Assigns:      NewArena[StmtAssignData](capHint / 2),
		CallExprs:    NewArena[StmtCallExprData](capHint / 2),
		Returns:      NewArena[StmtReturnData](capHint / 4),
		Asserts:      NewArena[StmtAssertData](capHint / 8),
		Throws:       NewArena[StmtThrowData](capHint / 8),
		TryCatches:   NewArena[StmtTryCatchData](capHint / 8),
		Ifs:          NewArena[StmtIfData](capHint / 4),
		Cases:        NewArena[StmtCaseData](capHint / 8),
		ForTos:       NewArena[StmtForToData](capHint / 8),
		Whiles:       NewArena[StmtWhileData](capHint / 8),
		RepeatUntils: NewArena[StmtRepeatUntilData](capHint / 16),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload PayloadID) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{Kind: kind, Span: span, Payload: payload}))
}

func (s *Stmts) Get(id StmtID) *Stmt { return s.Arena.Get(uint32(id)) }

func (s *Stmts) NewBlock(stmts []StmtID, span source.Span) StmtID {
	p := s.Blocks.Allocate(StmtBlockData{Stmts: append([]StmtID(nil), stmts...), Span: span})
	return s.new(StmtBlock, span, PayloadID(p))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtBlock {
		return nil, false
	}
	return s.Blocks.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewVarDecl(binding VarDeclBinding, shape VarDeclShape, names []source.StringID, typ TypeID, init ExprID, span source.Span) StmtID {
	p := s.VarDecls.Allocate(StmtVarDeclData{Binding: binding, Shape: shape, Names: append([]source.StringID(nil), names...), Type: typ, Init: init, Span: span})
	return s.new(StmtVarDecl, span, PayloadID(p))
}

func (s *Stmts) VarDecl(id StmtID) (*StmtVarDeclData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtVarDecl {
		return nil, false
	}
	return s.VarDecls.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewAssign(target LValueID, value ExprID, span source.Span) StmtID {
	p := s.Assigns.Allocate(StmtAssignData{Target: target, Value: value, Span: span})
	return s.new(StmtAssign, span, PayloadID(p))
}

func (s *Stmts) Assign(id StmtID) (*StmtAssignData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtAssign {
		return nil, false
	}
	return s.Assigns.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewCallExpr(call ExprID, span source.Span) StmtID {
	p := s.CallExprs.Allocate(StmtCallExprData{Call: call, Span: span})
	return s.new(StmtCallExpr, span, PayloadID(p))
}

func (s *Stmts) CallExpr(id StmtID) (*StmtCallExprData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtCallExpr {
		return nil, false
	}
	return s.CallExprs.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewReturn(value ExprID, hasValue bool, span source.Span) StmtID {
	p := s.Returns.Allocate(StmtReturnData{Value: value, HasValue: hasValue, Span: span})
	return s.new(StmtReturn, span, PayloadID(p))
}

func (s *Stmts) Return(id StmtID) (*StmtReturnData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtReturn {
		return nil, false
	}
	return s.Returns.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewAssert(cond ExprID, message source.StringID, span source.Span) StmtID {
	p := s.Asserts.Allocate(StmtAssertData{Cond: cond, Message: message, Span: span})
	return s.new(StmtAssert, span, PayloadID(p))
}

func (s *Stmts) Assert(id StmtID) (*StmtAssertData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtAssert {
		return nil, false
	}
	return s.Asserts.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewThrow(exception ExprID, span source.Span) StmtID {
	p := s.Throws.Allocate(StmtThrowData{Exception: exception, Span: span})
	return s.new(StmtThrow, span, PayloadID(p))
}

func (s *Stmts) Throw(id StmtID) (*StmtThrowData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtThrow {
		return nil, false
	}
	return s.Throws.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewTryCatch(body StmtID, arms []CatchArm, def StmtID, span source.Span) StmtID {
	p := s.TryCatches.Allocate(StmtTryCatchData{Body: body, Arms: append([]CatchArm(nil), arms...), Default: def, Span: span})
	return s.new(StmtTryCatch, span, PayloadID(p))
}

func (s *Stmts) TryCatch(id StmtID) (*StmtTryCatchData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtTryCatch {
		return nil, false
	}
	return s.TryCatches.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewIf(arms []IfArm, elseStmt StmtID, span source.Span) StmtID {
	p := s.Ifs.Allocate(StmtIfData{Arms: append([]IfArm(nil), arms...), Else: elseStmt, Span: span})
	return s.new(StmtIf, span, PayloadID(p))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtIf {
		return nil, false
	}
	return s.Ifs.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewCase(discriminant ExprID, arms []CaseArm, def StmtID, span source.Span) StmtID {
	p := s.Cases.Allocate(StmtCaseData{Discriminant: discriminant, Arms: append([]CaseArm(nil), arms...), Default: def, Span: span})
	return s.new(StmtCase, span, PayloadID(p))
}

func (s *Stmts) Case(id StmtID) (*StmtCaseData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtCase {
		return nil, false
	}
	return s.Cases.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewForTo(v source.StringID, lo, hi ExprID, descending bool, body StmtID, span source.Span) StmtID {
	p := s.ForTos.Allocate(StmtForToData{Var: v, Lo: lo, Hi: hi, Descending: descending, Body: body, Span: span})
	return s.new(StmtForTo, span, PayloadID(p))
}

func (s *Stmts) ForTo(id StmtID) (*StmtForToData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtForTo {
		return nil, false
	}
	return s.ForTos.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewWhile(cond ExprID, body StmtID, span source.Span) StmtID {
	p := s.Whiles.Allocate(StmtWhileData{Cond: cond, Body: body, Span: span})
	return s.new(StmtWhile, span, PayloadID(p))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtWhile {
		return nil, false
	}
	return s.Whiles.Get(uint32(x.Payload)), true
}

func (s *Stmts) NewRepeatUntil(body StmtID, cond ExprID, span source.Span) StmtID {
	p := s.RepeatUntils.Allocate(StmtRepeatUntilData{Body: body, Cond: cond, Span: span})
	return s.new(StmtRepeatUntil, span, PayloadID(p))
}

func (s *Stmts) RepeatUntil(id StmtID) (*StmtRepeatUntilData, bool) {
	x := s.Arena.Get(uint32(id))
	if x == nil || x.Kind != StmtRepeatUntil {
		return nil, false
	}
	return s.RepeatUntils.Get(uint32(x.Payload)), true
}
