package ast

import "asli/internal/source"

// DeclKind discriminates the shape stored in a top-level declaration's
// Payload.
type DeclKind uint8

const (
	DeclInvalid DeclKind = iota
	DeclBuiltinType
	DeclForwardType
	DeclRecord
	DeclExceptionRecord
	DeclTypeAbbrev
	DeclEnumeration
	DeclBuiltinFunction
	DeclFunctionType // prototype only, no body
	DeclFunctionDef  // prototype + body
	DeclGetter
	DeclSetter
	DeclOperator
	DeclConstant
	DeclConfigConstant
	DeclVariable
)

type Decl struct {
	Kind    DeclKind
	Span    source.Span
	Payload PayloadID
}

type Field struct {
	Name source.StringID
	Type TypeID
	Span source.Span
}

type EnumMember struct {
	Name  source.StringID
	Value ExprID // NoExprID when the member takes the implicit successor value
	Span  source.Span
}

type FnParam struct {
	Name    source.StringID
	Type    TypeID
	Default ExprID // NoExprID when there is no default; may reference earlier formals
	Span    source.Span
}

type DeclBuiltinTypeData struct {
	Name source.StringID
	Span source.Span
}

type DeclForwardTypeData struct {
	Name source.StringID
	Span source.Span
}

type DeclRecordData struct {
	Name   source.StringID
	Params []source.StringID // parameterisation identifiers, e.g. the P in `record R(P)`
	Fields []Field
	Span   source.Span
}

type DeclExceptionRecordData struct {
	Name   source.StringID
	Params []source.StringID
	Fields []Field
	Span   source.Span
}

type DeclTypeAbbrevData struct {
	Name   source.StringID
	Params []source.StringID
	Target TypeID
	Span   source.Span
}

type DeclEnumerationData struct {
	Name    source.StringID
	Members []EnumMember
	Span    source.Span
}

type DeclBuiltinFunctionData struct {
	Name       source.StringID
	Params     []FnParam
	ReturnType TypeID
	Throws     ThrowsTag
	Span       source.Span
}

type DeclFunctionTypeData struct {
	Name       source.StringID
	Params     []FnParam
	ReturnType TypeID
	Throws     ThrowsTag
	Span       source.Span
}

type DeclFunctionDefData struct {
	Name       source.StringID
	Params     []FnParam
	ReturnType TypeID
	Throws     ThrowsTag
	Body       StmtID
	Span       source.Span
}

// DeclGetterData models `getter F => T` and the array form `getter F[args] => T`.
type DeclGetterData struct {
	Name       source.StringID
	Params     []FnParam // empty for the non-array form
	ReturnType TypeID
	Body       StmtID
	Span       source.Span
}

// DeclSetterData models the setter counterpart, whose last formal is the
// assigned right-hand-side value.
type DeclSetterData struct {
	Name   source.StringID
	Params []FnParam
	Value  FnParam
	Body   StmtID
	Span   source.Span
}

// OperatorArity discriminates a registered operator's arity.
type OperatorArity uint8

const (
	OperatorUnary  OperatorArity = iota
	OperatorBinary
)

// DeclOperatorData maps an operator token to its list of candidate function
// declarations, as populated by `Decl_Operator1`/`Decl_Operator2`.
type DeclOperatorData struct {
	Arity      OperatorArity
	UnaryOp    UnaryOp
	BinaryOp   BinaryOp
	Candidates []DeclID
	Span       source.Span
}

type DeclConstantData struct {
	Name  source.StringID
	Type  TypeID // NoTypeID when the type is inferred from Value
	Value ExprID
	Span  source.Span
}

type DeclConfigConstantData struct {
	Name    source.StringID
	Type    TypeID
	Default ExprID // the value used unless overridden by session configuration
	Span    source.Span
}

type DeclVariableData struct {
	Name source.StringID
	Type TypeID
	Init ExprID // NoExprID when there is no initializer
	Span source.Span
}

// Decls aggregates the Decl shape arena with one Data arena per declaration
// kind, plus owned arenas for the Field/EnumMember/FnParam slices referenced
// from those payloads via CollectXxx-style accessors is unnecessary here
// since each payload already owns its slice directly.
type Decls struct {
	Arena *Arena[Decl]

	BuiltinTypes      *Arena[DeclBuiltinTypeData]
	ForwardTypes      *Arena[DeclForwardTypeData]
	Records           *Arena[DeclRecordData]
	ExceptionRecords  *Arena[DeclExceptionRecordData]
	TypeAbbrevs       *Arena[DeclTypeAbbrevData]
	Enumerations      *Arena[DeclEnumerationData]
	BuiltinFunctions  *Arena[DeclBuiltinFunctionData]
	FunctionTypes     *Arena[DeclFunctionTypeData]
	FunctionDefs      *Arena[DeclFunctionDefData]
	Getters           *Arena[DeclGetterData]
	Setters           *Arena[DeclSetterData]
	Operators         *Arena[DeclOperatorData]
	Constants         *Arena[DeclConstantData]
	ConfigConstants   *Arena[DeclConfigConstantData]
	Variables         *Arena[DeclVariableData]
}

func NewDecls(capHint uint) *Decls {
	return &Decls{
		Arena:            NewArena[Decl](capHint),
		BuiltinTypes:     NewArena[DeclBuiltinTypeData](capHint / 8),
		ForwardTypes:     NewArena[DeclForwardTypeData](capHint / 8),
		Records:          NewArena[DeclRecordData](capHint / 4),
		ExceptionRecords: NewArena[DeclExceptionRecordData](capHint / 8),
		TypeAbbrevs:      NewArena[DeclTypeAbbrevData](capHint / 8),
		Enumerations:     NewArena[DeclEnumerationData](capHint / 8),
		BuiltinFunctions: NewArena[DeclBuiltinFunctionData](capHint / 8),
		FunctionTypes:    NewArena[DeclFunctionTypeData](capHint / 8),
		FunctionDefs:     NewArena[DeclFunctionDefData](capHint / 2),
		Getters:          NewArena[DeclGetterData](capHint / 8),
		Setters:          NewArena[DeclSetterData](capHint / 8),
		Operators:        NewArena[DeclOperatorData](capHint / 8),
		Constants:        NewArena[DeclConstantData](capHint / 4),
		ConfigConstants:  NewArena[DeclConfigConstantData](capHint / 8),
		Variables:        NewArena[DeclVariableData](capHint / 4),
	}
}

func (d *Decls) new(kind DeclKind, span source.Span, payload PayloadID) DeclID {
	return DeclID(d.Arena.Allocate(Decl{Kind: kind, Span: span, Payload: payload}))
}

func (d *Decls) Get(id DeclID) *Decl { return d.Arena.Get(uint32(id)) }

func (d *Decls) NewBuiltinType(name source.StringID, span source.Span) DeclID {
	p := d.BuiltinTypes.Allocate(DeclBuiltinTypeData{Name: name, Span: span})
	return d.new(DeclBuiltinType, span, PayloadID(p))
}

func (d *Decls) BuiltinType(id DeclID) (*DeclBuiltinTypeData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclBuiltinType {
		return nil, false
	}
	return d.BuiltinTypes.Get(uint32(x.Payload)), true
}

func (d *Decls) NewForwardType(name source.StringID, span source.Span) DeclID {
	p := d.ForwardTypes.Allocate(DeclForwardTypeData{Name: name, Span: span})
	return d.new(DeclForwardType, span, PayloadID(p))
}

func (d *Decls) ForwardType(id DeclID) (*DeclForwardTypeData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclForwardType {
		return nil, false
	}
	return d.ForwardTypes.Get(uint32(x.Payload)), true
}

func (d *Decls) NewRecord(name source.StringID, params []source.StringID, fields []Field, span source.Span) DeclID {
	p := d.Records.Allocate(DeclRecordData{Name: name, Params: append([]source.StringID(nil), params...), Fields: append([]Field(nil), fields...), Span: span})
	return d.new(DeclRecord, span, PayloadID(p))
}

func (d *Decls) Record(id DeclID) (*DeclRecordData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclRecord {
		return nil, false
	}
	return d.Records.Get(uint32(x.Payload)), true
}

func (d *Decls) NewExceptionRecord(name source.StringID, params []source.StringID, fields []Field, span source.Span) DeclID {
	p := d.ExceptionRecords.Allocate(DeclExceptionRecordData{Name: name, Params: append([]source.StringID(nil), params...), Fields: append([]Field(nil), fields...), Span: span})
	return d.new(DeclExceptionRecord, span, PayloadID(p))
}

func (d *Decls) ExceptionRecord(id DeclID) (*DeclExceptionRecordData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclExceptionRecord {
		return nil, false
	}
	return d.ExceptionRecords.Get(uint32(x.Payload)), true
}

func (d *Decls) NewTypeAbbrev(name source.StringID, params []source.StringID, target TypeID, span source.Span) DeclID {
	p := d.TypeAbbrevs.Allocate(DeclTypeAbbrevData{Name: name, Params: append([]source.StringID(nil), params...), Target: target, Span: span})
	return d.new(DeclTypeAbbrev, span, PayloadID(p))
}

func (d *Decls) TypeAbbrev(id DeclID) (*DeclTypeAbbrevData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclTypeAbbrev {
		return nil, false
	}
	return d.TypeAbbrevs.Get(uint32(x.Payload)), true
}

func (d *Decls) NewEnumeration(name source.StringID, members []EnumMember, span source.Span) DeclID {
	p := d.Enumerations.Allocate(DeclEnumerationData{Name: name, Members: append([]EnumMember(nil), members...), Span: span})
	return d.new(DeclEnumeration, span, PayloadID(p))
}

func (d *Decls) Enumeration(id DeclID) (*DeclEnumerationData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclEnumeration {
		return nil, false
	}
	return d.Enumerations.Get(uint32(x.Payload)), true
}

func (d *Decls) NewBuiltinFunction(name source.StringID, params []FnParam, ret TypeID, throws ThrowsTag, span source.Span) DeclID {
	p := d.BuiltinFunctions.Allocate(DeclBuiltinFunctionData{Name: name, Params: append([]FnParam(nil), params...), ReturnType: ret, Throws: throws, Span: span})
	return d.new(DeclBuiltinFunction, span, PayloadID(p))
}

func (d *Decls) BuiltinFunction(id DeclID) (*DeclBuiltinFunctionData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclBuiltinFunction {
		return nil, false
	}
	return d.BuiltinFunctions.Get(uint32(x.Payload)), true
}

func (d *Decls) NewFunctionType(name source.StringID, params []FnParam, ret TypeID, throws ThrowsTag, span source.Span) DeclID {
	p := d.FunctionTypes.Allocate(DeclFunctionTypeData{Name: name, Params: append([]FnParam(nil), params...), ReturnType: ret, Throws: throws, Span: span})
	return d.new(DeclFunctionType, span, PayloadID(p))
}

func (d *Decls) FunctionType(id DeclID) (*DeclFunctionTypeData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclFunctionType {
		return nil, false
	}
	return d.FunctionTypes.Get(uint32(x.Payload)), true
}

func (d *Decls) NewFunctionDef(name source.StringID, params []FnParam, ret TypeID, throws ThrowsTag, body StmtID, span source.Span) DeclID {
	p := d.FunctionDefs.Allocate(DeclFunctionDefData{Name: name, Params: append([]FnParam(nil), params...), ReturnType: ret, Throws: throws, Body: body, Span: span})
	return d.new(DeclFunctionDef, span, PayloadID(p))
}

func (d *Decls) FunctionDef(id DeclID) (*DeclFunctionDefData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclFunctionDef {
		return nil, false
	}
	return d.FunctionDefs.Get(uint32(x.Payload)), true
}

func (d *Decls) NewGetter(name source.StringID, params []FnParam, ret TypeID, body StmtID, span source.Span) DeclID {
	p := d.Getters.Allocate(DeclGetterData{Name: name, Params: append([]FnParam(nil), params...), ReturnType: ret, Body: body, Span: span})
	return d.new(DeclGetter, span, PayloadID(p))
}

func (d *Decls) Getter(id DeclID) (*DeclGetterData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclGetter {
		return nil, false
	}
	return d.Getters.Get(uint32(x.Payload)), true
}

func (d *Decls) NewSetter(name source.StringID, params []FnParam, value FnParam, body StmtID, span source.Span) DeclID {
	p := d.Setters.Allocate(DeclSetterData{Name: name, Params: append([]FnParam(nil), params...), Value: value, Body: body, Span: span})
	return d.new(DeclSetter, span, PayloadID(p))
}

func (d *Decls) Setter(id DeclID) (*DeclSetterData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclSetter {
		return nil, false
	}
	return d.Setters.Get(uint32(x.Payload)), true
}

func (d *Decls) NewUnaryOperator(op UnaryOp, candidates []DeclID, span source.Span) DeclID {
	p := d.Operators.Allocate(DeclOperatorData{Arity: OperatorUnary, UnaryOp: op, Candidates: append([]DeclID(nil), candidates...), Span: span})
	return d.new(DeclOperator, span, PayloadID(p))
}

func (d *Decls) NewBinaryOperator(op BinaryOp, candidates []DeclID, span source.Span) DeclID {
	p := d.Operators.Allocate(DeclOperatorData{Arity: OperatorBinary, BinaryOp: op, Candidates: append([]DeclID(nil), candidates...), Span: span})
	return d.new(DeclOperator, span, PayloadID(p))
}

func (d *Decls) Operator(id DeclID) (*DeclOperatorData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclOperator {
		return nil, false
	}
	return d.Operators.Get(uint32(x.Payload)), true
}

func (d *Decls) NewConstant(name source.StringID, typ TypeID, value ExprID, span source.Span) DeclID {
	p := d.Constants.Allocate(DeclConstantData{Name: name, Type: typ, Value: value, Span: span})
	return d.new(DeclConstant, span, PayloadID(p))
}

func (d *Decls) Constant(id DeclID) (*DeclConstantData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclConstant {
		return nil, false
	}
	return d.Constants.Get(uint32(x.Payload)), true
}

func (d *Decls) NewConfigConstant(name source.StringID, typ TypeID, def ExprID, span source.Span) DeclID {
	p := d.ConfigConstants.Allocate(DeclConfigConstantData{Name: name, Type: typ, Default: def, Span: span})
	return d.new(DeclConfigConstant, span, PayloadID(p))
}

func (d *Decls) ConfigConstant(id DeclID) (*DeclConfigConstantData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclConfigConstant {
		return nil, false
	}
	return d.ConfigConstants.Get(uint32(x.Payload)), true
}

func (d *Decls) NewVariable(name source.StringID, typ TypeID, init ExprID, span source.Span) DeclID {
	p := d.Variables.Allocate(DeclVariableData{Name: name, Type: typ, Init: init, Span: span})
	return d.new(DeclVariable, span, PayloadID(p))
}

func (d *Decls) Variable(id DeclID) (*DeclVariableData, bool) {
	x := d.Arena.Get(uint32(id))
	if x == nil || x.Kind != DeclVariable {
		return nil, false
	}
	return d.Variables.Get(uint32(x.Payload)), true
}
