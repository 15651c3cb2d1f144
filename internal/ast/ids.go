package ast

// Every syntactic category gets its own ID space, each stored in its own
// Arena. Zero is reserved as the "no id" sentinel so a zero-valued struct
// field reads as "absent" without an extra bool.

type FileID uint32

const NoFileID FileID = 0

func (id FileID) IsValid() bool { return id != NoFileID }

// DeclID identifies a top-level declaration (record, exception record, type
// abbreviation, enumeration, function, operator registration, constant,
// configurable constant, or variable).
type DeclID uint32

const NoDeclID DeclID = 0

func (id DeclID) IsValid() bool { return id != NoDeclID }

type StmtID uint32

const NoStmtID StmtID = 0

func (id StmtID) IsValid() bool { return id != NoStmtID }

type ExprID uint32

const NoExprID ExprID = 0

func (id ExprID) IsValid() bool { return id != NoExprID }

type TypeID uint32

const NoTypeID TypeID = 0

func (id TypeID) IsValid() bool { return id != NoTypeID }

type LValueID uint32

const NoLValueID LValueID = 0

func (id LValueID) IsValid() bool { return id != NoLValueID }

type PatternID uint32

const NoPatternID PatternID = 0

func (id PatternID) IsValid() bool { return id != NoPatternID }

// PayloadID indexes into whichever per-kind Data arena a shape's Kind
// dictates; it is not globally unique on its own.
type PayloadID uint32

const NoPayloadID PayloadID = 0

func (id PayloadID) IsValid() bool { return id != NoPayloadID }

type FnParamID uint32

const NoFnParamID FnParamID = 0

func (id FnParamID) IsValid() bool { return id != NoFnParamID }

// FieldID identifies one field of a record or exception-record declaration.
type FieldID uint32

const NoFieldID FieldID = 0

func (id FieldID) IsValid() bool { return id != NoFieldID }

// EnumMemberID identifies one member of an enumeration declaration.
type EnumMemberID uint32

const NoEnumMemberID EnumMemberID = 0

func (id EnumMemberID) IsValid() bool { return id != NoEnumMemberID }

// CaseArmID identifies one typed alternative of a `case` statement or
// expression-level compare form.
type CaseArmID uint32

const NoCaseArmID CaseArmID = 0

func (id CaseArmID) IsValid() bool { return id != NoCaseArmID }

// CatchArmID identifies one alternative of a `try`/`catch` statement.
type CatchArmID uint32

const NoCatchArmID CatchArmID = 0

func (id CatchArmID) IsValid() bool { return id != NoCatchArmID }

// ChangeID identifies one field-change or slice-change clause of a `with`
// expression.
type ChangeID uint32

const NoChangeID ChangeID = 0

func (id ChangeID) IsValid() bool { return id != NoChangeID }
