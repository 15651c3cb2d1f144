package token

var keywords = map[string]Kind{
	"if":          KwIf,
	"elsif":       KwElsif,
	"then":        KwThen,
	"else":        KwElse,
	"end":         KwEnd,
	"case":        KwCase,
	"when":        KwWhen,
	"of":          KwOf,
	"otherwise":   KwOtherwise,
	"where":       KwWhere,
	"try":         KwTry,
	"catch":       KwCatch,
	"repeat":      KwRepeat,
	"until":       KwUntil,
	"while":       KwWhile,
	"for":         KwFor,
	"to":          KwTo,
	"downto":      KwDownto,
	"do":          KwDo,
	"return":      KwReturn,
	"throw":       KwThrow,
	"let":         KwLet,
	"var":         KwVar,
	"constant":    KwConstant,
	"config":      KwConfig,
	"type":        KwType,
	"record":      KwRecord,
	"enumeration": KwEnumeration,
	"exception":   KwException,
	"func":        KwFunc,
	"getter":      KwGetter,
	"setter":      KwSetter,
	"begin":       KwBegin,
	"with":        KwWith,
	"as":          KwAs,
	"typeof":      KwTypeof,
	"array":       KwArray,

	"AND":     KwAnd,
	"OR":      KwOr,
	"XOR":     KwXor,
	"NOT":     KwNot,
	"DIV":     KwDiv,
	"MOD":     KwMod,
	"DIVRM":   KwDivRM,
	"QUOT":    KwQuot,
	"REM":     KwRem,
	"IN":      KwIn,
	"UNKNOWN": KwUnknown,

	"TRUE":  KwTrue,
	"FALSE": KwFalse,
}

// LookupKeyword reports the Kind of ident if it names a keyword. ASL keywords
// are case-sensitive: structural keywords are lowercase, the operator-like
// keywords (AND, OR, DIV, ...) and the boolean literals are uppercase.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}
