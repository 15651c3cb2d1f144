package token

import (
	"asli/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
}

// IsLiteral reports whether the token is a numeric, mask, or string literal.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, SizedIntLit, BitsLit, MaskLit, RealLit, StringLit, KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsPunctOrOp reports whether the token is a punctuation or operator.
func (t Token) IsPunctOrOp() bool {
	switch t.Kind {
	case Plus, Minus, Star, Slash, Percent, EqEq, Bang, BangEq, Lt, LtEq, Gt, GtEq,
		AndAnd, OrOr, PlusColon, MinusColon, StarColon, PlusPlus, DotDot,
		LeftRightArrow, LongRightArrow, FatArrow, Arrow, Assign, Colon, Semicolon,
		Comma, Dot, LParen, RParen, LBrace, RBrace, LBracket, RBracket, At, Underscore:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a language keyword.
func (t Token) IsKeyword() bool {
	switch t.Kind {
	case KwIf, KwElsif, KwThen, KwElse, KwEnd, KwCase, KwWhen, KwOf, KwOtherwise, KwWhere,
		KwTry, KwCatch, KwRepeat, KwUntil, KwWhile, KwFor, KwTo, KwDownto, KwDo, KwReturn,
		KwThrow, KwLet, KwVar, KwConstant, KwConfig, KwType, KwRecord, KwEnumeration,
		KwException, KwFunc, KwGetter, KwSetter, KwBegin, KwWith, KwAs, KwTypeof, KwArray,
		KwAnd, KwOr, KwXor, KwNot, KwDiv, KwMod, KwDivRM, KwQuot, KwRem, KwIn, KwUnknown,
		KwTrue, KwFalse:
		return true
	default:
		return false
	}
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }
