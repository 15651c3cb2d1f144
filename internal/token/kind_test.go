package token_test

import (
	"testing"

	"asli/internal/source"
	"asli/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{Start: 0, End: 0}}
}

func TestIsLiteral(t *testing.T) {
	lits := []token.Kind{
		token.IntLit, token.SizedIntLit, token.BitsLit,
		token.MaskLit, token.RealLit, token.StringLit, token.KwTrue, token.KwFalse,
	}
	for _, k := range lits {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwLet, token.Plus, token.LParen}
	for _, k := range non {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
}

func TestIsPunctOrOp(t *testing.T) {
	ops := []token.Kind{
		token.Plus, token.Minus, token.Star, token.Slash, token.Percent,
		token.EqEq, token.Bang, token.BangEq,
		token.Lt, token.LtEq, token.Gt, token.GtEq,
		token.AndAnd, token.OrOr,
		token.PlusColon, token.MinusColon, token.StarColon, token.PlusPlus, token.DotDot,
		token.LeftRightArrow, token.LongRightArrow, token.FatArrow, token.Arrow,
		token.Assign, token.Colon, token.Semicolon, token.Comma, token.Dot,
		token.LParen, token.RParen, token.LBrace, token.RBrace, token.LBracket, token.RBracket,
		token.At, token.Underscore,
	}
	for _, k := range ops {
		if !tok(k).IsPunctOrOp() {
			t.Fatalf("%v should be punct/op", k)
		}
	}
	non := []token.Kind{token.Ident, token.KwIf, token.IntLit}
	for _, k := range non {
		if tok(k).IsPunctOrOp() {
			t.Fatalf("%v must NOT be punct/op", k)
		}
	}
}

func TestIsIdent(t *testing.T) {
	if !tok(token.Ident).IsIdent() {
		t.Fatalf("Ident should be ident")
	}
	if tok(token.KwIf).IsIdent() {
		t.Fatalf("KwIf must not be ident")
	}
}

func TestIsKeyword(t *testing.T) {
	keywords := []token.Kind{
		token.KwIf, token.KwElsif, token.KwThen, token.KwElse, token.KwEnd, token.KwCase,
		token.KwWhen, token.KwOf, token.KwOtherwise, token.KwWhere, token.KwTry, token.KwCatch,
		token.KwRepeat, token.KwUntil, token.KwWhile, token.KwFor, token.KwTo, token.KwDownto,
		token.KwDo, token.KwReturn, token.KwThrow, token.KwLet, token.KwVar, token.KwConstant,
		token.KwConfig, token.KwType, token.KwRecord, token.KwEnumeration, token.KwException,
		token.KwFunc, token.KwGetter, token.KwSetter, token.KwBegin, token.KwWith, token.KwAs,
		token.KwTypeof, token.KwArray,
		token.KwAnd, token.KwOr, token.KwXor, token.KwNot, token.KwDiv, token.KwMod,
		token.KwDivRM, token.KwQuot, token.KwRem, token.KwIn, token.KwUnknown,
		token.KwTrue, token.KwFalse,
	}
	for _, k := range keywords {
		if !tok(k).IsKeyword() {
			t.Fatalf("%v should be keyword", k)
		}
	}
}
