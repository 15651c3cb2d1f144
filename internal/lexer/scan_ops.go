package lexer

import (
	"asli/internal/diag"
	"asli/internal/token"
)

// Greedy matching: 3-character operators first, then 2-character, then
// single-character punctuation.
func (lx *Lexer) scanOperatorOrPunct() token.Token {
	start := lx.cursor.Mark()
	emit := func(k token.Kind) token.Token {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{
			Kind: k,
			Span: sp,
			Text: string(lx.file.Content[sp.Start:sp.End]),
		}
	}

	switch {
	case lx.try3('<', '-', '>'):
		return emit(token.LeftRightArrow)
	case lx.try3('-', '-', '>'):
		return emit(token.LongRightArrow)
	case lx.try2('+', ':'):
		return emit(token.PlusColon)
	case lx.try2('-', ':'):
		return emit(token.MinusColon)
	case lx.try2('*', ':'):
		return emit(token.StarColon)
	case lx.try2('+', '+'):
		return emit(token.PlusPlus)
	case lx.try2('.', '.'):
		return emit(token.DotDot)
	case lx.try2('-', '>'):
		return emit(token.Arrow)
	case lx.try2('=', '>'):
		return emit(token.FatArrow)
	case lx.try2('&', '&'):
		return emit(token.AndAnd)
	case lx.try2('|', '|'):
		return emit(token.OrOr)
	case lx.try2('=', '='):
		return emit(token.EqEq)
	case lx.try2('!', '='):
		return emit(token.BangEq)
	case lx.try2('<', '='):
		return emit(token.LtEq)
	case lx.try2('>', '='):
		return emit(token.GtEq)
	}

	ch := lx.cursor.Bump()
	switch ch {
	case '+':
		return emit(token.Plus)
	case '-':
		return emit(token.Minus)
	case '*':
		return emit(token.Star)
	case '/':
		return emit(token.Slash)
	case '%':
		return emit(token.Percent)
	case '=':
		return emit(token.Assign)
	case '!':
		return emit(token.Bang)
	case '<':
		return emit(token.Lt)
	case '>':
		return emit(token.Gt)
	case ':':
		return emit(token.Colon)
	case ';':
		return emit(token.Semicolon)
	case ',':
		return emit(token.Comma)
	case '.':
		return emit(token.Dot)
	case '(':
		return emit(token.LParen)
	case ')':
		return emit(token.RParen)
	case '{':
		return emit(token.LBrace)
	case '}':
		return emit(token.RBrace)
	case '[':
		return emit(token.LBracket)
	case ']':
		return emit(token.RBracket)
	case '@':
		return emit(token.At)
	case '_':
		return emit(token.Underscore)
	default:
		sp := lx.cursor.SpanFrom(start)
		lx.report(diag.LexUnknownChar, sp, "unknown character")
		return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
	}
}
