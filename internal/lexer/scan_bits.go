package lexer

import (
	"asli/internal/diag"
	"asli/internal/token"
)

// scanSizedIntLiteral scans the i<N>'b|d|x<digits> forms once the "i<N>"
// prefix has already been consumed by scanIdentOrKeyword and the cursor sits
// on the quote. There is no closing quote: the literal ends at the first
// byte outside the chosen base's alphabet.
func (lx *Lexer) scanSizedIntLiteral(start Mark) token.Token {
	lx.cursor.Bump() // '\''
	disc := lx.cursor.Peek()
	switch disc {
	case 'b', 'd', 'x':
		lx.cursor.Bump()
	default:
		return lx.badBitsLiteral(start, token.SizedIntLit, "sized integer literal: expected 'b', 'd', or 'x' after the quote")
	}
	if !lx.consumeBaseDigits(disc) {
		return lx.badBitsLiteral(start, token.SizedIntLit, "sized integer literal: expected at least one digit")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.SizedIntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanBitsLiteral scans the <N>'b|d|x<digits> bitvector forms once the width
// digits have already been consumed and the cursor sits on the quote.
func (lx *Lexer) scanBitsLiteral(start Mark) token.Token {
	lx.cursor.Bump() // '\''
	disc := lx.cursor.Peek()
	switch disc {
	case 'b', 'd', 'x':
		lx.cursor.Bump()
	default:
		return lx.badBitsLiteral(start, token.BitsLit, "bitvector literal: expected 'b', 'd', or 'x' after the quote")
	}
	if !lx.consumeBaseDigits(disc) {
		return lx.badBitsLiteral(start, token.BitsLit, "bitvector literal: expected at least one digit")
	}
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.BitsLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) consumeBaseDigits(disc byte) bool {
	n := 0
	for {
		b := lx.cursor.Peek()
		ok := false
		switch disc {
		case 'b':
			ok = isBin(b) || b == '_'
		case 'd':
			ok = isDec(b) || b == '_'
		case 'x':
			ok = isHex(b) || b == '_'
		}
		if !ok {
			break
		}
		lx.cursor.Bump()
		n++
	}
	return n > 0
}

// scanQuotedLiteral scans the delimited '...' forms: a bitvector literal
// ('1010 1100', digits and spaces only) or a mask literal ('10xx', containing
// at least one don't-care bit). Dispatched when a bare quote starts a token.
func (lx *Lexer) scanQuotedLiteral() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''

	hasDontCare := false
	for {
		b := lx.cursor.Peek()
		switch {
		case b == '\'':
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			kind := token.BitsLit
			if hasDontCare {
				kind = token.MaskLit
			}
			return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		case b == '0' || b == '1' || b == ' ':
			lx.cursor.Bump()
		case b == 'x' || b == 'X':
			hasDontCare = true
			lx.cursor.Bump()
		case b == 0:
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "unterminated bitvector/mask literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		default:
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexBadBitsLiteral, sp, "bitvector/mask literal: unexpected character")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}
}

func (lx *Lexer) badBitsLiteral(start Mark, kind token.Kind, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	code := diag.LexBadSizedLiteral
	if kind == token.BitsLit {
		code = diag.LexBadBitsLiteral
	}
	lx.report(code, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
