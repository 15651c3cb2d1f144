package lexer

import (
	"asli/internal/diag"
	"asli/internal/token"
)

// scanNumber scans ASL's integer and real literal forms: decimal
// (1_000_000), hex (0xFFFF_0000) and real (digits.digits). Underscores are
// permitted between digits as visual separators.
//
// A decimal run immediately followed by a quote is not a plain integer: it is
// the width prefix of a bitvector literal (8'd12, 8'b1010, 8'xFF) and control
// is handed off to scanBitsLiteral.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()

	if lx.cursor.Peek() == '0' {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '0' && (b1 == 'x' || b1 == 'X') {
			lx.cursor.Bump()
			lx.cursor.Bump()
			for isHex(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.IntLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
	}

	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	if lx.cursor.Peek() == '\'' {
		return lx.scanBitsLiteral(start)
	}

	kind := token.IntLit
	if lx.cursor.Peek() == '.' {
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '.' && isDec(b1) {
			lx.cursor.Bump() // '.'
			kind = token.RealLit
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		}
		// ".." (range) or a trailing '.' with no digit after is left for the
		// operator scanner to handle; this isn't a real literal.
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: kind, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

func (lx *Lexer) badNumber(start Mark, msg string) token.Token {
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexBadNumber, sp, msg)
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
