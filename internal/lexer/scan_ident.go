package lexer

import (
	"asli/internal/token"
)

const utf8RuneSelf = 0x80

// scanIdentOrKeyword scans an [Ident] and checks it against LookupKeyword.
// Keywords are case-sensitive. Token.Text is exactly the source slice.
//
// A special case: an identifier of the form "i<digits>" immediately followed
// by a quote is not an identifier at all but the width prefix of a sized
// integer literal (i8'd12); scanSizedIntLiteral takes over in that case.
func (lx *Lexer) scanIdentOrKeyword() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp, Text: ""}
	}
	if r < utf8RuneSelf {
		if !isIdentStartByte(byte(r)) {
			return lx.scanOperatorOrPunct()
		}
		lx.cursor.Bump()
		for {
			b := lx.cursor.Peek()
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
		}
	} else {
		if !isIdentStartRune(r) {
			return lx.scanOperatorOrPunct()
		}
		lx.bumpRune()
		for {
			r2, sz2 := lx.peekRune()
			if sz2 == 0 || !isIdentContinueRune(r2) {
				break
			}
			lx.bumpRune()
		}
	}

	sp := lx.cursor.SpanFrom(start)
	lex := lx.file.Content[sp.Start:sp.End]
	text := string(lex)

	if len(lex) == 1 && lex[0] == '_' {
		return token.Token{Kind: token.Underscore, Span: sp, Text: text}
	}

	if text[0] == 'i' && isAllDigits(text[1:]) && len(text) > 1 && lx.cursor.Peek() == '\'' {
		return lx.scanSizedIntLiteral(start)
	}

	if k, ok := token.LookupKeyword(text); ok {
		return token.Token{Kind: k, Span: sp, Text: text}
	}

	return token.Token{Kind: token.Ident, Span: sp, Text: text}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDec(s[i]) {
			return false
		}
	}
	return true
}
