package lexer

import (
	"asli/internal/diag"
	"asli/internal/token"
)

// scanString scans "..." string literals with standard escapes (\' \" \\ \n
// \t \r \xNN); escapes are not validated here, and the parser keeps the
// literal's text as written.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if b == '"' {
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.StringLit, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		if b == '\\' {
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.cursor.Bump()
			continue
		}
		if b == '\n' {
			sp := lx.cursor.SpanFrom(start)
			lx.report(diag.LexUnterminatedString, sp, "newline in string literal")
			return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.report(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
