package lexer

import (
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // one-token lookahead buffer
	hold   []token.Trivia // leading trivia accumulated for the next token
}

// maxTokenLength bounds a single token's byte length. It exists to fail fast
// on pathological input (a huge run of identifier bytes, for instance)
// instead of building an enormous Text string.
const maxTokenLength = 1 << 16

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
		look:   nil,
		hold:   nil,
	}
}

// Next returns the next significant token with its Leading trivia already
// attached. After EOF it always returns EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		return token.Token{
			Kind: token.EOF,
			Span: lx.emptySpan(),
			Text: "",
		}
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '_':
		b0, b1, ok := lx.cursor.Peek2()
		if ok && b0 == '_' && isIdentContinueByte(b1) {
			tok = lx.scanIdentOrKeyword()
		} else {
			tok = lx.scanOperatorOrPunct()
		}

	case isIdentStartByte(ch):
		tok = lx.scanIdentOrKeyword()

	case ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()

	case ch == '\'':
		tok = lx.scanQuotedLiteral()

	case ch == '"':
		tok = lx.scanString()

	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil

	if len(tok.Text) > maxTokenLength {
		lx.report(diag.LexTokenTooLong, tok.Span, "token exceeds maximum length")
		lx.cursor.Off = lx.cursor.limit()
		return token.Token{Kind: token.Invalid, Span: tok.Span, Text: tok.Text, Leading: tok.Leading}
	}

	if tok.Kind == token.KwElse {
		lx.warnIfElseIfSameLine(tok)
	}

	return tok
}

// warnIfElseIfSameLine reports the "prefer elsif" warning when 'else' is
// immediately followed by 'if' on the same source line, separated only by
// spaces or tabs.
func (lx *Lexer) warnIfElseIfSameLine(elseTok token.Token) {
	savedCursor := lx.cursor
	savedHold := lx.hold
	savedLook := lx.look

	lx.collectLeadingTrivia()
	sawNewline := false
	for _, tv := range lx.hold {
		if tv.Kind == token.TriviaNewline {
			sawNewline = true
			break
		}
	}
	if !sawNewline && !lx.cursor.EOF() && isIdentStartByte(lx.cursor.Peek()) {
		candidate := lx.scanIdentOrKeyword()
		if candidate.Kind == token.KwIf {
			lx.warn(diag.LexElseIfSameLine, elseTok.Span, "'else' followed by 'if' on the same line; use 'elsif' instead")
		}
	}

	lx.cursor = savedCursor
	lx.hold = savedHold
	lx.look = savedLook
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}
