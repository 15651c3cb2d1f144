package lexer

import (
	"asli/internal/diag"
	"asli/internal/token"
)

// collectLeadingTrivia gathers the run of trivia preceding the next
// significant token:
//   - ' ' and '\t' coalesce into one TriviaSpace
//   - consecutive '\n' coalesce into one TriviaNewline
//   - /* ... */ nests, closes with TriviaBlockComment
//   - a fenced ``` block starting in column 0 runs until the next ``` that
//     also starts in column 0 (or EOF), and becomes TriviaFencedComment
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		if b == ' ' || b == '\t' {
			for {
				b2 := lx.cursor.Peek()
				if b2 != ' ' && b2 != '\t' {
					break
				}
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaSpace,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '\n' {
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			sp := lx.cursor.SpanFrom(start)
			lx.hold = append(lx.hold, token.Trivia{
				Kind: token.TriviaNewline,
				Span: sp,
				Text: string(lx.file.Content[sp.Start:sp.End]),
			})
			continue
		}

		if b == '/' {
			if lx.scanBlockCommentIntoHold() {
				continue
			}
		}

		if b == '`' && lx.atColumnZero(uint32(start)) {
			if lx.scanFencedCommentIntoHold(start) {
				continue
			}
		}

		break
	}
}

func (lx *Lexer) atColumnZero(off uint32) bool {
	return off == 0 || lx.file.Content[off-1] == '\n'
}

// scanBlockCommentIntoHold scans a nesting /* ... */ comment.
func (lx *Lexer) scanBlockCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' || b1 != '*' {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	depth := 1
	for !lx.cursor.EOF() && depth > 0 {
		if c0, c1, ok := lx.cursor.Peek2(); ok {
			if c0 == '/' && c1 == '*' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth++
				continue
			}
			if c0 == '*' && c1 == '/' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				depth--
				continue
			}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	if depth > 0 {
		lx.report(diag.LexUnterminatedBlockComment, sp, "unterminated block comment")
	}
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaBlockComment,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
	return true
}

// scanFencedCommentIntoHold scans a ``` ... ``` block starting in column 0.
// It closes on the next ``` that also starts in column 0, or at EOF.
func (lx *Lexer) scanFencedCommentIntoHold(start Mark) bool {
	b0, b1, b2, ok := lx.cursor.Peek3()
	if !ok || b0 != '`' || b1 != '`' || b2 != '`' {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.cursor.Bump()
	for !lx.cursor.EOF() {
		lineStart := lx.atColumnZero(lx.cursor.Off)
		if lineStart {
			if c0, c1, c2, ok := lx.cursor.Peek3(); ok && c0 == '`' && c1 == '`' && c2 == '`' {
				lx.cursor.Bump()
				lx.cursor.Bump()
				lx.cursor.Bump()
				break
			}
		}
		lx.cursor.Bump()
	}
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: token.TriviaFencedComment,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
	return true
}
