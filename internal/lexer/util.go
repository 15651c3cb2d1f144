package lexer

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"fortio.org/safecast"
)

// ===== Rune access on top of Cursor =====

// peekRune reads the current byte as a rune.
func (lx *Lexer) peekRune() (r rune, size int) {
	if lx.cursor.EOF() {
		return utf8.RuneError, 0
	}
	b := lx.cursor.Peek()
	if b < utf8.RuneSelf { // fast-path ASCII
		return rune(b), 1
	}
	r, sz := utf8.DecodeRune(lx.file.Content[lx.cursor.Off:])
	return r, sz
}

// bumpRune reads the current byte as a rune and advances the cursor by its size.
func (lx *Lexer) bumpRune() {
	_, sz := lx.peekRune()
	if sz == 0 {
		return
	}
	usz, err := safecast.Conv[uint32](sz)
	if err != nil {
		panic(fmt.Errorf("bumpRune overflow: %w", err))
	}
	lx.cursor.Off += usz
}

// ===== Classifiers =====

// ASCII fast path for identifiers; Unicode falls through to isIdentStartRune/Continue.
func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}
func isIdentContinueByte(b byte) bool {
	return isIdentStartByte(b) || (b >= '0' && b <= '9')
}
func isIdentStartRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}
func isIdentContinueRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDec(b byte) bool { return b >= '0' && b <= '9' }
func isHex(b byte) bool {
	return (b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'f') ||
		(b >= 'A' && b <= 'F')
}
func isBin(b byte) bool { return b == '0' || b == '1' }

// isNumberAfterDot handles the ".5" case: current char is '.', next is a digit?
func (lx *Lexer) isNumberAfterDot() bool {
	b0, b1, ok := lx.cursor.Peek2()
	return ok && b0 == '.' && isDec(b1)
}

// ===== Greedy operator-sequence matchers =====

// try3/try2 consume 3/2 bytes if they match exactly.
func (lx *Lexer) try3(a, b, c byte) bool {
	b0, b1, b2, ok := lx.cursor.Peek3()
	if !ok || b0 != a || b1 != b || b2 != c {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}

func (lx *Lexer) try2(a, b byte) bool {
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != a || b1 != b {
		return false
	}
	lx.cursor.Bump()
	lx.cursor.Bump()
	return true
}
