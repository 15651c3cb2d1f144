package lexer

import (
	"fmt"
	"asli/internal/source"

	"fortio.org/safecast"
)

// Cursor is a byte position within a source file.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	Limit uint32
}

// NewCursor creates a new cursor for the provided file.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
	}
}

func (c *Cursor) limit() uint32 {
	if c.Limit != 0 {
		return c.Limit
	}
	lenFileContent, err := safecast.Conv[uint32](len(c.File.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

// EOF reports whether the cursor has reached the end of the file.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Peek reads the current byte, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Peek2 reads the current and next byte, or 0, 0, false near EOF.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.limit() {
		return 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], true
}

// Peek3 reads the current, next, and second-next byte, or 0, 0, 0, false near EOF.
func (c *Cursor) Peek3() (b0, b1, b2 byte, ok bool) {
	if c.Off+2 >= c.limit() {
		return 0, 0, 0, false
	}
	return c.File.Content[c.Off], c.File.Content[c.Off+1], c.File.Content[c.Off+2], true
}

// Bump advances the cursor by one byte and returns the byte read.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	return b
}

// Mark is a saved cursor position, used to compute the Span of a scanned fragment.
type Mark uint32

// Mark saves the current cursor position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// SpanFrom builds the Span from a mark to the current position.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{
		File:  c.File.ID,
		Start: uint32(m),
		End:   c.Off,
	}
}

// Reset rewinds the cursor back to a mark.
func (c *Cursor) Reset(m Mark) {
	c.Off = uint32(m)
}

// Eat consumes the next byte if it matches the provided byte.
func (c *Cursor) Eat(b byte) bool {
	if !c.EOF() && c.File.Content[c.Off] == b {
		c.Off++
		return true
	}
	return false
}
