package token

import "asli/internal/source"

//go:generate stringer -type=TriviaKind -trimprefix=Trivia
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaBlockComment  // /* ... */, nests
	TriviaFencedComment // ```...``` block starting in column 0
)

// Trivia is a non-semantic run of source text (whitespace or a comment)
// attached to the token that follows it.
type Trivia struct {
	Kind TriviaKind
	Span source.Span
	Text string
}
