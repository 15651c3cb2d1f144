package token_test

import (
	"testing"

	"asli/internal/source"
	"asli/internal/token"
)

func TestFencedCommentTriviaShape(t *testing.T) {
	tv := token.Trivia{
		Kind: token.TriviaFencedComment,
		Span: source.Span{Start: 0, End: 10},
		Text: "```\nnote\n```",
	}
	tok := token.Token{
		Kind:    token.KwFunc,
		Span:    source.Span{Start: 42, End: 46},
		Text:    "func",
		Leading: []token.Trivia{tv},
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaFencedComment {
		t.Fatalf("fenced comment trivia must be present and structured")
	}
}
