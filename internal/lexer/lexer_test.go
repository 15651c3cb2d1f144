package lexer_test

import (
	"fmt"
	"strings"
	"asli/internal/diag"
	"asli/internal/lexer"
	"asli/internal/source"
	"asli/internal/token"
	"testing"
)

type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
		Primary:  primary,
		Notes:    notes,
		Fixes:    fixes,
	})
}

func (r *testReporter) HasErrors() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevError {
			return true
		}
	}
	return false
}

func (r *testReporter) HasWarnings() bool {
	for _, d := range r.diagnostics {
		if d.Severity == diag.SevWarning {
			return true
		}
	}
	return false
}

func (r *testReporter) ErrorMessages() []string {
	messages := make([]string, 0, len(r.diagnostics))
	for _, d := range r.diagnostics {
		messages = append(messages, fmt.Sprintf("[%s] %s: %s", d.Code.ID(), d.Severity, d.Message))
	}
	return messages
}

func makeTestLexer(input string) (*lexer.Lexer, *testReporter) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.asl", []byte(input))
	file := fs.Get(fileID)

	reporter := &testReporter{}
	opts := lexer.Options{Reporter: reporter}
	lx := lexer.New(file, opts)

	return lx, reporter
}

func collectAllTokens(lx *lexer.Lexer) []token.Token {
	tokens := make([]token.Token, 0)
	for {
		tok := lx.Next()
		tokens = append(tokens, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return tokens
}

func expectTokens(t *testing.T, input string, expected []token.Kind) {
	t.Helper()
	lx, reporter := makeTestLexer(input)
	tokens := collectAllTokens(lx)

	if len(tokens) > 0 && tokens[len(tokens)-1].Kind == token.EOF {
		tokens = tokens[:len(tokens)-1]
	}

	if len(tokens) != len(expected) {
		t.Fatalf("expected %d tokens, got %d\ninput: %q\ntokens: %v\nerrors: %v",
			len(expected), len(tokens), input, tokensToString(tokens), reporter.ErrorMessages())
	}

	for i, tok := range tokens {
		if tok.Kind != expected[i] {
			t.Errorf("token %d: expected %v, got %v (text: %q)", i, expected[i], tok.Kind, tok.Text)
		}
	}
}

func expectSingleToken(t *testing.T, input string, expectedKind token.Kind, expectedText string) {
	t.Helper()
	lx, _ := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != expectedKind {
		t.Errorf("expected kind %v, got %v", expectedKind, tok.Kind)
	}
	if tok.Text != expectedText {
		t.Errorf("expected text %q, got %q", expectedText, tok.Text)
	}
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ====== scan_ident.go ======

func TestIdentifiers_ASCII(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
		text  string
	}{
		{"foo", token.Ident, "foo"},
		{"_bar", token.Ident, "_bar"},
		{"__test", token.Ident, "__test"},
		{"x123", token.Ident, "x123"},
		{"camelCase", token.Ident, "camelCase"},
		{"UPPER", token.Ident, "UPPER"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.text)
		})
	}
}

func TestUnderscore_Single(t *testing.T) {
	expectSingleToken(t, "_", token.Underscore, "_")
}

func TestKeywords_Lowercase(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"if", token.KwIf},
		{"elsif", token.KwElsif},
		{"then", token.KwThen},
		{"else", token.KwElse},
		{"end", token.KwEnd},
		{"case", token.KwCase},
		{"when", token.KwWhen},
		{"of", token.KwOf},
		{"otherwise", token.KwOtherwise},
		{"where", token.KwWhere},
		{"try", token.KwTry},
		{"catch", token.KwCatch},
		{"repeat", token.KwRepeat},
		{"until", token.KwUntil},
		{"while", token.KwWhile},
		{"for", token.KwFor},
		{"to", token.KwTo},
		{"downto", token.KwDownto},
		{"do", token.KwDo},
		{"return", token.KwReturn},
		{"throw", token.KwThrow},
		{"let", token.KwLet},
		{"var", token.KwVar},
		{"constant", token.KwConstant},
		{"config", token.KwConfig},
		{"type", token.KwType},
		{"record", token.KwRecord},
		{"enumeration", token.KwEnumeration},
		{"exception", token.KwException},
		{"func", token.KwFunc},
		{"getter", token.KwGetter},
		{"setter", token.KwSetter},
		{"begin", token.KwBegin},
		{"with", token.KwWith},
		{"as", token.KwAs},
		{"typeof", token.KwTypeof},
		{"array", token.KwArray},
		{"AND", token.KwAnd},
		{"OR", token.KwOr},
		{"XOR", token.KwXor},
		{"NOT", token.KwNot},
		{"DIV", token.KwDiv},
		{"MOD", token.KwMod},
		{"DIVRM", token.KwDivRM},
		{"QUOT", token.KwQuot},
		{"REM", token.KwRem},
		{"IN", token.KwIn},
		{"UNKNOWN", token.KwUnknown},
		{"TRUE", token.KwTrue},
		{"FALSE", token.KwFalse},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			lx, _ := makeTestLexer(tt.input)
			tok := lx.Next()
			if tok.Kind != tt.kind {
				t.Errorf("expected %v, got %v", tt.kind, tok.Kind)
			}
		})
	}
}

func TestKeywords_AreCaseSensitive(t *testing.T) {
	// The uppercase keyword-operators are not recognized in lowercase, and
	// vice versa: each spelling means exactly one thing.
	tests := []string{"and", "If", "End", "true", "false", "IF", "Record"}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, _ := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Ident {
				t.Errorf("expected Ident for %q, got %v", input, tok.Kind)
			}
		})
	}
}

func TestIdentifiers_Unicode(t *testing.T) {
	tests := []string{
		"идентификатор",
		"переменная",
		"δ",
		"λx",
		"函数",
		"変数",
	}

	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, _ := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Ident {
				t.Errorf("expected Ident, got %v for %q", tok.Kind, input)
			}
			if tok.Text != input {
				t.Errorf("expected text %q, got %q", input, tok.Text)
			}
		})
	}
}

// ====== scan_number.go / scan_bits.go ======

func TestNumbers_Decimal(t *testing.T) {
	tests := []string{"0", "123", "456789", "1_000", "1_000_000", "999_999_999"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.IntLit, input)
		})
	}
}

func TestNumbers_Hexadecimal(t *testing.T) {
	tests := []string{"0x0", "0xF", "0xFFFF_0000", "0xff", "0xAB_CD", "0X123"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.IntLit, input)
		})
	}
}

func TestNumbers_Real(t *testing.T) {
	tests := []string{"1.0", "3.14", "0.5", "123.456", "1_000.5", "0.123_456"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.RealLit, input)
		})
	}
}

func TestNumbers_DotDotIsRangeNotFloat(t *testing.T) {
	expectTokens(t, "1..10", []token.Kind{
		token.IntLit,
		token.DotDot,
		token.IntLit,
	})
}

func TestNumbers_SizedIntLiteral(t *testing.T) {
	tests := []string{"i8'd12", "i16'b1010", "i32'xFF"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.SizedIntLit, input)
		})
	}
}

func TestNumbers_BitvectorLiteral(t *testing.T) {
	tests := []string{"4'b1010", "8'd255", "16'xFFFF"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.BitsLit, input)
		})
	}
}

func TestQuotedBitvectorLiteral(t *testing.T) {
	expectSingleToken(t, "'1010 1100'", token.BitsLit, "'1010 1100'")
}

func TestQuotedMaskLiteral(t *testing.T) {
	expectSingleToken(t, "'10xx'", token.MaskLit, "'10xx'")
}

// ====== scan_string.go ======

func TestString_Simple(t *testing.T) {
	tests := []string{`""`, `"hello"`, `"hello world"`, `"123"`}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestString_Escapes(t *testing.T) {
	tests := []string{
		`"hello\nworld"`,
		`"tab\there"`,
		`"quote\"inside"`,
		`"backslash\\"`,
	}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			expectSingleToken(t, input, token.StringLit, input)
		})
	}
}

func TestString_Unterminated(t *testing.T) {
	tests := []string{`"hello`, `"world`, `"unclosed string`}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Errorf("expected Invalid for unterminated string, got %v", tok.Kind)
			}
			if !reporter.HasErrors() {
				t.Error("expected error report for unterminated string")
			}
		})
	}
}

func TestString_NewlineInString(t *testing.T) {
	lx, reporter := makeTestLexer("\"hello\nworld\"")
	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Errorf("expected Invalid for newline in string, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for newline in string")
	}
}

// ====== scan_ops.go ======

func TestOperators_Single(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"+", token.Plus},
		{"-", token.Minus},
		{"*", token.Star},
		{"/", token.Slash},
		{"%", token.Percent},
		{"=", token.Assign},
		{"!", token.Bang},
		{"<", token.Lt},
		{">", token.Gt},
		{":", token.Colon},
		{";", token.Semicolon},
		{",", token.Comma},
		{".", token.Dot},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestOperators_Multi(t *testing.T) {
	tests := []struct {
		input string
		kind  token.Kind
	}{
		{"==", token.EqEq},
		{"!=", token.BangEq},
		{"<=", token.LtEq},
		{">=", token.GtEq},
		{"&&", token.AndAnd},
		{"||", token.OrOr},
		{"->", token.Arrow},
		{"=>", token.FatArrow},
		{"..", token.DotDot},
		{"++", token.PlusPlus},
		{"+:", token.PlusColon},
		{"-:", token.MinusColon},
		{"*:", token.StarColon},
		{"<->", token.LeftRightArrow},
		{"-->", token.LongRightArrow},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			expectSingleToken(t, tt.input, tt.kind, tt.input)
		})
	}
}

func TestOperators_Greedy(t *testing.T) {
	expectTokens(t, "<->", []token.Kind{token.LeftRightArrow})
	expectTokens(t, "-->", []token.Kind{token.LongRightArrow})
	expectTokens(t, "+:+:", []token.Kind{token.PlusColon, token.PlusColon})
}

// ====== trivia.go ======

func TestTrivia_Spaces(t *testing.T) {
	lx, _ := makeTestLexer("  \t  foo")
	tok := lx.Next()

	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaSpace {
		t.Fatalf("expected 1 TriviaSpace, got %v", tok.Leading)
	}
}

func TestTrivia_Newlines(t *testing.T) {
	lx, _ := makeTestLexer("\n\n\nfoo")
	tok := lx.Next()

	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaNewline {
		t.Fatalf("expected 1 coalesced TriviaNewline, got %v", tok.Leading)
	}
}

func TestTrivia_BlockComment(t *testing.T) {
	lx, _ := makeTestLexer("/* block comment */foo")
	tok := lx.Next()

	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaBlockComment {
		t.Fatalf("expected 1 TriviaBlockComment, got %v", tok.Leading)
	}
}

func TestTrivia_NestedBlockComment(t *testing.T) {
	lx, _ := makeTestLexer("/* outer /* inner */ still outer */foo")
	tok := lx.Next()

	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if len(tok.Leading) != 1 || tok.Leading[0].Kind != token.TriviaBlockComment {
		t.Fatalf("expected 1 TriviaBlockComment, got %v", tok.Leading)
	}
}

func TestTrivia_UnterminatedBlockComment(t *testing.T) {
	lx, reporter := makeTestLexer("/* unterminated\nfoo")
	tok := lx.Next()

	if tok.Kind != token.EOF {
		t.Errorf("expected EOF after unterminated block comment consuming all input, got %v", tok.Kind)
	}
	if !reporter.HasErrors() {
		t.Error("expected error report for unterminated block comment")
	}
}

func TestTrivia_FencedComment(t *testing.T) {
	input := "```\nnot asl code\n```\nfoo"
	lx, _ := makeTestLexer(input)
	tok := lx.Next()

	if tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	found := false
	for _, tv := range tok.Leading {
		if tv.Kind == token.TriviaFencedComment {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a TriviaFencedComment, got %v", tok.Leading)
	}
}

func TestTrivia_FencedCommentNotAtColumnZeroIsNotFenced(t *testing.T) {
	// a ``` that doesn't start a line is just punctuation/unknown-char territory;
	// it must not be treated as a fenced block.
	input := "x ```y"
	lx, _ := makeTestLexer(input)
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "x" {
		t.Fatalf("expected leading Ident 'x', got %v %q", tok.Kind, tok.Text)
	}
}

// ====== else-if warning ======

func TestElseIfSameLineWarns(t *testing.T) {
	lx, reporter := makeTestLexer("else if x then 1 end")
	tok := lx.Next()
	if tok.Kind != token.KwElse {
		t.Fatalf("expected KwElse, got %v", tok.Kind)
	}
	if !reporter.HasWarnings() {
		t.Error("expected a warning for 'else if' on the same line")
	}

	next := lx.Next()
	if next.Kind != token.KwIf {
		t.Fatalf("expected KwIf to still be produced normally, got %v", next.Kind)
	}
}

func TestElsifDoesNotWarn(t *testing.T) {
	lx, reporter := makeTestLexer("elsif x then 1 end")
	lx.Next()
	if reporter.HasWarnings() {
		t.Error("did not expect a warning for 'elsif'")
	}
}

func TestElseIfOnDifferentLineDoesNotWarn(t *testing.T) {
	lx, reporter := makeTestLexer("else\nif x then 1 end")
	lx.Next()
	if reporter.HasWarnings() {
		t.Error("did not expect a warning when 'if' is on its own line")
	}
}

// ====== integration ======

func TestLexer_SimpleExpression(t *testing.T) {
	input := "let x = 123 + 456"
	expectTokens(t, input, []token.Kind{
		token.KwLet,
		token.Ident,
		token.Assign,
		token.IntLit,
		token.Plus,
		token.IntLit,
	})
}

func TestLexer_FunctionDefinition(t *testing.T) {
	input := "func add(a, b) begin return a + b end"
	expectTokens(t, input, []token.Kind{
		token.KwFunc,
		token.Ident,
		token.LParen,
		token.Ident,
		token.Comma,
		token.Ident,
		token.RParen,
		token.KwBegin,
		token.KwReturn,
		token.Ident,
		token.Plus,
		token.Ident,
		token.KwEnd,
	})
}

func TestLexer_PeekBehavior(t *testing.T) {
	lx, _ := makeTestLexer("a b c")

	peek1 := lx.Peek()
	if peek1.Kind != token.Ident || peek1.Text != "a" {
		t.Errorf("first peek: expected Ident 'a', got %v %q", peek1.Kind, peek1.Text)
	}

	peek2 := lx.Peek()
	if peek2.Kind != peek1.Kind || peek2.Text != peek1.Text {
		t.Error("second peek should return the same token")
	}

	next1 := lx.Next()
	if next1.Kind != peek1.Kind || next1.Text != peek1.Text {
		t.Error("next should return the peeked token")
	}

	next2 := lx.Next()
	if next2.Text != "b" {
		t.Errorf("expected 'b', got %q", next2.Text)
	}
}

func TestLexer_EOF(t *testing.T) {
	lx, _ := makeTestLexer("x")

	if tok := lx.Next(); tok.Kind != token.Ident {
		t.Fatalf("expected Ident, got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Fatalf("expected EOF, got %v", tok.Kind)
	}
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Errorf("expected EOF again, got %v", tok.Kind)
	}
}

func TestLexer_EmptyInput(t *testing.T) {
	lx, _ := makeTestLexer("")
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Errorf("expected EOF for empty input, got %v", tok.Kind)
	}
}

func TestLexer_OnlyWhitespace(t *testing.T) {
	lx, _ := makeTestLexer("   \t\n  ")
	if tok := lx.Next(); tok.Kind != token.EOF {
		t.Errorf("expected EOF for whitespace-only input, got %v", tok.Kind)
	}
}

func TestLexer_UnknownCharacter(t *testing.T) {
	tests := []string{"#", "$", "§", "€"}
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			lx, reporter := makeTestLexer(input)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Errorf("expected Invalid for unknown char %q, got %v", input, tok.Kind)
			}
			if !reporter.HasErrors() {
				t.Error("expected error report for unknown character")
			}
		})
	}
}

func BenchmarkLexer_SimpleExpression(b *testing.B) {
	input := "let x = 123 + 456 * 789"
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("bench.asl", []byte(input))
	file := fs.Get(fileID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lx := lexer.New(file, lexer.Options{})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
		}
	}
}

func BenchmarkLexer_LargeFile(b *testing.B) {
	var sb strings.Builder
	for i := 0; i < 100; i++ {
		sb.WriteString("func f")
		sb.WriteString(fmt.Sprintf("%d", i))
		sb.WriteString("(a, b) begin return a + b end\n")
	}
	input := sb.String()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("bench.asl", []byte(input))
	file := fs.Get(fileID)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		lx := lexer.New(file, lexer.Options{})
		for {
			tok := lx.Next()
			if tok.Kind == token.EOF {
				break
			}
		}
	}
}
