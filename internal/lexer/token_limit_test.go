package lexer

import (
	"strings"
	"testing"

	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/token"
)

func TestTokenTooLongTriggersDiagnosticAndStops(t *testing.T) {
	content := strings.Repeat("a", maxTokenLength+1)
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("long.asl", []byte(content))
	file := fs.Get(fileID)

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics for long token")
	}
	items := bag.Items()
	if items[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", items[0].Code)
	}

	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after long token, got %v", next.Kind)
	}
}

func TestTokenAtLimitAllowed(t *testing.T) {
	content := strings.Repeat("b", maxTokenLength)
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("limit.asl", []byte(content))
	file := fs.Get(fileID)

	bag := diag.NewBag(1)
	lx := New(file, Options{Reporter: diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Ident {
		t.Fatalf("expected ident token, got %v", tok.Kind)
	}
	if bag.HasErrors() {
		t.Fatalf("did not expect diagnostics, got %v", bag.Items())
	}
}
