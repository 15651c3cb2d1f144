package sema

import (
	"testing"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
)

// declareEffectfulFn builds `func WX() => integer begin G = 1; return 1; end`
// against a global G, the canonical order-dependent mutator.
func (f *fixture) declareEffectfulFn(name string) ast.DeclID {
	g := f.str.Intern("G")
	f.table.Globals[g] = symbols.SymbolID(1)

	assign := f.b.Stmts.NewAssign(f.b.LValues.NewIdent(g, source.Span{}), f.intLit(1), source.Span{})
	ret := f.b.Stmts.NewReturn(f.intLit(1), true, source.Span{})
	body := f.b.Stmts.NewBlock([]ast.StmtID{assign, ret}, source.Span{})
	return f.b.Decls.NewFunctionDef(f.str.Intern(name), nil, f.intType(), ast.ThrowsNever, body, source.Span{})
}

func (f *fixture) call(name string) ast.ExprID {
	return f.b.Exprs.NewCallUntyped(f.str.Intern(name), nil, ast.ThrowsNever, source.Span{})
}

func TestCheckEffectsRejectsSiblingEffectfulCalls(t *testing.T) {
	f := newFixture()
	wx := f.declareEffectfulFn("WX")

	// func Use() => integer begin return WX() + WX(); end
	sum := f.bin(ast.BinAdd, f.call("WX"), f.call("WX"))
	body := f.b.Stmts.NewBlock([]ast.StmtID{f.b.Stmts.NewReturn(sum, true, source.Span{})}, source.Span{})
	use := f.b.Decls.NewFunctionDef(f.str.Intern("Use"), nil, f.intType(), ast.ThrowsNever, body, source.Span{})

	CheckEffects(f.b, f.str, f.table, f.diags, []ast.DeclID{wx, use})
	if !f.diags.HasErrors() {
		t.Fatal("want an evaluation-order diagnostic for WX() + WX()")
	}
	found := false
	for _, d := range f.diags.Items() {
		if d.Code == diag.TypeErrorEffectConflict {
			found = true
		}
	}
	if !found {
		t.Fatalf("want TypeErrorEffectConflict, got %v", f.diags.Items())
	}
}

func TestCheckEffectsAllowsSingleEffectfulCall(t *testing.T) {
	f := newFixture()
	wx := f.declareEffectfulFn("WX")

	// One effectful operand is fine; the other side is pure.
	sum := f.bin(ast.BinAdd, f.call("WX"), f.intLit(2))
	body := f.b.Stmts.NewBlock([]ast.StmtID{f.b.Stmts.NewReturn(sum, true, source.Span{})}, source.Span{})
	use := f.b.Decls.NewFunctionDef(f.str.Intern("Use"), nil, f.intType(), ast.ThrowsNever, body, source.Span{})

	CheckEffects(f.b, f.str, f.table, f.diags, []ast.DeclID{wx, use})
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}

func TestCheckEffectsPropagatesThroughCallers(t *testing.T) {
	f := newFixture()
	wx := f.declareEffectfulFn("WX")

	// Mid() only calls WX(), so Mid() itself is effectful; two Mid()
	// siblings must be rejected even though Mid never names a global.
	midBody := f.b.Stmts.NewBlock([]ast.StmtID{
		f.b.Stmts.NewReturn(f.call("WX"), true, source.Span{}),
	}, source.Span{})
	mid := f.b.Decls.NewFunctionDef(f.str.Intern("Mid"), nil, f.intType(), ast.ThrowsNever, midBody, source.Span{})

	sum := f.bin(ast.BinAdd, f.call("Mid"), f.call("Mid"))
	useBody := f.b.Stmts.NewBlock([]ast.StmtID{f.b.Stmts.NewReturn(sum, true, source.Span{})}, source.Span{})
	use := f.b.Decls.NewFunctionDef(f.str.Intern("Use"), nil, f.intType(), ast.ThrowsNever, useBody, source.Span{})

	CheckEffects(f.b, f.str, f.table, f.diags, []ast.DeclID{wx, mid, use})
	if !f.diags.HasErrors() {
		t.Fatal("want a diagnostic for Mid() + Mid() where Mid calls WX")
	}
}

func TestCheckEffectsRAMPrimitivesAreEffectful(t *testing.T) {
	f := newFixture()

	// Two ram_write calls as tuple siblings conflict with no user-defined
	// mutator in sight.
	pair := f.b.Exprs.NewTuple([]ast.ExprID{f.call("ram_write"), f.call("ram_write")}, source.Span{})
	body := f.b.Stmts.NewBlock([]ast.StmtID{f.b.Stmts.NewReturn(pair, true, source.Span{})}, source.Span{})
	use := f.b.Decls.NewFunctionDef(f.str.Intern("Use"), nil, f.intType(), ast.ThrowsNever, body, source.Span{})

	CheckEffects(f.b, f.str, f.table, f.diags, []ast.DeclID{use})
	if !f.diags.HasErrors() {
		t.Fatal("want a diagnostic for sibling ram_write calls")
	}
}
