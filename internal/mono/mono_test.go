package mono

import (
	"testing"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/symbols"
	"asli/internal/value"
)

type fixture struct {
	b     *ast.Builder
	str   *source.Interner
	diags *diag.Bag
	decls []ast.DeclID
}

func newFixture() *fixture {
	return &fixture{
		b:     ast.NewBuilder(ast.Hints{}),
		str:   source.NewInterner(),
		diags: diag.NewBag(64),
	}
}

func (f *fixture) input() Input {
	return Input{
		B:     f.b,
		Str:   f.str,
		Table: symbols.NewTable(symbols.Hints{}, f.str, source.Span{}),
		Sema: sema.Result{
			ExprTypes: map[ast.ExprID]sema.Ty{},
			Consts:    map[source.StringID]value.Value{},
		},
		Diags: f.diags,
		Decls: f.decls,
	}
}

func (f *fixture) intLit(text string) ast.ExprID {
	return f.b.Exprs.NewLiteral(ast.LitInteger, f.str.Intern(text), 0, source.Span{})
}

func (f *fixture) ident(name string) ast.ExprID {
	return f.b.Exprs.NewIdent(f.str.Intern(name), source.Span{})
}

// declPoly declares `func Poly(n: integer, x: bits(n)) -> bits(n)`, the
// canonical width-polymorphic shape.
func (f *fixture) declPoly() ast.DeclID {
	n := f.str.Intern("n")
	params := []ast.FnParam{
		{Name: n, Type: f.b.Types.NewInteger(nil, source.Span{})},
		{Name: f.str.Intern("x"), Type: f.b.Types.NewBits(f.ident("n"), source.Span{})},
	}
	ret := f.b.Types.NewBits(f.ident("n"), source.Span{})
	body := f.b.Stmts.NewBlock([]ast.StmtID{
		f.b.Stmts.NewReturn(f.ident("x"), true, source.Span{}),
	}, source.Span{})
	id := f.b.Decls.NewFunctionDef(f.str.Intern("Poly"), params, ret, ast.ThrowsNever, body, source.Span{})
	f.decls = append(f.decls, id)
	return id
}

// declCaller declares a function whose body calls Poly once per given
// width argument expression.
func (f *fixture) declCaller(name string, widthArgs ...ast.ExprID) ast.DeclID {
	var stmts []ast.StmtID
	for _, w := range widthArgs {
		call := f.b.Exprs.NewCallUntyped(f.str.Intern("Poly"), []ast.CallArg{
			{Value: w},
			{Value: f.ident("v")},
		}, ast.ThrowsNever, source.Span{})
		stmts = append(stmts, f.b.Stmts.NewCallExpr(call, source.Span{}))
	}
	body := f.b.Stmts.NewBlock(stmts, source.Span{})
	id := f.b.Decls.NewFunctionDef(f.str.Intern(name), nil, ast.NoTypeID, ast.ThrowsNever, body, source.Span{})
	f.decls = append(f.decls, id)
	return id
}

func (f *fixture) cloneNames(decls []ast.DeclID) []string {
	var names []string
	for _, id := range decls[len(f.decls):] {
		if d, ok := f.b.Decls.FunctionDef(id); ok {
			names = append(names, f.str.MustLookup(d.Name))
		}
	}
	return names
}

// One clone per distinct width tuple: three calls over widths {8, 8, 16}
// produce exactly two clones, and every call site ends up typed.
func TestMonomorphizeClonesPerDistinctWidth(t *testing.T) {
	f := newFixture()
	f.declPoly()
	f.declCaller("Use", f.intLit("8"), f.intLit("8"), f.intLit("16"))

	out, err := Monomorphize(f.input())
	if err != nil {
		t.Fatal(err)
	}
	names := f.cloneNames(out)
	if len(names) != 2 {
		t.Fatalf("got clones %v, want exactly Poly$8 and Poly$16", names)
	}
	seen := map[string]bool{}
	for _, n := range names {
		seen[n] = true
	}
	if !seen["Poly$8"] || !seen["Poly$16"] {
		t.Fatalf("clone names = %v", names)
	}

	in := f.input()
	in.Decls = out
	if err := CheckMonomorphic(in); err != nil {
		t.Fatalf("call sites left unresolved: %v", err)
	}
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}

// A clone keeps only the non-width formals, with the width substituted.
func TestMonomorphizeCloneShape(t *testing.T) {
	f := newFixture()
	f.declPoly()
	f.declCaller("Use", f.intLit("8"))

	out, err := Monomorphize(f.input())
	if err != nil {
		t.Fatal(err)
	}
	var clone *ast.DeclFunctionDefData
	for _, id := range out[len(f.decls):] {
		if d, ok := f.b.Decls.FunctionDef(id); ok && f.str.MustLookup(d.Name) == "Poly$8" {
			clone = d
		}
	}
	if clone == nil {
		t.Fatal("Poly$8 not generated")
	}
	if len(clone.Params) != 1 {
		t.Fatalf("clone kept %d params, want 1 (the width formal is gone)", len(clone.Params))
	}
	bits, ok := f.b.Types.Bits_(clone.Params[0].Type)
	if !ok {
		t.Fatal("clone's value parameter is not a bits type")
	}
	w, ok := f.b.Exprs.Literal(bits.Width)
	if !ok || f.str.MustLookup(w.Text) != "8" {
		t.Fatal("clone's width was not substituted with the literal 8")
	}
}

// Rerunning on already-monomorphic output creates nothing new.
func TestMonomorphizeTerminates(t *testing.T) {
	f := newFixture()
	f.declPoly()
	f.declCaller("Use", f.intLit("8"))

	out, err := Monomorphize(f.input())
	if err != nil {
		t.Fatal(err)
	}
	in := f.input()
	in.Decls = out
	again, err := Monomorphize(in)
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != len(out) {
		t.Fatalf("second round grew the program: %d -> %d decls", len(out), len(again))
	}
}

// A width argument that never folds to a literal is left at the call site
// and reported by the confluence check.
func TestCheckMonomorphicReportsUnresolvedCall(t *testing.T) {
	f := newFixture()
	f.declPoly()
	f.declCaller("Use", f.ident("w"))

	out, err := Monomorphize(f.input())
	if err != nil {
		t.Fatal(err)
	}
	in := f.input()
	in.Decls = out
	if err := CheckMonomorphic(in); err == nil {
		t.Fatal("expected an unresolved-width error")
	}
	found := false
	for _, d := range f.diags.Items() {
		if d.Code == diag.InternalMonomorphization {
			found = true
		}
	}
	if !found {
		t.Fatalf("want InternalMonomorphization, got %v", f.diags.Items())
	}
}
