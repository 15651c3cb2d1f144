package symbols

import (
	"testing"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
)

type fixture struct {
	b     *ast.Builder
	str   *source.Interner
	table *Table
	diags *diag.Bag
	r     *Resolver
	file  ast.FileID
}

func newFixture() *fixture {
	b := ast.NewBuilder(ast.Hints{})
	str := source.NewInterner()
	table := NewTable(Hints{}, str, source.Span{})
	bag := diag.NewBag(64)
	r := NewResolver(table, diag.BagReporter{Bag: bag}, b)
	return &fixture{b: b, str: str, table: table, diags: bag, r: r, file: b.NewFile(source.Span{})}
}

func (f *fixture) pushVar(name string) ast.DeclID {
	id := f.b.Decls.NewVariable(f.str.Intern(name), ast.NoTypeID, ast.NoExprID, source.Span{})
	f.b.PushDecl(f.file, id)
	return id
}

func (f *fixture) pushFunc(name string, params []ast.FnParam) ast.DeclID {
	body := f.b.Stmts.NewBlock(nil, source.Span{})
	id := f.b.Decls.NewFunctionDef(f.str.Intern(name), params, ast.NoTypeID, ast.ThrowsNever, body, source.Span{})
	f.b.PushDecl(f.file, id)
	return id
}

func TestResolveRegistersNamespaces(t *testing.T) {
	f := newFixture()
	f.pushVar("PC")
	f.pushFunc("Step", nil)
	rec := f.b.Decls.NewRecord(f.str.Intern("State"), nil, nil, source.Span{})
	f.b.PushDecl(f.file, rec)

	f.r.ResolveFile(f.file, nil)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
	if _, ok := f.table.Globals[f.str.Intern("PC")]; !ok {
		t.Error("global variable not registered")
	}
	if len(f.table.Functions[f.str.Intern("Step")]) != 1 {
		t.Error("function not registered under its name")
	}
	if _, ok := f.table.Types[f.str.Intern("State")]; !ok {
		t.Error("record type not registered")
	}
}

// Globals are a unique namespace: a second declaration reports, the first
// binding survives.
func TestResolveRejectsDuplicateGlobal(t *testing.T) {
	f := newFixture()
	first := f.pushVar("PC")
	f.pushVar("PC")

	f.r.ResolveFile(f.file, nil)
	if !f.diags.HasErrors() {
		t.Fatal("duplicate global not reported")
	}
	symID := f.table.Globals[f.str.Intern("PC")]
	if sym := f.table.Symbols.Get(symID); sym == nil || sym.Decl != first {
		t.Error("first declaration did not survive the duplicate")
	}
}

// Functions overload: two declarations under one name coexist.
func TestResolveFunctionsOverload(t *testing.T) {
	f := newFixture()
	intTy := f.b.Types.NewInteger(nil, source.Span{})
	f.pushFunc("F", nil)
	f.pushFunc("F", []ast.FnParam{{Name: f.str.Intern("x"), Type: intTy}})

	f.r.ResolveFile(f.file, nil)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
	if got := len(f.table.Functions[f.str.Intern("F")]); got != 2 {
		t.Fatalf("got %d overloads, want 2", got)
	}
}

// Operator candidate names resolve against the Functions namespace even
// when the named function is declared after the operator.
func TestResolveOperatorCandidates(t *testing.T) {
	f := newFixture()
	op := f.b.Decls.NewBinaryOperator(ast.BinAdd, nil, source.Span{})
	f.b.PushDecl(f.file, op)
	fn := f.pushFunc("AddVec", nil)

	f.r.ResolveFile(f.file, []OperatorCandidate{
		{Decl: op, Names: []source.StringID{f.str.Intern("AddVec")}},
	})
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
	d, ok := f.b.Decls.Operator(op)
	if !ok {
		t.Fatal("operator declaration lost")
	}
	if len(d.Candidates) != 1 || d.Candidates[0] != fn {
		t.Fatalf("candidates = %v, want [%v]", d.Candidates, fn)
	}
}
