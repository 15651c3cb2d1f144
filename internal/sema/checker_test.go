package sema

import (
	"testing"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/source"
	"asli/internal/symbols"
	"asli/internal/value"
)

type fixture struct {
	b     *ast.Builder
	str   *source.Interner
	table *symbols.Table
	diags *diag.Bag
	c     *Checker
}

func newFixture() *fixture {
	b := ast.NewBuilder(ast.Hints{})
	str := source.NewInterner()
	table := symbols.NewTable(symbols.Hints{}, str, source.Span{})
	bags := diag.NewBag(64)
	c := NewChecker(b, str, table, bags, map[source.StringID]value.Value{})
	return &fixture{b: b, str: str, table: table, diags: bags, c: c}
}

func (f *fixture) intLit(n int64) ast.ExprID {
	text := f.str.Intern(value.IntFromInt64(n).String())
	return f.b.Exprs.NewLiteral(ast.LitInteger, text, 0, source.Span{})
}

func (f *fixture) boolLit(v bool) ast.ExprID {
	text := "false"
	if v {
		text = "true"
	}
	return f.b.Exprs.NewLiteral(ast.LitBool, f.str.Intern(text), 0, source.Span{})
}

func (f *fixture) ident(name string) ast.ExprID {
	return f.b.Exprs.NewIdent(f.str.Intern(name), source.Span{})
}

func (f *fixture) bin(op ast.BinaryOp, l, r ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewBinary(op, l, r, source.Span{})
}

func (f *fixture) intType() ast.TypeID {
	return f.b.Types.NewIdent(f.str.Intern("int"), nil, source.Span{})
}

func (f *fixture) boolType() ast.TypeID {
	return f.b.Types.NewIdent(f.str.Intern("boolean"), nil, source.Span{})
}

func TestTcLiteralInteger(t *testing.T) {
	f := newFixture()
	ty := f.c.tcExpr(f.intLit(3))
	if ty.Kind != TyInt {
		t.Fatalf("got kind %v, want TyInt", ty.Kind)
	}
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}

func TestTcIdentUnknownReportsDiagnostic(t *testing.T) {
	f := newFixture()
	ty := f.c.tcExpr(f.ident("nope"))
	if ty.IsValid() {
		t.Fatal("expected Invalid() for an unresolved identifier")
	}
	if !f.diags.HasErrors() {
		t.Fatal("expected a diagnostic for an unresolved identifier")
	}
}

func TestTcBinaryArithmeticOnPlainIntegers(t *testing.T) {
	f := newFixture()
	sum := f.bin(ast.BinAdd, f.intLit(1), f.intLit(2))
	ty := f.c.tcExpr(sum)
	if ty.Kind != TyInt {
		t.Fatalf("got kind %v, want TyInt", ty.Kind)
	}
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}

func TestTcBinaryComparisonRejectsNonNumeric(t *testing.T) {
	f := newFixture()
	boolName := f.str.Intern("flag")
	f.c.scope = newLocalScope(nil)
	f.c.scope.bind(boolName, Bool(), false)
	lt := f.bin(ast.BinLt, f.ident("flag"), f.intLit(1))
	f.c.tcExpr(lt)
	if !f.diags.HasErrors() {
		t.Fatal("expected a diagnostic comparing a boolean against an integer")
	}
}

func TestSatisfiesUnconstrainedIntAcceptsAnyConstraint(t *testing.T) {
	f := newFixture()
	sub := Ty{Kind: TyInt, Constraints: []ast.IntConstraint{{Kind: ast.ConstraintRange, Lo: f.intLit(0), Hi: f.intLit(10)}}}
	super := UnconstrainedInt()
	if !f.c.Satisfies(sub, super) {
		t.Fatal("expected any constrained int to satisfy the unconstrained int")
	}
}

func TestSatisfiesConstrainedIntRejectsWiderSub(t *testing.T) {
	f := newFixture()
	sub := Ty{Kind: TyInt, Constraints: []ast.IntConstraint{{Kind: ast.ConstraintRange, Lo: f.intLit(0), Hi: f.intLit(10)}}}
	super := Ty{Kind: TyInt, Constraints: []ast.IntConstraint{{Kind: ast.ConstraintRange, Lo: f.intLit(0), Hi: f.intLit(5)}}}
	if f.c.Satisfies(sub, super) {
		t.Fatal("expected [0,10] to not satisfy [0,5]")
	}
}

func TestSatisfiesRecordRequiresSameDecl(t *testing.T) {
	f := newFixture()
	a := Ty{Kind: TyRecord, Decl: ast.DeclID(1)}
	b := Ty{Kind: TyRecord, Decl: ast.DeclID(2)}
	if f.c.Satisfies(a, b) {
		t.Fatal("expected distinct record declarations to not satisfy each other")
	}
	if !f.c.Satisfies(a, a) {
		t.Fatal("expected a record type to satisfy itself")
	}
}

// declareFunction registers a single-overload function `name(param: int) => boolean`
// in the Functions namespace, the shape CheckFile's call-resolution path expects.
func (f *fixture) declareFunction(name string, paramType, retType ast.TypeID) {
	n := f.str.Intern(name)
	declID := f.b.Decls.NewFunctionDef(n, []ast.FnParam{{Name: f.str.Intern("x"), Type: paramType}}, retType, ast.ThrowsNever, ast.NoStmtID, source.Span{})
	symID := f.table.Symbols.New(symbols.Symbol{Name: n, Kind: symbols.SymbolFunction, Scope: f.table.Global, Decl: declID})
	f.table.Functions[n] = append(f.table.Functions[n], symID)
}

func TestResolveOverloadSingleMatch(t *testing.T) {
	f := newFixture()
	f.declareFunction("isPositive", f.intType(), f.boolType())
	call := f.b.Exprs.NewCallUntyped(f.str.Intern("isPositive"), []ast.CallArg{{Value: f.intLit(3)}}, ast.ThrowsNever, source.Span{})
	ty := f.c.tcExpr(call)
	if ty.Kind != TyBool {
		t.Fatalf("got kind %v, want TyBool", ty.Kind)
	}
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}

func TestResolveOverloadNoMatchReportsError(t *testing.T) {
	f := newFixture()
	f.declareFunction("isPositive", f.intType(), f.boolType())
	call := f.b.Exprs.NewCallUntyped(f.str.Intern("isPositive"), []ast.CallArg{{Value: f.boolLit(true)}}, ast.ThrowsNever, source.Span{})
	f.c.tcExpr(call)
	if !f.diags.HasErrors() {
		t.Fatal("expected a diagnostic when no overload accepts the argument types")
	}
}

func TestCheckFileFunctionBodyTypechecks(t *testing.T) {
	f := newFixture()
	retTy := f.boolType()
	body := f.b.Stmts.NewBlock([]ast.StmtID{
		f.b.Stmts.NewReturn(f.bin(ast.BinGe, f.ident("x"), f.intLit(0)), true, source.Span{}),
	}, source.Span{})
	fn := f.b.Decls.NewFunctionDef(f.str.Intern("nonNegative"), []ast.FnParam{{Name: f.str.Intern("x"), Type: f.intType()}}, retTy, ast.ThrowsNever, body, source.Span{})
	file := f.b.Files.New(source.Span{})
	f.b.Files.PushDecl(file, fn)
	f.c.CheckFile(file)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}

func TestAssumptionLetsProveLEThatWouldOtherwiseFail(t *testing.T) {
	f := newFixture()
	n := f.ident("n")
	if f.c.proveLE(f.intLit(0), n) {
		t.Fatal("0 <= n should not be provable with no assumptions in scope")
	}
	mark := f.c.assumptionMark()
	f.c.pushAssumption(f.bin(ast.BinGe, n, f.intLit(0)))
	if !f.c.proveLE(f.intLit(0), n) {
		t.Fatal("expected n>=0 to prove 0<=n")
	}
	f.c.restoreAssumptions(mark)
	if f.c.proveLE(f.intLit(0), n) {
		t.Fatal("expected the assumption to no longer apply after restoreAssumptions")
	}
}

// containsAssert reports whether the block rooted at id contains an assert
// statement, following the rewriting tcStmt performs when lifting a
// runtime check ahead of the statement that needed it.
func (f *fixture) containsAssert(id ast.StmtID) bool {
	s := f.b.Stmts.Get(id)
	if s == nil {
		return false
	}
	if s.Kind == ast.StmtAssert {
		return true
	}
	if s.Kind == ast.StmtBlock {
		d, _ := f.b.Stmts.Block(id)
		for _, st := range d.Stmts {
			if f.containsAssert(st) {
				return true
			}
		}
	}
	return false
}

func TestTcBinaryUnprovenDivisionLiftsRuntimeCheck(t *testing.T) {
	f := newFixture()
	div := f.bin(ast.BinDiv, f.ident("n"), f.ident("d"))
	body := f.b.Stmts.NewBlock([]ast.StmtID{
		f.b.Stmts.NewReturn(div, true, source.Span{}),
	}, source.Span{})
	fn := f.b.Decls.NewFunctionDef(f.str.Intern("divide"),
		[]ast.FnParam{{Name: f.str.Intern("n"), Type: f.intType()}, {Name: f.str.Intern("d"), Type: f.intType()}},
		f.intType(), ast.ThrowsNever, body, source.Span{})
	file := f.b.Files.New(source.Span{})
	f.b.Files.PushDecl(file, fn)
	f.c.CheckFile(file)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
	fd, _ := f.b.Decls.FunctionDef(fn)
	if !f.containsAssert(fd.Body) {
		t.Fatal("expected an unproven division to lift an assert ahead of the return statement")
	}
}

func TestTcBinaryProvenNonzeroDivisionSkipsRuntimeCheck(t *testing.T) {
	f := newFixture()
	div := f.bin(ast.BinDiv, f.ident("n"), f.intLit(2))
	body := f.b.Stmts.NewBlock([]ast.StmtID{
		f.b.Stmts.NewReturn(div, true, source.Span{}),
	}, source.Span{})
	fn := f.b.Decls.NewFunctionDef(f.str.Intern("halve"),
		[]ast.FnParam{{Name: f.str.Intern("n"), Type: f.intType()}},
		f.intType(), ast.ThrowsNever, body, source.Span{})
	file := f.b.Files.New(source.Span{})
	f.b.Files.PushDecl(file, fn)
	f.c.CheckFile(file)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
	fd, _ := f.b.Decls.FunctionDef(fn)
	if f.containsAssert(fd.Body) {
		t.Fatal("dividing by the literal 2 should not need a runtime check")
	}
}

func TestTcIndexUnprovenBoundsLiftsRuntimeCheck(t *testing.T) {
	f := newFixture()
	arrTy := f.b.Types.NewArray(f.intType(), f.intLit(10), source.Span{})
	idx := f.b.Exprs.NewIndex(f.ident("arr"), f.ident("i"), source.Span{})
	body := f.b.Stmts.NewBlock([]ast.StmtID{
		f.b.Stmts.NewReturn(idx, true, source.Span{}),
	}, source.Span{})
	fn := f.b.Decls.NewFunctionDef(f.str.Intern("at"),
		[]ast.FnParam{{Name: f.str.Intern("arr"), Type: arrTy}, {Name: f.str.Intern("i"), Type: f.intType()}},
		f.intType(), ast.ThrowsNever, body, source.Span{})
	file := f.b.Files.New(source.Span{})
	f.b.Files.PushDecl(file, fn)
	f.c.CheckFile(file)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
	fd, _ := f.b.Decls.FunctionDef(fn)
	if !f.containsAssert(fd.Body) {
		t.Fatal("expected an unbounded array index to lift a bounds-check assert")
	}
}

func TestCheckFileFunctionBodyAssertThenReturn(t *testing.T) {
	f := newFixture()
	assertStmt := f.b.Stmts.NewAssert(f.bin(ast.BinGe, f.ident("x"), f.intLit(0)), source.NoStringID, source.Span{})
	retStmt := f.b.Stmts.NewReturn(f.bin(ast.BinGe, f.ident("x"), f.intLit(-1)), true, source.Span{})
	body := f.b.Stmts.NewBlock([]ast.StmtID{assertStmt, retStmt}, source.Span{})
	fn := f.b.Decls.NewFunctionDef(f.str.Intern("check"), []ast.FnParam{{Name: f.str.Intern("x"), Type: f.intType()}}, f.boolType(), ast.ThrowsNever, body, source.Span{})
	file := f.b.Files.New(source.Span{})
	f.b.Files.PushDecl(file, fn)
	f.c.CheckFile(file)
	if f.diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", f.diags.Items())
	}
}
