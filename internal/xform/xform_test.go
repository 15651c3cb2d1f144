package xform

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
	u *Unit
}

func newFixture() *fixture {
	b := ast.NewBuilder(ast.Hints{})
	str := source.NewInterner()
	return &fixture{u: &Unit{
		B:     b,
		Str:   str,
		Table: symbols.NewTable(symbols.Hints{}, str, source.Span{}),
		Sema: sema.Result{
			ExprTypes: map[ast.ExprID]sema.Ty{},
			Consts:    map[source.StringID]value.Value{},
		},
		Diags: diag.NewBag(64),
	}}
}

func (f *fixture) intLit(n int) ast.ExprID {
	return f.u.B.Exprs.NewLiteral(ast.LitInteger, f.u.Str.Intern(itoa(n)), 0, source.Span{})
}

func (f *fixture) ident(name string) ast.ExprID {
	return f.u.B.Exprs.NewIdent(f.u.Str.Intern(name), source.Span{})
}

// fn wraps stmts into a function declaration registered on the unit.
func (f *fixture) fn(name string, ret ast.TypeID, params []ast.FnParam, stmts ...ast.StmtID) ast.DeclID {
	body := f.u.B.Stmts.NewBlock(stmts, source.Span{})
	id := f.u.B.Decls.NewFunctionDef(f.u.Str.Intern(name), params, ret, ast.ThrowsNever, body, source.Span{})
	f.u.Decls = append(f.u.Decls, id)
	return id
}

func (f *fixture) bodyStmts(t *testing.T, id ast.DeclID) []ast.StmtID {
	t.Helper()
	d, ok := f.u.B.Decls.FunctionDef(id)
	if !ok {
		t.Fatal("not a function definition")
	}
	blk, ok := f.u.B.Stmts.Block(d.Body)
	if !ok {
		t.Fatal("body is not a block")
	}
	return blk.Stmts
}

func (f *fixture) ret(e ast.ExprID) ast.StmtID {
	return f.u.B.Stmts.NewReturn(e, true, source.Span{})
}

// A value-discriminated case lowers to an if/elsif chain whose omitted
// default calls the unmatched-case runtime primitive.
func TestCasePassLowersValueArms(t *testing.T) {
	f := newFixture()
	disc := f.ident("x")
	arms := []ast.CaseArm{
		{Pattern: f.u.B.Patterns.NewLiteral(f.intLit(1), source.Span{}), Body: f.ret(f.intLit(10))},
		{Pattern: f.u.B.Patterns.NewLiteral(f.intLit(2), source.Span{}), Body: f.ret(f.intLit(20))},
	}
	caseStmt := f.u.B.Stmts.NewCase(disc, arms, ast.NoStmtID, source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, caseStmt)

	if err := (CasePass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	stmts := f.bodyStmts(t, fn)
	ifd, ok := f.u.B.Stmts.If(stmts[0])
	if !ok {
		t.Fatalf("case did not lower to if; kind = %v", f.u.B.Stmts.Get(stmts[0]).Kind)
	}
	if len(ifd.Arms) != 2 {
		t.Fatalf("got %d if arms, want 2", len(ifd.Arms))
	}
	for i, arm := range ifd.Arms {
		bin, ok := f.u.B.Exprs.Binary(arm.Cond)
		if !ok || bin.Op != ast.BinEq {
			t.Errorf("arm %d condition is not an equality test", i)
		}
	}
	if !ifd.Else.IsValid() {
		t.Fatal("omitted otherwise produced no default branch")
	}
	call, ok := f.u.B.Stmts.CallExpr(ifd.Else)
	if !ok {
		t.Fatal("default branch is not a call statement")
	}
	cu, ok := f.u.B.Exprs.CallUntyped(call.Call)
	if !ok || f.u.Str.MustLookup(cu.Callee) != unmatchedCaseFn {
		t.Fatalf("default branch does not call %s", unmatchedCaseFn)
	}
}

// Rerunning the pass on its own output changes nothing (the pipeline's
// confluence property for this pass).
func TestCasePassIdempotent(t *testing.T) {
	f := newFixture()
	arms := []ast.CaseArm{
		{Pattern: f.u.B.Patterns.NewLiteral(f.intLit(1), source.Span{}), Body: f.ret(f.intLit(10))},
	}
	caseStmt := f.u.B.Stmts.NewCase(f.ident("x"), arms, ast.NoStmtID, source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, caseStmt)

	if err := (CasePass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	first := f.bodyStmts(t, fn)[0]
	if err := (CasePass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	second := f.bodyStmts(t, fn)[0]
	if first != second {
		t.Fatalf("second run rewrote the statement: %v -> %v", first, second)
	}
	ifd, ok := f.u.B.Stmts.If(second)
	if !ok || len(ifd.Arms) != 1 {
		t.Fatal("lowered shape disturbed by the second run")
	}
}

func TestCasePassRangeAndSetPatterns(t *testing.T) {
	f := newFixture()
	arms := []ast.CaseArm{
		{Pattern: f.u.B.Patterns.NewRange(f.intLit(2), f.intLit(5), source.Span{}), Body: f.ret(f.intLit(1))},
		{Pattern: f.u.B.Patterns.NewSet([]ast.PatternID{
			f.u.B.Patterns.NewLiteral(f.intLit(7), source.Span{}),
			f.u.B.Patterns.NewLiteral(f.intLit(9), source.Span{}),
		}, source.Span{}), Body: f.ret(f.intLit(2))},
	}
	caseStmt := f.u.B.Stmts.NewCase(f.ident("x"), arms, ast.NoStmtID, source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, caseStmt)

	if err := (CasePass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	ifd, _ := f.u.B.Stmts.If(f.bodyStmts(t, fn)[0])
	rangeCond, _ := f.u.B.Exprs.Binary(ifd.Arms[0].Cond)
	if rangeCond == nil || rangeCond.Op != ast.BinAnd {
		t.Error("range pattern did not lower to a bounds conjunction")
	}
	setCond, _ := f.u.B.Exprs.Binary(ifd.Arms[1].Cond)
	if setCond == nil || setCond.Op != ast.BinOr {
		t.Error("set pattern did not lower to a membership disjunction")
	}
}

// `e IN pattern` desugars to the pattern's boolean test.
func TestDesugarPatternIn(t *testing.T) {
	f := newFixture()
	pat := f.u.B.Patterns.NewSet([]ast.PatternID{
		f.u.B.Patterns.NewLiteral(f.intLit(1), source.Span{}),
		f.u.B.Patterns.NewLiteral(f.intLit(2), source.Span{}),
	}, source.Span{})
	pin := f.u.B.Exprs.NewPatternIn(f.ident("x"), pat, source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, f.ret(pin))

	if err := (DesugarPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ := f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	bin, ok := f.u.B.Exprs.Binary(retStmt.Value)
	if !ok || bin.Op != ast.BinOr {
		t.Fatalf("IN set did not desugar to a disjunction")
	}
}

func TestDesugarOneTuple(t *testing.T) {
	f := newFixture()
	inner := f.intLit(42)
	one := f.u.B.Exprs.NewTuple([]ast.ExprID{inner}, source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, f.ret(one))

	if err := (DesugarPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ := f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	if retStmt.Value != inner {
		t.Fatal("one-tuple did not collapse to its element")
	}
}

func TestBitsliceNormalizeLowWidth(t *testing.T) {
	f := newFixture()
	slice := f.u.B.Exprs.NewBitslice(ast.BitsliceLowWidth, f.ident("v"), f.intLit(4), f.intLit(4), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, f.ret(slice))

	if err := (BitsliceNormalizePass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ := f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	sl, ok := f.u.B.Exprs.Bitslice(retStmt.Value)
	if !ok || sl.Kind != ast.BitsliceHighLow {
		t.Fatalf("lo+:width did not normalize to hi:lo")
	}

	// ConstProp folds the synthesized hi = 4+4-1 down to the literal 7.
	if err := (ConstPropPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ = f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	sl, _ = f.u.B.Exprs.Bitslice(retStmt.Value)
	hi, ok := f.u.B.Exprs.Literal(sl.A)
	if !ok || f.u.Str.MustLookup(hi.Text) != "7" {
		t.Errorf("hi bound did not fold to 7")
	}

	// Idempotence: normalizing the canonical form changes nothing.
	before := retStmt.Value
	if err := (BitslicesPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ = f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	if retStmt.Value != before {
		t.Error("re-normalizing the canonical slice rewrote the node")
	}
}

func TestTuplesPassExpandsTupleDecl(t *testing.T) {
	f := newFixture()
	names := []source.StringID{f.u.Str.Intern("a"), f.u.Str.Intern("b")}
	decl := f.u.B.Stmts.NewVarDecl(ast.BindingLet, ast.VarDeclTuple, names, ast.NoTypeID, f.ident("pair"), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, decl)

	if err := (TuplesPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	stmts := f.bodyStmts(t, fn)
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want temp + 2 element decls", len(stmts))
	}
	for i, st := range stmts[1:] {
		vd, ok := f.u.B.Stmts.VarDecl(st)
		if !ok || vd.Shape != ast.VarDeclSingle {
			t.Fatalf("element decl %d not single-name", i)
		}
		idx, ok := f.u.B.Exprs.Index(vd.Init)
		if !ok {
			t.Fatalf("element decl %d not initialized by indexing the temp", i)
		}
		lit, _ := f.u.B.Exprs.Literal(idx.Index)
		if f.u.Str.MustLookup(lit.Text) != itoa(i) {
			t.Errorf("element decl %d indexes %s", i, f.u.Str.MustLookup(lit.Text))
		}
	}
}

func TestBittuplesPassSlicesMostSignificantFirst(t *testing.T) {
	f := newFixture()
	names := []source.StringID{f.u.Str.Intern("hi"), f.u.Str.Intern("lo")}
	elemTy := f.u.B.Types.NewTuple([]ast.TypeID{
		f.u.B.Types.NewBits(f.intLit(4), source.Span{}),
		f.u.B.Types.NewBits(f.intLit(2), source.Span{}),
	}, source.Span{})
	decl := f.u.B.Stmts.NewVarDecl(ast.BindingLet, ast.VarDeclBitTuple, names, elemTy, f.ident("v"), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, decl)

	if err := (BittuplesPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	stmts := f.bodyStmts(t, fn)
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want temp + 2 slices", len(stmts))
	}
	for i, st := range stmts[1:] {
		vd, _ := f.u.B.Stmts.VarDecl(st)
		if _, ok := f.u.B.Exprs.Bitslice(vd.Init); !ok {
			t.Fatalf("element decl %d not initialized by a bitslice", i)
		}
	}
}

func TestHoistLetsPass(t *testing.T) {
	f := newFixture()
	let := f.u.B.Exprs.NewLet(f.u.Str.Intern("tmp"), ast.NoTypeID, f.intLit(1), f.ident("tmp"), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, f.ret(let))

	if err := (HoistLetsPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	stmts := f.bodyStmts(t, fn)
	if len(stmts) != 2 {
		t.Fatalf("got %d statements, want hoisted decl + return", len(stmts))
	}
	if _, ok := f.u.B.Stmts.VarDecl(stmts[0]); !ok {
		t.Fatal("hoisted binding is not a variable declaration")
	}
	retStmt, _ := f.u.B.Stmts.Return(stmts[1])
	if f.u.B.Exprs.Get(retStmt.Value).Kind != ast.ExprIdent {
		t.Fatal("return did not keep the let body")
	}
}

func TestConstPropFoldsArithmetic(t *testing.T) {
	f := newFixture()
	sum := f.u.B.Exprs.NewBinary(ast.BinAdd, f.intLit(2), f.intLit(3), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, f.ret(sum))

	if err := (ConstPropPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ := f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	lit, ok := f.u.B.Exprs.Literal(retStmt.Value)
	if !ok || f.u.Str.MustLookup(lit.Text) != "5" {
		t.Fatal("2+3 did not fold to 5")
	}
}

// Division by a constant zero stays unfolded so the runtime check fires.
func TestConstPropLeavesDivisionByZero(t *testing.T) {
	f := newFixture()
	div := f.u.B.Exprs.NewBinary(ast.BinDiv, f.intLit(4), f.intLit(0), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, f.ret(div))

	if err := (ConstPropPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ := f.u.B.Stmts.Return(f.bodyStmts(t, fn)[0])
	if f.u.B.Exprs.Get(retStmt.Value).Kind != ast.ExprBinary {
		t.Fatal("division by zero was folded away")
	}
}

func TestGetSetInlineLowersWrite(t *testing.T) {
	f := newFixture()
	setterBody := f.u.B.Stmts.NewBlock(nil, source.Span{})
	setter := f.u.B.Decls.NewSetter(f.u.Str.Intern("Flag"), nil,
		ast.FnParam{Name: f.u.Str.Intern("value")}, setterBody, source.Span{})

	target := f.u.B.LValues.NewWrite(setter, nil, f.intLit(1), source.Span{})
	assign := f.u.B.Stmts.NewAssign(target, f.intLit(1), source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, assign)

	if err := (GetSetInlinePass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	call, ok := f.u.B.Stmts.CallExpr(f.bodyStmts(t, fn)[0])
	if !ok {
		t.Fatal("setter write did not lower to a call statement")
	}
	ct, ok := f.u.B.Exprs.CallTyped(call.Call)
	if !ok || ct.Callee != setter {
		t.Fatal("lowered call does not target the setter")
	}
}

// Integer-bounds lowering rewrites every typed position and inserts
// coercions where the widths disagree.
func TestBoundedPassPropagation(t *testing.T) {
	f := newFixture()
	constrained := func() ast.TypeID {
		return f.u.B.Types.NewInteger([]ast.IntConstraint{
			{Kind: ast.ConstraintRange, Lo: f.intLit(0), Hi: f.intLit(200)},
		}, source.Span{})
	}

	// Record field.
	rec := f.u.B.Decls.NewRecord(f.u.Str.Intern("R"), nil,
		[]ast.Field{{Name: f.u.Str.Intern("n"), Type: constrained()}}, source.Span{})
	f.u.Decls = append(f.u.Decls, rec)

	// Callee with a constrained parameter and return type.
	calleeParam := ast.FnParam{Name: f.u.Str.Intern("n"), Type: constrained()}
	callee := f.fn("G", constrained(), []ast.FnParam{calleeParam}, f.ret(f.ident("n")))

	// Caller passes an unbounded integer argument.
	arg := f.ident("m")
	f.u.Sema.ExprTypes[arg] = sema.UnconstrainedInt()
	call := f.u.B.Exprs.NewCallTyped(callee, nil, []ast.ExprID{arg}, ast.ThrowsNever, source.Span{})
	caller := f.fn("F", ast.NoTypeID, nil, f.ret(call))

	if err := (BoundedPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}

	rd, _ := f.u.B.Decls.Record(rec)
	if f.u.B.Types.Get(rd.Fields[0].Type).Kind != ast.TySizedInt {
		t.Error("record field not lowered to a sized integer")
	}
	cd, _ := f.u.B.Decls.FunctionDef(callee)
	if f.u.B.Types.Get(cd.Params[0].Type).Kind != ast.TySizedInt {
		t.Error("parameter type not lowered to a sized integer")
	}
	if f.u.B.Types.Get(cd.ReturnType).Kind != ast.TySizedInt {
		t.Error("return type not lowered to a sized integer")
	}

	retStmt, _ := f.u.B.Stmts.Return(f.bodyStmts(t, caller)[0])
	callExpr, _ := f.u.B.Exprs.CallTyped(retStmt.Value)
	if f.u.B.Exprs.Get(callExpr.Args[0]).Kind != ast.ExprAsType {
		t.Error("unbounded argument did not gain a conversion at the call site")
	}

	// Idempotence: a second run neither re-wraps nor re-lowers.
	if err := (BoundedPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	retStmt, _ = f.u.B.Stmts.Return(f.bodyStmts(t, caller)[0])
	callExpr, _ = f.u.B.Exprs.CallTyped(retStmt.Value)
	as, ok := f.u.B.Exprs.AsType(callExpr.Args[0])
	if !ok {
		t.Fatal("coercion lost on rerun")
	}
	if f.u.B.Exprs.Get(as.Operand).Kind == ast.ExprAsType {
		t.Error("argument double-wrapped on rerun")
	}
}

// 100 needs 8 bits with a sign, so the chosen representation is sint8.
func TestBoundedPassPicksSmallestStandardWidth(t *testing.T) {
	f := newFixture()
	small := f.u.B.Types.NewInteger([]ast.IntConstraint{
		{Kind: ast.ConstraintRange, Lo: f.intLit(0), Hi: f.intLit(100)},
	}, source.Span{})
	decl := f.u.B.Stmts.NewVarDecl(ast.BindingLet, ast.VarDeclSingle,
		[]source.StringID{f.u.Str.Intern("x")}, small, ast.NoExprID, source.Span{})
	fn := f.fn("F", ast.NoTypeID, nil, decl)

	if err := (BoundedPass{}).Run(f.u); err != nil {
		t.Fatal(err)
	}
	vd, _ := f.u.B.Stmts.VarDecl(f.bodyStmts(t, fn)[0])
	sd, ok := f.u.B.Types.SizedInt(vd.Type)
	if !ok {
		t.Fatal("constrained let type not lowered")
	}
	w, _ := f.u.B.Exprs.Literal(sd.Width)
	if f.u.Str.MustLookup(w.Text) != "8" {
		t.Errorf("width = %s, want 8 for [0,100]", f.u.Str.MustLookup(w.Text))
	}
}
