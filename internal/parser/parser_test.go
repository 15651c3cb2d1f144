package parser

import (
	"testing"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/lexer"
	"asli/internal/source"
)

type parsed struct {
	b    *ast.Builder
	str  *source.Interner
	bag  *diag.Bag
	file ast.FileID
	p    *Parser
}

func parseSrc(t *testing.T, src string) parsed {
	t.Helper()
	fs := source.NewFileSet()
	fid := fs.Add("test.asl", []byte(src), 0)
	str := source.NewInterner()
	b := ast.NewBuilder(ast.Hints{})
	bag := diag.NewBag(64)
	lx := lexer.New(fs.Get(fid), lexer.Options{Reporter: diag.BagReporter{Bag: bag}})
	p := New(lx, str, diag.BagReporter{Bag: bag}, fid, b)
	file := p.ParseFile()
	return parsed{b: b, str: str, bag: bag, file: file, p: p}
}

func parseClean(t *testing.T, src string) parsed {
	t.Helper()
	r := parseSrc(t, src)
	if r.bag.HasErrors() {
		t.Fatalf("unexpected parse diagnostics: %v", r.bag.Items())
	}
	return r
}

func (r parsed) decls(t *testing.T) []ast.DeclID {
	t.Helper()
	f := r.b.Files.Get(r.file)
	if f == nil {
		t.Fatal("no parsed file")
	}
	return f.Decls
}

// funcBody returns the body statements of the first function definition.
func (r parsed) funcBody(t *testing.T) []ast.StmtID {
	t.Helper()
	for _, id := range r.decls(t) {
		if d, ok := r.b.Decls.FunctionDef(id); ok {
			blk, ok := r.b.Stmts.Block(d.Body)
			if !ok {
				t.Fatal("function body is not a block")
			}
			return blk.Stmts
		}
	}
	t.Fatal("no function definition parsed")
	return nil
}

func (r parsed) lookup(t *testing.T, id source.StringID) string {
	t.Helper()
	s, _ := r.str.Lookup(id)
	return s
}

func TestParseFunctionDef(t *testing.T) {
	r := parseClean(t, `
func AddOne(x: integer, y: integer = 1) -> integer
begin
    return x + y;
end
`)
	decls := r.decls(t)
	if len(decls) != 1 {
		t.Fatalf("got %d decls, want 1", len(decls))
	}
	d, ok := r.b.Decls.FunctionDef(decls[0])
	if !ok {
		t.Fatal("not a function definition")
	}
	if r.lookup(t, d.Name) != "AddOne" || len(d.Params) != 2 {
		t.Fatalf("name/params: %q, %d params", r.lookup(t, d.Name), len(d.Params))
	}
	if d.Params[0].Default.IsValid() {
		t.Error("first parameter has an unexpected default")
	}
	if !d.Params[1].Default.IsValid() {
		t.Error("second parameter's default was not captured")
	}
	if d.Throws != ast.ThrowsNever {
		t.Errorf("throws tag = %v", d.Throws)
	}
}

func TestParseThrowsMarker(t *testing.T) {
	r := parseClean(t, `
func Fail() -> integer !
begin
    return 0;
end
`)
	d, _ := r.b.Decls.FunctionDef(r.decls(t)[0])
	if d.Throws != ast.ThrowsAlways {
		t.Errorf("throws tag = %v, want ThrowsAlways", d.Throws)
	}
}

// An identifier immediately followed by '(' is a call statement; anything
// else parses as an lvalue chain followed by '='.
func TestParseCallVsAssignDisambiguation(t *testing.T) {
	r := parseClean(t, `
func F(x: integer) -> integer
begin
    G(x);
    y = x;
    return y;
end
`)
	stmts := r.funcBody(t)
	if len(stmts) != 3 {
		t.Fatalf("got %d statements, want 3", len(stmts))
	}
	if s := r.b.Stmts.Get(stmts[0]); s.Kind != ast.StmtCallExpr {
		t.Errorf("first statement kind = %v, want call", s.Kind)
	}
	if s := r.b.Stmts.Get(stmts[1]); s.Kind != ast.StmtAssign {
		t.Errorf("second statement kind = %v, want assignment", s.Kind)
	}
}

func TestParseNamedCallArguments(t *testing.T) {
	r := parseClean(t, `
func F() -> integer
begin
    G(1, width = 2);
    return 0;
end
`)
	stmts := r.funcBody(t)
	cs, _ := r.b.Stmts.CallExpr(stmts[0])
	call, ok := r.b.Exprs.CallUntyped(cs.Call)
	if !ok {
		t.Fatal("call statement does not carry an untyped call")
	}
	if len(call.Args) != 2 {
		t.Fatalf("got %d args, want 2", len(call.Args))
	}
	if call.Args[0].Name != source.NoStringID {
		t.Error("positional argument parsed as named")
	}
	if r.lookup(t, call.Args[1].Name) != "width" {
		t.Errorf("named argument name = %q, want width", r.lookup(t, call.Args[1].Name))
	}
}

// A ',' after the first bound name means a tuple pattern, '@' a bit-tuple.
func TestParseTupleAndBittupleDecls(t *testing.T) {
	r := parseClean(t, `
func F(v: bits(6)) -> integer
begin
    let (a, b) = G();
    var (hi @ lo) = v;
    return 0;
end
`)
	stmts := r.funcBody(t)
	tup, _ := r.b.Stmts.VarDecl(stmts[0])
	if tup.Shape != ast.VarDeclTuple || len(tup.Names) != 2 {
		t.Errorf("first decl shape = %v with %d names, want tuple of 2", tup.Shape, len(tup.Names))
	}
	bit, _ := r.b.Stmts.VarDecl(stmts[1])
	if bit.Shape != ast.VarDeclBitTuple || len(bit.Names) != 2 {
		t.Errorf("second decl shape = %v with %d names, want bit-tuple of 2", bit.Shape, len(bit.Names))
	}
}

func TestParseGetterSetterDecls(t *testing.T) {
	r := parseClean(t, `
getter Flag => integer
begin
    return 1;
end

setter Flag(value: integer)
begin
    x = value;
end

getter Elem[i: integer] => bits(8)
begin
    return G(i);
end
`)
	decls := r.decls(t)
	if len(decls) != 3 {
		t.Fatalf("got %d decls, want 3", len(decls))
	}
	g, ok := r.b.Decls.Getter(decls[0])
	if !ok || len(g.Params) != 0 {
		t.Fatalf("plain getter: ok=%v params=%d", ok, len(g.Params))
	}
	s, ok := r.b.Decls.Setter(decls[1])
	if !ok || r.lookup(t, s.Value.Name) != "value" {
		t.Fatalf("setter value formal: ok=%v name=%q", ok, r.lookup(t, s.Value.Name))
	}
	arr, ok := r.b.Decls.Getter(decls[2])
	if !ok || len(arr.Params) != 1 {
		t.Fatalf("array-form getter: ok=%v params=%d", ok, len(arr.Params))
	}
}

func TestParseOperatorDeclCollectsCandidateNames(t *testing.T) {
	r := parseClean(t, `
func AddVec(a: bits(8), b: bits(8)) -> bits(8)
begin
    return a;
end

operator + (AddVec);
`)
	cands := r.p.OperatorCandidates()
	if len(cands) != 1 {
		t.Fatalf("got %d operator candidate sets, want 1", len(cands))
	}
	if len(cands[0].Names) != 1 || r.lookup(t, cands[0].Names[0]) != "AddVec" {
		t.Fatalf("candidate names = %v", cands[0].Names)
	}
}

// The when-arm heuristic: type-introducing names are arms discriminated by
// type unless they read as a call or record construction; everything else
// is a matching pattern.
func TestParseCaseArms(t *testing.T) {
	r := parseClean(t, `
func F(x: integer) -> integer
begin
    case x of
        when 1: return 1;
        when 2..3: return 2;
        when {4, 5}: return 3;
        when C: return 4;
        when G(6): return 5;
        when otherwise: return 0;
    end
end
`)
	stmts := r.funcBody(t)
	d, ok := r.b.Stmts.Case(stmts[0])
	if !ok {
		t.Fatal("not a case statement")
	}
	if !d.Default.IsValid() {
		t.Error("otherwise arm not captured as the default")
	}
	wantKinds := []ast.PatternKind{ast.PatLiteral, ast.PatRange, ast.PatSet, ast.PatConstRef, ast.PatSingle}
	if len(d.Arms) != len(wantKinds) {
		t.Fatalf("got %d arms, want %d", len(d.Arms), len(wantKinds))
	}
	for i, want := range wantKinds {
		pat := r.b.Patterns.Get(d.Arms[i].Pattern)
		if pat == nil || pat.Kind != want {
			t.Errorf("arm %d pattern kind = %v, want %v", i, pat, want)
		}
	}
}

func TestParseCaseTypeArm(t *testing.T) {
	r := parseClean(t, `
func F(x: integer) -> integer
begin
    case x of
        when integer: return 1;
        when otherwise: return 0;
    end
end
`)
	stmts := r.funcBody(t)
	d, _ := r.b.Stmts.Case(stmts[0])
	if len(d.Arms) != 1 || !d.Arms[0].Type.IsValid() {
		t.Fatalf("type arm not recognised: %+v", d.Arms)
	}
}

func TestParseInPattern(t *testing.T) {
	r := parseClean(t, `
func F(x: integer) -> boolean
begin
    return x IN {1, 2};
end
`)
	stmts := r.funcBody(t)
	ret, _ := r.b.Stmts.Return(stmts[0])
	pin, ok := r.b.Exprs.PatternIn(ret.Value)
	if !ok {
		t.Fatal("IN did not produce a pattern-membership expression")
	}
	pat := r.b.Patterns.Get(pin.Pattern)
	if pat == nil || pat.Kind != ast.PatSet {
		t.Fatalf("IN pattern kind = %v, want set", pat)
	}
}

func TestParseMaskPattern(t *testing.T) {
	r := parseClean(t, `
func F(x: bits(4)) -> boolean
begin
    return x IN '1xx0';
end
`)
	stmts := r.funcBody(t)
	ret, _ := r.b.Stmts.Return(stmts[0])
	pin, ok := r.b.Exprs.PatternIn(ret.Value)
	if !ok {
		t.Fatal("IN did not produce a pattern-membership expression")
	}
	pat := r.b.Patterns.Get(pin.Pattern)
	if pat == nil || pat.Kind != ast.PatMask {
		t.Fatalf("IN pattern kind = %v, want mask", pat)
	}
}

func TestParseBitsliceNotations(t *testing.T) {
	r := parseClean(t, `
func F(v: bits(16)) -> bits(4)
begin
    let a = v[7:4];
    let b = v[4 +: 4];
    let c = v[7 -: 4];
    return a;
end
`)
	stmts := r.funcBody(t)
	wantKinds := []ast.BitsliceKind{ast.BitsliceHighLow, ast.BitsliceLowWidth, ast.BitsliceHighWidth}
	for i, want := range wantKinds {
		vd, _ := r.b.Stmts.VarDecl(stmts[i])
		sl, ok := r.b.Exprs.Bitslice(vd.Init)
		if !ok || sl.Kind != want {
			t.Errorf("statement %d: bitslice kind = %v (ok=%v), want %v", i, sl, ok, want)
		}
	}
}

func TestParseLoops(t *testing.T) {
	r := parseClean(t, `
func F() -> integer
begin
    for i = 3 downto 0 do
        s = s + i;
    end
    while s > 0 do
        s = s - 1;
    end
    repeat
        s = s + 1;
    until s > 2;
    return s;
end
`)
	stmts := r.funcBody(t)
	ft, ok := r.b.Stmts.ForTo(stmts[0])
	if !ok {
		t.Fatal("for statement not parsed")
	}
	if !ft.Descending {
		t.Error("downto loop not marked descending")
	}
	if _, ok := r.b.Stmts.While(stmts[1]); !ok {
		t.Error("while statement not parsed")
	}
	if _, ok := r.b.Stmts.RepeatUntil(stmts[2]); !ok {
		t.Error("repeat/until statement not parsed")
	}
}

func TestParseRecoversAfterBadDecl(t *testing.T) {
	r := parseSrc(t, `
bogus bogus bogus

func F() -> integer
begin
    return 1;
end
`)
	if !r.bag.HasErrors() {
		t.Fatal("expected diagnostics for the malformed declaration")
	}
	found := false
	for _, id := range r.decls(t) {
		if _, ok := r.b.Decls.FunctionDef(id); ok {
			found = true
		}
	}
	if !found {
		t.Fatal("parser did not recover to parse the following function")
	}
}
