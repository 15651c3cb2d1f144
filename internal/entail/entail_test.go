package entail

import (
	"testing"

	"asli/internal/ast"
	"asli/internal/source"
	"asli/internal/value"
	"asli/internal/value/fold"
)

type fixture struct {
	b   *ast.Builder
	str *source.Interner
}

func newFixture() *fixture {
	return &fixture{b: ast.NewBuilder(ast.Hints{}), str: source.NewInterner()}
}

func (f *fixture) ident(name string) ast.ExprID {
	return f.b.Exprs.NewIdent(f.str.Intern(name), source.Span{})
}

func (f *fixture) intLit(n int64) ast.ExprID {
	text := f.str.Intern(value.IntFromInt64(n).String())
	return f.b.Exprs.NewLiteral(ast.LitInteger, text, 0, source.Span{})
}

func (f *fixture) bin(op ast.BinaryOp, l, r ast.ExprID) ast.ExprID {
	return f.b.Exprs.NewBinary(op, l, r, source.Span{})
}

func (f *fixture) entails(assumptions []ast.ExprID, goal ast.ExprID) bool {
	fl := fold.New(f.b, f.str, nil)
	return Entails(f.b, f.str, fl, nil, assumptions, goal)
}

func TestEntailsDirectBound(t *testing.T) {
	f := newFixture()
	n := f.ident("N")
	// N >= 1 entails N >= 0
	assume := f.bin(ast.BinGe, n, f.intLit(1))
	goal := f.bin(ast.BinGe, n, f.intLit(0))
	if !f.entails([]ast.ExprID{assume}, goal) {
		t.Fatal("expected N>=1 to entail N>=0")
	}
}

func TestEntailsTransitiveArithmetic(t *testing.T) {
	f := newFixture()
	n := f.ident("N")
	// 1 <= N AND N <= 3 entails N+1 <= 4
	lo := f.bin(ast.BinLe, f.intLit(1), n)
	hi := f.bin(ast.BinLe, n, f.intLit(3))
	sum := f.bin(ast.BinAdd, n, f.intLit(1))
	goal := f.bin(ast.BinLe, sum, f.intLit(4))
	if !f.entails([]ast.ExprID{lo, hi}, goal) {
		t.Fatal("expected 1<=N<=3 to entail N+1<=4")
	}
}

func TestEntailsEquality(t *testing.T) {
	f := newFixture()
	n := f.ident("N")
	assume := f.bin(ast.BinEq, n, f.intLit(5))
	goal := f.bin(ast.BinEq, n, f.intLit(5))
	if !f.entails([]ast.ExprID{assume}, goal) {
		t.Fatal("expected N==5 to entail N==5")
	}
}

func TestEntailsUnrelatedAtomsDoNotUnify(t *testing.T) {
	f := newFixture()
	n := f.ident("N")
	m := f.ident("M")
	assume := f.bin(ast.BinGe, n, f.intLit(1))
	goal := f.bin(ast.BinGe, m, f.intLit(1))
	if f.entails([]ast.ExprID{assume}, goal) {
		t.Fatal("N>=1 must not entail a fact about an unrelated atom M")
	}
}

func TestEntailsFailsWithoutAssumption(t *testing.T) {
	f := newFixture()
	n := f.ident("N")
	goal := f.bin(ast.BinGe, n, f.intLit(0))
	if f.entails(nil, goal) {
		t.Fatal("an unconstrained atom must not entail a bound on itself")
	}
}

func TestEntailsConjunctionOfAssumptions(t *testing.T) {
	f := newFixture()
	n := f.ident("N")
	m := f.ident("M")
	assume := f.bin(ast.BinAnd,
		f.bin(ast.BinGe, n, f.intLit(2)),
		f.bin(ast.BinGe, m, f.intLit(3)),
	)
	goal := f.bin(ast.BinGe, f.bin(ast.BinAdd, n, m), f.intLit(5))
	if !f.entails([]ast.ExprID{assume}, goal) {
		t.Fatal("expected N>=2 AND M>=3 to entail N+M>=5")
	}
}
