package ast

import (
	"testing"

	"asli/internal/source"
)

func newVisitorFixture() (*Builder, *source.Interner) {
	return NewBuilder(Hints{}), source.NewInterner()
}

// descendCounter descends everywhere and counts the nodes it visits.
type descendCounter struct {
	NoOpVisitor
	pre, post int
}

func (v *descendCounter) PreExpr(b *Builder, id ExprID) (VisitAction, ExprID) {
	v.pre++
	return Descend, NoExprID
}

func (v *descendCounter) PostExpr(b *Builder, id ExprID) ExprID {
	v.post++
	return id
}

func TestWalkExprDescendVisitsChildrenThenPost(t *testing.T) {
	b, str := newVisitorFixture()
	lhs := b.Exprs.NewLiteral(LitInteger, str.Intern("1"), 0, source.Span{})
	rhs := b.Exprs.NewLiteral(LitInteger, str.Intern("2"), 0, source.Span{})
	sum := b.Exprs.NewBinary(BinAdd, lhs, rhs, source.Span{})

	v := &descendCounter{}
	got := WalkExpr(b, v, sum)
	if got != sum {
		t.Fatalf("walk replaced the root: %v -> %v", sum, got)
	}
	if v.pre != 3 || v.post != 3 {
		t.Fatalf("pre/post = %d/%d, want 3/3 (binary + two literals)", v.pre, v.post)
	}
}

// skipBinary skips binary nodes entirely: their children are not visited
// and no post-transform runs on them.
type skipBinary struct {
	NoOpVisitor
	visited int
}

func (v *skipBinary) PreExpr(b *Builder, id ExprID) (VisitAction, ExprID) {
	v.visited++
	if b.Exprs.Get(id).Kind == ExprBinary {
		return Skip, NoExprID
	}
	return Descend, NoExprID
}

func TestWalkExprSkipPrunesSubtree(t *testing.T) {
	b, str := newVisitorFixture()
	lhs := b.Exprs.NewLiteral(LitInteger, str.Intern("1"), 0, source.Span{})
	rhs := b.Exprs.NewLiteral(LitInteger, str.Intern("2"), 0, source.Span{})
	sum := b.Exprs.NewBinary(BinAdd, lhs, rhs, source.Span{})

	v := &skipBinary{}
	if got := WalkExpr(b, v, sum); got != sum {
		t.Fatalf("skip changed the node: %v", got)
	}
	if v.visited != 1 {
		t.Fatalf("visited %d nodes, want 1 (children pruned)", v.visited)
	}
}

// replaceIdents substitutes every identifier with a literal; the
// replacement itself is not traversed.
type replaceIdents struct {
	NoOpVisitor
	with ExprID
}

func (v *replaceIdents) PreExpr(b *Builder, id ExprID) (VisitAction, ExprID) {
	if b.Exprs.Get(id).Kind == ExprIdent {
		return Replace, v.with
	}
	return Descend, NoExprID
}

func TestWalkExprReplaceRewritesChildSlot(t *testing.T) {
	b, str := newVisitorFixture()
	name := b.Exprs.NewIdent(str.Intern("x"), source.Span{})
	two := b.Exprs.NewLiteral(LitInteger, str.Intern("2"), 0, source.Span{})
	sum := b.Exprs.NewBinary(BinAdd, name, two, source.Span{})

	lit := b.Exprs.NewLiteral(LitInteger, str.Intern("7"), 0, source.Span{})
	WalkExpr(b, &replaceIdents{with: lit}, sum)

	d, _ := b.Exprs.Binary(sum)
	if d.Left != lit {
		t.Fatalf("left child = %v, want the replacement literal %v", d.Left, lit)
	}
	if d.Right != two {
		t.Fatalf("right child rewritten unexpectedly: %v", d.Right)
	}
}

// The traversal deliberately does not descend into an `as constraint`
// node's type-level constraint, only its value operand.
func TestWalkExprAsConstraintShortCircuit(t *testing.T) {
	b, str := newVisitorFixture()
	operand := b.Exprs.NewIdent(str.Intern("x"), source.Span{})
	ty := b.Types.NewInteger(nil, source.Span{})
	as := b.Exprs.NewAsConstraint(operand, ty, source.Span{})

	v := &descendCounter{}
	WalkExpr(b, v, as)
	if v.pre != 2 {
		t.Fatalf("visited %d nodes, want 2 (as-constraint + operand only)", v.pre)
	}
}
