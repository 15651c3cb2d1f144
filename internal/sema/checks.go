package sema

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// requireCheck records a boolean predicate that must hold at runtime for the
// expression currently being checked to be safe. The enclosing tcStmt call
// drains and lifts these into assert statements ahead of the original one.
func (c *Checker) requireCheck(cond ast.ExprID) {
	if cond.IsValid() {
		c.pendingChecks = append(c.pendingChecks, cond)
	}
}

func (c *Checker) checkMark() int { return len(c.pendingChecks) }

func (c *Checker) drainChecks(mark int) []ast.ExprID {
	if mark >= len(c.pendingChecks) {
		return nil
	}
	checks := append([]ast.ExprID(nil), c.pendingChecks[mark:]...)
	c.pendingChecks = c.pendingChecks[:mark]
	return checks
}

// liftChecks turns pending predicates into statements: every predicate
// accumulated since mark becomes an assert statement immediately ahead of
// stmt, wrapped together in a block so the caller keeps a single StmtID.
// Returns stmt unchanged when nothing was accumulated.
func (c *Checker) liftChecks(mark int, stmt ast.StmtID, span source.Span) ast.StmtID {
	checks := c.drainChecks(mark)
	if len(checks) == 0 {
		return stmt
	}
	stmts := make([]ast.StmtID, 0, len(checks)+1)
	for _, cond := range checks {
		stmts = append(stmts, c.B.Stmts.NewAssert(cond, source.NoStringID, span))
	}
	stmts = append(stmts, stmt)
	return c.B.Stmts.NewBlock(stmts, span)
}

func (c *Checker) zeroLiteralFor(ty Ty) ast.ExprID {
	switch ty.Kind {
	case TySInt:
		return c.B.Exprs.NewLiteral(ast.LitSizedInt, c.Str.Intern("0"), 0, source.Span{})
	case TyBits:
		return c.B.Exprs.NewLiteral(ast.LitBits, c.Str.Intern("0"), 0, source.Span{})
	default:
		return c.B.Exprs.NewLiteral(ast.LitInteger, c.Str.Intern("0"), 0, source.Span{})
	}
}

func (c *Checker) intLiteral(n int64) ast.ExprID {
	text := "0"
	switch {
	case n == 1:
		text = "1"
	case n == -1:
		text = "-1"
	}
	return c.B.Exprs.NewLiteral(ast.LitInteger, c.Str.Intern(text), 0, source.Span{})
}

// provenNonzero reports whether divisor is already provably nonzero under
// the current assumption set. Exact division is treated soundly only when
// the divisor is witnessed to divide the dividend; here we only need the
// weaker "witnessed nonzero" side, which is what
// makes replicating the divisor expression in an assert safe.
func (c *Checker) provenNonzero(divisor ast.ExprID, ty Ty) bool {
	ne := c.B.Exprs.NewBinary(ast.BinNe, divisor, c.zeroLiteralFor(ty), source.Span{})
	return c.entailEnv().Prove(ne)
}

// checkDivisionSafe inserts the runtime check guarding an
// integer division/remainder unless entailment already proves the divisor
// nonzero, in which case no check is required and none is inserted.
func (c *Checker) checkDivisionSafe(divisor ast.ExprID, ty Ty, span source.Span) {
	if !divisor.IsValid() || c.provenNonzero(divisor, ty) {
		return
	}
	cond := c.B.Exprs.NewBinary(ast.BinNe, divisor, c.zeroLiteralFor(ty), span)
	c.requireCheck(cond)
}

// checkIndexBounds inserts the "0 <= i < N" obligation for e[i],
// skipping it when entailment already proves it.
func (c *Checker) checkIndexBounds(base Ty, index ast.ExprID, span source.Span) {
	if !index.IsValid() {
		return
	}
	var total ast.ExprID
	switch base.Kind {
	case TyArray:
		total = base.Size
	case TyBits, TySInt:
		total = base.Width
	default:
		return
	}
	if !total.IsValid() {
		return
	}
	zero := c.intLiteral(0)
	if c.proveLE(zero, index) && c.proveLE(c.B.Exprs.NewBinary(ast.BinAdd, index, c.intLiteral(1), span), total) {
		return
	}
	lo := c.B.Exprs.NewBinary(ast.BinLe, zero, index, span)
	hi := c.B.Exprs.NewBinary(ast.BinLt, index, total, span)
	c.requireCheck(c.B.Exprs.NewBinary(ast.BinAnd, lo, hi, span))
}

// bitsliceBounds reduces every notation in ast.BitsliceKind to the single
// (low, width) pair the BitsliceNormalize pass eventually rewrites
// the AST into, so the same width algebra backs both the check inserted
// here and that later pass.
func (c *Checker) bitsliceBounds(kind ast.BitsliceKind, a, b ast.ExprID, span source.Span) (lo, width ast.ExprID) {
	switch kind {
	case ast.BitsliceIndex:
		return a, c.intLiteral(1)
	case ast.BitsliceHighLow:
		// a = hi, b = lo; width = hi - lo + 1
		diff := c.B.Exprs.NewBinary(ast.BinSub, a, b, span)
		return b, c.B.Exprs.NewBinary(ast.BinAdd, diff, c.intLiteral(1), span)
	case ast.BitsliceLowWidth:
		return a, b
	case ast.BitsliceHighWidth:
		// a = hi, b = width; low = hi - width + 1
		diff := c.B.Exprs.NewBinary(ast.BinSub, a, b, span)
		return c.B.Exprs.NewBinary(ast.BinAdd, diff, c.intLiteral(1), span), b
	case ast.BitsliceElement:
		// a = element index, b = element width; low = a * width
		return c.B.Exprs.NewBinary(ast.BinMul, a, b, span), b
	default:
		return ast.NoExprID, ast.NoExprID
	}
}

// checkBitsliceBounds inserts "0 <= low and low+width <= total" for a
// bitslice against its base's total width.
func (c *Checker) checkBitsliceBounds(base Ty, kind ast.BitsliceKind, a, b ast.ExprID, span source.Span) {
	total := base.Width
	if !total.IsValid() {
		return
	}
	lo, width := c.bitsliceBounds(kind, a, b, span)
	if !lo.IsValid() || !width.IsValid() {
		return
	}
	zero := c.intLiteral(0)
	sum := c.B.Exprs.NewBinary(ast.BinAdd, lo, width, span)
	if c.proveLE(zero, lo) && c.proveLE(sum, total) {
		return
	}
	loOk := c.B.Exprs.NewBinary(ast.BinLe, zero, lo, span)
	hiOk := c.B.Exprs.NewBinary(ast.BinLe, sum, total, span)
	c.requireCheck(c.B.Exprs.NewBinary(ast.BinAnd, loOk, hiOk, span))
}

// checkConstraintSatisfied inserts the boolean membership test for `as constraint`/`as type` narrowing a plain integer into a
// refined one: skipped when Satisfies already proves it statically, which
// is the common case for a literal narrowed at its own declaration site.
func (c *Checker) checkConstraintSatisfied(operand ast.ExprID, sub, super Ty, span source.Span) {
	if super.Kind != TyInt || len(super.Constraints) == 0 {
		return
	}
	if c.Satisfies(sub, super) {
		return
	}
	var disjuncts ast.ExprID
	for _, ic := range super.Constraints {
		lo, hi, ok := constraintBounds(ic)
		if !ok {
			continue
		}
		member := c.B.Exprs.NewBinary(ast.BinAnd,
			c.B.Exprs.NewBinary(ast.BinLe, lo, operand, span),
			c.B.Exprs.NewBinary(ast.BinLe, operand, hi, span), span)
		if !disjuncts.IsValid() {
			disjuncts = member
		} else {
			disjuncts = c.B.Exprs.NewBinary(ast.BinOr, disjuncts, member, span)
		}
	}
	c.requireCheck(disjuncts)
}
