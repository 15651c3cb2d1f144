package xform

import "asli/internal/ast"

// CasePass lowers every StmtCase into the equivalent if/elsif chain:
// pattern arms become equality/range/mask tests over the discriminant
// (patternCond), type arms become an explicit narrowing check, and an
// omitted `otherwise` becomes a call to the unmatched-case runtime
// primitive so a value no arm matches aborts instead of falling through.
// internal/emit only ever sees the StmtIf shape.
type CasePass struct{}

func (CasePass) Name() string { return "case" }

func (CasePass) Run(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return lowerCaseInStmt(u, body)
	})
	return nil
}

func lowerCaseInStmt(u *Unit, id ast.StmtID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := u.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	if s.Kind == ast.StmtCase {
		d, _ := u.B.Stmts.Case(id)
		for i, a := range d.Arms {
			d.Arms[i].Body = lowerCaseInStmt(u, a.Body)
		}
		def := lowerCaseInStmt(u, d.Default)
		if !def.IsValid() {
			call := u.B.Exprs.NewCallUntyped(u.Str.Intern(unmatchedCaseFn), nil, ast.ThrowsNever, d.Span)
			def = u.B.Stmts.NewCallExpr(call, d.Span)
		}
		if len(d.Arms) == 0 {
			return def
		}
		arms := make([]ast.IfArm, 0, len(d.Arms))
		for _, a := range d.Arms {
			var cond ast.ExprID
			if a.Type.IsValid() {
				cond = u.B.Exprs.NewAsConstraint(d.Discriminant, a.Type, a.Span)
			} else {
				cond = patternCond(u, d.Discriminant, a.Pattern)
			}
			arms = append(arms, ast.IfArm{Cond: cond, Then: a.Body, Span: a.Span})
		}
		return u.B.Stmts.NewIf(arms, def, d.Span)
	}
	return rewriteNestedStmt(u, id, lowerCaseInStmt)
}
