package xform

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// HoistLetsPass lifts an ExprLet ("let x = v in body") found inside a
// statement's expression position out to a preceding VarDecl statement,
// since internal/emit targets C, which has no let-expression — every local
// binding there is a statement.
type HoistLetsPass struct{}

func (HoistLetsPass) Name() string { return "hoist_lets" }

func (HoistLetsPass) Run(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return hoistLetsInStmt(u, body)
	})
	return nil
}

func hoistLetsInStmt(u *Unit, id ast.StmtID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := u.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	if s.Kind == ast.StmtBlock {
		d, _ := u.B.Stmts.Block(id)
		out := make([]ast.StmtID, 0, len(d.Stmts))
		for _, st := range d.Stmts {
			out = append(out, hoistLetsFromStmt(u, st)...)
		}
		d.Stmts = out
		return id
	}
	return rewriteNestedStmt(u, id, hoistLetsInStmt)
}

// hoistLetsFromStmt hoists every ExprLet reachable from st's expression
// positions into preceding VarDecl statements, then recurses into any
// nested statement bodies st itself carries.
func hoistLetsFromStmt(u *Unit, st ast.StmtID) []ast.StmtID {
	var hoisted []ast.StmtID
	hoistLetsInStmt(u, st)
	walkExprsInStmt(u, st, func(e ast.ExprID) ast.ExprID {
		return hoistOneLet(u, e, &hoisted)
	})
	return append(hoisted, st)
}

func hoistOneLet(u *Unit, id ast.ExprID, hoisted *[]ast.StmtID) ast.ExprID {
	exp := u.B.Exprs.Get(id)
	if exp == nil || exp.Kind != ast.ExprLet {
		return id
	}
	d, _ := u.B.Exprs.Let(id)
	*hoisted = append(*hoisted, u.B.Stmts.NewVarDecl(ast.BindingLet, ast.VarDeclSingle, []source.StringID{d.Name}, d.Type, d.Value, d.Span))
	return d.Body
}
