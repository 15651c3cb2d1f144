package xform

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// TuplesPass lowers a `let (n1, n2, ...) = v` binding (VarDeclTuple) into a
// hidden temporary holding v followed by one single-name VarDecl per
// pattern element, each initialized by indexing the temporary — the shape
// every later pass (and internal/emit) expects, since none of them handle
// a multi-name binding directly.
type TuplesPass struct{}

func (TuplesPass) Name() string { return "tuples" }

func (TuplesPass) Run(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return lowerTuplesInStmt(u, body)
	})
	return nil
}

func lowerTuplesInStmt(u *Unit, id ast.StmtID) ast.StmtID {
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
			out = append(out, expandTupleDecl(u, st)...)
		}
		d.Stmts = out
		return id
	}
	return rewriteNestedStmt(u, id, lowerTuplesInStmt)
}

// expandTupleDecl returns st unchanged in a single-element slice unless it
// is a VarDeclTuple, in which case it returns the temp-binding statement
// followed by one VarDeclSingle per pattern name.
func expandTupleDecl(u *Unit, st ast.StmtID) []ast.StmtID {
	s := u.B.Stmts.Get(st)
	if s == nil || s.Kind != ast.StmtVarDecl {
		return []ast.StmtID{lowerTuplesInStmt(u, st)}
	}
	d, _ := u.B.Stmts.VarDecl(st)
	if d.Shape != ast.VarDeclTuple {
		return []ast.StmtID{st}
	}
	tempName := u.Str.Intern(tupleTempName(int(st), len(d.Names)))
	temp := u.B.Stmts.NewVarDecl(ast.BindingLet, ast.VarDeclSingle, []source.StringID{tempName}, ast.NoTypeID, d.Init, d.Span)
	out := []ast.StmtID{temp}
	for i, name := range d.Names {
		idx := u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern(itoa(i)), 0, d.Span)
		init := u.B.Exprs.NewIndex(u.B.Exprs.NewIdent(tempName, d.Span), idx, d.Span)
		out = append(out, u.B.Stmts.NewVarDecl(d.Binding, ast.VarDeclSingle, []source.StringID{name}, ast.NoTypeID, init, d.Span))
	}
	return out
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func tupleTempName(stmt, salt int) string {
	return "__tuple_tmp_" + itoa(stmt) + "_" + itoa(salt)
}
