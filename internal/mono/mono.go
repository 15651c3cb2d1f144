// Package mono implements the monomorphization stage of the transform
// pipeline: every call to a function whose parameter or return shape
// depends on a width formal is resolved to a clone of that function with
// the formal fixed to the concrete width observed at the call site. The
// cascading clone-and-cache algorithm works directly within
// internal/ast's arenas; the checker never introduces an intermediate IR
// for internal/sema to type-check against, so there is nothing else to
// clone.
package mono

import (
	"fmt"

	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/symbols"
	"asli/internal/value/fold"
)

// Input is the plain-struct request internal/xform builds each time it
// invokes a monomorphization round, kept free of any internal/xform type
// so the two packages do not import one another.
type Input struct {
	B       *ast.Builder
	Str     *source.Interner
	Table   *symbols.Table
	Sema    sema.Result
	Diags   *diag.Bag
	Decls   []ast.DeclID
	Exports []string
}

// widthParam describes one formal of a function/getter/setter whose type
// some other formal's shape (a TySizedInt/TyBits width, or a TyArray size)
// refers to by name — the shape monomorphization exists to eliminate.
type widthParam struct {
	index int
	name  source.StringID
}

// widthFormals reports which of decl's parameters are read by name inside
// another parameter's or the return type's width/size expression, i.e.
// which formals this function is polymorphic over.
func widthFormals(b *ast.Builder, params []ast.FnParam, ret ast.TypeID) []widthParam {
	names := make(map[source.StringID]int, len(params))
	for i, p := range params {
		names[p.Name] = i
	}
	used := map[source.StringID]bool{}
	mark := func(e ast.ExprID) {
		if !e.IsValid() {
			return
		}
		if id, _ := b.Exprs.Ident(e); id != nil {
			if _, ok := names[id.Name]; ok {
				used[id.Name] = true
			}
		}
	}
	scanType := func(t ast.TypeID) {
		if !t.IsValid() {
			return
		}
		ty := b.Types.Get(t)
		switch ty.Kind {
		case ast.TySizedInt:
			d, _ := b.Types.SizedInt(t)
			mark(d.Width)
		case ast.TyBits:
			d, _ := b.Types.Bits_(t)
			mark(d.Width)
		case ast.TyArray:
			d, _ := b.Types.Array(t)
			mark(d.Size)
		}
	}
	for _, p := range params {
		scanType(p.Type)
	}
	scanType(ret)
	var out []widthParam
	for i, p := range params {
		if used[p.Name] {
			out = append(out, widthParam{index: i, name: p.Name})
		}
	}
	return out
}

// callSite is one reference to a polymorphic function found while scanning
// a reachable declaration's body.
type callSite struct {
	expr   ast.ExprID
	callee source.StringID
}

func collectCallSites(b *ast.Builder, body ast.StmtID, sink *[]callSite) {
	if !body.IsValid() {
		return
	}
	var visit func(id ast.ExprID) ast.ExprID
	v := exprSiteVisitor{b: b, sink: sink}
	visit = func(id ast.ExprID) ast.ExprID { return ast.WalkExpr(b, v, id) }
	walkStmtExprs(b, body, visit)
}

type exprSiteVisitor struct {
	b    *ast.Builder
	sink *[]callSite
}

func (v exprSiteVisitor) PreExpr(b *ast.Builder, id ast.ExprID) (ast.VisitAction, ast.ExprID) {
	return ast.Descend, ast.NoExprID
}

func (v exprSiteVisitor) PostExpr(b *ast.Builder, id ast.ExprID) ast.ExprID {
	if d, ok := b.Exprs.CallUntyped(id); ok {
		*v.sink = append(*v.sink, callSite{expr: id, callee: d.Callee})
	}
	return id
}

// Monomorphize resolves every call site naming a width-polymorphic
// function or getter in in.Decls (setters are not scanned), cloning a concrete instantiation
// per distinct literal width-tuple observed and rewriting the call to the
// clone. Functions that are never called with a statically-foldable width
// argument are left untouched — internal/xform runs this pass twice
// (before and after a DCE round) precisely so a clone produced by the
// first pass, which can itself contain further polymorphic calls, gets a
// second chance to resolve against the calls its own body introduced.
func Monomorphize(in Input) ([]ast.DeclID, error) {
	folder := fold.New(in.B, in.Str, in.Sema.Consts)
	byName := map[source.StringID]ast.DeclID{}
	poly := map[source.StringID][]widthParam{}
	for _, id := range in.Decls {
		decl := in.B.Decls.Get(id)
		if decl == nil {
			continue
		}
		var name source.StringID
		var params []ast.FnParam
		var ret ast.TypeID
		switch decl.Kind {
		case ast.DeclFunctionDef:
			d, _ := in.B.Decls.FunctionDef(id)
			name, params, ret = d.Name, d.Params, d.ReturnType
		case ast.DeclGetter:
			d, _ := in.B.Decls.Getter(id)
			name, params, ret = d.Name, d.Params, d.ReturnType
		default:
			continue
		}
		byName[name] = id
		if wf := widthFormals(in.B, params, ret); len(wf) > 0 {
			poly[name] = wf
		}
	}
	for _, id := range in.Decls {
		decl := in.B.Decls.Get(id)
		if decl != nil && decl.Kind == ast.DeclBuiltinFunction {
			d, _ := in.B.Decls.BuiltinFunction(id)
			byName[d.Name] = id
		}
	}

	cache := map[string]ast.DeclID{} // "name\x00w1,w2,..." -> clone decl id
	var extra []ast.DeclID

	for _, id := range in.Decls {
		_, _, body, ok := functionShape(in.B, id)
		if !ok {
			continue
		}
		var sites []callSite
		collectCallSites(in.B, body, &sites)
		for _, site := range sites {
			callDecl, hasCallee := byName[site.callee]
			if !hasCallee {
				continue
			}
			d, _ := in.B.Exprs.CallUntyped(site.expr)
			wf, isPoly := poly[site.callee]
			if !isPoly {
				// A monomorphic function or getter: bind the call directly,
				// no clone needed. internal/emit works against ExprCallTyped
				// exclusively, so every surviving reachable call must end up
				// in this shape by the time the pipeline finishes.
				args := make([]ast.ExprID, len(d.Args))
				for i, a := range d.Args {
					args[i] = a.Value
				}
				replaceExpr(in.B, site.expr, in.B.Exprs.NewCallTyped(callDecl, nil, args, d.Throws, d.Span))
				continue
			}
			widths := make([]string, 0, len(wf))
			subst := map[source.StringID]ast.ExprID{}
			resolved := true
			origParams, _, _ := declSignature(in.B, callDecl)
			for _, w := range wf {
				if w.index >= len(d.Args) {
					resolved = false
					break
				}
				val, ok := folder.Fold(d.Args[w.index].Value)
				if !ok {
					resolved = false
					break
				}
				text := val.String()
				widths = append(widths, text)
				lit := in.B.Exprs.NewLiteral(ast.LitInteger, in.Str.Intern(text), 0, d.Span)
				subst[w.name] = lit
			}
			if !resolved {
				continue
			}
			key := fmt.Sprintf("%s\x00%s", in.Str.MustLookup(site.callee), joinComma(widths))
			cloneID, have := cache[key]
			if !have {
				cloneID = cloneInstantiation(in.B, in.Str, callDecl, site.callee, widths, subst)
				cache[key] = cloneID
				extra = append(extra, cloneID)
			}
			params := make([]ast.ExprID, 0, len(origParams))
			args := make([]ast.ExprID, 0, len(d.Args))
			for i, a := range d.Args {
				isWidth := false
				for _, w := range wf {
					if w.index == i {
						isWidth = true
					}
				}
				if isWidth {
					continue
				}
				args = append(args, a.Value)
			}
			replaceExpr(in.B, site.expr, in.B.Exprs.NewCallTyped(cloneID, params, args, d.Throws, d.Span))
		}
	}
	return append(append([]ast.DeclID(nil), in.Decls...), extra...), nil
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ","
		}
		out += s
	}
	return out
}

// CheckMonomorphic verifies the post-mono invariant: every reachable
// call site has been bound to a concrete declaration, i.e. no
// ExprCallUntyped naming a width-polymorphic function remains. On failure
// it reports InternalMonomorphization with the span of a single offending
// call rather than a full call-tree report, since mono operates
// call-site-local rather than over a whole-program instantiation map.
func CheckMonomorphic(in Input) error {
	poly := map[source.StringID]bool{}
	for _, id := range in.Decls {
		decl := in.B.Decls.Get(id)
		if decl == nil {
			continue
		}
		switch decl.Kind {
		case ast.DeclFunctionDef:
			d, _ := in.B.Decls.FunctionDef(id)
			if len(widthFormals(in.B, d.Params, d.ReturnType)) > 0 {
				poly[d.Name] = true
			}
		case ast.DeclGetter:
			d, _ := in.B.Decls.Getter(id)
			if len(widthFormals(in.B, d.Params, d.ReturnType)) > 0 {
				poly[d.Name] = true
			}
		}
	}
	if len(poly) == 0 {
		return nil
	}
	for _, id := range in.Decls {
		_, _, body, ok := functionShape(in.B, id)
		if !ok {
			continue
		}
		var sites []callSite
		collectCallSites(in.B, body, &sites)
		for _, site := range sites {
			if poly[site.callee] {
				span := in.B.Exprs.Get(site.expr).Span
				in.Diags.Add(diag.NewError(diag.InternalMonomorphization, span,
					"call to '"+in.Str.MustLookup(site.callee)+"' could not be resolved to a concrete width"))
				return fmt.Errorf("unresolved width-polymorphic call to %s", in.Str.MustLookup(site.callee))
			}
		}
	}
	return nil
}
