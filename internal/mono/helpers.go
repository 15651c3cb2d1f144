package mono

import (
	"asli/internal/ast"
	"asli/internal/source"
)

// functionShape reports the name, parameter list and body of any
// function-shaped declaration (FunctionDef or Getter; Setter is excluded
// since its single value formal is never itself width-polymorphic in a way
// monomorphization needs to resolve).
func functionShape(b *ast.Builder, id ast.DeclID) (source.StringID, []ast.FnParam, ast.StmtID, bool) {
	decl := b.Decls.Get(id)
	if decl == nil {
		return source.NoStringID, nil, ast.NoStmtID, false
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := b.Decls.FunctionDef(id)
		return d.Name, d.Params, d.Body, true
	case ast.DeclGetter:
		d, _ := b.Decls.Getter(id)
		return d.Name, d.Params, d.Body, true
	}
	return source.NoStringID, nil, ast.NoStmtID, false
}

// declSignature reports the parameter list and return type of any
// function-shaped declaration, without its body.
func declSignature(b *ast.Builder, id ast.DeclID) ([]ast.FnParam, ast.TypeID, bool) {
	decl := b.Decls.Get(id)
	if decl == nil {
		return nil, ast.NoTypeID, false
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := b.Decls.FunctionDef(id)
		return d.Params, d.ReturnType, true
	case ast.DeclGetter:
		d, _ := b.Decls.Getter(id)
		return d.Params, d.ReturnType, true
	}
	return nil, ast.NoTypeID, false
}

// replaceExpr overwrites target's arena slot with replacement's shape, so
// every existing reference to target (held by some parent node's child
// field) now resolves to the replacement without that parent needing to be
// revisited.
func replaceExpr(b *ast.Builder, target, replacement ast.ExprID) {
	src := b.Exprs.Get(replacement)
	dst := b.Exprs.Get(target)
	if src == nil || dst == nil {
		return
	}
	dst.Kind = src.Kind
	dst.Payload = src.Payload
	dst.Span = src.Span
}

// cloneInstantiation deep-clones callDecl's parameter list and body with
// every width formal in subst fixed to its resolved literal, interns a
// name-mangled identifier for the clone ("name$w1_w2"), and registers it as
// a fresh FunctionDef (a cloned getter becomes a plain function: once its
// width is concrete it is indistinguishable from one at a call site already
// rewritten to ExprCallTyped).
func cloneInstantiation(b *ast.Builder, str *source.Interner, callDecl ast.DeclID, name source.StringID, widths []string, subst map[source.StringID]ast.ExprID) ast.DeclID {
	c := &cloner{b: b, subst: subst}
	params, ret, _ := declSignature(b, callDecl)
	_, _, body, _ := functionShape(b, callDecl)

	kept := make([]ast.FnParam, 0, len(params))
	for _, p := range params {
		if _, skip := subst[p.Name]; skip {
			continue
		}
		kept = append(kept, ast.FnParam{Name: p.Name, Type: c.cloneType(p.Type), Default: c.cloneExpr(p.Default), Span: p.Span})
	}
	clonedRet := c.cloneType(ret)
	clonedBody := c.cloneStmt(body)

	mangled := str.MustLookup(name) + "$"
	for i, w := range widths {
		if i > 0 {
			mangled += "_"
		}
		mangled += w
	}
	return b.Decls.NewFunctionDef(str.Intern(mangled), kept, clonedRet, ast.ThrowsNever, clonedBody, b.Decls.Get(callDecl).Span)
}
