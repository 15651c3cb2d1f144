package ast

import "asli/internal/source"

// Hints sizes the initial capacity of each top-level arena family; zero
// falls back to a modest default so small translation units don't
// over-allocate.
type Hints struct {
	Files, Decls, Stmts, Exprs, Types, Patterns, LValues uint
}

// Builder owns every arena family needed to construct a program's AST. The
// parser builds into one Builder per translation unit; later passes
// extend the same arenas rather than copying the tree.
type Builder struct {
	Files    *Files
	Decls    *Decls
	Stmts    *Stmts
	Exprs    *Exprs
	Types    *Types
	Patterns *Patterns
	LValues  *LValues
}

func NewBuilder(hints Hints) *Builder {
	if hints.Files == 0 {
		hints.Files = 1 << 2
	}
	if hints.Decls == 0 {
		hints.Decls = 1 << 7
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 9
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 10
	}
	if hints.Types == 0 {
		hints.Types = 1 << 7
	}
	if hints.Patterns == 0 {
		hints.Patterns = 1 << 6
	}
	if hints.LValues == 0 {
		hints.LValues = 1 << 7
	}
	return &Builder{
		Files:    NewFiles(hints.Files),
		Decls:    NewDecls(hints.Decls),
		Stmts:    NewStmts(hints.Stmts),
		Exprs:    NewExprs(hints.Exprs),
		Types:    NewTypes(hints.Types),
		Patterns: NewPatterns(hints.Patterns),
		LValues:  NewLValues(hints.LValues),
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushDecl(file FileID, decl DeclID) {
	b.Files.PushDecl(file, decl)
}
