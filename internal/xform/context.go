// Package xform implements the transform pipeline: an ordered sequence
// of tree-to-tree rewrites that turn a type-checked program into one ready
// for monomorphization and C emission. Every pass mutates the same
// ast.Builder arenas the checker left behind rather than building a new
// tree, following ast.Builder's documented intent that "later passes
// extend the same arenas rather than copying the tree."
package xform

import (
	"asli/internal/ast"
	"asli/internal/diag"
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/symbols"
)

// Unit is one translation unit's worth of state threaded through every
// pass: the shared arenas, the symbol table the checker resolved names
// against, the checker's per-expression type and constant results, and the
// diagnostic bag passes report into (fail-fast passes stop the pipeline the
// moment this bag gains an error).
type Unit struct {
	B     *ast.Builder
	Str   *source.Interner
	Table *symbols.Table
	Sema  sema.Result
	Diags *diag.Bag

	// Decls is the program's top-level declaration list, in declaration
	// order, aggregated across every file of the translation unit. Passes
	// rewrite in place (mutating the *Data pointers ast.Decls.Get resolves
	// to) and may replace this slice wholesale (DCE passes) or append to it
	// (monomorphization's cloning).
	Decls []ast.DeclID

	// Exports and Imports are the FFI name sets from the session
	// configuration (--new-ffi / project import/export lists),
	// consulted by the reachability passes.
	Exports []string
	Imports []string
}

// Pass is one named step of the pipeline. Name is the label used in
// diagnostics.
type Pass interface {
	Name() string
	Run(u *Unit) error
}

type passFunc struct {
	name string
	fn   func(u *Unit) error
}

func (p passFunc) Name() string        { return p.name }
func (p passFunc) Run(u *Unit) error { return p.fn(u) }

// NewPass adapts a plain function into a Pass, for the passes simple enough
// not to need their own named type.
func NewPass(name string, fn func(u *Unit) error) Pass {
	return passFunc{name: name, fn: fn}
}

// internalError reports an InternalInvariantViolation diagnostic and
// returns it as an error, the shape every pass uses to fail fast on a
// construct it did not expect to see at its point in the pipeline.
func internalError(u *Unit, span source.Span, msg string) error {
	d := diag.NewError(diag.InternalInvariantViolation, span, msg)
	u.Diags.Add(d)
	return errString(msg)
}

type errString string

func (e errString) Error() string { return string(e) }
