package driver

import (
	"asli/internal/ast"
	"asli/internal/backend"
	"asli/internal/config"
	"asli/internal/emit"
	"asli/internal/sema"
	"asli/internal/source"
	"asli/internal/value"
	"asli/internal/xform"
)

// Result is everything Run produces: the final (post-transform)
// declaration list and, when emission was requested, the rendered output
// files.
type Result struct {
	Decls []ast.DeclID
	Files []emit.File
}

// RunOptions selects what Run does beyond the front end: which FFI names
// gate reachability (the configured export/import lists), and, if Emit is
// true, which backend variant and file-layout options to render with.
type RunOptions struct {
	Consts map[source.StringID]value.Value
	FFI    config.FFI

	Emit        bool
	Backend     config.Backend
	EmitOptions emit.Options

	// ThreadLocalPointer, when set, wraps global variables in a state
	// struct reached through a thread-local pointer of this name.
	ThreadLocalPointer string
}

// Run drives the whole pipeline over every file the Session has loaded:
// parse -> resolve -> evaluation-order check -> typecheck -> transform
// (ending in the monomorphize-confluence check) -> (optionally) backend
// selection and C emission, all serially. It stops and returns whatever diagnostics accumulated the
// moment any stage reports an error; every pass outside the typechecker
// itself is fail-fast.
func (s *Session) Run(opts RunOptions) (Result, error) {
	perFile, err := s.ParseFiles()
	if err != nil {
		return Result{}, err
	}
	s.ResolveFiles(perFile, nil)
	if s.Diags.HasErrors() {
		return Result{}, nil
	}

	// Evaluation-order/effect policing runs ahead of type inference: a
	// program with order-dependent sibling effects is rejected before any
	// rewriting touches it.
	sema.CheckEffects(s.B, s.Str, s.Table, s.Diags, s.allDecls())
	if s.Diags.HasErrors() {
		return Result{}, nil
	}

	semaResult := s.CheckFiles(opts.Consts)
	if s.Diags.HasErrors() {
		return Result{}, nil
	}

	unit := &xform.Unit{
		B:       s.B,
		Str:     s.Str,
		Table:   s.Table,
		Sema:    semaResult,
		Diags:   s.Diags,
		Decls:   s.allDecls(),
		Exports: opts.FFI.Exports,
		Imports: opts.FFI.Imports,
	}
	if err := xform.RunDefault(unit); err != nil {
		return Result{}, err
	}
	if s.Diags.HasErrors() {
		return Result{Decls: unit.Decls}, nil
	}

	res := Result{Decls: unit.Decls}
	if !opts.Emit {
		return res, nil
	}

	opts.EmitOptions.ThreadLocalPointer = opts.ThreadLocalPointer
	rt, err := backend.New(string(opts.Backend), backend.Config{
		ThreadLocalPointer: opts.ThreadLocalPointer,
	})
	if err != nil {
		return res, err
	}
	files, err := emit.Emit(emit.Input{
		B:       s.B,
		Str:     s.Str,
		FS:      s.FS,
		Table:   s.Table,
		Sema:    semaResult,
		Diags:   s.Diags,
		Decls:   unit.Decls,
		Runtime: rt,
	}, opts.EmitOptions)
	if err != nil {
		return res, err
	}
	res.Files = files
	return res, nil
}

// allDecls flattens every parsed file's top-level declaration list into one
// program-wide slice, in file-then-source order, the shape
// internal/xform.Unit.Decls expects for a translation unit spanning several
// files.
func (s *Session) allDecls() []ast.DeclID {
	var out []ast.DeclID
	for _, fid := range s.asts {
		f := s.B.Files.Get(fid)
		if f == nil {
			continue
		}
		out = append(out, f.Decls...)
	}
	return out
}

