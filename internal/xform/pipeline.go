package xform

import "asli/internal/mono"

// monoInput adapts a Unit into the plain-struct request internal/mono
// expects, keeping internal/mono free of any dependency on internal/xform
// so the two packages don't import each other.
func monoInput(u *Unit) mono.Input {
	return mono.Input{
		B:       u.B,
		Str:     u.Str,
		Table:   u.Table,
		Sema:    u.Sema,
		Diags:   u.Diags,
		Decls:   u.Decls,
		Exports: u.Exports,
	}
}

func runMonomorphize(u *Unit) error {
	decls, err := mono.Monomorphize(monoInput(u))
	if err != nil {
		return err
	}
	u.Decls = decls
	return nil
}

func runCheckMonomorphic(u *Unit) error {
	return mono.CheckMonomorphic(monoInput(u))
}

// RunDefault runs the transform pipeline in its fixed order, directly
// against internal/ast rather than a separate IR: reachable-from-exports DCE,
// desugaring, monomorphization (with a repeated DCE + mono round to reach
// the fixed point cascading clones require), a second wave of
// structural lowering the fresh clones need, then the width-and-shape
// finishing passes, unlisted-import filtering, a final DCE pass, and the
// post-mono confluence check. internal/emit's C generation is the
// pipeline's caller, not a member of it, since it consumes the finished
// Unit rather than mutating it.
func RunDefault(u *Unit) error {
	stages := []Pass{
		NewPass("filter_reachable_from(exports)", FilterReachableFromExports),
		DesugarPass{},
		NamedTypeExpandPass{},
		BittuplesPass{},
		BitsliceNormalizePass{},
		GetSetInlinePass{},
		ConstPropPass{Unroll: false},
		NewPass("xform_monomorphize", runMonomorphize),
		NewPass("filter_reachable_from(exports)", FilterReachableFromExports),
		NewPass("xform_monomorphize", runMonomorphize),
		TuplesPass{},
		GetSetInlinePass{},
		BittuplesPass{},
		HoistLetsPass{},
		BitslicesPass{},
		CasePass{},
		ConstPropPass{Unroll: false},
		BoundedPass{},
		NewPass("filter_unlisted_functions(imports)", FilterUnlistedFunctions),
		NewPass("filter_reachable_from(exports)", FilterReachableFromExports),
		NewPass("check_monomorphization", runCheckMonomorphic),
	}
	for _, p := range stages {
		if err := p.Run(u); err != nil {
			return err
		}
		if u.Diags.HasErrors() {
			return nil
		}
	}
	return nil
}
