package xform

import (
	"strconv"

	"asli/internal/ast"
	"asli/internal/sema"
	"asli/internal/value"
	"asli/internal/value/fold"
)

// BoundedPass lowers a constrained `integer {...}` type whose bounds fold
// to literals into a concrete TySizedInt, the shape internal/emit and
// internal/backend's three runtime variants know how to render as a plain
// C integer type. The lowering propagates through every typed position —
// let-bindings, function parameters, return types, record and exception
// fields, globals — and call sites, initializers, and returns gain an
// `as T` coercion wherever the value's width disagrees with the rewritten
// target, which internal/emit renders as resize_sintN / cvt_int_sintN /
// cvt_sintN_int. A type whose bounds are not statically foldable (they
// depend on an unresolved parameter) is left as TyInteger for the runtime
// variant to represent with its arbitrary-precision fallback path.
type BoundedPass struct{}

func (BoundedPass) Name() string { return "bounded" }

func (BoundedPass) Run(u *Unit) error {
	folder := fold.New(u.B, u.Str, u.Sema.Consts)
	// Signatures, fields, and globals first, so the body walk below can
	// compare argument types against the already-rewritten formals.
	for _, id := range u.Decls {
		lowerBoundedInDecl(u, id, folder)
	}
	forEachBody(u, func(u *Unit, id ast.DeclID, body ast.StmtID) ast.StmtID {
		body = lowerBoundedInStmt(u, body, folder, returnTypeOf(u, id))
		coerceCallArgs(u, body, folder)
		return body
	})
	return nil
}

// lowerBoundedInDecl rewrites one declaration's typed slots in place.
func lowerBoundedInDecl(u *Unit, id ast.DeclID, folder *fold.Folder) {
	decl := u.B.Decls.Get(id)
	if decl == nil {
		return
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := u.B.Decls.FunctionDef(id)
		for i := range d.Params {
			d.Params[i].Type = boundType(u, d.Params[i].Type, folder)
		}
		d.ReturnType = boundType(u, d.ReturnType, folder)
	case ast.DeclFunctionType:
		d, _ := u.B.Decls.FunctionType(id)
		for i := range d.Params {
			d.Params[i].Type = boundType(u, d.Params[i].Type, folder)
		}
		d.ReturnType = boundType(u, d.ReturnType, folder)
	case ast.DeclGetter:
		d, _ := u.B.Decls.Getter(id)
		for i := range d.Params {
			d.Params[i].Type = boundType(u, d.Params[i].Type, folder)
		}
		d.ReturnType = boundType(u, d.ReturnType, folder)
	case ast.DeclSetter:
		d, _ := u.B.Decls.Setter(id)
		for i := range d.Params {
			d.Params[i].Type = boundType(u, d.Params[i].Type, folder)
		}
		d.Value.Type = boundType(u, d.Value.Type, folder)
	case ast.DeclRecord:
		d, _ := u.B.Decls.Record(id)
		for i := range d.Fields {
			d.Fields[i].Type = boundType(u, d.Fields[i].Type, folder)
		}
	case ast.DeclExceptionRecord:
		d, _ := u.B.Decls.ExceptionRecord(id)
		for i := range d.Fields {
			d.Fields[i].Type = boundType(u, d.Fields[i].Type, folder)
		}
	case ast.DeclConstant:
		d, _ := u.B.Decls.Constant(id)
		d.Type = boundType(u, d.Type, folder)
	case ast.DeclConfigConstant:
		d, _ := u.B.Decls.ConfigConstant(id)
		d.Type = boundType(u, d.Type, folder)
	case ast.DeclVariable:
		d, _ := u.B.Decls.Variable(id)
		d.Type = boundType(u, d.Type, folder)
	}
}

func returnTypeOf(u *Unit, id ast.DeclID) ast.TypeID {
	decl := u.B.Decls.Get(id)
	if decl == nil {
		return ast.NoTypeID
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := u.B.Decls.FunctionDef(id)
		return d.ReturnType
	case ast.DeclGetter:
		d, _ := u.B.Decls.Getter(id)
		return d.ReturnType
	}
	return ast.NoTypeID
}

func lowerBoundedInStmt(u *Unit, id ast.StmtID, folder *fold.Folder, ret ast.TypeID) ast.StmtID {
	if !id.IsValid() {
		return id
	}
	s := u.B.Stmts.Get(id)
	if s == nil {
		return id
	}
	switch s.Kind {
	case ast.StmtBlock:
		d, _ := u.B.Stmts.Block(id)
		for i, st := range d.Stmts {
			d.Stmts[i] = lowerBoundedInStmt(u, st, folder, ret)
		}
	case ast.StmtVarDecl:
		d, _ := u.B.Stmts.VarDecl(id)
		d.Type = boundType(u, d.Type, folder)
		if d.Init.IsValid() {
			d.Init = coerceTo(u, d.Init, d.Type, folder)
		}
	case ast.StmtReturn:
		d, _ := u.B.Stmts.Return(id)
		if d.HasValue {
			d.Value = coerceTo(u, d.Value, ret, folder)
		}
	default:
		rewriteNestedStmt(u, id, func(st ast.StmtID) ast.StmtID { return lowerBoundedInStmt(u, st, folder, ret) })
	}
	return id
}

// coerceCallArgs wraps every resolved call argument whose width disagrees
// with its (already-rewritten) formal in an `as T` coercion.
func coerceCallArgs(u *Unit, id ast.StmtID, folder *fold.Folder) {
	walkExprsInStmt(u, id, func(e ast.ExprID) ast.ExprID {
		exp := u.B.Exprs.Get(e)
		if exp == nil || exp.Kind != ast.ExprCallTyped {
			return e
		}
		d, _ := u.B.Exprs.CallTyped(e)
		params := formalParams(u, d.Callee)
		// Synthesized width parameters precede the value arguments; the
		// formal list may cover either just the values or both.
		offset := 0
		switch {
		case len(params) == len(d.Args):
		case len(params) == len(d.Params)+len(d.Args):
			offset = len(d.Params)
		default:
			return e
		}
		for i := range d.Args {
			d.Args[i] = coerceTo(u, d.Args[i], params[offset+i].Type, folder)
		}
		return e
	})
}

func formalParams(u *Unit, id ast.DeclID) []ast.FnParam {
	decl := u.B.Decls.Get(id)
	if decl == nil {
		return nil
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := u.B.Decls.FunctionDef(id)
		return d.Params
	case ast.DeclFunctionType:
		d, _ := u.B.Decls.FunctionType(id)
		return d.Params
	}
	return nil
}

// coerceTo wraps e in `as target` when target is a sized integer and the
// checker-recorded type of e is a plain integer (cvt_int_sintN) or a
// sized integer of a provably different width (resize_sintN). An
// expression whose type is unknown or already matches is left alone, so
// the pass stays idempotent.
func coerceTo(u *Unit, e ast.ExprID, target ast.TypeID, folder *fold.Folder) ast.ExprID {
	if !e.IsValid() || !target.IsValid() {
		return e
	}
	tt := u.B.Types.Get(target)
	if tt == nil || tt.Kind != ast.TySizedInt {
		return e
	}
	td, _ := u.B.Types.SizedInt(target)
	targetW, ok := foldWidth(u, td.Width, folder)
	if !ok {
		return e
	}
	exp := u.B.Exprs.Get(e)
	if exp == nil {
		return e
	}
	if exp.Kind == ast.ExprAsType {
		return e // already coerced; keep reruns of the pass stable
	}
	ty, ok := u.Sema.ExprTypes[e]
	if !ok {
		return e
	}
	switch ty.Kind {
	case sema.TyInt:
		return u.B.Exprs.NewAsType(e, target, exp.Span)
	case sema.TySInt:
		srcW, ok := foldWidth(u, ty.Width, folder)
		if ok && srcW == targetW {
			return e
		}
		return u.B.Exprs.NewAsType(e, target, exp.Span)
	default:
		return e
	}
}

func foldWidth(u *Unit, e ast.ExprID, folder *fold.Folder) (uint32, bool) {
	if !e.IsValid() {
		return 0, false
	}
	if lit, ok := u.B.Exprs.Literal(e); ok {
		text, _ := u.Str.Lookup(lit.Text)
		if n, err := strconv.ParseUint(text, 10, 32); err == nil {
			return uint32(n), true
		}
	}
	v, ok := folder.Fold(e)
	if !ok || v.Kind != value.KindInt {
		return 0, false
	}
	n, ok := v.Int.AsInt64()
	if !ok || n < 0 {
		return 0, false
	}
	return uint32(n), true
}

// standardWidths are the C integer widths internal/backend's three
// variants are all guaranteed to provide.
var standardWidths = []uint32{8, 16, 32, 64, 128}

func boundType(u *Unit, t ast.TypeID, folder *fold.Folder) ast.TypeID {
	if !t.IsValid() {
		return t
	}
	ty := u.B.Types.Get(t)
	if ty.Kind != ast.TyInteger {
		return t
	}
	d, _ := u.B.Types.Integer(t)
	if len(d.Constraints) == 0 {
		return t
	}
	var bound value.Int
	have := false
	consider := func(e ast.ExprID) {
		if !e.IsValid() {
			return
		}
		v, ok := folder.Fold(e)
		if !ok || v.Kind != value.KindInt {
			return
		}
		abs := v.Int
		if abs.Cmp(value.IntFromInt64(0)) < 0 {
			abs = abs.Neg_()
		}
		if !have || abs.Cmp(bound) > 0 {
			bound = abs
			have = true
		}
	}
	for _, c := range d.Constraints {
		consider(c.Lo)
		consider(c.Hi)
		consider(c.Val)
	}
	if !have {
		return t
	}
	for _, w := range standardWidths {
		if bound.FitsInBits(w - 1) {
			return u.B.Types.NewSizedInt(u.B.Exprs.NewLiteral(ast.LitInteger, u.Str.Intern(itoa(int(w))), 0, d.Span), d.Span)
		}
	}
	return t
}
