package emit

import (
	"fmt"

	"asli/internal/ast"
	"asli/internal/backend"
	"asli/internal/sema"
)

// cType renders the C type for an ASL TypeID. Records, exceptions, and
// enumerations render as their C struct/enum tag name; everything bounded
// (sintN, bits(N)) goes through the active Runtime so fallback/c23/ac each
// get their own representation; plain `integer` renders as the Runtime's
// unbounded int type.
func (e *emitter) cType(id ast.TypeID) string {
	ty := e.in.B.Types.Get(id)
	if ty == nil {
		return "void"
	}
	switch ty.Kind {
	case ast.TyIdent:
		d, _ := e.in.B.Types.Ident(id)
		return "struct " + e.cName(e.lookupString(d.Name))
	case ast.TyInteger:
		return e.rt().TypeName(backend.ValueInt, 0)
	case ast.TySizedInt:
		d, _ := e.in.B.Types.SizedInt(id)
		w, _ := e.literalUint(d.Width)
		return e.rt().TypeName(backend.ValueSInt, w)
	case ast.TyBits:
		d, _ := e.in.B.Types.Bits_(id)
		w, _ := e.literalUint(d.Width)
		return e.rt().TypeName(backend.ValueBits, w)
	case ast.TyArray:
		d, _ := e.in.B.Types.Array(id)
		return e.cType(d.Elem) // caller appends the [size] suffix
	case ast.TyTypeOf:
		// Resolved away by NamedTypeExpandPass; fall through to a checked type.
		if t, ok := e.in.Sema.ExprTypes[mustTypeOfExpr(e.in.B, id)]; ok {
			return e.cTypeFromSema(t)
		}
		return "void"
	default:
		return "void"
	}
}

func mustTypeOfExpr(b *ast.Builder, id ast.TypeID) ast.ExprID {
	d, ok := b.Types.TypeOf(id)
	if !ok {
		return ast.NoExprID
	}
	return d.Expr
}

// arraySuffix renders the trailing `[size]` for a TyArray type, or "" for
// anything else.
func (e *emitter) arraySuffix(id ast.TypeID) string {
	ty := e.in.B.Types.Get(id)
	if ty == nil || ty.Kind != ast.TyArray {
		return ""
	}
	d, _ := e.in.B.Types.Array(id)
	n, _ := e.literalUint(d.Size)
	return fmt.Sprintf("[%d]", n)
}

func (e *emitter) cTypeFromSema(t sema.Ty) string {
	switch t.Kind {
	case sema.TySInt:
		w, _ := e.literalUint(t.Width)
		return e.rt().TypeName(backend.ValueSInt, w)
	case sema.TyBits:
		w, _ := e.literalUint(t.Width)
		return e.rt().TypeName(backend.ValueBits, w)
	default:
		// Unresolved typeof() survivors fall back to unbounded int rather
		// than fail the whole unit; ConstPropPass folds typeof() away in
		// every case the pipeline is expected to produce.
		return e.rt().TypeName(backend.ValueInt, 0)
	}
}

func (e *emitter) cParam(p ast.FnParam) string {
	base := e.cType(p.Type)
	suffix := e.arraySuffix(p.Type)
	return fmt.Sprintf("%s %s%s", base, e.cName(e.lookupString(p.Name)), suffix)
}

func (e *emitter) cParamList(params []ast.FnParam) string {
	if len(params) == 0 {
		return "void"
	}
	out := ""
	for i, p := range params {
		if i > 0 {
			out += ", "
		}
		out += e.cParam(p)
	}
	return out
}
