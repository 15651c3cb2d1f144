package emit

import (
	"fmt"
	"strconv"
	"strings"

	"asli/internal/ast"
	"asli/internal/backend"
	"asli/internal/sema"
)

// expr renders an expression tree to a C expression string. Every node
// consults e.in.Sema.ExprTypes to decide which backend.Runtime primitive
// applies (an unbounded `int` add differs from a fixed-width `sintN` add).
func (e *emitter) expr(id ast.ExprID) string {
	if !id.IsValid() {
		return ""
	}
	ex := e.in.B.Exprs.Get(id)
	if ex == nil {
		return "0"
	}
	switch ex.Kind {
	case ast.ExprLiteral:
		return e.literal(id)
	case ast.ExprIdent:
		d, _ := e.in.B.Exprs.Ident(id)
		return e.cName(e.lookupString(d.Name))
	case ast.ExprField:
		d, _ := e.in.B.Exprs.Field(id)
		return fmt.Sprintf("%s.%s", e.expr(d.Base), e.cName(e.lookupString(d.Name)))
	case ast.ExprIndex:
		d, _ := e.in.B.Exprs.Index(id)
		return fmt.Sprintf("%s[%s]", e.expr(d.Base), e.expr(d.Index))
	case ast.ExprBitslice:
		return e.bitslice(id)
	case ast.ExprRecordConstruct:
		return e.recordConstruct(id)
	case ast.ExprCallTyped:
		d, _ := e.in.B.Exprs.CallTyped(id)
		return e.callExprText(d.Callee, append(append([]ast.ExprID(nil), d.Params...), d.Args...))
	case ast.ExprCallUntyped:
		// Source-level calls are all typed by the checker; the only
		// untyped calls that survive the pipeline are runtime primitives
		// injected by lowering passes (e.g. the unmatched-case error),
		// rendered as plain C calls by name.
		d, _ := e.in.B.Exprs.CallUntyped(id)
		args := make([]string, len(d.Args))
		for i, a := range d.Args {
			args[i] = e.expr(a.Value)
		}
		return fmt.Sprintf("%s(%s)", e.cName(e.lookupString(d.Callee)), strings.Join(args, ", "))
	case ast.ExprUnary:
		return e.unary(id)
	case ast.ExprBinary:
		return e.binary(id)
	case ast.ExprAsType:
		d, _ := e.in.B.Exprs.AsType(id)
		return e.convert(d.Operand, d.Type)
	case ast.ExprArrayInit:
		return e.arrayInit(id)
	default:
		// ExprTuple, ExprConcat, ExprIf, ExprLet, ExprWith, ExprAssertIn,
		// ExprAsConstraint, ExprUnknownOfType, and ExprPatternIn are all
		// eliminated by internal/xform before emit runs; reaching one here
		// means the pipeline left something unlowered.
		return fmt.Sprintf("/* unhandled expr kind %d */ 0", ex.Kind)
	}
}

func (e *emitter) literal(id ast.ExprID) string {
	lit, _ := e.in.B.Exprs.Literal(id)
	text := e.lookupString(lit.Text)
	switch lit.Kind {
	case ast.LitInteger:
		return e.rt().LiteralInt(text)
	case ast.LitSizedInt:
		return e.rt().LiteralSInt(text, lit.Width)
	case ast.LitBits:
		return e.rt().LiteralBits(text, lit.Width)
	case ast.LitMask:
		return e.rt().LiteralMask(text, lit.Width)
	case ast.LitBool:
		if text == "TRUE" || text == "true" {
			return "true"
		}
		return "false"
	case ast.LitString:
		return strconv.Quote(text)
	case ast.LitReal:
		return text
	default:
		return "0"
	}
}

func (e *emitter) exprTy(id ast.ExprID) (sema.Ty, bool) {
	t, ok := e.in.Sema.ExprTypes[id]
	return t, ok
}

func (e *emitter) unary(id ast.ExprID) string {
	d, _ := e.in.B.Exprs.Unary(id)
	operand := e.expr(d.Operand)
	ty, _ := e.exprTy(d.Operand)
	switch d.Op {
	case ast.UnaryNeg:
		if ty.Kind == sema.TySInt {
			w, _ := e.literalUint(ty.Width)
			return e.rt().BoundedArith(backend.OpNeg, w, operand)
		}
		return e.rt().IntArith(backend.OpNeg, operand)
	case ast.UnaryNot:
		return fmt.Sprintf("(!%s)", operand)
	case ast.UnaryBitNot:
		w, _ := e.literalUint(ty.Width)
		return e.rt().BitsArith("not", w, operand)
	default:
		return operand
	}
}

var binOpToIntOp = map[ast.BinaryOp]backend.IntOp{
	ast.BinAdd: backend.OpAdd, ast.BinSub: backend.OpSub, ast.BinMul: backend.OpMul,
	ast.BinDiv: backend.OpZDiv, ast.BinMod: backend.OpZRem,
	ast.BinDivRem: backend.OpFDiv, ast.BinQuot: backend.OpExactDiv, ast.BinRem: backend.OpFRem,
	ast.BinEq: backend.OpEq, ast.BinNe: backend.OpNe,
	ast.BinLt: backend.OpLt, ast.BinLe: backend.OpLe, ast.BinGt: backend.OpGt, ast.BinGe: backend.OpGe,
}

func (e *emitter) binary(id ast.ExprID) string {
	d, _ := e.in.B.Exprs.Binary(id)
	l, r := e.expr(d.Left), e.expr(d.Right)
	switch d.Op {
	case ast.BinAnd:
		return fmt.Sprintf("(%s && %s)", l, r)
	case ast.BinOr:
		return fmt.Sprintf("(%s || %s)", l, r)
	case ast.BinXor:
		return fmt.Sprintf("(!(%s) != !(%s))", l, r)
	case ast.BinBitAnd:
		w := e.widthOf(d.Left)
		return e.rt().BitsArith("and", w, l, r)
	case ast.BinBitOr:
		w := e.widthOf(d.Left)
		return e.rt().BitsArith("or", w, l, r)
	case ast.BinBitXor:
		w := e.widthOf(d.Left)
		return e.rt().BitsArith("xor", w, l, r)
	case ast.BinIff:
		return fmt.Sprintf("(!(%s) == !(%s))", l, r)
	case ast.BinImplies:
		return fmt.Sprintf("(!(%s) || (%s))", l, r)
	case ast.BinIn:
		if w := e.widthOf(d.Left); w > 0 {
			return e.rt().BitsArith("in", w, l, r)
		}
		return fmt.Sprintf("(%s == %s)", l, r)
	default:
		op, ok := binOpToIntOp[d.Op]
		if !ok {
			return fmt.Sprintf("(%s %s %s)", l, d.Op, r)
		}
		ty, _ := e.exprTy(d.Left)
		if ty.Kind == sema.TySInt {
			w, _ := e.literalUint(ty.Width)
			return e.rt().BoundedArith(op, w, l, r)
		}
		return e.rt().IntArith(op, l, r)
	}
}

func (e *emitter) widthOf(id ast.ExprID) uint32 {
	ty, ok := e.exprTy(id)
	if !ok {
		return 0
	}
	w, _ := e.literalUint(ty.Width)
	return w
}

func (e *emitter) bitslice(id ast.ExprID) string {
	d, _ := e.in.B.Exprs.Bitslice(id)
	base := e.expr(d.Base)
	w := e.widthOf(d.Base)
	switch d.Kind {
	case ast.BitsliceIndex:
		if i, ok := e.literalUint(d.A); ok {
			return e.rt().SliceGet(base, w, i, i)
		}
		return e.rt().BitsArith("bit", w, base, e.expr(d.A))
	case ast.BitsliceHighLow:
		hi, _ := e.literalUint(d.A)
		lo, _ := e.literalUint(d.B)
		return e.rt().SliceGet(base, w, hi, lo)
	case ast.BitsliceLowWidth:
		lo, _ := e.literalUint(d.A)
		width, _ := e.literalUint(d.B)
		return e.rt().SliceGet(base, w, lo+width-1, lo)
	case ast.BitsliceHighWidth:
		hi, _ := e.literalUint(d.A)
		width, _ := e.literalUint(d.B)
		return e.rt().SliceGet(base, w, hi, hi-width+1)
	default:
		return base
	}
}

func (e *emitter) recordConstruct(id ast.ExprID) string {
	d, _ := e.in.B.Exprs.RecordConstruct(id)
	var b strings.Builder
	fmt.Fprintf(&b, "(%s){", e.cType(d.Type))
	for i, f := range d.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, ".%s = %s", e.cName(e.lookupString(f.Name)), e.expr(f.Value))
	}
	b.WriteString("}")
	return b.String()
}

func (e *emitter) arrayInit(id ast.ExprID) string {
	d, _ := e.in.B.Exprs.ArrayInit(id)
	var b strings.Builder
	b.WriteString("{")
	switch d.Kind {
	case ast.ArrayInitList:
		for i, el := range d.Elems {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(e.expr(el))
		}
	case ast.ArrayInitFill:
		n, _ := e.literalUint(d.Size)
		fill := e.expr(d.Fill)
		for i := uint32(0); i < n; i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(fill)
		}
	}
	b.WriteString("}")
	return b.String()
}

// convert renders a checked `as T` conversion through the Runtime's
// int<->sintN primitives, or a resize when both sides are sintN of
// different widths.
func (e *emitter) convert(operand ast.ExprID, target ast.TypeID) string {
	expr := e.expr(operand)
	srcTy, _ := e.exprTy(operand)
	ty := e.in.B.Types.Get(target)
	if ty == nil {
		return expr
	}
	switch ty.Kind {
	case ast.TySizedInt:
		d, _ := e.in.B.Types.SizedInt(target)
		w, _ := e.literalUint(d.Width)
		if srcTy.Kind == sema.TySInt {
			fromW, _ := e.literalUint(srcTy.Width)
			return e.rt().ResizeSInt(expr, fromW, w)
		}
		return e.rt().ConvertIntToSInt(expr, w)
	case ast.TyInteger:
		if srcTy.Kind == sema.TySInt {
			w, _ := e.literalUint(srcTy.Width)
			return e.rt().ConvertSIntToInt(expr, w)
		}
		return expr
	default:
		return fmt.Sprintf("((%s)%s)", e.cType(target), expr)
	}
}

// callExprText renders a resolved call to callee with already-rendered
// argument expressions, dispatching builtin print/RAM/conversion primitives
// straight to the active Runtime and everything else to a plain C call.
func (e *emitter) callExprText(callee ast.DeclID, args []ast.ExprID) string {
	rendered := make([]string, len(args))
	for i, a := range args {
		rendered[i] = e.expr(a)
	}
	decl := e.in.B.Decls.Get(callee)
	if decl != nil && decl.Kind == ast.DeclBuiltinFunction {
		d, _ := e.in.B.Decls.BuiltinFunction(callee)
		if text, ok := e.builtinCall(e.lookupString(d.Name), rendered, args); ok {
			return text
		}
	}
	name := e.declFuncName(callee)
	return fmt.Sprintf("%s(%s)", e.cName(name), strings.Join(rendered, ", "))
}

func (e *emitter) declFuncName(id ast.DeclID) string {
	decl := e.in.B.Decls.Get(id)
	if decl == nil {
		return "asl_unknown"
	}
	switch decl.Kind {
	case ast.DeclFunctionDef:
		d, _ := e.in.B.Decls.FunctionDef(id)
		return e.lookupString(d.Name)
	case ast.DeclFunctionType:
		d, _ := e.in.B.Decls.FunctionType(id)
		return e.lookupString(d.Name)
	case ast.DeclBuiltinFunction:
		d, _ := e.in.B.Decls.BuiltinFunction(id)
		return e.lookupString(d.Name)
	case ast.DeclGetter:
		d, _ := e.in.B.Decls.Getter(id)
		return e.lookupString(d.Name)
	case ast.DeclSetter:
		d, _ := e.in.B.Decls.Setter(id)
		return e.lookupString(d.Name)
	default:
		return "asl_unknown"
	}
}

// builtinCall maps the prelude's builtin names (see symbols.builtinPreludeEntries)
// onto Runtime primitives. args is the already-rendered text; raw is the
// original expression IDs, needed for the width-bearing conversions.
func (e *emitter) builtinCall(name string, args []string, raw []ast.ExprID) (string, bool) {
	switch name {
	case "print_char":
		return e.rt().PrintChar(args[0]), true
	case "print_string":
		return e.rt().PrintString(args[0]), true
	case "print_decimal":
		return e.rt().PrintDecimal(args[len(args)-1], e.widthOf(raw[len(raw)-1])), true
	case "print_hex":
		return e.rt().PrintHex(args[len(args)-1], e.widthOf(raw[len(raw)-1])), true
	case "ram_init":
		return e.rt().RAMInit(args[0]), true
	default:
		return "", false
	}
}
