// Package c23 implements the backend.Runtime variant that targets ISO
// C23's native arbitrary-width bit-precise integers (_BitInt(N)),
// selected with --backend=c23. Bounded
// arithmetic compiles straight to C operators wherever C has one (+, -, *,
// shifts, comparisons, negation; and/or/xor/not on bits); the other
// bounded operations (the division/remainder variants and the rest), the
// other bitvector operations, slice assignment, unbounded int, and the
// print/RAM primitives call helper functions supplied by asl_rt.h built
// with -DASL_C23.
package c23

import (
	"fmt"
	"strings"

	"asli/internal/backend"
)

func init() {
	backend.Register("c23", New)
}

type runtime struct {
	cfg backend.Config
}

// New constructs the C23 Runtime.
func New(cfg backend.Config) backend.Runtime { return &runtime{cfg: cfg} }

func (r *runtime) Name() string { return "c23" }

func (r *runtime) FileHeader() string {
	return "#define ASL_C23 1\n#include \"asl_rt.h\"\n"
}

func (r *runtime) TypeName(kind backend.ValueKind, width uint32) string {
	switch kind {
	case backend.ValueInt:
		return "asl_int_t"
	case backend.ValueSInt:
		return fmt.Sprintf("signed _BitInt(%d)", width)
	case backend.ValueBits, backend.ValueMask:
		return fmt.Sprintf("unsigned _BitInt(%d)", width)
	case backend.ValueRAM:
		return "asl_ram_t"
	default:
		return "void"
	}
}

func (r *runtime) LiteralInt(decimal string) string {
	return fmt.Sprintf("asl_int_from_decimal(%q)", decimal)
}

func (r *runtime) LiteralSInt(decimal string, width uint32) string {
	return fmt.Sprintf("((signed _BitInt(%d))%swb)", width, decimal)
}

func (r *runtime) LiteralBits(bits string, width uint32) string {
	return fmt.Sprintf("((unsigned _BitInt(%d))0b%swb)", width, bits)
}

func (r *runtime) LiteralMask(bits string, width uint32) string {
	return fmt.Sprintf("((unsigned _BitInt(%d))0b%swb)", width, bits)
}

var intOpSymbol = map[backend.IntOp]string{
	backend.OpAdd: "+", backend.OpSub: "-", backend.OpMul: "*",
	backend.OpShl: "<<", backend.OpShr: ">>",
	backend.OpEq: "==", backend.OpNe: "!=",
	backend.OpLt: "<", backend.OpLe: "<=", backend.OpGt: ">", backend.OpGe: ">=",
}

func (r *runtime) BoundedArith(op backend.IntOp, width uint32, args ...string) string {
	if op == backend.OpNeg {
		return fmt.Sprintf("(-(%s))", args[0])
	}
	if sym, ok := intOpSymbol[op]; ok && len(args) == 2 {
		return fmt.Sprintf("(%s %s %s)", args[0], sym, args[1])
	}
	return fmt.Sprintf("asl_sint_%s(%d, %s)", op, width, strings.Join(args, ", "))
}

func (r *runtime) IntArith(op backend.IntOp, args ...string) string {
	return fmt.Sprintf("asl_int_%s(%s)", op, strings.Join(args, ", "))
}

func (r *runtime) BitsArith(op string, width uint32, args ...string) string {
	switch op {
	case "and":
		return fmt.Sprintf("(%s & %s)", args[0], args[1])
	case "or":
		return fmt.Sprintf("(%s | %s)", args[0], args[1])
	case "xor":
		return fmt.Sprintf("(%s ^ %s)", args[0], args[1])
	case "not":
		return fmt.Sprintf("(~%s)", args[0])
	default:
		return fmt.Sprintf("asl_bits_%s(%d, %s)", op, width, strings.Join(args, ", "))
	}
}

func (r *runtime) ConvertIntToSInt(expr string, width uint32) string {
	return fmt.Sprintf("((signed _BitInt(%d))asl_int_to_i64(%s))", width, expr)
}

func (r *runtime) ConvertSIntToInt(expr string, width uint32) string {
	return fmt.Sprintf("asl_int_from_i64((long long)(%s))", expr)
}

func (r *runtime) ResizeSInt(expr string, from, to uint32) string {
	return fmt.Sprintf("((signed _BitInt(%d))(%s))", to, expr)
}

func (r *runtime) SliceGet(value string, width, hi, lo uint32) string {
	return fmt.Sprintf("((unsigned _BitInt(%d))((%s) >> %d))", hi-lo+1, value, lo)
}

func (r *runtime) SliceSet(value string, width, hi, lo uint32, replacement string) string {
	return fmt.Sprintf("asl_bitslice_set(%d, %s, %d, %d, %s)", width, value, hi, lo, replacement)
}

func (r *runtime) RAMInit(sizeExpr string) string {
	return fmt.Sprintf("asl_ram_init(%s)", sizeExpr)
}

func (r *runtime) RAMRead(ram, addr string, addrWidth, dataWidth uint32) string {
	return fmt.Sprintf("asl_ram_read(%s, %d, %s, %d)", ram, addrWidth, addr, dataWidth)
}

func (r *runtime) RAMWrite(ram, addr, data string, addrWidth, dataWidth uint32) string {
	return fmt.Sprintf("asl_ram_write(%s, %d, %s, %d, %s)", ram, addrWidth, addr, dataWidth, data)
}

func (r *runtime) PrintChar(expr string) string   { return fmt.Sprintf("asl_print_char(%s)", expr) }
func (r *runtime) PrintString(expr string) string { return fmt.Sprintf("asl_print_string(%s)", expr) }

func (r *runtime) PrintDecimal(expr string, width uint32) string {
	return fmt.Sprintf("asl_print_decimal(%d, %s)", width, expr)
}

func (r *runtime) PrintHex(expr string, width uint32) string {
	return fmt.Sprintf("asl_print_hex(%d, %s)", width, expr)
}

func (r *runtime) FFIToC(expr string, width uint32) string {
	if width <= 64 {
		return fmt.Sprintf("((uint64_t)(%s))", expr)
	}
	return fmt.Sprintf("asl_bitint_to_u64(%d, %s)", width, expr)
}

func (r *runtime) FFIFromC(expr string, width uint32) string {
	return fmt.Sprintf("((unsigned _BitInt(%d))(%s))", width, expr)
}
