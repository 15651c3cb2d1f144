// Package ac implements the backend.Runtime variant that targets the
// Algorithmic C (ac_int/ac_fixed) header library used by high-level
// synthesis tools, the -DASL_AC variant selected
// with --backend=ac (it also generates C++ for this backend,
// since ac_int.h is a template library — internal/emit's caller
// selects the .cpp file extension when this variant is active). The
// generated header includes <ac_int.h> by name; no header directory is
// configured here or in internal/config.
package ac

import (
	"fmt"
	"strings"

	"asli/internal/backend"
)

func init() {
	backend.Register("ac", New)
}

type runtime struct {
	cfg backend.Config
}

// New constructs the Algorithmic C Runtime.
func New(cfg backend.Config) backend.Runtime { return &runtime{cfg: cfg} }

func (r *runtime) Name() string { return "ac" }

func (r *runtime) FileHeader() string {
	return "#define ASL_AC 1\n#include <ac_int.h>\n#include \"asl_rt.h\"\n"
}

func (r *runtime) TypeName(kind backend.ValueKind, width uint32) string {
	switch kind {
	case backend.ValueInt:
		return "asl_int_t"
	case backend.ValueSInt:
		return fmt.Sprintf("ac_int<%d, true>", width)
	case backend.ValueBits, backend.ValueMask:
		return fmt.Sprintf("ac_int<%d, false>", width)
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
	return fmt.Sprintf("ac_int<%d, true>(%q)", width, decimal)
}

func (r *runtime) LiteralBits(bits string, width uint32) string {
	return fmt.Sprintf("ac_int<%d, false>(%q, AC_BIN)", width, bits)
}

func (r *runtime) LiteralMask(bits string, width uint32) string {
	return fmt.Sprintf("ac_int<%d, false>(%q, AC_BIN)", width, bits)
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
	return fmt.Sprintf("asl_ac_sint_%s<%d>(%s)", op, width, strings.Join(args, ", "))
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
		return fmt.Sprintf("asl_ac_bits_%s<%d>(%s)", op, width, strings.Join(args, ", "))
	}
}

func (r *runtime) ConvertIntToSInt(expr string, width uint32) string {
	return fmt.Sprintf("ac_int<%d, true>(asl_int_to_i64(%s))", width, expr)
}

func (r *runtime) ConvertSIntToInt(expr string, width uint32) string {
	return fmt.Sprintf("asl_int_from_i64((long long)(%s).to_int64())", expr)
}

func (r *runtime) ResizeSInt(expr string, from, to uint32) string {
	return fmt.Sprintf("ac_int<%d, true>(%s)", to, expr)
}

func (r *runtime) SliceGet(value string, width, hi, lo uint32) string {
	return fmt.Sprintf("(%s).slc<%d>(%d)", value, hi-lo+1, lo)
}

func (r *runtime) SliceSet(value string, width, hi, lo uint32, replacement string) string {
	return fmt.Sprintf("(%s).set_slc(%d, %s)", value, lo, replacement)
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
	return fmt.Sprintf("(%s).to_uint64()", expr)
}

func (r *runtime) FFIFromC(expr string, width uint32) string {
	return fmt.Sprintf("ac_int<%d, false>(%s)", width, expr)
}
