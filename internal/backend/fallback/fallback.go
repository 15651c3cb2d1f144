// Package fallback implements the portable backend.Runtime variant: no
// compiler extensions, no third-party header, every bounded integer
// represented as a fixed-capacity struct of unsigned 64-bit limbs
// (asl_bv_t) manipulated through calls into a small runtime support
// library (asl_rt.h). This is the -DASL_FALLBACK variant selected with
// --backend=fallback.
package fallback

import (
	"fmt"
	"strings"

	"asli/internal/backend"
)

func init() {
	backend.Register("fallback", New)
}

type runtime struct {
	cfg backend.Config
}

// New constructs the fallback Runtime.
func New(cfg backend.Config) backend.Runtime { return &runtime{cfg: cfg} }

func (r *runtime) Name() string { return "fallback" }

func (r *runtime) FileHeader() string {
	return "#define ASL_FALLBACK 1\n#include \"asl_rt.h\"\n"
}

func (r *runtime) TypeName(kind backend.ValueKind, width uint32) string {
	switch kind {
	case backend.ValueInt:
		return "asl_int_t"
	case backend.ValueSInt, backend.ValueBits, backend.ValueMask:
		return "asl_bv_t"
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
	return fmt.Sprintf("ASL_SINT_LIT(%d, %q)", width, decimal)
}

func (r *runtime) LiteralBits(bits string, width uint32) string {
	return fmt.Sprintf("ASL_BITS_LIT(%d, %q)", width, bits)
}

func (r *runtime) LiteralMask(bits string, width uint32) string {
	return fmt.Sprintf("ASL_MASK_LIT(%d, %q)", width, bits)
}

func (r *runtime) IntArith(op backend.IntOp, args ...string) string {
	return fmt.Sprintf("asl_int_%s(%s)", op, strings.Join(args, ", "))
}

func (r *runtime) BoundedArith(op backend.IntOp, width uint32, args ...string) string {
	return fmt.Sprintf("asl_sint_%s(%d, %s)", op, width, strings.Join(args, ", "))
}

func (r *runtime) BitsArith(op string, width uint32, args ...string) string {
	return fmt.Sprintf("asl_bits_%s(%d, %s)", op, width, strings.Join(args, ", "))
}

func (r *runtime) ConvertIntToSInt(expr string, width uint32) string {
	return fmt.Sprintf("asl_cvt_int_sint(%d, %s)", width, expr)
}

func (r *runtime) ConvertSIntToInt(expr string, width uint32) string {
	return fmt.Sprintf("asl_cvt_sint_int(%d, %s)", width, expr)
}

func (r *runtime) ResizeSInt(expr string, from, to uint32) string {
	return fmt.Sprintf("asl_resize_sint(%d, %d, %s)", from, to, expr)
}

func (r *runtime) SliceGet(value string, width, hi, lo uint32) string {
	return fmt.Sprintf("asl_bits_slice_get(%d, %s, %d, %d)", width, value, hi, lo)
}

func (r *runtime) SliceSet(value string, width, hi, lo uint32, replacement string) string {
	return fmt.Sprintf("asl_bits_slice_set(%d, %s, %d, %d, %s)", width, value, hi, lo, replacement)
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
	return fmt.Sprintf("asl_limb_to_u64(%d, %s)", width, expr)
}

func (r *runtime) FFIFromC(expr string, width uint32) string {
	return fmt.Sprintf("asl_u64_to_limb(%d, %s)", width, expr)
}
