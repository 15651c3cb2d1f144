// Package backend defines the capability set every emitter runtime
// variant must provide: type and literal printers, integer and
// bounded-integer arithmetic, bitvector arithmetic, conversions, slice
// get/set, RAM access, and FFI helpers. internal/emit drives a Runtime
// without knowing which of the three variants — fallback, c23, ac — it
// was handed; switching variants changes only the Runtime implementation,
// never emit's call sites.
package backend

import "fmt"

// IntOp names an integer arithmetic or comparison primitive every
// Runtime must provide.
type IntOp uint8

const (
	OpAdd IntOp = iota
	OpSub
	OpNeg
	OpMul
	OpShl
	OpShr
	OpZDiv // truncating-toward-zero division
	OpZRem
	OpFDiv // floor division
	OpFRem
	OpExactDiv
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpAlign
	OpIsPow2
	OpModPow2
	OpPow2
)

func (op IntOp) String() string {
	names := [...]string{"add", "sub", "neg", "mul", "shl", "shr", "zdiv", "zrem",
		"fdiv", "frem", "exact_div", "eq", "ne", "lt", "le", "gt", "ge",
		"align", "is_pow2", "mod_pow2", "pow2"}
	if int(op) < len(names) {
		return names[op]
	}
	return "unknown_op"
}

// Config carries the per-emission options a Runtime's rendering depends
// on: whether globals route through a thread-local pointer (the wrapping
// pass) and, if so, its name.
type Config struct {
	ThreadLocalPointer string
}

// Runtime is the full backend capability set. Every method returns
// a ready-to-emit C expression or statement fragment; internal/emit
// concatenates these into the four output file kinds without inspecting their
// contents.
type Runtime interface {
	// Name identifies the variant for diagnostics and file headers.
	Name() string

	// FileHeader is the variant-specific prelude internal/emit places at
	// the top of every generated file (includes, typedefs, macros).
	FileHeader() string

	// TypeName renders the C type for an ASL int/sintN/bits/mask/RAM
	// value of the given bit width (width is ignored for unbounded int).
	TypeName(kind ValueKind, width uint32) string

	// LiteralInt, LiteralSInt, LiteralBits, and LiteralMask render a
	// literal of the corresponding value kind as a C expression.
	LiteralInt(decimal string) string
	LiteralSInt(decimal string, width uint32) string
	LiteralBits(bits string, width uint32) string
	LiteralMask(bits string, width uint32) string

	// IntArith renders an unbounded-integer arithmetic or comparison
	// primitive applied to already-rendered operand expressions.
	IntArith(op IntOp, args ...string) string

	// BoundedArith renders the same primitive set for a fixed-width
	// sintN, given the explicit width.
	BoundedArith(op IntOp, width uint32, args ...string) string

	// BitsArith renders bitvector arithmetic (concat/and/or/xor/not) of
	// the given width.
	BitsArith(op string, width uint32, args ...string) string

	// ConvertIntToSInt and ConvertSIntToInt implement cvt_int_sintN /
	// cvt_sintN_int.
	ConvertIntToSInt(expr string, width uint32) string
	ConvertSIntToInt(expr string, width uint32) string
	// ResizeSInt implements resize_sintN m -> n.
	ResizeSInt(expr string, from, to uint32) string

	// SliceGet and SliceSet render `value[hi:lo]` reads/writes on a
	// width-wide bitvector.
	SliceGet(value string, width, hi, lo uint32) string
	SliceSet(value string, width, hi, lo uint32, replacement string) string

	// RAMInit, RAMRead, and RAMWrite render ram_init/ram_read/ram_write
	// with explicit address and data widths.
	RAMInit(sizeExpr string) string
	RAMRead(ram, addr string, addrWidth, dataWidth uint32) string
	RAMWrite(ram, addr, data string, addrWidth, dataWidth uint32) string

	// PrintChar, PrintString, PrintDecimal, and PrintHex render the
	// print_char/print_string/print_decimal/print_hex primitives.
	PrintChar(expr string) string
	PrintString(expr string) string
	PrintDecimal(expr string, width uint32) string
	PrintHex(expr string, width uint32) string

	// FFIToC and FFIFromC convert between the runtime's internal
	// representation and a plain platform C integer at an export
	// boundary.
	FFIToC(expr string, width uint32) string
	FFIFromC(expr string, width uint32) string
}

// ValueKind selects which type family TypeName renders.
type ValueKind uint8

const (
	ValueInt ValueKind = iota
	ValueSInt
	ValueBits
	ValueMask
	ValueRAM
)

// Registry resolves a variant name to its Runtime constructor; each
// variant package registers itself in an init func so cmd/asl2c can
// select a backend by the config.Backend string without internal/backend
// importing any variant package (avoiding an import cycle, since each
// variant imports internal/backend for the Runtime interface it
// implements).
var registry = map[string]func(Config) Runtime{}

// Register adds a variant constructor under name. Called from each
// variant package's init().
func Register(name string, ctor func(Config) Runtime) {
	registry[name] = ctor
}

// New resolves name ("fallback", "c23", or "ac") to a Runtime.
func New(name string, cfg Config) (Runtime, error) {
	ctor, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend variant %q", name)
	}
	return ctor(cfg), nil
}
