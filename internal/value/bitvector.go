package value

import (
	"fmt"

	"asli/internal/value/bignum"
)

// BitVector is a fixed-width vector of bits: width W and a magnitude in [0, 2^W).
type BitVector struct {
	Width uint32
	Mag   bignum.BigUint
}

// NewBitVector builds a BitVector, masking mag down to width bits.
func NewBitVector(width uint32, mag bignum.BigUint) BitVector {
	return BitVector{Width: width, Mag: maskTo(mag, width)}
}

// ZeroBits returns the all-zero bitvector of the given width.
func ZeroBits(width uint32) BitVector {
	return BitVector{Width: width}
}

func maskTo(mag bignum.BigUint, width uint32) bignum.BigUint {
	if width == 0 {
		return bignum.UintZero()
	}
	p2, err := bignum.Pow2(int(width))
	if err != nil {
		return mag
	}
	_, r, err := bignum.UintDivMod(mag, p2)
	if err != nil {
		// divisor is never zero (2^width with width>0); UintDivMod only errors on
		// zero divisor or limb overflow, and overflow here would mean mag already
		// exceeded representable width so returning it unmasked is the safer fallback.
		return mag
	}
	return r
}

// widthMismatch formats the "sibling bitvectors with different widths" diagnostic text
// used by the typechecker when the width-homogeneity check fails without an SMT proof.
func widthMismatch(op string, a, b uint32) error {
	return fmt.Errorf("%s: mismatched bitvector widths %d and %d", op, a, b)
}

// And returns the bitwise AND of a and b; both must share a's width.
func (a BitVector) And(b BitVector) (BitVector, error) {
	if a.Width != b.Width {
		return BitVector{}, widthMismatch("AND", a.Width, b.Width)
	}
	return BitVector{Width: a.Width, Mag: bignum.UintAnd(a.Mag, b.Mag)}, nil
}

// Or returns the bitwise OR of a and b; both must share a's width.
func (a BitVector) Or(b BitVector) (BitVector, error) {
	if a.Width != b.Width {
		return BitVector{}, widthMismatch("OR", a.Width, b.Width)
	}
	return BitVector{Width: a.Width, Mag: bignum.UintOr(a.Mag, b.Mag)}, nil
}

// Xor returns the bitwise XOR of a and b; both must share a's width.
func (a BitVector) Xor(b BitVector) (BitVector, error) {
	if a.Width != b.Width {
		return BitVector{}, widthMismatch("XOR", a.Width, b.Width)
	}
	return BitVector{Width: a.Width, Mag: bignum.UintXor(a.Mag, b.Mag)}, nil
}

// Not returns the bitwise complement of a within its width.
func (a BitVector) Not() BitVector {
	ones, _ := bignum.Pow2(int(a.Width))
	ones, _ = bignum.UintSub(ones, bignum.UintFromUint64(1))
	return BitVector{Width: a.Width, Mag: bignum.UintXor(a.Mag, ones)}
}

// Shl performs a logical left shift, truncating to a's width.
func (a BitVector) Shl(n uint32) (BitVector, error) {
	shifted, err := bignum.UintShl(a.Mag, int(n))
	if err != nil {
		return BitVector{}, err
	}
	return NewBitVector(a.Width, shifted), nil
}

// Lsr performs a logical (zero-filling) right shift.
func (a BitVector) Lsr(n uint32) (BitVector, error) {
	shifted, err := bignum.UintShr(a.Mag, int(n))
	if err != nil {
		return BitVector{}, err
	}
	return BitVector{Width: a.Width, Mag: shifted}, nil
}

// Asr performs an arithmetic (sign-extending) right shift, treating bit (Width-1) as the sign.
func (a BitVector) Asr(n uint32) (BitVector, error) {
	if a.Width == 0 {
		return a, nil
	}
	signed := a.isNegativeBit()
	shifted, err := bignum.UintShr(a.Mag, int(n))
	if err != nil {
		return BitVector{}, err
	}
	if !signed {
		return BitVector{Width: a.Width, Mag: shifted}, nil
	}
	// Fill the vacated high bits with ones.
	if n >= a.Width {
		ones, _ := bignum.Pow2(int(a.Width))
		ones, _ = bignum.UintSub(ones, bignum.UintFromUint64(1))
		return BitVector{Width: a.Width, Mag: ones}, nil
	}
	fillLen := n
	fill, _ := bignum.Pow2(int(fillLen))
	fill, _ = bignum.UintSub(fill, bignum.UintFromUint64(1))
	fill, _ = bignum.UintShl(fill, int(a.Width-fillLen))
	merged := bignum.UintOr(shifted, fill)
	return BitVector{Width: a.Width, Mag: merged}, nil
}

// isNegativeBit reports whether bit (Width-1) of a is set, i.e. a would be
// negative if reinterpreted as two's-complement.
func (a BitVector) isNegativeBit() bool {
	if a.Width == 0 {
		return false
	}
	shifted, err := bignum.UintShr(a.Mag, int(a.Width-1))
	if err != nil {
		return false
	}
	return shifted.IsOdd()
}

// ZeroExtend widens a to newWidth, which must be >= a.Width, padding with zero bits.
func (a BitVector) ZeroExtend(newWidth uint32) (BitVector, error) {
	if newWidth < a.Width {
		return BitVector{}, fmt.Errorf("zero_extend: new width %d smaller than %d", newWidth, a.Width)
	}
	return BitVector{Width: newWidth, Mag: a.Mag}, nil
}

// SignExtend widens a to newWidth, replicating the sign bit.
func (a BitVector) SignExtend(newWidth uint32) (BitVector, error) {
	if newWidth < a.Width {
		return BitVector{}, fmt.Errorf("sign_extend: new width %d smaller than %d", newWidth, a.Width)
	}
	if newWidth == a.Width || !a.isNegativeBit() {
		return BitVector{Width: newWidth, Mag: a.Mag}, nil
	}
	extraBits := newWidth - a.Width
	ones, _ := bignum.Pow2(int(extraBits))
	ones, _ = bignum.UintSub(ones, bignum.UintFromUint64(1))
	ones, _ = bignum.UintShl(ones, int(a.Width))
	return BitVector{Width: newWidth, Mag: bignum.UintOr(a.Mag, ones)}, nil
}

// Concat concatenates a (high bits) with b (low bits): width(result) = width(a)+width(b).
func (a BitVector) Concat(b BitVector) BitVector {
	shifted, _ := bignum.UintShl(a.Mag, int(b.Width))
	return BitVector{Width: a.Width + b.Width, Mag: bignum.UintOr(shifted, b.Mag)}
}

// Replicate concatenates n copies of a.
func (a BitVector) Replicate(n uint32) BitVector {
	out := BitVector{Width: 0}
	for range n {
		out = out.Concat(a)
	}
	return out
}

// Slice extracts width bits starting at lo (the "lo +: width" canonical form
// normalizes every slice kind into).
func (a BitVector) Slice(lo, width uint32) (BitVector, error) {
	if lo+width > a.Width {
		return BitVector{}, fmt.Errorf("slice [%d +: %d] out of range for width %d", lo, width, a.Width)
	}
	shifted, err := bignum.UintShr(a.Mag, int(lo))
	if err != nil {
		return BitVector{}, err
	}
	return NewBitVector(width, shifted), nil
}

// SetSlice returns a copy of a with width bits at lo replaced by repl's low width bits.
func (a BitVector) SetSlice(lo, width uint32, repl BitVector) (BitVector, error) {
	if lo+width > a.Width {
		return BitVector{}, fmt.Errorf("set_slice [%d +: %d] out of range for width %d", lo, width, a.Width)
	}
	fullOnes, _ := bignum.Pow2(int(a.Width))
	fullOnes, _ = bignum.UintSub(fullOnes, bignum.UintFromUint64(1))
	clearMask, _ := bignum.Pow2(int(width))
	clearMask, _ = bignum.UintSub(clearMask, bignum.UintFromUint64(1))
	clearMask, _ = bignum.UintShl(clearMask, int(lo))
	keepMask := bignum.UintXor(fullOnes, clearMask)
	cleared := bignum.UintAnd(a.Mag, keepMask)
	replBits, _ := bignum.UintShl(maskTo(repl.Mag, width), int(lo))
	return BitVector{Width: a.Width, Mag: bignum.UintOr(cleared, replBits)}, nil
}

// Equal reports bitwise equality; widths must match.
func (a BitVector) Equal(b BitVector) bool {
	return a.Width == b.Width && a.Mag.Cmp(b.Mag) == 0
}

// AsInt returns the unsigned magnitude as an arbitrary-precision Int.
func (a BitVector) AsInt() Int {
	return Int{Mag: a.Mag}
}

func (a BitVector) String() string {
	return fmt.Sprintf("%d'x%s", a.Width, bignum.FormatHex(a.Mag))
}
