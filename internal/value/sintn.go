package value

import "fmt"

// SInt is a bounded, width-tagged signed integer — the lowered representation
// the Bounded pass (integer-bounds lowering) assigns to every constrained
// "integer {...}" value once its tight [lo, hi] range is known.
type SInt struct {
	Width uint32
	Val   Int
}

// NewSInt builds an SInt, returning an error if val does not fit in width bits.
func NewSInt(width uint32, val Int) (SInt, error) {
	if !val.FitsInBits(width) {
		return SInt{}, fmt.Errorf("value %s does not fit in sint%d", val, width)
	}
	return SInt{Width: width, Val: val}, nil
}

// WrapSInt builds an SInt by wrapping val modulo 2^width into two's-complement range,
// the semantics the backend's bounded-integer arithmetic uses for every sintN op.
func WrapSInt(width uint32, val Int) SInt {
	lo, hi := SIntBounds(width)
	span, _ := hi.Sub(lo)
	one := IntFromInt64(1)
	span, _ = span.Add(one) // 2^width

	v := val
	for v.Cmp(lo) < 0 {
		v, _ = v.Add(span)
	}
	for v.Cmp(hi) > 0 {
		v, _ = v.Sub(span)
	}
	return SInt{Width: width, Val: v}
}

// Resize changes an SInt's declared width, wrapping the value into the new range.
// This is the runtime-check-free "resize_sintN m -> n" the Bounded pass inserts
// whenever a call's actual and formal widths differ.
func (s SInt) Resize(newWidth uint32) SInt {
	return WrapSInt(newWidth, s.Val)
}

// CvtIntSInt converts an unbounded Int to a width-n SInt by wrapping (used when
// source code flows a literal integer into a sintN-typed slot).
func CvtIntSInt(n uint32, i Int) SInt {
	return WrapSInt(n, i)
}

// CvtSIntInt converts an SInt back to an unbounded Int; always exact.
func CvtSIntInt(s SInt) Int {
	return s.Val
}

func sameWidth(op string, a, b uint32) error {
	if a != b {
		return fmt.Errorf("%s: mismatched sintN widths %d and %d", op, a, b)
	}
	return nil
}

func (s SInt) Add(o SInt) (SInt, error) {
	if err := sameWidth("add_sintN", s.Width, o.Width); err != nil {
		return SInt{}, err
	}
	sum, err := s.Val.Add(o.Val)
	if err != nil {
		return SInt{}, err
	}
	return WrapSInt(s.Width, sum), nil
}

func (s SInt) Sub(o SInt) (SInt, error) {
	if err := sameWidth("sub_sintN", s.Width, o.Width); err != nil {
		return SInt{}, err
	}
	diff, err := s.Val.Sub(o.Val)
	if err != nil {
		return SInt{}, err
	}
	return WrapSInt(s.Width, diff), nil
}

func (s SInt) Neg() SInt {
	return WrapSInt(s.Width, s.Val.Neg_())
}

func (s SInt) Mul(o SInt) (SInt, error) {
	if err := sameWidth("mul_sintN", s.Width, o.Width); err != nil {
		return SInt{}, err
	}
	prod, err := s.Val.Mul(o.Val)
	if err != nil {
		return SInt{}, err
	}
	return WrapSInt(s.Width, prod), nil
}

// ZRem implements "asl_zrem_sintN": truncating-toward-zero remainder, e.g.
// ZRem(-5, 3) == -2.
func (s SInt) ZRem(o SInt) (SInt, error) {
	if err := sameWidth("zrem_sintN", s.Width, o.Width); err != nil {
		return SInt{}, err
	}
	_, r, err := s.Val.DivMod(o.Val)
	if err != nil {
		return SInt{}, err
	}
	return WrapSInt(s.Width, r), nil
}

// ZDiv implements "asl_zdiv_sintN": truncating-toward-zero quotient.
func (s SInt) ZDiv(o SInt) (SInt, error) {
	if err := sameWidth("zdiv_sintN", s.Width, o.Width); err != nil {
		return SInt{}, err
	}
	q, _, err := s.Val.DivMod(o.Val)
	if err != nil {
		return SInt{}, err
	}
	return WrapSInt(s.Width, q), nil
}

// Align implements "asl_align_sintN": rounds s toward zero to a multiple of
// 2^n (truncating division, so a negative s rounds up). FUT(i8'd12, i8'd2) == i8'd12 (12 is already a multiple of 4);
// FUT(i8'd16, i8'd2) == i8'd16.
func (s SInt) Align(n SInt) (SInt, error) {
	if err := sameWidth("align_sintN", s.Width, n.Width); err != nil {
		return SInt{}, err
	}
	p, err := bitsPow2(n.Val)
	if err != nil {
		return SInt{}, err
	}
	q, _, err := s.Val.DivMod(p)
	if err != nil {
		return SInt{}, err
	}
	aligned, err := q.Mul(p)
	if err != nil {
		return SInt{}, err
	}
	return WrapSInt(s.Width, aligned), nil
}

func bitsPow2(n Int) (Int, error) {
	width, ok := asUint32(n)
	if !ok {
		return Int{}, fmt.Errorf("align_sintN: shift amount out of range")
	}
	shifted, err := IntFromInt64(1).Shl(width)
	if err != nil {
		return Int{}, err
	}
	return shifted, nil
}

func asUint32(n Int) (uint32, bool) {
	if n.Neg {
		return 0, false
	}
	if n.Mag.BitLen() > 32 {
		return 0, false
	}
	v, ok := n.Mag.Uint64()
	if !ok || v > 0xFFFFFFFF {
		return 0, false
	}
	return uint32(v), true
}

func (s SInt) Cmp(o SInt) int {
	return s.Val.Cmp(o.Val)
}

func (s SInt) Equal(o SInt) bool {
	return s.Width == o.Width && s.Val.Cmp(o.Val) == 0
}

// ToBits reinterprets s's two's-complement bit pattern as an unsigned BitVector
// of the same width: negative values are biased by 2^width.
func (s SInt) ToBits() BitVector {
	if !s.Val.Neg {
		return NewBitVector(s.Width, s.Val.Mag)
	}
	bias, _ := IntFromInt64(1).Shl(s.Width)
	biased, _ := s.Val.Add(bias)
	return NewBitVector(s.Width, biased.Mag)
}

func (s SInt) String() string {
	return fmt.Sprintf("i%d'd%s", s.Width, s.Val)
}

// SIntFromBits reinterprets bv's two's-complement bit pattern as a bounded signed integer.
func SIntFromBits(bv BitVector) SInt {
	mag := bv.AsInt()
	if !bv.isNegativeBit() {
		return SInt{Width: bv.Width, Val: mag}
	}
	bias, _ := IntFromInt64(1).Shl(bv.Width)
	unbiased, _ := mag.Sub(bias)
	return SInt{Width: bv.Width, Val: unbiased}
}
