package value

import (
	"testing"

	"asli/internal/value/bignum"
)

// cvt_sintN_int (cvt_int_sintN n x) = x whenever x fits in n bits.
func TestCvtIntSIntRoundTrip(t *testing.T) {
	for _, tc := range []struct {
		width uint32
		val   int64
	}{
		{8, 0}, {8, 1}, {8, -1}, {8, 127}, {8, -128},
		{16, 300}, {16, -300}, {64, 1 << 40},
	} {
		x := IntFromInt64(tc.val)
		got := CvtSIntInt(CvtIntSInt(tc.width, x))
		if got.Cmp(x) != 0 {
			t.Errorf("cvt_sint%d_int(cvt_int_sint%d(%d)) = %s, want %d", tc.width, tc.width, tc.val, got, tc.val)
		}
	}
}

// Values outside the width wrap modulo 2^width into two's-complement range.
func TestCvtIntSIntWraps(t *testing.T) {
	got := CvtIntSInt(8, IntFromInt64(128))
	if want := IntFromInt64(-128); got.Val.Cmp(want) != 0 {
		t.Errorf("cvt_int_sint8(128) = %s, want -128", got.Val)
	}
	got = CvtIntSInt(8, IntFromInt64(-129))
	if want := IntFromInt64(127); got.Val.Cmp(want) != 0 {
		t.Errorf("cvt_int_sint8(-129) = %s, want 127", got.Val)
	}
}

// resize_sintN n n x = x; resize m n (resize n m x) = x when m <= n.
func TestResizeSIntRoundTrip(t *testing.T) {
	for _, v := range []int64{0, 1, -1, 100, -100, 127, -128} {
		x := WrapSInt(8, IntFromInt64(v))
		if got := x.Resize(8); !got.Equal(x) {
			t.Errorf("resize 8->8 of %s = %s", x, got)
		}
		widened := x.Resize(16)
		if got := widened.Resize(8); got.Val.Cmp(x.Val) != 0 {
			t.Errorf("resize 16->8 (resize 8->16 %s) = %s", x, got)
		}
	}
}

// get_slice(set_slice(v, i, w, r), i, w) = r when 0 <= i and i+w <= |v|.
func TestSliceSetGetRoundTrip(t *testing.T) {
	v := NewBitVector(16, bignum.UintFromUint64(0xABCD))
	for _, tc := range []struct {
		lo, w uint32
		repl  uint64
	}{
		{0, 4, 0x7}, {4, 8, 0x5A}, {12, 4, 0xF}, {0, 16, 0x1234},
	} {
		r := NewBitVector(tc.w, bignum.UintFromUint64(tc.repl))
		set, err := v.SetSlice(tc.lo, tc.w, r)
		if err != nil {
			t.Fatalf("set_slice [%d +: %d]: %v", tc.lo, tc.w, err)
		}
		got, err := set.Slice(tc.lo, tc.w)
		if err != nil {
			t.Fatalf("get_slice [%d +: %d]: %v", tc.lo, tc.w, err)
		}
		if !got.Equal(r) {
			t.Errorf("get_slice(set_slice(v, %d, %d, %s)) = %s, want the replacement back", tc.lo, tc.w, r, got)
		}
	}
}

// SetSlice leaves the bits outside the written field untouched.
func TestSetSlicePreservesOtherBits(t *testing.T) {
	v := NewBitVector(16, bignum.UintFromUint64(0xABCD))
	set, err := v.SetSlice(4, 8, NewBitVector(8, bignum.UintFromUint64(0x00)))
	if err != nil {
		t.Fatal(err)
	}
	lowNibble, _ := set.Slice(0, 4)
	highNibble, _ := set.Slice(12, 4)
	if !lowNibble.Equal(NewBitVector(4, bignum.UintFromUint64(0xD))) {
		t.Errorf("low nibble disturbed: %s", lowNibble)
	}
	if !highNibble.Equal(NewBitVector(4, bignum.UintFromUint64(0xA))) {
		t.Errorf("high nibble disturbed: %s", highNibble)
	}
}

// A zero-width slice is legal and yields the zero-width bitvector.
func TestZeroWidthSlice(t *testing.T) {
	v := NewBitVector(8, bignum.UintFromUint64(0xFF))
	got, err := v.Slice(3, 0)
	if err != nil {
		t.Fatalf("zero-width slice: %v", err)
	}
	if got.Width != 0 {
		t.Errorf("zero-width slice has width %d", got.Width)
	}
}

// Align rounds toward zero to a multiple of 2^n; ZRem truncates toward zero.
func TestAlignAndZRem(t *testing.T) {
	mk := func(v int64) SInt { return WrapSInt(8, IntFromInt64(v)) }

	got, err := mk(12).Align(mk(2))
	if err != nil || got.Val.Cmp(IntFromInt64(12)) != 0 {
		t.Errorf("align(12, 2) = %s, %v; want 12", got, err)
	}
	got, err = mk(16).Align(mk(2))
	if err != nil || got.Val.Cmp(IntFromInt64(16)) != 0 {
		t.Errorf("align(16, 2) = %s, %v; want 16", got, err)
	}

	got, err = mk(-5).ZRem(mk(3))
	if err != nil || got.Val.Cmp(IntFromInt64(-2)) != 0 {
		t.Errorf("zrem(-5, 3) = %s, %v; want -2", got, err)
	}
}
