package bignum

import "testing"

func TestUintArith(t *testing.T) {
	a, _ := ParseUintLiteral("1_000_000")
	b, _ := ParseUintLiteral("0xFFFF_0000")

	sum, err := UintAdd(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatUint(sum); got != "4295901760" {
		t.Fatalf("sum = %s", got)
	}

	prod, err := UintMul(a, UintFromUint64(3))
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatUint(prod); got != "3000000" {
		t.Fatalf("prod = %s", got)
	}

	q, r, err := UintDivMod(b, UintFromUint64(16))
	if err != nil {
		t.Fatal(err)
	}
	if !r.IsZero() {
		t.Fatalf("expected exact division, remainder = %s", FormatUint(r))
	}
	if got := FormatHex(q); got != "ffff000" {
		t.Fatalf("q = %s", got)
	}
}

func TestIntSubNegativeResult(t *testing.T) {
	a := IntFromInt64(3)
	b := IntFromInt64(5)
	diff, err := IntSub(a, b)
	if err != nil {
		t.Fatal(err)
	}
	if got := FormatInt(diff); got != "-2" {
		t.Fatalf("diff = %s, want -2", got)
	}
}

func TestIsPow2(t *testing.T) {
	for _, n := range []int{0, 1, 2, 3, 4, 31, 32, 63, 64, 100} {
		p, err := Pow2(n)
		if err != nil {
			t.Fatal(err)
		}
		if !p.IsPow2() {
			t.Fatalf("2^%d should be a power of two", n)
		}
	}
	three := UintFromUint64(3)
	if three.IsPow2() {
		t.Fatalf("3 is not a power of two")
	}
	if UintZero().IsPow2() {
		t.Fatalf("0 is not a power of two")
	}
}

func TestShiftRoundTrip(t *testing.T) {
	v, _ := ParseUintLiteral("123456789012345")
	shifted, err := UintShl(v, 40)
	if err != nil {
		t.Fatal(err)
	}
	back, err := UintShr(shifted, 40)
	if err != nil {
		t.Fatal(err)
	}
	if back.Cmp(v) != 0 {
		t.Fatalf("shl/shr round trip failed: %s != %s", FormatUint(back), FormatUint(v))
	}
}
