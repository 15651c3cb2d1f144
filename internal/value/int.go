package value

import (
	"asli/internal/value/bignum"
)

// Int is an unbounded, arbitrary-precision signed integer — ASL's "integer" value.
type Int struct {
	Mag bignum.BigUint
	Neg bool
}

// IntFromInt64 builds an Int from a machine int64.
func IntFromInt64(v int64) Int {
	bi := bignum.IntFromInt64(v)
	return Int{Mag: bi.Abs(), Neg: bi.Neg}
}

func (i Int) big() bignum.BigInt {
	return bignum.BigInt{Neg: i.Neg, Limbs: i.Mag.Limbs}
}

func fromBig(b bignum.BigInt) Int {
	return Int{Mag: b.Abs(), Neg: b.Neg}
}

func (i Int) IsZero() bool { return i.Mag.IsZero() }

// AsInt64 converts i to a machine int64 when it fits.
func (i Int) AsInt64() (int64, bool) { return i.big().Int64() }

// Cmp returns -1, 0, 1 as i is less than, equal to, or greater than j.
func (i Int) Cmp(j Int) int { return i.big().Cmp(j.big()) }

func (i Int) Neg_() Int { return fromBig(i.big().Negated()) }

func (i Int) Add(j Int) (Int, error) {
	r, err := bignum.IntAdd(i.big(), j.big())
	if err != nil {
		return Int{}, err
	}
	return fromBig(r), nil
}

func (i Int) Sub(j Int) (Int, error) {
	r, err := bignum.IntSub(i.big(), j.big())
	if err != nil {
		return Int{}, err
	}
	return fromBig(r), nil
}

func (i Int) Mul(j Int) (Int, error) {
	r, err := bignum.IntMul(i.big(), j.big())
	if err != nil {
		return Int{}, err
	}
	return fromBig(r), nil
}

// DivMod implements ASL's "DIV"/"MOD" (truncating toward zero, a.k.a. "zrem"/"zdiv"
// in the backend runtime's naming), which is only well-defined semantics
// when combined with a runtime non-zero-divisor check inserted by the typechecker.
func (i Int) DivMod(j Int) (q, r Int, err error) {
	qb, rb, err := bignum.IntDivMod(i.big(), j.big())
	if err != nil {
		return Int{}, Int{}, err
	}
	return fromBig(qb), fromBig(rb), nil
}

// QuotRem implements ASL's "QUOT"/"REM" (Euclidean division: remainder is always
// nonnegative), distinct from DivMod's truncating semantics.
func (i Int) QuotRem(j Int) (q, r Int, err error) {
	q, r, err = i.DivMod(j)
	if err != nil {
		return Int{}, Int{}, err
	}
	if r.Neg {
		if j.Neg {
			r, err = r.Sub(j)
		} else {
			r, err = r.Add(j)
		}
		if err != nil {
			return Int{}, Int{}, err
		}
		one := IntFromInt64(1)
		if j.Neg {
			q, err = q.Add(one)
		} else {
			q, err = q.Sub(one)
		}
		if err != nil {
			return Int{}, Int{}, err
		}
	}
	return q, r, nil
}

// ExactDiv divides i by j and reports whether the division was exact; used by
// the SMT entailment's exact-div translation and by the EXACT_DIV builtin.
func (i Int) ExactDiv(j Int) (q Int, exact bool, err error) {
	qb, rb, err := bignum.IntDivMod(i.big(), j.big())
	if err != nil {
		return Int{}, false, err
	}
	return fromBig(qb), rb.IsZero(), nil
}

func (i Int) Shl(n uint32) (Int, error) {
	r, err := bignum.IntShl(i.big(), int(n))
	if err != nil {
		return Int{}, err
	}
	return fromBig(r), nil
}

func (i Int) Shr(n uint32) (Int, error) {
	r, err := bignum.IntShr(i.big(), int(n))
	if err != nil {
		return Int{}, err
	}
	return fromBig(r), nil
}

// IsPow2 reports whether i is a positive power of two.
func (i Int) IsPow2() bool {
	return !i.Neg && i.Mag.IsPow2()
}

func Min(a, b Int) Int {
	if a.Cmp(b) <= 0 {
		return a
	}
	return b
}

func Max(a, b Int) Int {
	if a.Cmp(b) >= 0 {
		return a
	}
	return b
}

func (i Int) String() string {
	return bignum.FormatInt(i.big())
}

// FitsInBits reports whether i is representable in a two's-complement integer
// of the given bit width (used when assigning a sintN representation).
func (i Int) FitsInBits(width uint32) bool {
	lo, hi := SIntBounds(width)
	return lo.Cmp(i) <= 0 && i.Cmp(hi) <= 0
}

// SIntBounds returns the inclusive [lo, hi] range representable by a signed
// two's-complement integer of the given width.
func SIntBounds(width uint32) (lo, hi Int) {
	if width == 0 {
		return IntFromInt64(0), IntFromInt64(0)
	}
	p, _ := bignum.Pow2(int(width) - 1)
	hiBig := bignum.BigInt{Limbs: p.Limbs}
	hiBig, _ = bignum.IntSub(hiBig, bignum.IntFromInt64(1))
	loBig := bignum.BigInt{Neg: true, Limbs: p.Limbs}
	return fromBig(loBig), fromBig(hiBig)
}
