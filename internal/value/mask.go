package value

import (
	"fmt"

	"asli/internal/value/bignum"
)

// Mask is a bitvector pattern with "don't care" positions, e.g. the literal
// '10xx'. Bits outside Care are required to be zero in both Width and Value.
type Mask struct {
	Width uint32
	Val   bignum.BigUint // defined bit values; don't-care bits are 0 here
	Care  bignum.BigUint // 1 where the bit is constrained, 0 where it is "x"
}

// NewMask builds a Mask from per-bit '0'/'1'/'x' characters, most significant bit first.
func NewMask(bits string) (Mask, error) {
	width := uint32(len(bits))
	var val, care bignum.BigUint
	for _, c := range bits {
		var err error
		val, err = bignum.UintShl(val, 1)
		if err != nil {
			return Mask{}, err
		}
		care, err = bignum.UintShl(care, 1)
		if err != nil {
			return Mask{}, err
		}
		switch c {
		case '0':
			care, err = bignum.UintAddSmall(care, 1)
			if err != nil {
				return Mask{}, err
			}
		case '1':
			val, err = bignum.UintAddSmall(val, 1)
			if err != nil {
				return Mask{}, err
			}
			care, err = bignum.UintAddSmall(care, 1)
			if err != nil {
				return Mask{}, err
			}
		case 'x', 'X':
			// don't-care: nothing to set
		default:
			return Mask{}, fmt.Errorf("mask literal: invalid bit %q", c)
		}
	}
	return Mask{Width: width, Val: val, Care: care}, nil
}

// MatchesBits reports whether bv satisfies the mask: every cared-about bit of
// bv equals the mask's Val at that position ("mask-match").
func (m Mask) MatchesBits(bv BitVector) bool {
	if m.Width != bv.Width {
		return false
	}
	masked := bignum.UintAnd(bv.Mag, m.Care)
	return masked.Cmp(m.Val) == 0
}

// EqualUnderMask reports whether two masks agree: same Care pattern, and equal
// Val at every cared-about bit.
func (m Mask) EqualUnderMask(o Mask) bool {
	if m.Width != o.Width || m.Care.Cmp(o.Care) != 0 {
		return false
	}
	return bignum.UintAnd(m.Val, m.Care).Cmp(bignum.UintAnd(o.Val, o.Care)) == 0
}

func (m Mask) String() string {
	out := make([]byte, m.Width)
	for i := uint32(0); i < m.Width; i++ {
		bit := m.Width - 1 - i
		careBit, _ := bignum.UintShr(m.Care, int(bit))
		if !careBit.IsOdd() {
			out[i] = 'x'
			continue
		}
		valBit, _ := bignum.UintShr(m.Val, int(bit))
		if valBit.IsOdd() {
			out[i] = '1'
		} else {
			out[i] = '0'
		}
	}
	return string(out)
}
