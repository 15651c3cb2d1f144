package bignum

// IsPow2 reports whether u is a nonzero power of two.
func (u BigUint) IsPow2() bool {
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return false
	}
	seenBit := false
	for _, limb := range limbs {
		if limb == 0 {
			continue
		}
		if limb&(limb-1) != 0 {
			return false
		}
		if seenBit {
			return false
		}
		seenBit = true
	}
	return seenBit
}

// Pow2 returns 2^n as a BigUint.
func Pow2(n int) (BigUint, error) {
	return UintShl(BigUint{Limbs: []uint32{1}}, n)
}

// ExactDivU divides a by b and reports whether the division was exact (b | a),
// i.e. whether a fresh guard is needed at runtime. Used by the entailment
// engine's exact-div translation and by constant folding.
func ExactDivU(a, b BigUint) (q BigUint, exact bool, err error) {
	q, r, err := UintDivMod(a, b)
	if err != nil {
		return BigUint{}, false, err
	}
	return q, r.IsZero(), nil
}
