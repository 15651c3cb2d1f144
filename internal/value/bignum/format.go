package bignum

import (
	"fmt"
	"strings"
)

// FormatUint renders u in decimal.
func FormatUint(u BigUint) string {
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return "0"
	}

	const base = uint32(1_000_000_000)

	cur := BigUint{Limbs: limbs}
	var parts []uint32
	for !cur.IsZero() {
		q, r, err := UintDivModSmall(cur, base)
		if err != nil {
			return "<format-error>"
		}
		parts = append(parts, r)
		cur = q
	}

	var sb strings.Builder
	last := parts[len(parts)-1]
	sb.WriteString(fmt.Sprintf("%d", last))
	for i := len(parts) - 2; i >= 0; i-- {
		sb.WriteString(fmt.Sprintf("%09d", parts[i]))
		if i == 0 {
			break
		}
	}
	return sb.String()
}

// FormatInt renders i in decimal with a leading "-" when negative.
func FormatInt(i BigInt) string {
	limbs := trimLimbs(i.Limbs)
	if len(limbs) == 0 {
		return "0"
	}
	s := FormatUint(BigUint{Limbs: limbs})
	if i.Neg {
		return "-" + s
	}
	return s
}

// FormatHex renders u as lowercase hex digits with no "0x" prefix, "0" for zero.
func FormatHex(u BigUint) string {
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i := len(limbs) - 1; i >= 0; i-- {
		if i == len(limbs)-1 {
			fmt.Fprintf(&sb, "%x", limbs[i])
		} else {
			fmt.Fprintf(&sb, "%08x", limbs[i])
		}
	}
	return sb.String()
}

// FormatBin renders u as binary digits with no "0b" prefix, "0" for zero.
func FormatBin(u BigUint) string {
	limbs := trimLimbs(u.Limbs)
	if len(limbs) == 0 {
		return "0"
	}
	var sb strings.Builder
	for i := len(limbs) - 1; i >= 0; i-- {
		if i == len(limbs)-1 {
			fmt.Fprintf(&sb, "%b", limbs[i])
		} else {
			fmt.Fprintf(&sb, "%032b", limbs[i])
		}
	}
	return sb.String()
}
