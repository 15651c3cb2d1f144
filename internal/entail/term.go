package entail

import (
	"sort"
	"strings"

	"asli/internal/value"
)

// Term is a normalized linear arithmetic term over ASL's integer theory: a
// constant offset plus a sum of coefficient*atom pairs. An atom is anything
// the normalizer could not decompose further — an identifier, a field
// access, a call to a function outside the recognised operator set — keyed
// by its canonical structural form so that two separately-allocated but
// textually identical subexpressions compare equal.
type Term struct {
	Const value.Int
	// Coeffs maps an atom's canonical key to its (possibly negative)
	// coefficient. A key with a zero coefficient is pruned eagerly so the
	// map's key set doubles as "the atoms this term actually depends on".
	Coeffs map[string]value.Int
}

func zeroTerm() *Term {
	return &Term{Coeffs: map[string]value.Int{}}
}

func constTerm(i value.Int) *Term {
	t := zeroTerm()
	t.Const = i
	return t
}

func atomTerm(key string) *Term {
	t := zeroTerm()
	t.Coeffs[key] = value.IntFromInt64(1)
	return t
}

func (t *Term) clone() *Term {
	c := &Term{Const: t.Const, Coeffs: make(map[string]value.Int, len(t.Coeffs))}
	for k, v := range t.Coeffs {
		c.Coeffs[k] = v
	}
	return c
}

// isConst reports whether t carries no atoms, i.e. reduced to a literal.
func (t *Term) isConst() bool { return len(t.Coeffs) == 0 }

func addTerms(a, b *Term) (*Term, bool) {
	r := a.clone()
	var err error
	r.Const, err = r.Const.Add(b.Const)
	if err != nil {
		return nil, false
	}
	for k, c := range b.Coeffs {
		sum, err := addCoeff(r.Coeffs[k], c)
		if err != nil {
			return nil, false
		}
		setCoeff(r.Coeffs, k, sum)
	}
	return r, true
}

func subTerms(a, b *Term) (*Term, bool) {
	return addTerms(a, negTerm(b))
}

func negTerm(a *Term) *Term {
	r := a.clone()
	r.Const = r.Const.Neg_()
	for k, c := range r.Coeffs {
		setCoeff(r.Coeffs, k, c.Neg_())
	}
	return r
}

// scaleTerm multiplies every coefficient and the constant by n.
func scaleTerm(a *Term, n value.Int) (*Term, bool) {
	r := zeroTerm()
	var err error
	r.Const, err = a.Const.Mul(n)
	if err != nil {
		return nil, false
	}
	for k, c := range a.Coeffs {
		prod, err := c.Mul(n)
		if err != nil {
			return nil, false
		}
		setCoeff(r.Coeffs, k, prod)
	}
	return r, true
}

func addCoeff(a, b value.Int) (value.Int, error) {
	return a.Add(b)
}

func setCoeff(m map[string]value.Int, key string, v value.Int) {
	if v.IsZero() {
		delete(m, key)
		return
	}
	m[key] = v
}

// String renders t deterministically (sorted atom keys) for diagnostics and
// tests; it is not parsed back.
func (t *Term) String() string {
	if t.isConst() {
		return t.Const.String()
	}
	keys := make([]string, 0, len(t.Coeffs))
	for k := range t.Coeffs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var b strings.Builder
	first := true
	for _, k := range keys {
		c := t.Coeffs[k]
		if !first {
			if c.Neg {
				b.WriteString(" - ")
			} else {
				b.WriteString(" + ")
			}
		} else if c.Neg {
			b.WriteString("-")
		}
		first = false
		abs := c
		abs.Neg = false
		if abs.Cmp(value.IntFromInt64(1)) != 0 {
			b.WriteString(abs.String())
			b.WriteString("*")
		}
		b.WriteString(k)
	}
	if !t.Const.IsZero() {
		if t.Const.Neg {
			b.WriteString(" - ")
			c := t.Const
			c.Neg = false
			b.WriteString(c.String())
		} else {
			b.WriteString(" + ")
			b.WriteString(t.Const.String())
		}
	}
	if b.Len() == 0 {
		return "0"
	}
	return b.String()
}
