package curve

import (
	"fmt"
	"math/big"
)

// ModInverse returns x⁻¹ mod m. It returns an error if x has no inverse mod
// m (i.e. gcd(x, m) != 1).
func ModInverse(x, m *big.Int) (*big.Int, error) {
	inv := new(big.Int).ModInverse(x, m)
	if inv == nil {
		return nil, fmt.Errorf("curve: %s has no inverse mod %s", x.String(), m.String())
	}
	return inv, nil
}

// Legendre returns the Legendre symbol of a modulo the odd prime p: 1 if a
// is a nonzero quadratic residue, -1 if a is a non-residue, 0 if a ≡ 0.
func Legendre(a, p *big.Int) int {
	amod := new(big.Int).Mod(a, p)
	if amod.Sign() == 0 {
		return 0
	}
	exp := new(big.Int).Rsh(new(big.Int).Sub(p, big.NewInt(1)), 1)
	r := new(big.Int).Exp(amod, exp, p)
	pMinus1 := new(big.Int).Sub(p, big.NewInt(1))
	switch {
	case r.Cmp(big.NewInt(1)) == 0:
		return 1
	case r.Cmp(pMinus1) == 0:
		return -1
	default:
		return 0
	}
}

// SqrtMod returns a square root of a modulo the odd prime p via
// Tonelli-Shanks, or 0 if a is zero or a non-residue. Either of the two
// possible roots may be returned.
func SqrtMod(a, p *big.Int) *big.Int {
	amod := new(big.Int).Mod(a, p)
	if amod.Sign() == 0 {
		return big.NewInt(0)
	}
	if Legendre(amod, p) != 1 {
		return big.NewInt(0)
	}

	one := big.NewInt(1)
	two := big.NewInt(2)
	three := big.NewInt(3)
	four := big.NewInt(4)

	// fast path: p ≡ 3 (mod 4)
	if new(big.Int).Mod(p, four).Cmp(three) == 0 {
		exp := new(big.Int).Rsh(new(big.Int).Add(p, one), 2)
		return new(big.Int).Exp(amod, exp, p)
	}

	// general Tonelli-Shanks
	q := new(big.Int).Sub(p, one)
	s := 0
	for new(big.Int).Mod(q, two).Sign() == 0 {
		q.Rsh(q, 1)
		s++
	}

	// find a quadratic non-residue z
	z := big.NewInt(2)
	for Legendre(z, p) != -1 {
		z.Add(z, one)
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(amod, q, p)
	qPlus1Half := new(big.Int).Rsh(new(big.Int).Add(q, one), 1)
	r := new(big.Int).Exp(amod, qPlus1Half, p)

	for {
		if t.Cmp(one) == 0 {
			return r
		}
		// find least i, 0 < i < m, such that t^(2^i) == 1
		i := 0
		tt := new(big.Int).Set(t)
		for tt.Cmp(one) != 0 {
			tt.Exp(tt, two, p)
			i++
		}
		b := new(big.Int).Exp(c, new(big.Int).Lsh(one, uint(m-i-1)), p)
		m = i
		c = new(big.Int).Exp(b, two, p)
		t.Mul(t, c)
		t.Mod(t, p)
		r.Mul(r, b)
		r.Mod(r, p)
	}
}
