package curve

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Curve is a short Weierstrass curve y² = x³ + ax + b over the prime field
// ℤ/pℤ. A and B are the curve coefficients, P the field prime.
type Curve struct {
	A, B, P *big.Int
}

// New constructs a Curve, rejecting degenerate parameters where
// 4a³ + 27b² ≡ 0 (mod p) (a singular curve, not a group).
func New(a, b, p *big.Int) (*Curve, error) {
	a3 := new(big.Int).Exp(a, big.NewInt(3), nil)
	b2 := new(big.Int).Exp(b, big.NewInt(2), nil)
	disc := new(big.Int).Add(
		new(big.Int).Mul(big.NewInt(4), a3),
		new(big.Int).Mul(big.NewInt(27), b2),
	)
	disc.Mod(disc, p)
	if disc.Sign() == 0 {
		return nil, fmt.Errorf("curve: singular curve, 4a^3+27b^2 = 0 (mod p)")
	}
	return &Curve{A: new(big.Int).Set(a), B: new(big.Int).Set(b), P: new(big.Int).Set(p)}, nil
}

// OnCurve reports whether pt satisfies the curve equation. The point at
// infinity is always on-curve.
func (c *Curve) OnCurve(pt Point) bool {
	if pt.Infinity {
		return true
	}
	y2 := new(big.Int).Exp(pt.Y, big.NewInt(2), c.P)
	x3 := new(big.Int).Exp(pt.X, big.NewInt(3), c.P)
	rhs := new(big.Int).Add(x3, new(big.Int).Mul(c.A, pt.X))
	rhs.Add(rhs, c.B)
	rhs.Mod(rhs, c.P)
	return y2.Cmp(rhs) == 0
}

// Negate returns -pt, i.e. (x, -y mod p). Negating the point at infinity
// yields the point at infinity.
func (c *Curve) Negate(pt Point) Point {
	if pt.Infinity {
		return pt
	}
	ny := new(big.Int).Neg(pt.Y)
	ny.Mod(ny, c.P)
	return NewPoint(pt.X, ny)
}

// Add returns p + q on the curve. It returns an error when p or q is not on
// the curve, or when the chord/tangent slope has a zero denominator
// (attacker input or a programmer bug — never recovered locally).
func (c *Curve) Add(p, q Point) (Point, error) {
	if !c.OnCurve(p) {
		return Point{}, fmt.Errorf("curve: point %s not on curve", p)
	}
	if !c.OnCurve(q) {
		return Point{}, fmt.Errorf("curve: point %s not on curve", q)
	}
	if p.Infinity {
		return q, nil
	}
	if q.Infinity {
		return p, nil
	}
	if p.X.Cmp(q.X) == 0 {
		// p == -q: sum is infinity.
		sumY := new(big.Int).Add(p.Y, q.Y)
		sumY.Mod(sumY, c.P)
		if sumY.Sign() == 0 {
			return InfinityPoint(), nil
		}
		// p == q: doubling.
		if p.Y.Cmp(q.Y) == 0 {
			if p.Y.Sign() == 0 {
				return Point{}, fmt.Errorf("curve: doubling point with y=0 has undefined slope")
			}
			num := new(big.Int).Mul(p.X, p.X)
			num.Mul(num, big.NewInt(3))
			num.Add(num, c.A)
			num.Mod(num, c.P)
			den := new(big.Int).Mul(big.NewInt(2), p.Y)
			den.Mod(den, c.P)
			denInv, err := ModInverse(den, c.P)
			if err != nil {
				return Point{}, fmt.Errorf("curve: doubling slope denominator not invertible: %w", err)
			}
			lambda := new(big.Int).Mul(num, denInv)
			lambda.Mod(lambda, c.P)
			return c.fromSlope(p, q, lambda), nil
		}
		return Point{}, fmt.Errorf("curve: points share x but are neither equal nor negations")
	}

	num := new(big.Int).Sub(q.Y, p.Y)
	num.Mod(num, c.P)
	den := new(big.Int).Sub(q.X, p.X)
	den.Mod(den, c.P)
	denInv, err := ModInverse(den, c.P)
	if err != nil {
		return Point{}, fmt.Errorf("curve: addition slope denominator not invertible: %w", err)
	}
	lambda := new(big.Int).Mul(num, denInv)
	lambda.Mod(lambda, c.P)
	return c.fromSlope(p, q, lambda), nil
}

func (c *Curve) fromSlope(p, q Point, lambda *big.Int) Point {
	x3 := new(big.Int).Mul(lambda, lambda)
	x3.Sub(x3, p.X)
	x3.Sub(x3, q.X)
	x3.Mod(x3, c.P)

	y3 := new(big.Int).Sub(p.X, x3)
	y3.Mul(y3, lambda)
	y3.Sub(y3, p.Y)
	y3.Mod(y3, c.P)

	return NewPoint(x3, y3)
}

// Sub returns p - q, i.e. p + (-q).
func (c *Curve) Sub(p, q Point) (Point, error) {
	return c.Add(p, c.Negate(q))
}

// ScalarMul returns k*pt using double-and-add over the binary expansion of
// k. A negative k negates pt and multiplies by |k|; k = 0 yields the point
// at infinity. Not constant-time.
func (c *Curve) ScalarMul(k *big.Int, pt Point) (Point, error) {
	if !c.OnCurve(pt) {
		return Point{}, fmt.Errorf("curve: point %s not on curve", pt)
	}
	if k.Sign() == 0 {
		return InfinityPoint(), nil
	}
	base := pt
	kAbs := new(big.Int).Abs(k)
	if k.Sign() < 0 {
		base = c.Negate(pt)
	}

	result := InfinityPoint()
	addend := base
	var err error
	for i := 0; i < kAbs.BitLen(); i++ {
		if kAbs.Bit(i) == 1 {
			result, err = c.Add(result, addend)
			if err != nil {
				return Point{}, err
			}
		}
		if i != kAbs.BitLen()-1 {
			addend, err = c.Add(addend, addend)
			if err != nil {
				return Point{}, err
			}
		}
	}
	return result, nil
}

// RandomPoint samples a uniformly random x in [1, p-1], rejecting until
// x³+ax+b is a quadratic residue, then returns (x, sqrt_mod(rhs, p)). The
// choice of square root (of the two possible y values) is
// implementation-defined.
func (c *Curve) RandomPoint() (Point, error) {
	pMinus1 := new(big.Int).Sub(c.P, big.NewInt(1))
	for {
		x, err := rand.Int(rand.Reader, pMinus1)
		if err != nil {
			return Point{}, fmt.Errorf("curve: failed to sample random x: %w", err)
		}
		x.Add(x, big.NewInt(1)) // x in [1, p-1]

		rhs := new(big.Int).Exp(x, big.NewInt(3), c.P)
		rhs.Add(rhs, new(big.Int).Mul(c.A, x))
		rhs.Add(rhs, c.B)
		rhs.Mod(rhs, c.P)

		if Legendre(rhs, c.P) != 1 {
			continue
		}
		y := SqrtMod(rhs, c.P)
		return NewPoint(x, y), nil
	}
}
