// Package curve implements prime-field elliptic-curve arithmetic in short
// Weierstrass form: y² = x³ + ax + b (mod p).
package curve

import (
	"fmt"
	"math/big"
)

// Point is an affine point on a Curve, or the distinguished point at
// infinity when Infinity is true. X and Y are meaningless when Infinity is
// set. Points are plain values and freely copyable.
type Point struct {
	X, Y     *big.Int
	Infinity bool
}

// NewPoint builds a non-infinity affine point from the given coordinates.
func NewPoint(x, y *big.Int) Point {
	return Point{X: new(big.Int).Set(x), Y: new(big.Int).Set(y)}
}

// InfinityPoint returns the point at infinity, the group identity.
func InfinityPoint() Point {
	return Point{Infinity: true}
}

// Equal reports whether p and q are the same point. All infinity instances
// compare equal regardless of any stored coordinates.
func (p Point) Equal(q Point) bool {
	if p.Infinity || q.Infinity {
		return p.Infinity == q.Infinity
	}
	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Key returns a canonical string suitable as a map key, distinguishing the
// point at infinity from every affine point.
func (p Point) Key() string {
	if p.Infinity {
		return "O"
	}
	return fmt.Sprintf("%s,%s", p.X.Text(16), p.Y.Text(16))
}

// String implements fmt.Stringer.
func (p Point) String() string {
	if p.Infinity {
		return "O"
	}
	return fmt.Sprintf("(%s, %s)", p.X.String(), p.Y.String())
}
