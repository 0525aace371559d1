package curve

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"
)

func smallCurve(c *qt.C) *Curve {
	crv, err := New(big.NewInt(497), big.NewInt(1768), big.NewInt(9739))
	c.Assert(err, qt.IsNil)
	return crv
}

func TestCurveSanityAdd(t *testing.T) {
	c := qt.New(t)
	crv := smallCurve(c)

	p := NewPoint(big.NewInt(5274), big.NewInt(2841))
	c.Assert(crv.OnCurve(p), qt.IsTrue)

	doubled, err := crv.Add(p, p)
	c.Assert(err, qt.IsNil)
	c.Assert(doubled.X.String(), qt.Equals, "7284")
	c.Assert(doubled.Y.String(), qt.Equals, "2107")

	q := NewPoint(big.NewInt(8669), big.NewInt(740))
	sum, err := crv.Add(p, q)
	c.Assert(err, qt.IsNil)
	c.Assert(sum.X.String(), qt.Equals, "1024")
	c.Assert(sum.Y.String(), qt.Equals, "4440")
}

func TestCurveSanityScalarMul(t *testing.T) {
	c := qt.New(t)
	crv := smallCurve(c)

	p := NewPoint(big.NewInt(5323), big.NewInt(5438))
	r, err := crv.ScalarMul(big.NewInt(1337), p)
	c.Assert(err, qt.IsNil)
	c.Assert(r.X.String(), qt.Equals, "1089")
	c.Assert(r.Y.String(), qt.Equals, "6931")
}

func TestGroupAxioms(t *testing.T) {
	c := qt.New(t)
	crv := smallCurve(c)
	x := NewPoint(big.NewInt(5274), big.NewInt(2841))

	xPlusO, err := crv.Add(x, InfinityPoint())
	c.Assert(err, qt.IsNil)
	c.Assert(xPlusO.Equal(x), qt.IsTrue)

	oPlusX, err := crv.Add(InfinityPoint(), x)
	c.Assert(err, qt.IsNil)
	c.Assert(oPlusX.Equal(x), qt.IsTrue)

	negX := crv.Negate(x)
	xPlusNegX, err := crv.Add(x, negX)
	c.Assert(err, qt.IsNil)
	c.Assert(xPlusNegX.Infinity, qt.IsTrue)

	y := NewPoint(big.NewInt(8669), big.NewInt(740))
	xy, err := crv.Add(x, y)
	c.Assert(err, qt.IsNil)
	yx, err := crv.Add(y, x)
	c.Assert(err, qt.IsNil)
	c.Assert(xy.Equal(yx), qt.IsTrue)

	z, err := crv.RandomPoint()
	c.Assert(err, qt.IsNil)
	left, err := crv.Add(xy, z)
	c.Assert(err, qt.IsNil)
	yz, err := crv.Add(y, z)
	c.Assert(err, qt.IsNil)
	right, err := crv.Add(x, yz)
	c.Assert(err, qt.IsNil)
	c.Assert(left.Equal(right), qt.IsTrue)
}

func TestScalarLaws(t *testing.T) {
	c := qt.New(t)
	crv := smallCurve(c)
	x := NewPoint(big.NewInt(5274), big.NewInt(2841))

	zero, err := crv.ScalarMul(big.NewInt(0), x)
	c.Assert(err, qt.IsNil)
	c.Assert(zero.Infinity, qt.IsTrue)

	one, err := crv.ScalarMul(big.NewInt(1), x)
	c.Assert(err, qt.IsNil)
	c.Assert(one.Equal(x), qt.IsTrue)

	a, b := big.NewInt(7), big.NewInt(11)
	aX, err := crv.ScalarMul(a, x)
	c.Assert(err, qt.IsNil)
	bX, err := crv.ScalarMul(b, x)
	c.Assert(err, qt.IsNil)
	sumAB := new(big.Int).Add(a, b)
	abX, err := crv.ScalarMul(sumAB, x)
	c.Assert(err, qt.IsNil)
	aXPlusBX, err := crv.Add(aX, bX)
	c.Assert(err, qt.IsNil)
	c.Assert(abX.Equal(aXPlusBX), qt.IsTrue)

	bOfAX, err := crv.ScalarMul(b, aX)
	c.Assert(err, qt.IsNil)
	abProd := new(big.Int).Mul(a, b)
	abProdX, err := crv.ScalarMul(abProd, x)
	c.Assert(err, qt.IsNil)
	c.Assert(bOfAX.Equal(abProdX), qt.IsTrue)
}

func TestSqrtModResidueAndNonResidue(t *testing.T) {
	c := qt.New(t)
	p := big.NewInt(9739)

	// 9 is a residue mod 9739 (3^2), should reproduce under squaring.
	root := SqrtMod(big.NewInt(9), p)
	sq := new(big.Int).Exp(root, big.NewInt(2), p)
	c.Assert(sq.String(), qt.Equals, "9")

	// Find a non-residue by scanning; Legendre must report -1 and SqrtMod 0.
	var nonResidue *big.Int
	for i := int64(2); i < 50; i++ {
		cand := big.NewInt(i)
		if Legendre(cand, p) == -1 {
			nonResidue = cand
			break
		}
	}
	c.Assert(nonResidue, qt.Not(qt.IsNil))
	c.Assert(SqrtMod(nonResidue, p).Sign(), qt.Equals, 0)
}

func TestOnCurveRejectsBadPoint(t *testing.T) {
	c := qt.New(t)
	crv := smallCurve(c)
	bad := NewPoint(big.NewInt(1), big.NewInt(1))
	c.Assert(crv.OnCurve(bad), qt.IsFalse)
	_, err := crv.Add(bad, bad)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestNewRejectsSingularCurve(t *testing.T) {
	c := qt.New(t)
	// 4*0^3 + 27*0^2 = 0 for any p: a=0, b=0 is singular.
	_, err := New(big.NewInt(0), big.NewInt(0), big.NewInt(9739))
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestRandomPointIsOnCurve(t *testing.T) {
	c := qt.New(t)
	crv := smallCurve(c)
	for i := 0; i < 10; i++ {
		p, err := crv.RandomPoint()
		c.Assert(err, qt.IsNil)
		c.Assert(crv.OnCurve(p), qt.IsTrue)
	}
}
