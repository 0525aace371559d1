package tally

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/evoting/core/curve"
)

func smallSetup(c *qt.C, k int, maxVoters uint64) (*curve.Curve, curve.Point, []curve.Point) {
	crv, err := curve.New(big.NewInt(497), big.NewInt(1768), big.NewInt(9739))
	c.Assert(err, qt.IsNil)
	order := big.NewInt(9739)
	p, err := crv.RandomPoint()
	c.Assert(err, qt.IsNil)
	m, err := Candidates(crv, order, p, k, maxVoters)
	c.Assert(err, qt.IsNil)
	return crv, p, m
}

func sumOfCounts(c *qt.C, crv *curve.Curve, m []curve.Point, counts []uint64) curve.Point {
	s := curve.InfinityPoint()
	for i, t := range counts {
		if t == 0 {
			continue
		}
		contribution, err := crv.ScalarMul(new(big.Int).SetUint64(t), m[i])
		c.Assert(err, qt.IsNil)
		var err2 error
		s, err2 = crv.Add(s, contribution)
		c.Assert(err2, qt.IsNil)
	}
	return s
}

func TestRecoverTinyTally(t *testing.T) {
	c := qt.New(t)
	crv, _, m := smallSetup(c, 4, 5)
	counts := []uint64{2, 1, 0, 2}
	s := sumOfCounts(c, crv, m, counts)

	recovered, err := Recover(crv, m, s, 5)
	c.Assert(err, qt.IsNil)
	c.Assert(recovered, qt.DeepEquals, counts)
}

func TestRecoverBoundary(t *testing.T) {
	c := qt.New(t)
	crv, _, m := smallSetup(c, 2, 3)
	counts := []uint64{0, 3}
	s := sumOfCounts(c, crv, m, counts)

	recovered, err := Recover(crv, m, s, 3)
	c.Assert(err, qt.IsNil)
	c.Assert(recovered, qt.DeepEquals, counts)
}

func TestGenerateTuplesRespectsSumBound(t *testing.T) {
	c := qt.New(t)
	tuples := generateTuples(3, 2)
	for _, tuple := range tuples {
		c.Assert(len(tuple), qt.Equals, 3)
		var sum uint64
		for _, v := range tuple {
			sum += v
		}
		c.Assert(sum <= 2, qt.IsTrue)
	}
	// the enumeration is non-empty
	c.Assert(len(tuples) > 0, qt.IsTrue)
}
