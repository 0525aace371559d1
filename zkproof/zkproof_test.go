package zkproof

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/evoting/core/curve"
	"github.com/evoting/core/elgamal"
	"github.com/evoting/core/tally"
)

func setup(c *qt.C, k int) (elgamal.PublicKey, []curve.Point, *big.Int) {
	crv, err := curve.New(big.NewInt(497), big.NewInt(1768), big.NewInt(9739))
	c.Assert(err, qt.IsNil)
	order := big.NewInt(9739)
	p, err := crv.RandomPoint()
	c.Assert(err, qt.IsNil)
	pub, d, err := elgamal.GenerateKeyPair(crv, order, p)
	c.Assert(err, qt.IsNil)
	m, err := tally.Candidates(crv, order, p, k, 10)
	c.Assert(err, qt.IsNil)
	return pub, m, d
}

func TestProofCompleteness(t *testing.T) {
	c := qt.New(t)
	pub, m, _ := setup(c, 4)

	for candidate := 0; candidate < 4; candidate++ {
		ct, r, err := elgamal.Encrypt(pub, m[candidate])
		c.Assert(err, qt.IsNil)

		proof, err := Prove(pub, m, candidate, r, ct)
		c.Assert(err, qt.IsNil)

		ok, reason := VerifyWithReason(pub, m, ct, proof)
		c.Assert(ok, qt.IsTrue, qt.Commentf("reason: %s", reason))
	}
}

func TestProofRejectsCorruptedU(t *testing.T) {
	c := qt.New(t)
	pub, m, _ := setup(c, 4)

	ct, r, err := elgamal.Encrypt(pub, m[1])
	c.Assert(err, qt.IsNil)
	proof, err := Prove(pub, m, 1, r, ct)
	c.Assert(err, qt.IsNil)

	proof.U[0] = new(big.Int).Xor(proof.U[0], big.NewInt(1))
	ok, _ := VerifyWithReason(pub, m, ct, proof)
	c.Assert(ok, qt.IsFalse)
}

func TestProofRejectsCorruptedW(t *testing.T) {
	c := qt.New(t)
	pub, m, _ := setup(c, 4)

	ct, r, err := elgamal.Encrypt(pub, m[2])
	c.Assert(err, qt.IsNil)
	proof, err := Prove(pub, m, 2, r, ct)
	c.Assert(err, qt.IsNil)

	proof.W[0] = new(big.Int).Add(proof.W[0], big.NewInt(1))
	ok, _ := VerifyWithReason(pub, m, ct, proof)
	c.Assert(ok, qt.IsFalse)
}

func TestProofRejectsCorruptedCommitment(t *testing.T) {
	c := qt.New(t)
	pub, m, _ := setup(c, 4)

	ct, r, err := elgamal.Encrypt(pub, m[0])
	c.Assert(err, qt.IsNil)
	proof, err := Prove(pub, m, 0, r, ct)
	c.Assert(err, qt.IsNil)

	proof.A[3] = curve.InfinityPoint()
	ok, _ := VerifyWithReason(pub, m, ct, proof)
	c.Assert(ok, qt.IsFalse)
}

func TestProofRejectsCorruptedCiphertext(t *testing.T) {
	c := qt.New(t)
	pub, m, _ := setup(c, 4)

	ct, r, err := elgamal.Encrypt(pub, m[0])
	c.Assert(err, qt.IsNil)
	proof, err := Prove(pub, m, 0, r, ct)
	c.Assert(err, qt.IsNil)

	other, _, err := elgamal.Encrypt(pub, m[1])
	c.Assert(err, qt.IsNil)
	ok, _ := VerifyWithReason(pub, m, other, proof)
	c.Assert(ok, qt.IsFalse)
}

func TestProofRejectsLengthMismatch(t *testing.T) {
	c := qt.New(t)
	pub, m, _ := setup(c, 4)

	ct, r, err := elgamal.Encrypt(pub, m[0])
	c.Assert(err, qt.IsNil)
	proof, err := Prove(pub, m, 0, r, ct)
	c.Assert(err, qt.IsNil)

	proof.U = proof.U[:len(proof.U)-1]
	ok, reason := VerifyWithReason(pub, m, ct, proof)
	c.Assert(ok, qt.IsFalse)
	c.Assert(reason, qt.Equals, "proof vector length mismatch")
}

func TestChallengeIgnoresInfinityPoints(t *testing.T) {
	c := qt.New(t)
	p := big.NewInt(9739)
	pt := curve.NewPoint(big.NewInt(5274), big.NewInt(2841))
	without := Challenge([]curve.Point{pt}, p)
	with := Challenge([]curve.Point{pt, curve.InfinityPoint()}, p)
	c.Assert(without.Cmp(with), qt.Equals, 0)
}
