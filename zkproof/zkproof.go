// Package zkproof implements the one-of-many disjunctive Chaum-Pedersen /
// Schnorr Σ-protocol, made non-interactive via Fiat-Shamir, proving that an
// ElGamal ciphertext encrypts one of a known set of candidate messages
// without revealing which one.
package zkproof

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/evoting/core/curve"
	"github.com/evoting/core/elgamal"
)

// Proof is the disjunctive proof transcript: for every candidate i, a
// commitment pair (A_i, B_i) and response pair (u_i, w_i). u and w are
// stored as unbounded integers, not reduced modulo the group order, per the
// reference construction.
type Proof struct {
	A, B []curve.Point
	U, W []*big.Int
}

// Challenge is the Fiat-Shamir fingerprint: Σ pts[j].X ^ pts[j].Y (mod
// fieldPrime). This is intentionally not a collision-resistant hash; it
// must be reproduced bit-for-bit for interoperability with the reference
// implementation. The point at infinity contributes 0 (it has no defined
// coordinates to exponentiate).
func Challenge(pts []curve.Point, fieldPrime *big.Int) *big.Int {
	sum := big.NewInt(0)
	for _, pt := range pts {
		if pt.Infinity {
			continue
		}
		term := new(big.Int).Exp(pt.X, pt.Y, fieldPrime)
		sum.Add(sum, term)
	}
	return sum.Mod(sum, fieldPrime)
}

// randomNonZero samples an integer uniformly in [1, order-1].
func randomNonZero(order *big.Int) (*big.Int, error) {
	orderMinus1 := new(big.Int).Sub(order, big.NewInt(1))
	n, err := rand.Int(rand.Reader, orderMinus1)
	if err != nil {
		return nil, fmt.Errorf("zkproof: failed to sample randomness: %w", err)
	}
	return n.Add(n, big.NewInt(1)), nil
}

// Prove constructs a one-of-many proof that ct encrypts m[candidate], given
// the encryption randomness r used to form ct = (r*P, m[candidate] + r*Q).
func Prove(pub elgamal.PublicKey, m []curve.Point, candidate int, r *big.Int, ct elgamal.Ciphertext) (Proof, error) {
	k := len(m)
	if candidate < 0 || candidate >= k {
		return Proof{}, fmt.Errorf("zkproof: candidate index %d out of range [0,%d)", candidate, k)
	}

	a := make([]curve.Point, k)
	b := make([]curve.Point, k)
	u := make([]*big.Int, k)
	w := make([]*big.Int, k)

	s, err := randomNonZero(pub.Order)
	if err != nil {
		return Proof{}, err
	}
	for i := 0; i < k; i++ {
		w[i], err = randomNonZero(pub.Order)
		if err != nil {
			return Proof{}, err
		}
		u[i], err = randomNonZero(pub.Order)
		if err != nil {
			return Proof{}, err
		}
	}

	for i := 0; i < k; i++ {
		if i == candidate {
			a[i], err = pub.Curve.ScalarMul(s, pub.P)
			if err != nil {
				return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
			}
			b[i], err = pub.Curve.ScalarMul(s, pub.Q)
			if err != nil {
				return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
			}
			continue
		}
		wP, err := pub.Curve.ScalarMul(w[i], pub.P)
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}
		uA, err := pub.Curve.ScalarMul(u[i], ct.A)
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}
		a[i], err = pub.Curve.Add(wP, uA)
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}

		wQ, err := pub.Curve.ScalarMul(w[i], pub.Q)
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}
		bMinusMi, err := pub.Curve.Sub(ct.B, m[i])
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}
		uBMinusMi, err := pub.Curve.ScalarMul(u[i], bMinusMi)
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}
		b[i], err = pub.Curve.Add(wQ, uBMinusMi)
		if err != nil {
			return Proof{}, fmt.Errorf("zkproof: prove: %w", err)
		}
	}

	chall := Challenge(interleave(a, b), pub.Curve.P)

	sumU := big.NewInt(0)
	for _, ui := range u {
		sumU.Add(sumU, ui)
	}
	// u[candidate] += chall - Σu, so that afterwards Σu == chall.
	u[candidate] = new(big.Int).Add(u[candidate], new(big.Int).Sub(chall, sumU))
	w[candidate] = new(big.Int).Sub(s, new(big.Int).Mul(u[candidate], r))

	return Proof{A: a, B: b, U: u, W: w}, nil
}

// interleave returns [a0,b0,a1,b1,...] matching H(A_0,B_0,...,A_{k-1},B_{k-1})
// from the spec.
func interleave(a, b []curve.Point) []curve.Point {
	out := make([]curve.Point, 0, 2*len(a))
	for i := range a {
		out = append(out, a[i], b[i])
	}
	return out
}

// Verify reports whether proof is a valid one-of-many proof that ct
// encrypts some m[i], for the public parameters pub.
func Verify(pub elgamal.PublicKey, m []curve.Point, ct elgamal.Ciphertext, proof Proof) bool {
	ok, _ := VerifyWithReason(pub, m, ct, proof)
	return ok
}

// VerifyWithReason is Verify but also returns a human-readable reason for
// the first failing check, for operability (spec.md §7 recommends
// returning or logging the reason without changing acceptance behavior).
func VerifyWithReason(pub elgamal.PublicKey, m []curve.Point, ct elgamal.Ciphertext, proof Proof) (bool, string) {
	k := len(m)
	if len(proof.A) != k || len(proof.B) != k || len(proof.U) != k || len(proof.W) != k {
		return false, "proof vector length mismatch"
	}

	for i := 0; i < k; i++ {
		wP, err := pub.Curve.ScalarMul(proof.W[i], pub.P)
		if err != nil {
			return false, fmt.Sprintf("branch %d: w*P: %v", i, err)
		}
		uA, err := pub.Curve.ScalarMul(proof.U[i], ct.A)
		if err != nil {
			return false, fmt.Sprintf("branch %d: u*A: %v", i, err)
		}
		expectedA, err := pub.Curve.Add(wP, uA)
		if err != nil {
			return false, fmt.Sprintf("branch %d: w*P+u*A: %v", i, err)
		}
		if !expectedA.Equal(proof.A[i]) {
			return false, fmt.Sprintf("branch %d: A_i mismatch", i)
		}

		wQ, err := pub.Curve.ScalarMul(proof.W[i], pub.Q)
		if err != nil {
			return false, fmt.Sprintf("branch %d: w*Q: %v", i, err)
		}
		bMinusMi, err := pub.Curve.Sub(ct.B, m[i])
		if err != nil {
			return false, fmt.Sprintf("branch %d: B-M_i: %v", i, err)
		}
		uBMinusMi, err := pub.Curve.ScalarMul(proof.U[i], bMinusMi)
		if err != nil {
			return false, fmt.Sprintf("branch %d: u*(B-M_i): %v", i, err)
		}
		expectedB, err := pub.Curve.Add(wQ, uBMinusMi)
		if err != nil {
			return false, fmt.Sprintf("branch %d: w*Q+u*(B-M_i): %v", i, err)
		}
		if !expectedB.Equal(proof.B[i]) {
			return false, fmt.Sprintf("branch %d: B_i mismatch", i)
		}
	}

	sumU := big.NewInt(0)
	for _, ui := range proof.U {
		sumU.Add(sumU, ui)
	}
	chall := Challenge(interleave(proof.A, proof.B), pub.Curve.P)
	if sumU.Cmp(chall) != 0 {
		return false, "challenge mismatch: sum(u) != H(A,B)"
	}

	return true, ""
}
