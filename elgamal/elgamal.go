// Package elgamal implements additively homomorphic EC ElGamal encryption
// over a curve.Curve, keyed so that the decryption of a sum of ciphertexts
// is the sum of the underlying plaintext points.
package elgamal

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/evoting/core/curve"
)

// PublicKey holds the public parameters a voter needs to encrypt a ballot:
// the curve, the group order, the generator P, and Q = d*P.
type PublicKey struct {
	Curve *curve.Curve
	Order *big.Int
	P     curve.Point
	Q     curve.Point
}

// Ciphertext is an ElGamal pair (A, B) = (r*P, M + r*Q).
type Ciphertext struct {
	A, B curve.Point
}

// RandomScalar samples a scalar uniformly in [1, order-1].
func RandomScalar(order *big.Int) (*big.Int, error) {
	orderMinus1 := new(big.Int).Sub(order, big.NewInt(1))
	if orderMinus1.Sign() <= 0 {
		return nil, fmt.Errorf("elgamal: order must be greater than 1")
	}
	r, err := rand.Int(rand.Reader, orderMinus1)
	if err != nil {
		return nil, fmt.Errorf("elgamal: failed to sample random scalar: %w", err)
	}
	return r.Add(r, big.NewInt(1)), nil
}

// Encrypt returns (r*P, M + r*Q) for freshly sampled r. The randomness r
// must be sampled in [1, order-1] per ciphertext; callers wanting to supply
// their own r (e.g. for the disjunctive proof) should use EncryptWithR.
func Encrypt(pub PublicKey, m curve.Point) (Ciphertext, *big.Int, error) {
	r, err := RandomScalar(pub.Order)
	if err != nil {
		return Ciphertext{}, nil, err
	}
	ct, err := EncryptWithR(pub, m, r)
	return ct, r, err
}

// EncryptWithR returns (r*P, M + r*Q) for the given randomness r.
func EncryptWithR(pub PublicKey, m curve.Point, r *big.Int) (Ciphertext, error) {
	a, err := pub.Curve.ScalarMul(r, pub.P)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("elgamal: encrypt: %w", err)
	}
	rQ, err := pub.Curve.ScalarMul(r, pub.Q)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("elgamal: encrypt: %w", err)
	}
	b, err := pub.Curve.Add(m, rQ)
	if err != nil {
		return Ciphertext{}, fmt.Errorf("elgamal: encrypt: %w", err)
	}
	return Ciphertext{A: a, B: b}, nil
}

// SumCiphertexts componentwise adds a slice of ciphertexts, producing
// (ΣA_j, ΣB_j). It returns an error if cts is empty.
func SumCiphertexts(crv *curve.Curve, cts []Ciphertext) (Ciphertext, error) {
	if len(cts) == 0 {
		return Ciphertext{}, fmt.Errorf("elgamal: cannot sum an empty ciphertext set")
	}
	sumA, sumB := curve.InfinityPoint(), curve.InfinityPoint()
	var err error
	for _, ct := range cts {
		sumA, err = crv.Add(sumA, ct.A)
		if err != nil {
			return Ciphertext{}, fmt.Errorf("elgamal: sum ciphertexts: %w", err)
		}
		sumB, err = crv.Add(sumB, ct.B)
		if err != nil {
			return Ciphertext{}, fmt.Errorf("elgamal: sum ciphertexts: %w", err)
		}
	}
	return Ciphertext{A: sumA, B: sumB}, nil
}

// Decrypt returns S = B - d*A. Over honest ciphertexts this equals the sum
// of the underlying plaintext points.
func Decrypt(crv *curve.Curve, d *big.Int, ct Ciphertext) (curve.Point, error) {
	dA, err := crv.ScalarMul(d, ct.A)
	if err != nil {
		return curve.Point{}, fmt.Errorf("elgamal: decrypt: %w", err)
	}
	s, err := crv.Sub(ct.B, dA)
	if err != nil {
		return curve.Point{}, fmt.Errorf("elgamal: decrypt: %w", err)
	}
	return s, nil
}

// GenerateKeyPair samples d in [1, order-1] and returns the key pair
// (P, Q=d*P, d) for the given curve, order, and base point P.
func GenerateKeyPair(crv *curve.Curve, order *big.Int, p curve.Point) (PublicKey, *big.Int, error) {
	d, err := RandomScalar(order)
	if err != nil {
		return PublicKey{}, nil, err
	}
	q, err := crv.ScalarMul(d, p)
	if err != nil {
		return PublicKey{}, nil, fmt.Errorf("elgamal: generate key pair: %w", err)
	}
	return PublicKey{Curve: crv, Order: order, P: p, Q: q}, d, nil
}
