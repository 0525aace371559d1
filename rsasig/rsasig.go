// Package rsasig implements textbook (unpadded) RSA signing over raw
// integers, as used for per-voter ballot signatures. Signing without
// padding is safe here only because the signed values are bounded
// coordinate integers below the modulus and are not adversarially chosen
// after signing; this package implements exactly that narrow contract and
// does not attempt general-purpose message signing.
package rsasig

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// DefaultExponent is the public exponent used by GenerateKeyPair, matching
// spec.md's default RSA parameters.
var DefaultExponent = big.NewInt(65537)

// KeyPair is a textbook RSA key: modulus N, public exponent E, private
// exponent D.
type KeyPair struct {
	N, E, D *big.Int
}

// Public returns the public half of the key pair.
func (k KeyPair) Public() (n, e *big.Int) {
	return k.N, k.E
}

// Oracle generates RSA key pairs. spec.md treats RSA key generation as an
// external oracle; GenerateKeyPair below is the reference implementation
// used for tests and the demo CLI, not a production KMS.
type Oracle interface {
	GenerateKeyPair() (KeyPair, error)
}

// oracleFunc adapts a plain function to the Oracle interface.
type oracleFunc func() (KeyPair, error)

func (f oracleFunc) GenerateKeyPair() (KeyPair, error) { return f() }

// DefaultOracle returns an Oracle that calls GenerateKeyPair with the given
// bit size.
func DefaultOracle(bits int) Oracle {
	return oracleFunc(func() (KeyPair, error) { return GenerateKeyPair(bits) })
}

// GenerateKeyPair samples two random primes of the given bit size and
// derives an RSA key pair with the fixed public exponent e = 65537,
// retrying if gcd(e, φ(n)) != 1.
func GenerateKeyPair(bits int) (KeyPair, error) {
	for {
		p, err := rand.Prime(rand.Reader, bits)
		if err != nil {
			return KeyPair{}, fmt.Errorf("rsasig: failed to generate prime: %w", err)
		}
		q, err := rand.Prime(rand.Reader, bits)
		if err != nil {
			return KeyPair{}, fmt.Errorf("rsasig: failed to generate prime: %w", err)
		}
		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		phi := new(big.Int).Mul(
			new(big.Int).Sub(p, big.NewInt(1)),
			new(big.Int).Sub(q, big.NewInt(1)),
		)

		if new(big.Int).Mod(phi, DefaultExponent).Sign() == 0 {
			continue // gcd(e, phi) != 1, resample
		}

		d := new(big.Int).ModInverse(DefaultExponent, phi)
		if d == nil {
			continue
		}

		return KeyPair{N: n, E: new(big.Int).Set(DefaultExponent), D: d}, nil
	}
}

// Sign returns m^d mod n. The caller must ensure 0 <= m < n.
func Sign(d, n, m *big.Int) *big.Int {
	return new(big.Int).Exp(m, d, n)
}

// Verify reports whether sig^e mod n == m.
func Verify(e, n, m, sig *big.Int) bool {
	recovered := new(big.Int).Exp(sig, e, n)
	return recovered.Cmp(m) == 0
}
