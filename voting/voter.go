package voting

import (
	"fmt"
	"math/big"

	"github.com/evoting/core/elgamal"
	"github.com/evoting/core/rsasig"
	"github.com/evoting/core/zkproof"
)

// Voter holds a voter's RSA key pair and casts ballots against a server's
// published public parameters.
type Voter struct {
	keys rsasig.KeyPair
}

// NewVoter asks the given oracle for a fresh RSA key pair and returns a
// Voter ready to vote. RSA key generation is treated as an external oracle
// per spec.md §1; rsasig.DefaultOracle(DefaultRSABits) is the reference
// implementation.
func NewVoter(oracle rsasig.Oracle) (*Voter, error) {
	keys, err := oracle.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("voting: new voter: %w", err)
	}
	return &Voter{keys: keys}, nil
}

// PublicKey returns the voter's RSA public key (n, e).
func (v *Voter) PublicKey() (n, e *big.Int) {
	return v.keys.Public()
}

// sign produces the RSA signature m^d mod n, mirroring spec.md's
// User.sign.
func (v *Voter) sign(m *big.Int) *big.Int {
	return rsasig.Sign(v.keys.D, v.keys.N, m)
}

// Vote validates the candidate index, samples fresh encryption randomness,
// encrypts the vote for that candidate, signs each ciphertext coordinate
// independently, and produces the accompanying one-of-many ZK proof.
func (v *Voter) Vote(candidate int, pub PublicParams) (*Ballot, error) {
	if candidate < 0 || candidate >= pub.Candidates() {
		return nil, fmt.Errorf("voting: candidate index %d out of range [0,%d)", candidate, pub.Candidates())
	}

	pk := pub.publicKey()
	ct, r, err := elgamal.Encrypt(pk, pub.M[candidate])
	if err != nil {
		return nil, fmt.Errorf("voting: vote: %w", err)
	}

	proof, err := zkproof.Prove(pk, pub.M, candidate, r, ct)
	if err != nil {
		return nil, fmt.Errorf("voting: vote: %w", err)
	}

	ballot := &Ballot{
		Ciphertext: ct,
		SigA: SignaturePair{
			X: v.sign(ct.A.X),
			Y: v.sign(ct.A.Y),
		},
		SigB: SignaturePair{
			X: v.sign(ct.B.X),
			Y: v.sign(ct.B.Y),
		},
		Proof: proof,
	}
	ballot.RSAPub.N, ballot.RSAPub.E = v.PublicKey()
	return ballot, nil
}
