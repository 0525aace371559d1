package api

import (
	"fmt"
	"math/big"

	"github.com/evoting/core/curve"
	"github.com/evoting/core/elgamal"
	"github.com/evoting/core/types"
	"github.com/evoting/core/voting"
	"github.com/evoting/core/zkproof"
)

// PointJSON is the canonical wire encoding of a curve.Point: decimal
// strings for the coordinates (via types.BigInt), to avoid JSON number
// precision loss on big integers.
type PointJSON struct {
	X        *types.BigInt `json:"x"`
	Y        *types.BigInt `json:"y"`
	Infinity bool          `json:"infinity"`
}

func pointToJSON(p curve.Point) PointJSON {
	if p.Infinity {
		return PointJSON{Infinity: true}
	}
	return PointJSON{X: new(types.BigInt).SetBigInt(p.X), Y: new(types.BigInt).SetBigInt(p.Y)}
}

func pointFromJSON(p PointJSON) (curve.Point, error) {
	if p.Infinity {
		return curve.InfinityPoint(), nil
	}
	if p.X == nil || p.Y == nil {
		return curve.Point{}, fmt.Errorf("missing coordinates for non-infinity point")
	}
	return curve.NewPoint(p.X.MathBigInt(), p.Y.MathBigInt()), nil
}

// CiphertextJSON is the wire encoding of an elgamal.Ciphertext.
type CiphertextJSON struct {
	A PointJSON `json:"a"`
	B PointJSON `json:"b"`
}

func ciphertextToJSON(ct elgamal.Ciphertext) CiphertextJSON {
	return CiphertextJSON{A: pointToJSON(ct.A), B: pointToJSON(ct.B)}
}

func ciphertextFromJSON(ct CiphertextJSON) (elgamal.Ciphertext, error) {
	a, err := pointFromJSON(ct.A)
	if err != nil {
		return elgamal.Ciphertext{}, fmt.Errorf("ciphertext.a: %w", err)
	}
	b, err := pointFromJSON(ct.B)
	if err != nil {
		return elgamal.Ciphertext{}, fmt.Errorf("ciphertext.b: %w", err)
	}
	return elgamal.Ciphertext{A: a, B: b}, nil
}

// SignaturePairJSON is the wire encoding of a voting.SignaturePair.
type SignaturePairJSON struct {
	X *types.BigInt `json:"x"`
	Y *types.BigInt `json:"y"`
}

func sigPairToJSON(s voting.SignaturePair) SignaturePairJSON {
	return SignaturePairJSON{X: new(types.BigInt).SetBigInt(s.X), Y: new(types.BigInt).SetBigInt(s.Y)}
}

func sigPairFromJSON(s SignaturePairJSON) (voting.SignaturePair, error) {
	if s.X == nil || s.Y == nil {
		return voting.SignaturePair{}, fmt.Errorf("missing signature coordinates")
	}
	return voting.SignaturePair{X: s.X.MathBigInt(), Y: s.Y.MathBigInt()}, nil
}

// ProofJSON is the wire encoding of a zkproof.Proof.
type ProofJSON struct {
	A []PointJSON     `json:"a"`
	B []PointJSON     `json:"b"`
	U []*types.BigInt `json:"u"`
	W []*types.BigInt `json:"w"`
}

func proofToJSON(p zkproof.Proof) ProofJSON {
	return ProofJSON{
		A: types.SliceOf(p.A, pointToJSON),
		B: types.SliceOf(p.B, pointToJSON),
		U: types.SliceOf(p.U, types.BigIntConverter),
		W: types.SliceOf(p.W, types.BigIntConverter),
	}
}

func proofFromJSON(p ProofJSON) (zkproof.Proof, error) {
	if len(p.A) != len(p.B) || len(p.A) != len(p.U) || len(p.A) != len(p.W) {
		return zkproof.Proof{}, fmt.Errorf("proof: mismatched branch vector lengths")
	}
	out := zkproof.Proof{
		A: make([]curve.Point, len(p.A)),
		B: make([]curve.Point, len(p.B)),
		U: make([]*big.Int, len(p.U)),
		W: make([]*big.Int, len(p.W)),
	}
	for i := range p.A {
		a, err := pointFromJSON(p.A[i])
		if err != nil {
			return zkproof.Proof{}, fmt.Errorf("proof.a[%d]: %w", i, err)
		}
		b, err := pointFromJSON(p.B[i])
		if err != nil {
			return zkproof.Proof{}, fmt.Errorf("proof.b[%d]: %w", i, err)
		}
		if p.U[i] == nil || p.W[i] == nil {
			return zkproof.Proof{}, fmt.Errorf("proof: missing response at index %d", i)
		}
		out.A[i], out.B[i] = a, b
		out.U[i], out.W[i] = p.U[i].MathBigInt(), p.W[i].MathBigInt()
	}
	return out, nil
}

// BallotRequest is the JSON body of POST /votes, mirroring voting.Ballot.
type BallotRequest struct {
	Ciphertext CiphertextJSON    `json:"ciphertext"`
	SigA       SignaturePairJSON `json:"sigA"`
	SigB       SignaturePairJSON `json:"sigB"`
	RSAPub     struct {
		N *types.BigInt `json:"n"`
		E *types.BigInt `json:"e"`
	} `json:"rsaPub"`
	Proof ProofJSON `json:"proof"`
}

func (r BallotRequest) toBallot() (voting.Ballot, error) {
	ct, err := ciphertextFromJSON(r.Ciphertext)
	if err != nil {
		return voting.Ballot{}, err
	}
	sigA, err := sigPairFromJSON(r.SigA)
	if err != nil {
		return voting.Ballot{}, fmt.Errorf("sigA: %w", err)
	}
	sigB, err := sigPairFromJSON(r.SigB)
	if err != nil {
		return voting.Ballot{}, fmt.Errorf("sigB: %w", err)
	}
	if r.RSAPub.N == nil || r.RSAPub.E == nil {
		return voting.Ballot{}, fmt.Errorf("rsaPub: missing n or e")
	}
	proof, err := proofFromJSON(r.Proof)
	if err != nil {
		return voting.Ballot{}, fmt.Errorf("proof: %w", err)
	}
	ballot := voting.Ballot{Ciphertext: ct, SigA: sigA, SigB: sigB, Proof: proof}
	ballot.RSAPub.N, ballot.RSAPub.E = r.RSAPub.N.MathBigInt(), r.RSAPub.E.MathBigInt()
	return ballot, nil
}

// VoteResponse is the JSON response of POST /votes.
type VoteResponse struct {
	Accepted bool   `json:"accepted"`
	Reason   string `json:"reason,omitempty"`
}

// PublicParamsResponse is the JSON response of GET /publickey.
type PublicParamsResponse struct {
	A          *types.BigInt `json:"a"`
	B          *types.BigInt `json:"b"`
	P          *types.BigInt `json:"p"`
	Order      *types.BigInt `json:"order"`
	Generator  PointJSON     `json:"generator"`
	PublicKey  PointJSON     `json:"publicKey"`
	Candidates []PointJSON   `json:"candidates"`
}

func publicParamsToJSON(pp voting.PublicParams) PublicParamsResponse {
	return PublicParamsResponse{
		A:          new(types.BigInt).SetBigInt(pp.Curve.A),
		B:          new(types.BigInt).SetBigInt(pp.Curve.B),
		P:          new(types.BigInt).SetBigInt(pp.Curve.P),
		Order:      new(types.BigInt).SetBigInt(pp.Order),
		Generator:  pointToJSON(pp.P),
		PublicKey:  pointToJSON(pp.Q),
		Candidates: types.SliceOf(pp.M, pointToJSON),
	}
}

// ResultResponse is the JSON response of GET /result.
type ResultResponse struct {
	AcceptedCount int      `json:"acceptedCount"`
	Opened        bool     `json:"opened"`
	Tally         []uint64 `json:"tally,omitempty"`
}

// ToBallotRequest converts a voting.Ballot into its wire representation, for
// clients that cast a vote constructed with the voting package directly
// against a remote server.
func ToBallotRequest(b voting.Ballot) BallotRequest {
	req := BallotRequest{
		Ciphertext: ciphertextToJSON(b.Ciphertext),
		SigA:       sigPairToJSON(b.SigA),
		SigB:       sigPairToJSON(b.SigB),
		Proof:      proofToJSON(b.Proof),
	}
	req.RSAPub.N = new(types.BigInt).SetBigInt(b.RSAPub.N)
	req.RSAPub.E = new(types.BigInt).SetBigInt(b.RSAPub.E)
	return req
}

// ToPublicParams converts a PublicParamsResponse back into a
// voting.PublicParams, for clients that fetched it from GET /publickey.
func (r PublicParamsResponse) ToPublicParams() (voting.PublicParams, error) {
	if r.A == nil || r.B == nil || r.P == nil || r.Order == nil {
		return voting.PublicParams{}, fmt.Errorf("publicParams: missing curve parameters")
	}
	crv, err := curve.New(r.A.MathBigInt(), r.B.MathBigInt(), r.P.MathBigInt())
	if err != nil {
		return voting.PublicParams{}, fmt.Errorf("publicParams: %w", err)
	}
	gen, err := pointFromJSON(r.Generator)
	if err != nil {
		return voting.PublicParams{}, fmt.Errorf("publicParams: generator: %w", err)
	}
	pub, err := pointFromJSON(r.PublicKey)
	if err != nil {
		return voting.PublicParams{}, fmt.Errorf("publicParams: publicKey: %w", err)
	}
	m := make([]curve.Point, len(r.Candidates))
	for i, c := range r.Candidates {
		pt, err := pointFromJSON(c)
		if err != nil {
			return voting.PublicParams{}, fmt.Errorf("publicParams: candidates[%d]: %w", i, err)
		}
		m[i] = pt
	}
	return voting.PublicParams{Curve: crv, Order: r.Order.MathBigInt(), P: gen, Q: pub, M: m}, nil
}
