// Package voting orchestrates the voter and tallying-server sides of the
// protocol: ballot construction and signing on the voter side; signature
// verification, ZK-proof verification, homomorphic aggregation, and tally
// recovery on the server side.
package voting

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/evoting/core/curve"
	"github.com/evoting/core/elgamal"
	"github.com/evoting/core/log"
	"github.com/evoting/core/rsasig"
	"github.com/evoting/core/tally"
	"github.com/evoting/core/zkproof"
)

// DefaultA, DefaultB, DefaultP and DefaultN are the reference curve
// parameters (coefficients, field prime, group order) from spec.md §6,
// required for interoperability with the reference test vectors.
var (
	DefaultA = mustBigInt("1268133167195989090596625406312984755854486256116")
	DefaultB = mustBigInt("386736940269827655214118852806596527602892573734")
	DefaultP = mustBigInt("1461501637330902918203684832716283019655932542983")
	DefaultN = mustBigInt("1461501637330902918203684149283858612734394057783")
)

func mustBigInt(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("voting: invalid constant %q", s))
	}
	return n
}

// DefaultRSABits is the RSA prime bit length from spec.md §3 (1024-bit
// primes, 2048-bit modulus).
const DefaultRSABits = 1024

// SignaturePair mirrors spec.md's "signature point": a pair of RSA
// signature integers packed the same shape as a curve point, one per
// ciphertext coordinate. It is not a point on any curve.
type SignaturePair struct {
	X, Y *big.Int
}

// Ballot is the full record a voter submits: ciphertext, per-coordinate RSA
// signatures over the ciphertext coordinates, the voter's RSA public key,
// and the one-of-many ZK proof.
type Ballot struct {
	Ciphertext elgamal.Ciphertext
	SigA       SignaturePair
	SigB       SignaturePair
	RSAPub     struct {
		N, E *big.Int
	}
	Proof zkproof.Proof
}

// PublicParams are the server's public parameters a voter needs to cast a
// ballot: the curve, group order, generators P and Q=d*P, and the
// candidate encoding M.
type PublicParams struct {
	Curve *curve.Curve
	Order *big.Int
	P, Q  curve.Point
	M     []curve.Point
}

func (pp PublicParams) publicKey() elgamal.PublicKey {
	return elgamal.PublicKey{Curve: pp.Curve, Order: pp.Order, P: pp.P, Q: pp.Q}
}

// Candidates returns the number of candidates this election accepts.
func (pp PublicParams) Candidates() int { return len(pp.M) }

// auditEntry mirrors a Ballot plus bookkeeping the server records for every
// cast attempt, accepted or not.
type auditEntry struct {
	ballot   Ballot
	accepted bool
	reason   string
}

// ElectionData is the server's published state: the accepted-ballot count, the
// full audit log, and, once opened, the aggregate ciphertext and recovered
// tally.
type ElectionData struct {
	AcceptedCount int
	Audit         []auditEntry
	Aggregate     *elgamal.Ciphertext
	Tally         []uint64
}

type serverState int

const (
	stateSetup serverState = iota
	stateAccepting
	stateOpened
)

// Server is the tallying authority. A single instance serializes CastVote
// and OpenVote against each other; the accepted-ballot vector is
// append-only and OpenVote reads a stable snapshot taken under the lock.
type Server struct {
	mu sync.Mutex

	curve     *curve.Curve
	order     *big.Int
	p, q      curve.Point
	d         *big.Int
	m         []curve.Point
	maxVoters uint64

	state     serverState
	accepted  []elgamal.Ciphertext
	audit     []auditEntry
	aggregate *elgamal.Ciphertext
	tallyOut  []uint64
}

// NewServer sets up a fresh election: instantiates the default curve,
// samples the secret key d, picks a random generator P, computes Q = d*P,
// and precomputes the candidate encoding M for numCandidates candidates and
// the given maxVoters bound.
func NewServer(numCandidates int, maxVoters uint64) (*Server, error) {
	crv, err := curve.New(DefaultA, DefaultB, DefaultP)
	if err != nil {
		return nil, fmt.Errorf("voting: server setup: %w", err)
	}
	p, err := crv.RandomPoint()
	if err != nil {
		return nil, fmt.Errorf("voting: server setup: %w", err)
	}
	pub, d, err := elgamal.GenerateKeyPair(crv, DefaultN, p)
	if err != nil {
		return nil, fmt.Errorf("voting: server setup: %w", err)
	}
	m, err := tally.Candidates(crv, DefaultN, p, numCandidates, maxVoters)
	if err != nil {
		return nil, fmt.Errorf("voting: server setup: %w", err)
	}
	return &Server{
		curve:     crv,
		order:     DefaultN,
		p:         pub.P,
		q:         pub.Q,
		d:         d,
		m:         m,
		maxVoters: maxVoters,
		state:     stateAccepting,
	}, nil
}

// PublicKey returns the server's public parameters.
func (s *Server) PublicKey() PublicParams {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PublicParams{Curve: s.curve, Order: s.order, P: s.p, Q: s.q, M: append([]curve.Point(nil), s.m...)}
}

// CastVote verifies the voter's RSA signatures and ZK proof and, on
// success, appends the ciphertext to the accepted list. Verification
// failures are rejected silently per spec.md §7 — the reason is logged for
// operability but does not change acceptance behavior, and no error is
// returned for a rejected (as opposed to malformed-request) ballot.
func (s *Server) CastVote(ballot Ballot) (accepted bool, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != stateAccepting {
		return s.reject(ballot, "server is not accepting votes")
	}

	if !rsasig.Verify(ballot.RSAPub.E, ballot.RSAPub.N, ballot.Ciphertext.A.X, ballot.SigA.X) ||
		!rsasig.Verify(ballot.RSAPub.E, ballot.RSAPub.N, ballot.Ciphertext.A.Y, ballot.SigA.Y) ||
		!rsasig.Verify(ballot.RSAPub.E, ballot.RSAPub.N, ballot.Ciphertext.B.X, ballot.SigB.X) ||
		!rsasig.Verify(ballot.RSAPub.E, ballot.RSAPub.N, ballot.Ciphertext.B.Y, ballot.SigB.Y) {
		return s.reject(ballot, "invalid RSA signature")
	}

	pub := elgamal.PublicKey{Curve: s.curve, Order: s.order, P: s.p, Q: s.q}
	ok, proofReason := zkproof.VerifyWithReason(pub, s.m, ballot.Ciphertext, ballot.Proof)
	if !ok {
		return s.reject(ballot, "invalid proof: "+proofReason)
	}

	s.accepted = append(s.accepted, ballot.Ciphertext)
	s.audit = append(s.audit, auditEntry{ballot: ballot, accepted: true})
	log.Debugw("ballot accepted", "total", len(s.accepted))
	return true, ""
}

func (s *Server) reject(ballot Ballot, reason string) (bool, string) {
	s.audit = append(s.audit, auditEntry{ballot: ballot, accepted: false, reason: reason})
	log.Debugw("ballot rejected", "reason", reason)
	return false, reason
}

// OpenVote sums all accepted ciphertexts, decrypts the aggregate, and runs
// the meet-in-the-middle tally recovery. It is idempotent: calling it again
// after the election has been opened returns the previously computed
// result without recomputing it.
func (s *Server) OpenVote() ([]uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == stateOpened {
		return s.tallyOut, nil
	}

	snapshot := append([]elgamal.Ciphertext(nil), s.accepted...)
	n := uint64(len(snapshot))

	if n == 0 {
		s.state = stateOpened
		s.tallyOut = make([]uint64, len(s.m))
		return s.tallyOut, nil
	}

	aggregate, err := elgamal.SumCiphertexts(s.curve, snapshot)
	if err != nil {
		return nil, fmt.Errorf("voting: open vote: %w", err)
	}
	decrypted, err := elgamal.Decrypt(s.curve, s.d, aggregate)
	if err != nil {
		return nil, fmt.Errorf("voting: open vote: %w", err)
	}
	result, err := tally.Recover(s.curve, s.m, decrypted, n)
	if err != nil {
		return nil, fmt.Errorf("voting: open vote: %w", err)
	}

	s.aggregate = &aggregate
	s.tallyOut = result
	s.state = stateOpened
	log.Infow("vote opened", "voters", n, "tally", result)
	return result, nil
}

// PublicResult returns the server's published election data: the accepted
// count, the full audit log, and — once opened — the aggregate ciphertext
// and recovered tally.
func (s *Server) PublicResult() ElectionData {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ElectionData{
		AcceptedCount: len(s.accepted),
		Audit:         append([]auditEntry(nil), s.audit...),
		Aggregate:     s.aggregate,
		Tally:         append([]uint64(nil), s.tallyOut...),
	}
}
