package voting

import (
	"math/big"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/evoting/core/rsasig"
)

func newTestVoter(c *qt.C) *Voter {
	v, err := NewVoter(rsasig.DefaultOracle(128))
	c.Assert(err, qt.IsNil)
	return v
}

func TestVoteIsAcceptedByServer(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(4, 10)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	voter := newTestVoter(c)
	ballot, err := voter.Vote(2, pub)
	c.Assert(err, qt.IsNil)

	accepted, reason := server.CastVote(*ballot)
	c.Assert(accepted, qt.IsTrue, qt.Commentf("reason: %s", reason))
}

func TestTinyTallyEndToEnd(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(4, 5)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	votes := []int{0, 0, 1, 3, 3}
	for _, candidate := range votes {
		voter := newTestVoter(c)
		ballot, err := voter.Vote(candidate, pub)
		c.Assert(err, qt.IsNil)
		accepted, reason := server.CastVote(*ballot)
		c.Assert(accepted, qt.IsTrue, qt.Commentf("reason: %s", reason))
	}

	result, err := server.OpenVote()
	c.Assert(err, qt.IsNil)
	c.Assert(result, qt.DeepEquals, []uint64{2, 1, 0, 2})
}

func TestBoundaryTally(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(2, 3)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	for i := 0; i < 3; i++ {
		voter := newTestVoter(c)
		ballot, err := voter.Vote(1, pub)
		c.Assert(err, qt.IsNil)
		accepted, reason := server.CastVote(*ballot)
		c.Assert(accepted, qt.IsTrue, qt.Commentf("reason: %s", reason))
	}

	result, err := server.OpenVote()
	c.Assert(err, qt.IsNil)
	c.Assert(result, qt.DeepEquals, []uint64{0, 3})
}

func TestCastVoteRejectsCorruptedProof(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(4, 5)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	voter := newTestVoter(c)
	ballot, err := voter.Vote(0, pub)
	c.Assert(err, qt.IsNil)

	ballot.Proof.U[0] = new(big.Int).Xor(ballot.Proof.U[0], big.NewInt(1))

	before := server.PublicResult().AcceptedCount
	accepted, _ := server.CastVote(*ballot)
	c.Assert(accepted, qt.IsFalse)
	after := server.PublicResult().AcceptedCount
	c.Assert(after, qt.Equals, before)
}

func TestVoteRejectsInvalidCandidate(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(3, 5)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	voter := newTestVoter(c)
	_, err = voter.Vote(3, pub)
	c.Assert(err, qt.Not(qt.IsNil))
}

func TestOpenVoteIsIdempotent(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(2, 2)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	voter := newTestVoter(c)
	ballot, err := voter.Vote(0, pub)
	c.Assert(err, qt.IsNil)
	accepted, reason := server.CastVote(*ballot)
	c.Assert(accepted, qt.IsTrue, qt.Commentf("reason: %s", reason))

	first, err := server.OpenVote()
	c.Assert(err, qt.IsNil)
	second, err := server.OpenVote()
	c.Assert(err, qt.IsNil)
	c.Assert(first, qt.DeepEquals, second)
}

func TestCastVoteRejectedAfterOpen(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(2, 2)
	c.Assert(err, qt.IsNil)
	pub := server.PublicKey()

	_, err = server.OpenVote()
	c.Assert(err, qt.IsNil)

	voter := newTestVoter(c)
	ballot, err := voter.Vote(0, pub)
	c.Assert(err, qt.IsNil)

	accepted, reason := server.CastVote(*ballot)
	c.Assert(accepted, qt.IsFalse)
	c.Assert(reason, qt.Equals, "server is not accepting votes")
}

func TestEmptyElectionOpensToZeroTally(t *testing.T) {
	c := qt.New(t)
	server, err := NewServer(3, 5)
	c.Assert(err, qt.IsNil)

	result, err := server.OpenVote()
	c.Assert(err, qt.IsNil)
	c.Assert(result, qt.DeepEquals, []uint64{0, 0, 0})
}
