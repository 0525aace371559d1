package api

import (
	"encoding/json"
	"net/http"

	"github.com/evoting/core/log"
)

// publicKey handles GET /publickey: publishes the server's public election
// parameters.
func (a *API) publicKey(w http.ResponseWriter, _ *http.Request) {
	httpWriteJSON(w, publicParamsToJSON(a.server.PublicKey()))
}

// newVote handles POST /votes: decodes a ballot, verifies it against the
// server, and reports whether it was accepted.
func (a *API) newVote(w http.ResponseWriter, r *http.Request) {
	var req BallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	ballot, err := req.toBallot()
	if err != nil {
		ErrMalformedBody.WithErr(err).Write(w)
		return
	}
	accepted, reason := a.server.CastVote(ballot)
	httpWriteJSON(w, VoteResponse{Accepted: accepted, Reason: reason})
}

// openVote handles POST /open: triggers tally recovery. Idempotent.
func (a *API) openVote(w http.ResponseWriter, _ *http.Request) {
	tally, err := a.server.OpenVote()
	if err != nil {
		log.Warnw("open vote failed", "error", err)
		ErrTallyRecoveryFailed.WithErr(err).Write(w)
		return
	}
	httpWriteJSON(w, ResultResponse{
		AcceptedCount: a.server.PublicResult().AcceptedCount,
		Opened:        true,
		Tally:         tally,
	})
}

// result handles GET /result: publishes the current accepted count and,
// once opened, the recovered tally.
func (a *API) result(w http.ResponseWriter, _ *http.Request) {
	data := a.server.PublicResult()
	resp := ResultResponse{AcceptedCount: data.AcceptedCount}
	if data.Tally != nil {
		resp.Opened = true
		resp.Tally = data.Tally
	}
	httpWriteJSON(w, resp)
}
