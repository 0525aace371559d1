//nolint:lll
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is the API's structured error response. Code is a stable,
// never-reused numeric identifier; HTTPstatus is the status line sent to
// the client; Err carries the human-readable detail.
type Error struct {
	Code       int    `json:"code"`
	HTTPstatus int    `json:"-"`
	Err        error  `json:"-"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Withf returns a copy of e with its message replaced by a formatted detail,
// keeping the same Code and HTTPstatus.
func (e Error) Withf(format string, args ...any) Error {
	e.Err = fmt.Errorf(format, args...)
	return e
}

// WithErr returns a copy of e wrapping the given error as additional detail.
func (e Error) WithErr(err error) Error {
	e.Err = err
	return e
}

// Write sends the error as a JSON response with the appropriate HTTP status.
// HTTP 204 No Content implies an empty body, so Code and Message are
// discarded for that status.
func (e Error) Write(w http.ResponseWriter) {
	if e.HTTPstatus == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	msg := e.Message
	if e.Err != nil {
		msg = e.Err.Error()
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPstatus)
	_ = json.NewEncoder(w).Encode(Error{Code: e.Code, Message: msg})
}

// Error codes in the 40001-49999 range are the client's fault and return
// HTTP 400 or 409. Error codes 50001-59999 are the server's fault and
// return HTTP 500. NEVER change an existing error code; only append new
// ones after the current last 4XXX or 5XXX. Gaps in the numbering are
// deliberate — a retired code must not be reused.
var (
	ErrMalformedBody        = Error{Code: 40001, HTTPstatus: http.StatusBadRequest, Message: "malformed JSON body"}
	ErrInvalidCandidate     = Error{Code: 40002, HTTPstatus: http.StatusBadRequest, Message: "candidate index out of range"}
	ErrInvalidSignature     = Error{Code: 40003, HTTPstatus: http.StatusBadRequest, Message: "invalid RSA signature"}
	ErrInvalidProof         = Error{Code: 40004, HTTPstatus: http.StatusBadRequest, Message: "invalid zero-knowledge proof"}
	ErrBallotRejected       = Error{Code: 40005, HTTPstatus: http.StatusBadRequest, Message: "ballot rejected"}
	ErrServerNotAccepting   = Error{Code: 40006, HTTPstatus: http.StatusConflict, Message: "server is not accepting votes"}
	ErrMalformedPoint       = Error{Code: 40007, HTTPstatus: http.StatusBadRequest, Message: "malformed curve point"}

	ErrMarshalingServerJSONFailed = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Message: "marshaling (server-side) JSON failed"}
	ErrGenericInternalServerError = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Message: "internal server error"}
	ErrTallyRecoveryFailed        = Error{Code: 50003, HTTPstatus: http.StatusInternalServerError, Message: "tally recovery failed"}
)
