package api

// Route constants for the API endpoints.

const (
	// PingEndpoint is the health check endpoint.
	PingEndpoint = "/ping"

	// PublicKeyEndpoint publishes the server's public election parameters.
	PublicKeyEndpoint = "/publickey"

	// VotesEndpoint accepts a signed, proven ballot.
	VotesEndpoint = "/votes"

	// OpenEndpoint triggers tally recovery. Idempotent.
	OpenEndpoint = "/open"

	// ResultEndpoint publishes the accepted count and (once opened) the
	// recovered tally. The audit log is not included.
	ResultEndpoint = "/result"
)

// LogExcludedPrefixes defines URL prefixes to exclude from request logging.
var LogExcludedPrefixes = []string{
	PingEndpoint,
}
