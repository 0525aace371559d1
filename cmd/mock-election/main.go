// Command mock-election simulates a full election: N voters cast votes for
// randomly chosen candidates, the tally is recovered, and the result is
// checked against the ground-truth histogram. It can drive an in-process
// voting.Server (-local) or a running evoting-server instance over HTTP.
package main

import (
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"time"

	flag "github.com/spf13/pflag"

	apipkg "github.com/evoting/core/api"
	"github.com/evoting/core/log"
	"github.com/evoting/core/rsasig"
	"github.com/evoting/core/voting"
)

func main() {
	var (
		candidates = flag.Int("candidates", 4, "number of candidates")
		voters     = flag.Int("voters", 200, "number of simulated voters")
		rsaBits    = flag.Int("rsaBits", 128, "RSA prime bit length for simulated voters (small for a fast demo)")
		local      = flag.Bool("local", true, "run against an in-process server instead of a remote one")
		endpoint   = flag.String("endpoint", "http://127.0.0.1:8080", "evoting-server base URL, used when -local=false")
	)
	flag.Parse()
	log.Init("info", "stdout", nil)

	truth := make([]uint64, *candidates)
	choices := make([]int, *voters)
	for i := range choices {
		c, err := rand.Int(rand.Reader, big.NewInt(int64(*candidates)))
		if err != nil {
			log.Fatalf("failed to pick random candidate: %v", err)
		}
		choices[i] = int(c.Int64())
		truth[choices[i]]++
	}

	var result []uint64
	var err error
	if *local {
		result, err = runLocal(*candidates, uint64(*voters), *rsaBits, choices)
	} else {
		result, err = runRemote(*endpoint, *rsaBits, choices)
	}
	if err != nil {
		log.Fatalf("simulation failed: %v", err)
	}

	log.Infow("simulation complete", "truth", truth, "recovered", result)
	for i := range truth {
		if truth[i] != result[i] {
			log.Fatalf("tally mismatch at candidate %d: want %d, got %d", i, truth[i], result[i])
		}
	}
	log.Info("recovered tally matches ground truth")
}

func runLocal(candidates int, maxVoters uint64, rsaBits int, choices []int) ([]uint64, error) {
	server, err := voting.NewServer(candidates, maxVoters)
	if err != nil {
		return nil, fmt.Errorf("set up server: %w", err)
	}
	pub := server.PublicKey()

	for i, choice := range choices {
		voter, err := voting.NewVoter(rsasig.DefaultOracle(rsaBits))
		if err != nil {
			return nil, fmt.Errorf("voter %d: %w", i, err)
		}
		ballot, err := voter.Vote(choice, pub)
		if err != nil {
			return nil, fmt.Errorf("voter %d: %w", i, err)
		}
		accepted, reason := server.CastVote(*ballot)
		if !accepted {
			return nil, fmt.Errorf("voter %d rejected: %s", i, reason)
		}
	}
	return server.OpenVote()
}

func runRemote(baseURL string, rsaBits int, choices []int) ([]uint64, error) {
	client := &http.Client{Timeout: 10 * time.Second}

	var params apipkg.PublicParamsResponse
	if err := getJSON(client, baseURL+apipkg.PublicKeyEndpoint, &params); err != nil {
		return nil, fmt.Errorf("fetch public key: %w", err)
	}
	pub, err := params.ToPublicParams()
	if err != nil {
		return nil, fmt.Errorf("decode public key: %w", err)
	}

	for i, choice := range choices {
		voter, err := voting.NewVoter(rsasig.DefaultOracle(rsaBits))
		if err != nil {
			return nil, fmt.Errorf("voter %d: %w", i, err)
		}
		ballot, err := voter.Vote(choice, pub)
		if err != nil {
			return nil, fmt.Errorf("voter %d: %w", i, err)
		}
		var voteResp apipkg.VoteResponse
		if err := postJSON(client, baseURL+apipkg.VotesEndpoint, apipkg.ToBallotRequest(*ballot), &voteResp); err != nil {
			return nil, fmt.Errorf("voter %d: %w", i, err)
		}
		if !voteResp.Accepted {
			return nil, fmt.Errorf("voter %d rejected: %s", i, voteResp.Reason)
		}
	}

	var result apipkg.ResultResponse
	if err := postJSON(client, baseURL+apipkg.OpenEndpoint, nil, &result); err != nil {
		return nil, fmt.Errorf("open vote: %w", err)
	}
	return result.Tally, nil
}

func getJSON(client *http.Client, url string, out any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func postJSON(client *http.Client, url string, body, out any) error {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	resp, err := client.Post(url, "application/json", reader)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
