// Package tally implements the candidate-point encoding and meet-in-the
// middle recovery that let the tallying authority read per-candidate vote
// counts out of a single homomorphically summed ElGamal plaintext point.
package tally

import (
	"fmt"
	"math/big"

	"golang.org/x/sync/errgroup"

	"github.com/evoting/core/curve"
)

// Candidates computes M_i = (B^i mod order)*P for i in [0, k), with
// B = maxVoters+1. M_i is the plaintext point used to encrypt a vote for
// candidate i.
func Candidates(crv *curve.Curve, order *big.Int, p curve.Point, k int, maxVoters uint64) ([]curve.Point, error) {
	if k <= 0 {
		return nil, fmt.Errorf("tally: number of candidates must be positive")
	}
	b := new(big.Int).SetUint64(maxVoters + 1)
	m := make([]curve.Point, k)
	power := big.NewInt(1)
	for i := 0; i < k; i++ {
		exp := new(big.Int).Mod(power, order)
		pt, err := crv.ScalarMul(exp, p)
		if err != nil {
			return nil, fmt.Errorf("tally: candidates: %w", err)
		}
		m[i] = pt
		power = new(big.Int).Mul(power, b)
	}
	return m, nil
}

// halfEntry is one row of a half-table: the tuple of per-candidate counts
// that sums (weighted by M) to the associated point.
type halfEntry struct {
	tuple []uint64
	point curve.Point
}

// halfRow is a half-table row before it has been bucketed by sum, used for
// the right half, which is only ever scanned, never looked up by sum.
type halfRow struct {
	tuple []uint64
	sum   uint64
	point curve.Point
}

// generateTuples enumerates every tuple of length count whose entries sum to
// at most maxSum, recursively. It is kept as its own function so the
// composition enumerator can be unit-tested independently of the curve
// arithmetic layer that consumes it.
func generateTuples(count int, maxSum uint64) [][]uint64 {
	if count == 0 {
		return [][]uint64{{}}
	}
	var out [][]uint64
	for first := uint64(0); first <= maxSum; first++ {
		for _, rest := range generateTuples(count-1, maxSum-first) {
			tuple := make([]uint64, 0, count)
			tuple = append(tuple, first)
			tuple = append(tuple, rest...)
			out = append(out, tuple)
		}
	}
	return out
}

// weightedSum computes Σ tuple[i]*points[i] along with the plain integer sum
// of the tuple entries.
func weightedSum(crv *curve.Curve, points []curve.Point, tuple []uint64) (curve.Point, uint64, error) {
	sum := uint64(0)
	pt := curve.InfinityPoint()
	for i, t := range tuple {
		sum += t
		if t == 0 {
			continue
		}
		contribution, err := crv.ScalarMul(new(big.Int).SetUint64(t), points[i])
		if err != nil {
			return curve.Point{}, 0, err
		}
		pt, err = crv.Add(pt, contribution)
		if err != nil {
			return curve.Point{}, 0, err
		}
	}
	return pt, sum, nil
}

// buildLeftTable enumerates every tuple over the left half and buckets it by
// its integer sum, so the right-half scan can look up candidates in O(1).
func buildLeftTable(crv *curve.Curve, left []curve.Point, n uint64) ([]map[string]halfEntry, error) {
	table := make([]map[string]halfEntry, n+1)
	for i := range table {
		table[i] = make(map[string]halfEntry)
	}
	for _, tuple := range generateTuples(len(left), n) {
		pt, sum, err := weightedSum(crv, left, tuple)
		if err != nil {
			return nil, fmt.Errorf("tally: recover: left half: %w", err)
		}
		table[sum][pt.Key()] = halfEntry{tuple: tuple, point: pt}
	}
	return table, nil
}

// buildRightRows enumerates every tuple over the right half with its
// weighted-sum point, for the meet-in-the-middle scan against the left
// table.
func buildRightRows(crv *curve.Curve, right []curve.Point, n uint64) ([]halfRow, error) {
	tuples := generateTuples(len(right), n)
	rows := make([]halfRow, 0, len(tuples))
	for _, tuple := range tuples {
		pt, sum, err := weightedSum(crv, right, tuple)
		if err != nil {
			return nil, fmt.Errorf("tally: recover: right half: %w", err)
		}
		if sum > n {
			continue
		}
		rows = append(rows, halfRow{tuple: tuple, sum: sum, point: pt})
	}
	return rows, nil
}

// Recover solves for the tuple (t_0,...,t_{k-1}) such that Σ t_i*M_i = S and
// Σ t_i = n, via meet-in-the-middle over the candidate split mid = k/2. The
// two halves are independent of each other until the final lookup, so they
// are built concurrently (spec.md leaves this parallelization optional; it
// costs nothing to take since neither half depends on the other's table).
// It returns an error if no split matches S, which indicates misbehavior or
// an n mismatched against the true number of accepted ballots.
func Recover(crv *curve.Curve, m []curve.Point, s curve.Point, n uint64) ([]uint64, error) {
	k := len(m)
	if k == 0 {
		return nil, fmt.Errorf("tally: recover: no candidates")
	}
	mid := k / 2
	left := m[:mid]
	right := m[mid:]

	var (
		table []map[string]halfEntry
		rows  []halfRow
		g     errgroup.Group
	)
	g.Go(func() error {
		var err error
		table, err = buildLeftTable(crv, left, n)
		return err
	})
	g.Go(func() error {
		var err error
		rows, err = buildRightRows(crv, right, n)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, row := range rows {
		target, err := crv.Sub(s, row.point)
		if err != nil {
			return nil, fmt.Errorf("tally: recover: %w", err)
		}
		if entry, ok := table[n-row.sum][target.Key()]; ok {
			result := make([]uint64, 0, k)
			result = append(result, entry.tuple...)
			result = append(result, row.tuple...)
			return result, nil
		}
	}
	return nil, fmt.Errorf("tally: recover: no composition of %d sums to the decrypted aggregate", n)
}
