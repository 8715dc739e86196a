// SPDX-License-Identifier: MIT

package proposal

import (
	"fmt"
	"math/rand/v2"

	"github.com/katalvlaran/nestsampler/params"
)

// DifferentialEvolution adds (B − A) to every varying dimension of vals,
// where A and B are distinct live rows drawn uniformly from live.
//
// Implementation:
//   - Stage 1: a = IntN(n); b = IntN(n) redrawn while b == a.
//   - Stage 2: if B − A vanishes in every varying dimension, redraw both
//     (at most maxRedraws pairs, then ErrDegeneratePopulation).
//   - Stage 3: vals[k] += B[k] − A[k] for each varying index k.
//
// Boundary correction is the caller's job.
//
// Complexity:
//   - Time O(D) per pair, expected O(1) pairs on a non-degenerate population.
func DifferentialEvolution(r *rand.Rand, live *params.LiveSet, vals []float64, maxRedraws int) error {
	n := live.Len()
	varying := live.Layout().Varying()
	var (
		a, b  int
		ra    []float64
		rb    []float64
		tries int
	)
	for tries = 0; tries < maxRedraws; tries++ {
		a = r.IntN(n)
		b = r.IntN(n)
		for b == a {
			b = r.IntN(n)
		}
		ra, rb = live.Row(a), live.Row(b)
		if differs(ra, rb, varying) {
			for _, k := range varying {
				vals[k] += rb[k] - ra[k]
			}
			return nil
		}
	}

	return fmt.Errorf("proposal: %d pairs drawn: %w", maxRedraws, ErrDegeneratePopulation)
}

// differs reports whether rows a and b differ in any of the given indices.
func differs(a, b []float64, idx []int) bool {
	for _, k := range idx {
		if a[k] != b[k] {
			return true
		}
	}

	return false
}
