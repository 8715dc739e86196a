// SPDX-License-Identifier: MIT

package nested_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/katalvlaran/nestsampler/nested"
	"github.com/katalvlaran/nestsampler/rng"
)

func TestLogAdd(t *testing.T) {
	inf := math.Inf(-1)
	tests := []struct {
		name string
		a, b float64
		want float64
	}{
		{"Equal", 0, 0, math.Ln2},
		{"IdentityLeft", inf, 3, 3},
		{"IdentityRight", -7, inf, -7},
		{"BothEmpty", inf, inf, inf},
		{"Large", 1000, 1000, 1000 + math.Ln2},
		{"FarApart", 0, -800, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := nested.LogAdd(tc.a, tc.b)
			if math.IsInf(tc.want, -1) {
				assert.True(t, math.IsInf(got, -1))
			} else {
				assert.InDelta(t, tc.want, got, 1e-12)
			}
			assert.Equal(t, nested.LogAdd(tc.a, tc.b), nested.LogAdd(tc.b, tc.a), "symmetric")
		})
	}
	assert.InDelta(t, math.Log(math.Exp(-1)+math.Exp(-2.5)), nested.LogAdd(-1, -2.5), 1e-15)
}

func TestInitialLogW(t *testing.T) {
	assert.InDelta(t, math.Log(1-math.Exp(-1.0/50)), nested.InitialLogW(50), 1e-14)
	// For large N the first shell holds ≈ 1/N of the prior mass.
	assert.InDelta(t, -math.Log(1e6), nested.InitialLogW(1e6), 1e-6)
}

func TestSampleLogT_MeanShrinkage(t *testing.T) {
	r := rng.FromSeed(11)
	const n, trials = 20, 20000
	var sum float64
	for i := 0; i < trials; i++ {
		v := nested.SampleLogT(r, n)
		assert.LessOrEqual(t, v, 0.0)
		sum += v
	}
	// E[log max of n uniforms] = −1/n.
	assert.InDelta(t, -1.0/n, sum/trials, 0.002)
}

func TestDeltaLogZ(t *testing.T) {
	// Remaining mass equal to the accumulated evidence doubles it.
	assert.InDelta(t, math.Ln2, nested.DeltaLogZ(-3, -1, 100, 50), 1e-15)
	assert.Less(t, nested.DeltaLogZ(0, 0, 1000, 10), 1e-40)
}
