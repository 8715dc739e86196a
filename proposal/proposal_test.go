// SPDX-License-Identifier: MIT

package proposal_test

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nestsampler/matrix"
	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/proposal"
)

type mapBounds map[string][2]float64

func (m mapBounds) MinMax(name string) (float64, float64, error) {
	b, ok := m[name]
	if !ok {
		return 0, 0, errors.New("no such parameter")
	}

	return b[0], b[1], nil
}

func layout(t *testing.T) *params.Layout {
	t.Helper()
	l, err := params.NewLayout(
		params.Spec{Name: "x", Vary: params.Linear},
		params.Spec{Name: "phase", Vary: params.Circular},
		params.Spec{Name: "y", Vary: params.Linear},
		params.Spec{Name: "dist", Vary: params.Fixed},
		params.Spec{Name: "snr", Vary: params.Output},
	)
	require.NoError(t, err)

	return l
}

var bounds = mapBounds{
	"x":     {-5, 5},
	"phase": {0, 2 * math.Pi},
	"y":     {-5, 5},
}

func dense(t *testing.T, n int, vals ...float64) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDenseFrom(n, n, vals)
	require.NoError(t, err)

	return m
}

func TestWrap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		v, min, max float64
		want        float64
	}{
		{"inside", 1, 0, 2, 1},
		{"at max maps to min", 2, 0, 2, 0},
		{"above", 2.5, 0, 2, 0.5},
		{"below", -0.5, 0, 2, 1.5},
		{"many periods", 10.25, 0, 2, 0.25},
		{"offset range", -7, -1, 1, -1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := proposal.Wrap(tc.v, tc.min, tc.max)
			assert.InDelta(t, tc.want, got, 1e-12)
			assert.GreaterOrEqual(t, got, tc.min)
			assert.Less(t, got, tc.max)
			assert.Equal(t, got, proposal.Wrap(got, tc.min, tc.max), "idempotent")
		})
	}
}

func TestReflect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		v, min, max float64
		want        float64
	}{
		{"inside", 0.3, 0, 1, 0.3},
		{"at max", 1, 0, 1, 1},
		{"just above", 1.25, 0, 1, 0.75},
		{"just below", -0.25, 0, 1, 0.25},
		{"two widths above", 2.25, 0, 1, 0.25},
		{"far below", -3.75, 0, 1, 0.25},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := proposal.Reflect(tc.v, tc.min, tc.max)
			assert.InDelta(t, tc.want, got, 1e-12)
			assert.Equal(t, got, proposal.Reflect(got, tc.min, tc.max), "idempotent")
		})
	}
}

func TestDifferentialEvolution_MovesVaryingOnly(t *testing.T) {
	t.Parallel()

	l := layout(t)
	live, err := params.NewLiveSet(l, 2)
	require.NoError(t, err)
	copy(live.Row(0), []float64{0, 1, 0, 7, 8})
	copy(live.Row(1), []float64{1, 1, 2, 9, 9})

	vals := []float64{0, 0, 0, 3, 4}
	require.NoError(t, proposal.DifferentialEvolution(rand.New(rand.NewPCG(1, 2)), live, vals, 10))

	// With two rows the pair is (0,1) or (1,0): the jump is ±(1, 0, 2).
	assert.InDelta(t, 1, math.Abs(vals[0]), 0)
	assert.Equal(t, 0.0, vals[1])
	assert.InDelta(t, 2, math.Abs(vals[2]), 0)
	assert.Equal(t, []float64{3, 4}, vals[3:])
}

func TestDifferentialEvolution_Degenerate(t *testing.T) {
	t.Parallel()

	l := layout(t)
	live, err := params.NewLiveSet(l, 3)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		copy(live.Row(i), []float64{1, 1, 1, float64(i), float64(i)})
	}
	vals := make([]float64, 5)
	err = proposal.DifferentialEvolution(rand.New(rand.NewPCG(1, 2)), live, vals, 5)
	assert.ErrorIs(t, err, proposal.ErrDegeneratePopulation)
}

func TestCondition_PositiveDefiniteUsesCholesky(t *testing.T) {
	t.Parallel()

	cov := dense(t, 2, 4, 2, 2, 3)
	f, retries, err := proposal.Condition(cov, proposal.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, retries)

	upper, err := f.At(0, 1)
	require.NoError(t, err)
	assert.Equal(t, 0.0, upper, "lower triangular factor")
	l00, err := f.At(0, 0)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt(0.4), l00, 1e-12)
}

func TestCondition_ShrinksIndefinite(t *testing.T) {
	t.Parallel()

	cov := dense(t, 2, 1, 2, 2, 1)
	f, retries, err := proposal.Condition(cov, proposal.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, retries)
	require.NotNil(t, f)

	opts := proposal.DefaultOptions()
	opts.MaxPDRetries = 0
	_, _, err = proposal.Condition(cov, opts)
	assert.ErrorIs(t, err, proposal.ErrNumericalInstability)
}

func TestCondition_ZeroSpreadFallsBackToEigenRoot(t *testing.T) {
	t.Parallel()

	cov := dense(t, 2, 0, 0, 0, 0)
	f, retries, err := proposal.Condition(cov, proposal.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 0, retries)
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			v, _ := f.At(i, j)
			assert.Equal(t, 0.0, v)
		}
	}
}

// correlatedCovariance returns the population covariance of n points x = A·z
// with A and z standard normal, so the result is SPD with strong correlations.
func correlatedCovariance(t *testing.T, d, n int, seed uint64) *matrix.Dense {
	t.Helper()
	r := rand.New(rand.NewPCG(seed, 0))
	mix := make([]float64, d*d)
	for k := range mix {
		mix[k] = r.NormFloat64()
	}
	pts := make([]float64, n*d)
	z := make([]float64, d)
	for p := 0; p < n; p++ {
		for k := range z {
			z[k] = r.NormFloat64()
		}
		for i := 0; i < d; i++ {
			var acc float64
			for k := 0; k < d; k++ {
				acc += mix[i*d+k] * z[k]
			}
			pts[p*d+i] = acc
		}
	}
	X, err := matrix.NewDenseFrom(n, d, pts)
	require.NoError(t, err)
	cov, _, err := matrix.PopulationCovariance(X)
	require.NoError(t, err)

	return cov.(*matrix.Dense)
}

func TestCondition_HighDimensionalCovariance(t *testing.T) {
	t.Parallel()

	for _, d := range []int{10, 25, 30, 40} {
		cov := correlatedCovariance(t, d, 200, uint64(d))
		opts := proposal.DefaultOptions()
		f, retries, err := proposal.Condition(cov, opts)
		require.NoError(t, err, "D=%d", d)
		assert.Equal(t, 0, retries, "D=%d", d)

		// S·Sᵀ reproduces Scale·cov.
		var i, j, k int
		for i = 0; i < d; i++ {
			for j = 0; j <= i; j++ {
				var acc float64
				for k = 0; k < d; k++ {
					fi, _ := f.At(i, k)
					fj, _ := f.At(j, k)
					acc += fi * fj
				}
				want, _ := cov.At(i, j)
				assert.InDelta(t, opts.Scale*want, acc, 1e-8*math.Max(1, math.Abs(want)))
			}
		}
	}
}

func TestNewEngine_Errors(t *testing.T) {
	t.Parallel()

	_, err := proposal.NewEngine(layout(t), mapBounds{"x": {0, 1}})
	assert.ErrorIs(t, err, proposal.ErrBounds)

	_, err = proposal.NewEngine(layout(t), mapBounds{"x": {1, 1}, "phase": {0, 1}, "y": {0, 1}})
	assert.ErrorIs(t, err, proposal.ErrBounds)

	fixed, err := params.NewLayout(params.Spec{Name: "c", Vary: params.Fixed})
	require.NoError(t, err)
	_, err = proposal.NewEngine(fixed, bounds)
	assert.ErrorIs(t, err, proposal.ErrNoVarying)
}

func TestEngine_ProposeRespectsVaryClasses(t *testing.T) {
	t.Parallel()

	l := layout(t)
	e, err := proposal.NewEngine(l, bounds)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Dim())

	live, err := params.NewLiveSet(l, 8)
	require.NoError(t, err)
	r := rand.New(rand.NewPCG(9, 9))
	for i := 0; i < live.Len(); i++ {
		// Phase is identical across the population so DE never moves it.
		copy(live.Row(i), []float64{r.Float64()*10 - 5, 1.25, r.Float64()*10 - 5, 42, 7})
	}

	cand := live.Point(0)
	assert.ErrorIs(t, e.Propose(r, live, cand), proposal.ErrNotReady)

	_, err = e.SetCovariance(dense(t, 2, 1, 0, 0, 1))
	assert.ErrorIs(t, err, proposal.ErrDimensionMismatch)
	_, err = e.SetCovariance(dense(t, 3, 1, 0.1, 0, 0.1, 1, 0, 0, 0, 1))
	require.NoError(t, err)

	for k := 0; k < 200; k++ {
		require.NoError(t, e.Propose(r, live, cand))
		x, _ := cand.Get("x")
		y, _ := cand.Get("y")
		phase, _ := cand.Get("phase")
		assert.True(t, x >= -5 && x <= 5, "x=%g", x)
		assert.True(t, y >= -5 && y <= 5, "y=%g", y)
		assert.Equal(t, 1.25, phase, "Student-t never moves circular parameters")
		assert.Equal(t, 42.0, cand.At(3))
		assert.Equal(t, 7.0, cand.At(4))
	}
}

func TestEngine_DeterministicForSeed(t *testing.T) {
	t.Parallel()

	l := layout(t)
	run := func() []float64 {
		e, err := proposal.NewEngine(l, bounds)
		require.NoError(t, err)
		_, err = e.SetCovariance(dense(t, 3, 1, 0, 0, 0, 1, 0, 0, 0, 1))
		require.NoError(t, err)
		live, err := params.NewLiveSet(l, 4)
		require.NoError(t, err)
		for i := 0; i < 4; i++ {
			copy(live.Row(i), []float64{float64(i), float64(i) / 2, -float64(i), 0, 0})
		}
		r := rand.New(rand.NewPCG(5, 6))
		cand := live.Point(1)
		for k := 0; k < 10; k++ {
			require.NoError(t, e.Propose(r, live, cand))
		}
		return cand.Clone().Values()
	}
	assert.Equal(t, run(), run())
}
