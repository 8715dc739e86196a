// SPDX-License-Identifier: MIT

package nested_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/katalvlaran/nestsampler/likelihood"
	"github.com/katalvlaran/nestsampler/params"
	"github.com/katalvlaran/nestsampler/prior"
	"github.com/katalvlaran/nestsampler/rng"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// problem is a normalised 2-D unit Gaussian under a uniform [-5, 5]² prior,
// whose evidence is ≈ 1/100.
type problem struct {
	layout *params.Layout
	like   *likelihood.Gaussian
	prior  *prior.Uniform
}

func gaussianProblem(t testing.TB) problem {
	t.Helper()
	l, err := params.NewLayout(
		params.Spec{Name: "x", Vary: params.Linear},
		params.Spec{Name: "y", Vary: params.Linear},
	)
	require.NoError(t, err)
	g, err := likelihood.NewIsotropicGaussian(l, []string{"x", "y"}, []float64{0, 0}, 1)
	require.NoError(t, err)
	u, err := prior.NewUniform(l, map[string]prior.Range{
		"x": {Min: -5, Max: 5},
		"y": {Min: -5, Max: 5},
	})
	require.NoError(t, err)

	return problem{layout: l, like: g, prior: u}
}

func (pb problem) live(t testing.TB, n int, seed int64) *params.LiveSet {
	t.Helper()
	live, err := pb.initial(n)(0, rng.FromSeed(seed))
	require.NoError(t, err)

	return live
}

func (pb problem) initial(n int) func(int, *rand.Rand) (*params.LiveSet, error) {
	return func(_ int, r *rand.Rand) (*params.LiveSet, error) {
		live, err := params.NewLiveSet(pb.layout, n)
		if err != nil {
			return nil, err
		}

		return live, pb.prior.Populate(r, live, pb.like, nil)
	}
}

// recorder is an in-memory Sink.
type recorder struct {
	rows    [][]float64
	logL    []float64
	flushes int
	failAt  int
	err     error
}

func (r *recorder) WriteSample(vals []float64, logL float64) error {
	if r.err != nil && len(r.logL) == r.failAt {
		return r.err
	}
	r.rows = append(r.rows, append([]float64(nil), vals...))
	r.logL = append(r.logL, logL)

	return nil
}

func (r *recorder) Flush() error {
	r.flushes++

	return nil
}
