// SPDX-License-Identifier: MIT

package matrix_test

import (
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/nestsampler/matrix"
)

func TestMul_FastAndFallbackAgree(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	want := NewFilledDense(t, 2, 2, []float64{58, 64, 139, 154})

	fast, err := matrix.Mul(a, b)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{a}, hide{b})
	require.NoError(t, err)

	CompareClose(t, fast, want, 0, 0)
	CompareClose(t, slow, want, 0, 0)
}

func TestMul_DimensionMismatch(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 3, 1, []float64{1, 2, 3})
	_, err := matrix.Mul(a, b)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(nil, b)
	assert.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestTransposeAndScale(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	CompareClose(t, at, NewFilledDense(t, 3, 2, []float64{1, 4, 2, 5, 3, 6}), 0, 0)

	ats, err := matrix.Transpose(hide{a})
	require.NoError(t, err)
	CompareClose(t, ats, at, 0, 0)

	s, err := matrix.Scale(a, 0.5)
	require.NoError(t, err)
	CompareClose(t, s, NewFilledDense(t, 2, 3, []float64{0.5, 1, 1.5, 2, 2.5, 3}), 0, 0)
}

func TestMatVec(t *testing.T) {
	t.Parallel()

	l := NewFilledDense(t, 2, 2, []float64{2, 0, 1, 3})
	y, err := matrix.MatVec(l, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 7}, y)

	ys, err := matrix.MatVec(hide{l}, []float64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, y, ys)

	_, err = matrix.MatVec(l, []float64{1})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestMirrorLower(t *testing.T) {
	t.Parallel()

	m := NewFilledDense(t, 2, 2, []float64{1, 9, 5, 2})
	require.NoError(t, matrix.MirrorLower(m))
	CompareClose(t, m, NewFilledDense(t, 2, 2, []float64{1, 5, 5, 2}), 0, 0)

	r := NewFilledDense(t, 1, 2, []float64{1, 2})
	assert.ErrorIs(t, matrix.MirrorLower(r), matrix.ErrDimensionMismatch)
}

func TestEigen_KnownSpectrum(t *testing.T) {
	t.Parallel()

	a := NewFilledDense(t, 2, 2, []float64{2, 1, 1, 2})
	eigs, q, err := matrix.Eigen(a, 1e-12, 100)
	require.NoError(t, err)

	sorted := append([]float64(nil), eigs...)
	sort.Float64s(sorted)
	assert.InDelta(t, 1.0, sorted[0], 1e-12)
	assert.InDelta(t, 3.0, sorted[1], 1e-12)

	// Q·diag(λ)·Qᵀ reproduces A.
	var i, j int
	for i = 0; i < 2; i++ {
		for j = 0; j < 2; j++ {
			var acc float64
			for k := 0; k < 2; k++ {
				acc += MustAt(t, q, i, k) * eigs[k] * MustAt(t, q, j, k)
			}
			assert.InDelta(t, MustAt(t, a, i, j), acc, 1e-12)
		}
	}
}

func TestEigen_MatchesGonum(t *testing.T) {
	t.Parallel()

	vals := []float64{
		4, 1, 0.5,
		1, 3, -0.2,
		0.5, -0.2, 2,
	}
	a := NewFilledDense(t, 3, 3, vals)
	eigs, _, err := matrix.Eigen(a, 1e-12, 500)
	require.NoError(t, err)
	sort.Float64s(eigs)

	var es mat.EigenSym
	require.True(t, es.Factorize(mat.NewSymDense(3, append([]float64(nil), vals...)), false))
	want := es.Values(nil)
	sort.Float64s(want)

	for i := range want {
		assert.InDelta(t, want[i], eigs[i], 1e-10)
	}
}

func TestEigenBudget_GrowsWithDimension(t *testing.T) {
	t.Parallel()

	assert.Equal(t, matrix.DefaultEigenMaxIter, matrix.EigenBudget(2))
	assert.Equal(t, matrix.EigenSweepRotations*30*30, matrix.EigenBudget(30))
}

func TestMinEigenvalue_LargeMatrixWithBudget(t *testing.T) {
	t.Parallel()

	// A = B·Bᵀ + I with a dense pseudo-random B.
	const n = 30
	b := make([]float64, n*n)
	seed := uint64(7)
	for k := range b {
		seed = seed*6364136223846793005 + 1442695040888963407
		b[k] = float64(int64(seed>>11)%2001-1000) / 1000
	}
	vals := make([]float64, n*n)
	var i, j, k int
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			for k = 0; k < n; k++ {
				vals[i*n+j] += b[i*n+k] * b[j*n+k]
			}
			if i == j {
				vals[i*n+j]++
			}
		}
	}
	a := NewFilledDense(t, n, n, vals)

	lo, err := matrix.MinEigenvalue(a, matrix.WithEpsilon(1e-9), matrix.WithEigenMaxIter(matrix.EigenBudget(n)))
	require.NoError(t, err)

	var es mat.EigenSym
	require.True(t, es.Factorize(mat.NewSymDense(n, append([]float64(nil), vals...)), false))
	want := es.Values(nil)
	sort.Float64s(want)
	assert.InDelta(t, want[0], lo, 1e-7)
	assert.Greater(t, lo, 0.0)
}

func TestEigen_Errors(t *testing.T) {
	t.Parallel()

	asym := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 1})
	_, _, err := matrix.Eigen(asym, 1e-12, 10)
	assert.ErrorIs(t, err, matrix.ErrAsymmetry)

	rect := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	_, _, err = matrix.Eigen(rect, 1e-12, 10)
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	dense := NewFilledDense(t, 3, 3, []float64{4, 1, 1, 1, 4, 1, 1, 1, 4})
	_, _, err = matrix.Eigen(dense, 1e-15, 1)
	assert.ErrorIs(t, err, matrix.ErrMatrixEigenFailed)
}

func TestMinEigenvalue(t *testing.T) {
	t.Parallel()

	pd := NewFilledDense(t, 2, 2, []float64{2, 1, 1, 2})
	lo, err := matrix.MinEigenvalue(pd)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, lo, 1e-12)

	indef := NewFilledDense(t, 2, 2, []float64{1, 2, 2, 1})
	lo, err = matrix.MinEigenvalue(indef)
	require.NoError(t, err)
	assert.InDelta(t, -1.0, lo, 1e-12)
}
