// SPDX-License-Identifier: MIT

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nestsampler/matrix"
)

func TestPopulationCovariance_DividesByRows(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 6})

	pop, means, err := matrix.PopulationCovariance(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 4}, means)
	CompareClose(t, pop, NewFilledDense(t, 2, 2, []float64{1, 2, 2, 4}), 0, 1e-15)
}

func TestPopulationCovariance_AtFallbackMatchesDense(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 10, 20, 30})

	fast, meansF, err := matrix.PopulationCovariance(X)
	require.NoError(t, err)
	slow, meansS, err := matrix.PopulationCovariance(hide{X})
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{5.5, 11, 16.5}, meansF, 0)
	assert.InDeltaSlice(t, meansF, meansS, 0)
	CompareClose(t, fast, slow, 0, 0)
}

func TestPopulationCovariance_SingleRowIsZero(t *testing.T) {
	t.Parallel()

	X := NewFilledDense(t, 1, 2, []float64{1, 2})
	pop, _, err := matrix.PopulationCovariance(X)
	require.NoError(t, err)
	CompareClose(t, pop, NewFilledDense(t, 2, 2, []float64{0, 0, 0, 0}), 0, 0)
}
