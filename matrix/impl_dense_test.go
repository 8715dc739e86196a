// SPDX-License-Identifier: MIT

package matrix_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/nestsampler/matrix"
)

func TestNewDense_InvalidShape(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewDense(0, 3)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewDense(2, -1)
	assert.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestDense_AtSetBounds(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	require.NoError(t, m.Set(1, 0, 4.5))
	assert.Equal(t, 4.5, MustAt(t, m, 1, 0))

	_, err = m.At(2, 0)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
	assert.ErrorIs(t, m.Set(0, -1, 1), matrix.ErrOutOfRange)
}

func TestDense_SetRejectsNaNInf(t *testing.T) {
	t.Parallel()

	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)
	assert.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	assert.ErrorIs(t, m.Set(0, 0, math.Inf(-1)), matrix.ErrNaNInf)
}

func TestNewDenseFrom_Policy(t *testing.T) {
	t.Parallel()

	_, err := matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	assert.ErrorIs(t, err, matrix.ErrNaNInf)

	m, err := matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()}, matrix.WithNoValidateNaNInf())
	require.NoError(t, err)
	assert.True(t, math.IsNaN(MustAt(t, m, 0, 1)))

	_, err = matrix.NewDenseFrom(2, 2, []float64{1, 2, 3})
	assert.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestDense_CloneIsIndependent(t *testing.T) {
	t.Parallel()

	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	c := m.Clone()
	require.NoError(t, c.Set(0, 0, 100))
	assert.Equal(t, 1.0, MustAt(t, m, 0, 0))
	assert.Equal(t, 100.0, MustAt(t, c, 0, 0))
}

func TestDense_CopyFrom(t *testing.T) {
	t.Parallel()

	dst, err := matrix.NewDense(2, 2)
	require.NoError(t, err)
	src := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	require.NoError(t, dst.CopyFrom(src))
	CompareClose(t, dst, src, 0, 0)

	wrong, err := matrix.NewDense(3, 2)
	require.NoError(t, err)
	assert.ErrorIs(t, dst.CopyFrom(wrong), matrix.ErrDimensionMismatch)
	assert.ErrorIs(t, dst.CopyFrom(nil), matrix.ErrNilMatrix)
}

func TestDense_RowIsCopy(t *testing.T) {
	t.Parallel()

	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	row, err := m.Row(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 5, 6}, row)
	row[0] = -1
	assert.Equal(t, 4.0, MustAt(t, m, 1, 0))

	_, err = m.Row(2)
	assert.ErrorIs(t, err, matrix.ErrOutOfRange)
}

func TestDense_String(t *testing.T) {
	t.Parallel()

	m := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	assert.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}
