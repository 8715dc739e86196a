// SPDX-License-Identifier: MIT

package proposal

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/katalvlaran/nestsampler/matrix"
	"github.com/katalvlaran/nestsampler/params"
)

// Condition scales cov by opts.Scale, forces it positive definite and returns
// a square-root factor S with S·Sᵀ equal to the conditioned matrix.
//
// Implementation:
//   - Stage 1: scaled = Scale(cov, opts.Scale).
//   - Stage 2: Jacobi eigen check with matrix.EigenBudget(D) rotations. While the smallest eigenvalue is negative
//     beyond a relative tolerance, clamp every off-diagonal |a_ij| larger than
//     f·√(a_ii·a_jj) to that value (sign kept), with f = ShrinkFactor^k on
//     retry k. More than MaxPDRetries retries yields ErrNumericalInstability.
//   - Stage 3: gonum Cholesky of the result; if it rejects a semidefinite
//     matrix, fall back to the eigen square root Q·diag(√λ⁺).
//
// Returns:
//   - *matrix.Dense: the factor (lower triangular when Cholesky succeeds).
//   - int: the number of shrink retries that were needed.
//
// Errors:
//   - ErrDimensionMismatch (non-square), ErrNumericalInstability, matrix errors.
//
// Complexity:
//   - Time O(MaxPDRetries · budget · D² + D³), Space O(D²).
func Condition(cov *matrix.Dense, opts Options) (*matrix.Dense, int, error) {
	if err := matrix.ValidateSquare(cov); err != nil {
		return nil, 0, fmt.Errorf("proposal: covariance: %w", err)
	}
	raw, err := matrix.Scale(cov, opts.Scale)
	if err != nil {
		return nil, 0, fmt.Errorf("proposal: scale: %w", err)
	}
	scaled := raw.(*matrix.Dense)

	tol := relativeTolerance(scaled, opts.EigenTolerance)
	budget := matrix.EigenBudget(scaled.Rows())
	retries := 0
	for {
		lo, err := matrix.MinEigenvalue(scaled, matrix.WithEpsilon(tol), matrix.WithEigenMaxIter(budget))
		if err != nil {
			if errors.Is(err, matrix.ErrMatrixEigenFailed) || errors.Is(err, matrix.ErrNaNInf) {
				return nil, retries, fmt.Errorf("proposal: %v: %w", err, ErrNumericalInstability)
			}
			return nil, retries, fmt.Errorf("proposal: eigen: %w", err)
		}
		if lo >= -tol {
			break
		}
		if retries == opts.MaxPDRetries {
			return nil, retries, fmt.Errorf("proposal: min eigenvalue %g after %d shrinks: %w", lo, retries, ErrNumericalInstability)
		}
		retries++
		f := math.Pow(opts.ShrinkFactor, float64(retries))
		opts.Logger.Warn("covariance not positive definite, shrinking off-diagonals",
			zap.Float64("min_eigenvalue", lo),
			zap.Int("retry", retries),
			zap.Float64("factor", f))
		clampOffDiagonal(scaled, f)
	}

	factor, err := matrix.Cholesky(scaled)
	if err == nil {
		return factor, retries, nil
	}
	if !errors.Is(err, matrix.ErrNotPositiveDefinite) {
		return nil, retries, fmt.Errorf("proposal: cholesky: %w", err)
	}
	factor, err = matrix.EigenSqrt(scaled, tol, budget)
	if err != nil {
		return nil, retries, fmt.Errorf("proposal: %v: %w", err, ErrNumericalInstability)
	}

	return factor, retries, nil
}

// relativeTolerance scales eps by the largest diagonal magnitude (at least 1).
func relativeTolerance(m *matrix.Dense, eps float64) float64 {
	scale := 1.0
	for i := 0; i < m.Rows(); i++ {
		v, _ := m.At(i, i)
		if a := math.Abs(v); a > scale {
			scale = a
		}
	}

	return eps * scale
}

// clampOffDiagonal limits |a_ij| to f·√(a_ii·a_jj), keeping the sign.
func clampOffDiagonal(m *matrix.Dense, f float64) {
	n := m.Rows()
	diag := make([]float64, n)
	var i, j int
	for i = 0; i < n; i++ {
		diag[i], _ = m.At(i, i)
	}
	var limit, v float64
	for i = 0; i < n; i++ {
		for j = 0; j < n; j++ {
			if i == j {
				continue
			}
			limit = f * math.Sqrt(math.Max(diag[i]*diag[j], 0))
			v, _ = m.At(i, j)
			if math.Abs(v) > limit {
				_ = m.Set(i, j, math.Copysign(limit, v))
			}
		}
	}
}

// studentT adds a multivariate Student-t deviate with nu degrees of freedom
// to the Linear dimensions of vals.
//
// The deviate is S·z·√(ν/Σn²) with z and n standard normals: D draws for z,
// then nu draws for n. factor is D×D over the layout's varying parameters;
// step[j] lands on varying parameter j, and Circular ones are skipped.
//
// Complexity: O(D²).
func studentT(r *rand.Rand, factor *matrix.Dense, nu int, ivs []interval, vals []float64) error {
	d := factor.Rows()
	z := make([]float64, d)
	for j := range z {
		z[j] = r.NormFloat64()
	}
	var chi2, n float64
	for i := 0; i < nu; i++ {
		n = r.NormFloat64()
		chi2 += n * n
	}
	step, err := matrix.MatVec(factor, z)
	if err != nil {
		return fmt.Errorf("proposal: student-t: %w", err)
	}
	scale := math.Sqrt(float64(nu) / chi2)
	for j, iv := range ivs {
		if iv.vary == params.Linear {
			vals[iv.index] += step[j] * scale
		}
	}

	return nil
}
