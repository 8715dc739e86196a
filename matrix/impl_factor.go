// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Bridge Dense to gonum's mat package for the factorizations this package
//     does not implement itself (Cholesky).
//   - Provide a spectral square root built on the local Jacobi Eigen for
//     positive semi-definite inputs that Cholesky rejects.
//
// Determinism:
//   - gonum's Cholesky is deterministic for identical inputs; EigenSqrt inherits
//     the fixed pivot order of Eigen.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Operation name constants for unified error wrapping.
const (
	opToSym     = "ToSymDense"
	opCholesky  = "Cholesky"
	opEigenSqrt = "EigenSqrt"
)

// ToSymDense converts a symmetric Dense into a gonum *mat.SymDense (copied).
// Errors: ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry (beyond DefaultEpsilon).
// Complexity: O(n^2).
func ToSymDense(m *Dense) (*mat.SymDense, error) {
	if err := ValidateSymmetric(m, DefaultEpsilon); err != nil {
		return nil, matrixErrorf(opToSym, err)
	}
	data := make([]float64, len(m.data))
	copy(data, m.data)

	return mat.NewSymDense(m.r, data), nil
}

// Cholesky factorizes a symmetric positive definite m as L·Lᵀ and returns L.
// Implementation:
//   - Stage 1: convert to *mat.SymDense via ToSymDense.
//   - Stage 2: mat.Cholesky.Factorize; copy the lower factor into a new Dense.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, ErrAsymmetry from conversion.
//   - ErrNotPositiveDefinite when gonum reports a failed factorization.
//
// Complexity:
//   - Time O(n^3), Space O(n^2).
//
// AI-Hints:
//   - Fall back to EigenSqrt when the input is only semi-definite.
func Cholesky(m *Dense) (*Dense, error) {
	sym, err := ToSymDense(m)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(sym); !ok {
		return nil, matrixErrorf(opCholesky, ErrNotPositiveDefinite)
	}
	var tri mat.TriDense
	chol.LTo(&tri)

	n := m.r
	out, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opCholesky, err)
	}
	var i, j int
	for i = 0; i < n; i++ {
		for j = 0; j <= i; j++ {
			out.data[i*n+j] = tri.At(i, j)
		}
	}

	return out, nil
}

// EigenSqrt returns S = Q·diag(√max(λ,0)) so that S·Sᵀ reproduces m with its
// negative eigenvalues clipped to zero.
// Implementation:
//   - Stage 1: Eigen(m, tol, maxIter).
//   - Stage 2: scale each eigenvector column by the clipped square root.
//
// Errors:
//   - Everything Eigen returns.
//
// Complexity:
//   - Time O(maxIter*n^2), Space O(n^2).
func EigenSqrt(m Matrix, tol float64, maxIter int) (*Dense, error) {
	eigs, q, err := Eigen(m, tol, maxIter)
	if err != nil {
		return nil, matrixErrorf(opEigenSqrt, err)
	}
	n := len(eigs)
	var i, j int
	var root float64
	for j = 0; j < n; j++ {
		root = math.Sqrt(math.Max(eigs[j], 0))
		for i = 0; i < n; i++ {
			q.data[i*n+j] *= root
		}
	}

	return q, nil
}
