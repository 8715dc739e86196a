// SPDX-License-Identifier: MIT

// Package matrix provides the small dense linear-algebra toolkit used by the
// sampler: row-major Dense storage with safe accessors, central validators,
// canonical kernels (Mul, Transpose, Scale, MatVec), a deterministic Jacobi
// eigen solver, column statistics (sample and population covariance) and a
// bridge to gonum for Cholesky factorization.
//
// Matrices here are tiny (one row/column per varying parameter), so kernels
// favour determinism and explicit error surfaces over blocked performance.
// All public entry points return sentinel errors from errors.go, wrapped with
// an operation tag; match them with errors.Is.
//
// See example_test.go for usage patterns.
package matrix
