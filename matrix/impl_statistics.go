// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Provide the population covariance of live-point columns as a
//     deterministic composition over canonical kernels (Mul/Transpose/Scale)
//     and ew* micro-kernels.
//
// Exposed API:
//   - PopulationCovariance(X) -> (Cov, means) // (Xcᵀ Xc)/r
//
// Determinism & Performance:
//   - Fixed i→j traversal for all explicit loops.
//   - Dense fast-paths avoid At/Set and operate on row-major flat buffers.

package matrix

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opCenterColumns        = "centerColumns"
	opPopulationCovariance = "PopulationCovariance"
)

// centerColumns subtracts the per-column mean from every element (column-wise centering).
// Implementation:
//   - Stage 1: Validate X (non-nil).
//   - Stage 2: Compute column means in a deterministic pass (Dense fast-path; At fallback).
//   - Stage 3: Apply ewBroadcastSubCols to produce a centered copy.
//
// Returns:
//   - Matrix: centered copy (r×c).
//   - []float64: column means (len=c).
//
// Errors:
//   - ErrNilMatrix from validation; wrapped At errors from the fallback path.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for output (+ O(c) means).
func centerColumns(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	r, c := X.Rows(), X.Cols()
	means := make([]float64, c)

	var i, j int
	if d, ok := X.(*Dense); ok {
		for i = 0; i < r; i++ {
			base := i * c
			for j = 0; j < c; j++ {
				means[j] += d.data[base+j]
			}
		}
	} else {
		var v float64
		var err error
		for i = 0; i < r; i++ {
			for j = 0; j < c; j++ {
				if v, err = X.At(i, j); err != nil {
					return nil, nil, matrixErrorf(opCenterColumns, err)
				}
				means[j] += v
			}
		}
	}

	invR := 1.0 / float64(r)
	for j = 0; j < c; j++ {
		means[j] *= invR
	}

	Xc, err := ewBroadcastSubCols(X, means)
	if err != nil {
		return nil, nil, matrixErrorf(opCenterColumns, err)
	}

	return Xc, means, nil
}

// scatter computes the Gram matrix of centered columns, Xcᵀ·Xc, plus the means.
func scatter(X Matrix, tag string) (Matrix, []float64, error) {
	Xc, means, err := centerColumns(X)
	if err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}
	Xct, err := Transpose(Xc)
	if err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}
	G, err := Mul(Xct, Xc)
	if err != nil {
		return nil, nil, matrixErrorf(tag, err)
	}

	return G, means, nil
}

// populationCovariance computes Cov = (Xcᵀ * Xc)/r (divide by the number of rows).
// Implementation:
//   - Stage 1: Validate X (non-nil, r>=1).
//   - Stage 2: Gram of centered columns; Scale by 1/r.
//
// Behavior highlights:
//   - A single row yields the zero matrix (no spread), never an error.
//   - Symmetric output; diagonal equals per-column population variances.
//
// Errors:
//   - ErrNilMatrix.
//
// Complexity:
//   - Time O(r*c^2), Space O(r*c + c^2).
//
// AI-Hints:
//   - This is the estimator the live-point covariance uses for linear parameters.
func populationCovariance(X Matrix) (Matrix, []float64, error) {
	if err := ValidateNotNil(X); err != nil {
		return nil, nil, matrixErrorf(opPopulationCovariance, err)
	}
	G, means, err := scatter(X, opPopulationCovariance)
	if err != nil {
		return nil, nil, err
	}
	Cov, err := Scale(G, 1.0/float64(X.Rows()))
	if err != nil {
		return nil, nil, matrixErrorf(opPopulationCovariance, err)
	}

	return Cov, means, nil
}
