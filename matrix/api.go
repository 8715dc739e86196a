// SPDX-License-Identifier: MIT
// api.go - public API facades.
//
// Purpose:
//   - Provide thin entry points that delegate to the canonical implementations.
//   - Keep function names explicit and intention-revealing to improve discoverability.
//
// Determinism & Policy:
//   - Facades never change the loop orders or numeric policy of underlying kernels.

package matrix

// PopulationCovariance returns the population covariance of the columns of X
// (denominator r).
// Complexity: O(r*c^2).
func PopulationCovariance(X Matrix) (Matrix, []float64, error) { return populationCovariance(X) }

// SymmetricEigen runs Eigen with the tolerance and iteration cap resolved from opts.
//
// AI-Hints: Pass WithEpsilon scaled to the matrix magnitude for large entries.
func SymmetricEigen(m Matrix, opts ...Option) ([]float64, *Dense, error) {
	o := gatherOptions(opts...)

	return Eigen(m, o.eps, o.eigenMaxIter)
}

// MinEigenvalue returns the smallest eigenvalue of a symmetric m.
// A matrix is positive definite iff the result is > 0.
func MinEigenvalue(m Matrix, opts ...Option) (float64, error) {
	eigs, _, err := SymmetricEigen(m, opts...)
	if err != nil {
		return 0, err
	}
	lo := eigs[0]
	for _, v := range eigs[1:] {
		if v < lo {
			lo = v
		}
	}

	return lo, nil
}
